package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Profanor/scello-commerce/internal/models"
)

// ProductServiceProvider defines the interface for product services.
type ProductServiceProvider interface {
	CreateProduct(product models.Product) (models.Product, error)
	GetProducts(skip, take int) ([]models.Product, error)
	GetProductByID(id string) (models.Product, error)
	SearchProducts(name string) ([]models.Product, error)
	FilterProducts(category string, minPrice, maxPrice *float64) ([]models.Product, error)
	GetProductsSorted(sortBy, order string) ([]models.Product, error)
	UpdateProduct(id string, patch models.ProductPatch) (models.Product, error)
	DeleteProduct(id string) error
	GetLowStockProducts(threshold int) ([]models.Product, error)
}

// sortColumns whitelists the fields the sorted listing may order by.
var sortColumns = map[string]string{
	"name":      "name",
	"price":     "price",
	"stock":     "stock",
	"category":  "category",
	"createdAt": "created_at",
}

// ProductService provides business logic for catalog management.
type ProductService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewProductService creates a new ProductService.
func NewProductService(db *sql.DB, events EventServiceProvider) *ProductService {
	return &ProductService{db: db, events: events}
}

const productColumns = "id, name, description, price, stock, category, created_at"

// scanProduct is a helper to scan a product from a row or rows object.
func scanProduct(scanner interface{ Scan(...interface{}) error }) (models.Product, error) {
	var p models.Product
	var desc, category sql.NullString

	err := scanner.Scan(&p.ID, &p.Name, &desc, &p.Price, &p.Stock, &category, &p.CreatedAt)
	if err != nil {
		return p, err
	}

	p.Description = desc.String
	p.Category = category.String
	return p, nil
}

func (s *ProductService) queryProducts(query string, args ...interface{}) ([]models.Product, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CreateProduct adds a new product to the catalog.
func (s *ProductService) CreateProduct(product models.Product) (models.Product, error) {
	product.ID = uuid.New().String()

	stmt, err := s.db.Prepare("INSERT INTO products(id, name, description, price, stock, category) VALUES(?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.Product{}, err
	}
	defer stmt.Close()

	if _, err := stmt.Exec(product.ID, product.Name, product.Description, product.Price, product.Stock, product.Category); err != nil {
		return models.Product{}, err
	}

	s.events.CreateEvent("product.create", "info", fmt.Sprintf("Product '%s' added to the catalog.", product.Name), &product.ID)
	return s.GetProductByID(product.ID)
}

// GetProducts retrieves a page of products. Defaults: skip 0, take 10.
func (s *ProductService) GetProducts(skip, take int) ([]models.Product, error) {
	if skip < 0 {
		skip = 0
	}
	if take <= 0 {
		take = 10
	}
	return s.queryProducts("SELECT "+productColumns+" FROM products ORDER BY created_at LIMIT ? OFFSET ?", take, skip)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (models.Product, error) {
	row := s.db.QueryRow("SELECT "+productColumns+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Product{}, ErrNotFound
		}
		return models.Product{}, err
	}
	return p, nil
}

// SearchProducts finds products whose name contains the given string,
// case-insensitively.
func (s *ProductService) SearchProducts(name string) ([]models.Product, error) {
	return s.queryProducts(
		"SELECT "+productColumns+" FROM products WHERE name LIKE ? ORDER BY name",
		"%"+name+"%",
	)
}

// FilterProducts returns products matching a category and/or price
// range. All criteria are optional and combined with AND.
func (s *ProductService) FilterProducts(category string, minPrice, maxPrice *float64) ([]models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE 1=1"
	var args []interface{}

	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	if minPrice != nil {
		query += " AND price >= ?"
		args = append(args, *minPrice)
	}
	if maxPrice != nil {
		query += " AND price <= ?"
		args = append(args, *maxPrice)
	}
	query += " ORDER BY price"

	return s.queryProducts(query, args...)
}

// GetProductsSorted returns all products ordered by one of the
// whitelisted fields, ascending or descending.
func (s *ProductService) GetProductsSorted(sortBy, order string) ([]models.Product, error) {
	column, ok := sortColumns[sortBy]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported field %q", ErrInvalidSort, sortBy)
	}

	direction := "ASC"
	switch order {
	case "", "asc":
	case "desc":
		direction = "DESC"
	default:
		return nil, fmt.Errorf("%w: order must be asc or desc, got %q", ErrInvalidSort, order)
	}

	return s.queryProducts("SELECT " + productColumns + " FROM products ORDER BY " + column + " " + direction)
}

// UpdateProduct applies a partial update to an existing product. Nil
// patch fields are left unchanged.
func (s *ProductService) UpdateProduct(id string, patch models.ProductPatch) (models.Product, error) {
	existing, err := s.GetProductByID(id)
	if err != nil {
		return models.Product{}, err
	}

	if patch.Name != nil {
		existing.Name = *patch.Name
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	if patch.Price != nil {
		existing.Price = *patch.Price
	}
	if patch.Stock != nil {
		existing.Stock = *patch.Stock
	}
	if patch.Category != nil {
		existing.Category = *patch.Category
	}

	stmt, err := s.db.Prepare("UPDATE products SET name = ?, description = ?, price = ?, stock = ?, category = ? WHERE id = ?")
	if err != nil {
		return models.Product{}, err
	}
	defer stmt.Close()

	if _, err := stmt.Exec(existing.Name, existing.Description, existing.Price, existing.Stock, existing.Category, id); err != nil {
		return models.Product{}, err
	}

	s.events.CreateEvent("product.update", "info", fmt.Sprintf("Product '%s' updated.", existing.Name), &existing.ID)
	return s.GetProductByID(id)
}

// DeleteProduct removes a product from the catalog.
func (s *ProductService) DeleteProduct(id string) error {
	product, err := s.GetProductByID(id)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec("DELETE FROM products WHERE id = ?", id); err != nil {
		return err
	}

	s.events.CreateEvent("product.delete", "warn", fmt.Sprintf("Product '%s' removed from the catalog.", product.Name), &product.ID)
	return nil
}

// GetLowStockProducts returns products whose stock is at or below the
// given threshold. Used by the background stock watcher.
func (s *ProductService) GetLowStockProducts(threshold int) ([]models.Product, error) {
	return s.queryProducts("SELECT "+productColumns+" FROM products WHERE stock <= ? ORDER BY stock", threshold)
}
