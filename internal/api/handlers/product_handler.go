package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Profanor/scello-commerce/internal/models"
	"github.com/Profanor/scello-commerce/internal/services"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service services.ProductServiceProvider
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service services.ProductServiceProvider) *ProductHandler {
	return &ProductHandler{service: service}
}

// Create handles the request to add a product to the catalog.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if product.Name == "" {
		http.Error(w, "Product name is required", http.StatusBadRequest)
		return
	}
	if product.Price < 0 || product.Stock < 0 {
		http.Error(w, "Price and stock must be non-negative", http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateProduct(product)
	if err != nil {
		log.Error().Err(err).Str("name", product.Name).Msg("Failed to create product")
		http.Error(w, "Failed to create product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// GetAll handles the paginated catalog listing. Query params: skip, take.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	take, _ := strconv.Atoi(r.URL.Query().Get("take"))

	products, err := h.service.GetProducts(skip, take)
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve products")
		http.Error(w, "Failed to retrieve products", http.StatusInternalServerError)
		return
	}

	writeProducts(w, products)
}

// Get handles the request to get a single product by its ID.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.service.GetProductByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("product_id", id).Msg("Failed to get product by ID")
		http.Error(w, "Failed to retrieve product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}

// Search handles name search. Query param: name (partial, case-insensitive).
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	products, err := h.service.SearchProducts(name)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("Failed to search products")
		http.Error(w, "Failed to search products", http.StatusInternalServerError)
		return
	}

	writeProducts(w, products)
}

// Filter handles filtering by category and price range. Query params:
// category, minPrice, maxPrice — all optional.
func (h *ProductHandler) Filter(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	minPrice, err := parsePriceParam(r.URL.Query().Get("minPrice"))
	if err != nil {
		http.Error(w, "Invalid minPrice", http.StatusBadRequest)
		return
	}
	maxPrice, err := parsePriceParam(r.URL.Query().Get("maxPrice"))
	if err != nil {
		http.Error(w, "Invalid maxPrice", http.StatusBadRequest)
		return
	}

	products, err := h.service.FilterProducts(category, minPrice, maxPrice)
	if err != nil {
		log.Error().Err(err).Msg("Failed to filter products")
		http.Error(w, "Failed to filter products", http.StatusInternalServerError)
		return
	}

	writeProducts(w, products)
}

// Sorted handles the sorted listing. Query params: sortBy, order.
func (h *ProductHandler) Sorted(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get("sortBy")
	order := r.URL.Query().Get("order")

	products, err := h.service.GetProductsSorted(sortBy, order)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSort) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Msg("Failed to sort products")
		http.Error(w, "Failed to sort products", http.StatusInternalServerError)
		return
	}

	writeProducts(w, products)
}

// Update handles a partial product update.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch models.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if (patch.Price != nil && *patch.Price < 0) || (patch.Stock != nil && *patch.Stock < 0) {
		http.Error(w, "Price and stock must be non-negative", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateProduct(id, patch)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("product_id", id).Msg("Failed to update product")
		http.Error(w, "Failed to update product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// Delete handles the request to remove a product.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteProduct(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("product_id", id).Msg("Failed to delete product")
		http.Error(w, "Failed to delete product", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeProducts encodes a product list, normalizing nil to an empty array.
func writeProducts(w http.ResponseWriter, products []models.Product) {
	if products == nil {
		products = []models.Product{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(products)
}

func parsePriceParam(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
