package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Profanor/scello-commerce/internal/auth"
	"github.com/Profanor/scello-commerce/internal/models"
)

// dummyHash is a valid bcrypt digest compared against when a login names
// an unknown user, so both credential failure paths pay for a hash
// computation before returning ErrInvalidCredentials.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(username, password string) (models.User, error)
	CreateAdminUser(username, password, adminKey string) (models.User, error)
	AuthenticateUser(username, password string) (models.User, error)
	GetAllUsers() ([]models.User, error)
	GetUserByID(id string) (models.User, error)
	DeleteUser(id string) error
}

// UserService provides business logic for user management.
type UserService struct {
	db       *sql.DB
	adminKey string
	events   EventServiceProvider
}

// NewUserService creates a new UserService. adminKey is the process-wide
// shared secret required for admin signups.
func NewUserService(db *sql.DB, adminKey string, events EventServiceProvider) *UserService {
	return &UserService{db: db, adminKey: adminKey, events: events}
}

// CreateUser registers a regular (non-admin) user.
func (s *UserService) CreateUser(username, password string) (models.User, error) {
	return s.createUser(username, password, false)
}

// CreateAdminUser registers an admin user. The supplied adminKey must
// match the configured admin signup key.
func (s *UserService) CreateAdminUser(username, password, adminKey string) (models.User, error) {
	if adminKey == "" || adminKey != s.adminKey {
		return models.User{}, ErrInvalidAdminKey
	}
	return s.createUser(username, password, true)
}

func (s *UserService) createUser(username, password string, isAdmin bool) (models.User, error) {
	// Friendly pre-check; the UNIQUE index on username is the real guard.
	if _, err := s.getUserByUsername(username); err == nil {
		return models.User{}, ErrDuplicateUsername
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hashed,
		IsAdmin:      isAdmin,
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, username, password_hash, is_admin) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	if _, err := stmt.Exec(user.ID, user.Username, user.PasswordHash, user.IsAdmin); err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}

	eventType := "user.signup"
	if isAdmin {
		eventType = "user.signup.admin"
	}
	s.events.CreateEvent(eventType, "info", fmt.Sprintf("User '%s' registered.", user.Username), &user.ID)

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// isUniqueViolation reports whether err is the SQLite unique-index
// constraint failure. The index on users.username is the authoritative
// uniqueness guard, so insert failures map to ErrDuplicateUsername.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// AuthenticateUser verifies a user's credentials. An unknown username
// and a password mismatch both return ErrInvalidCredentials; other
// lookup failures propagate as-is.
func (s *UserService) AuthenticateUser(username, password string) (models.User, error) {
	user, err := s.getUserByUsername(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			auth.CheckPassword(password, dummyHash)
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetAllUsers retrieves every user. Full scan, no pagination.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	rows, err := s.db.Query("SELECT id, username, is_admin, created_at FROM users ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.IsAdmin, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, is_admin, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// DeleteUser removes a user from the database.
func (s *UserService) DeleteUser(id string) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec("DELETE FROM users WHERE id = ?", id); err != nil {
		return err
	}

	s.events.CreateEvent("user.delete", "warn", fmt.Sprintf("User '%s' was deleted.", user.Username), &user.ID)
	return nil
}

// getUserByUsername retrieves a user by username, including the password
// hash. Internal use only; callers must strip the hash before returning
// the user anywhere.
func (s *UserService) getUserByUsername(username string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, password_hash, is_admin, created_at FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
