package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Profanor/scello-commerce/internal/auth"
	"github.com/Profanor/scello-commerce/internal/services"
)

// AuthHandler handles HTTP requests for signup, login and user management.
type AuthHandler struct {
	service services.UserServiceProvider
	issuer  *auth.TokenIssuer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider, issuer *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{service: service, issuer: issuer}
}

// SignupPayload defines the structure for signup requests. IsAdmin and
// AdminKey are decoded so the user signup path can reject them.
type SignupPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  *bool  `json:"isAdmin"`
	AdminKey string `json:"adminKey"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupUser handles regular user registration.
func (h *AuthHandler) SignupUser(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Username == "" || payload.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	// Admin-only fields must not reach the public signup path.
	if (payload.IsAdmin != nil && *payload.IsAdmin) || payload.AdminKey != "" {
		http.Error(w, "Regular users cannot provide isAdmin or adminKey", http.StatusUnauthorized)
		return
	}

	user, err := h.service.CreateUser(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateUsername) {
			http.Error(w, "Username already exists", http.StatusConflict)
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// SignupAdmin handles admin registration. Requires the configured admin
// signup key in the request body.
func (h *AuthHandler) SignupAdmin(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Username == "" || payload.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.service.CreateAdminUser(payload.Username, payload.Password, payload.AdminKey)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAdminKey):
			http.Error(w, "Invalid admin key", http.StatusUnauthorized)
		case errors.Is(err, services.ErrDuplicateUsername):
			http.Error(w, "Username already exists", http.StatusConflict)
		default:
			log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register admin")
			http.Error(w, "Failed to register admin", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// Login handles user authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.AuthenticateUser(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to authenticate user")
		http.Error(w, "Failed to authenticate user", http.StatusInternalServerError)
		return
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"access_token": token})
}

// GetAll handles listing every user. Admin only, enforced at the router.
func (h *AuthHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAllUsers()
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve users")
		http.Error(w, "Failed to retrieve users", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// Get handles retrieving a user by their ID.
func (h *AuthHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.service.GetUserByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("user_id", id).Msg("Failed to get user by ID")
		http.Error(w, "Failed to retrieve user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// Delete handles the permanent deletion of a user account. Admin only,
// enforced at the router.
func (h *AuthHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteUser(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("user_id", id).Msg("Failed to delete user")
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
