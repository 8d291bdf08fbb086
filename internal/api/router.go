package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Profanor/scello-commerce/internal/api/handlers"
	"github.com/Profanor/scello-commerce/internal/auth"
	"github.com/Profanor/scello-commerce/internal/services"
	"github.com/Profanor/scello-commerce/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	issuer *auth.TokenIssuer,
	hub *websocket.Hub,
	userService services.UserServiceProvider,
	productService services.ProductServiceProvider,
	eventService services.EventServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, issuer)
	productHandler := handlers.NewProductHandler(productService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	requireAuth := auth.RequireAuth(issuer)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// Signup, login and user management
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup/user", authHandler.SignupUser)
			r.Post("/signup/admin", authHandler.SignupAdmin)
			r.Post("/login", authHandler.Login)

			// Admin-only: the admin check always runs after the auth check.
			r.Group(func(r chi.Router) {
				r.Use(requireAuth, auth.RequireAdmin)
				r.Get("/", authHandler.GetAll)
				r.Delete("/{id}", authHandler.Delete)
			})

			// Any authenticated user
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/{id}", authHandler.Get)
			})
		})

		// Product catalog
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.GetAll)
			r.Post("/", productHandler.Create)
			r.Get("/search", productHandler.Search)
			r.Get("/filter", productHandler.Filter)
			r.Get("/sorted", productHandler.Sorted)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", productHandler.Get)
				r.Patch("/", productHandler.Update)
				r.Delete("/", productHandler.Delete)
			})
		})

		// Activity feed
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, auth.RequireAdmin)
			r.Get("/events", eventHandler.GetRecent)
		})
		r.With(requireAuth).Get("/ws", wsHandler.Serve)
	})

	return r
}
