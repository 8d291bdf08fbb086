package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Profanor/scello-commerce/internal/api"
	"github.com/Profanor/scello-commerce/internal/auth"
	"github.com/Profanor/scello-commerce/internal/config"
	"github.com/Profanor/scello-commerce/internal/database"
	"github.com/Profanor/scello-commerce/internal/logger"
	"github.com/Profanor/scello-commerce/internal/monitoring"
	"github.com/Profanor/scello-commerce/internal/services"
	"github.com/Profanor/scello-commerce/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration; missing secrets abort startup.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Token issuing is a startup invariant: no secret, no server.
	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token issuer")
	}

	// Set up the activity feed hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(db, hub)
	userService := services.NewUserService(db, cfg.AdminSignupKey, eventService)
	productService := services.NewProductService(db, eventService)

	// Set up and run the background stock watcher
	stockWatcher, err := monitoring.NewStockWatcher(productService, eventService, cfg.StockThreshold, cfg.StockSweepSpec)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize stock watcher")
	}
	go stockWatcher.Run()

	// Set up router
	router := api.NewRouter(issuer, hub, userService, productService, eventService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	stockWatcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
