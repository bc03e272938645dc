package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imruiz/gotodo-be/internal/api"
	"github.com/imruiz/gotodo-be/internal/api/handlers"
	"github.com/imruiz/gotodo-be/internal/auth"
	"github.com/imruiz/gotodo-be/internal/config"
	"github.com/imruiz/gotodo-be/internal/database"
	"github.com/imruiz/gotodo-be/internal/logger"
	"github.com/imruiz/gotodo-be/internal/services"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.AppEnv)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	hasher := auth.NewHasher(cfg.BcryptCost)
	tokenService := auth.NewTokenService(cfg.JWTSecret)
	userService := services.NewUserService(db, hasher)
	todoService := services.NewTodoService(db)

	// Set up router
	authMW := auth.NewMiddleware(tokenService, userService)
	userHandler := handlers.NewUserHandler(userService, tokenService)
	todoHandler := handlers.NewTodoHandler(todoService)
	router := api.NewRouter(authMW, userHandler, todoHandler)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.AppEnv).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
