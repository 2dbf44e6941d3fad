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

	"github.com/sdpro1234/skin-disease-ai/internal/api"
	"github.com/sdpro1234/skin-disease-ai/internal/config"
	"github.com/sdpro1234/skin-disease-ai/internal/database"
	"github.com/sdpro1234/skin-disease-ai/internal/inference"
	"github.com/sdpro1234/skin-disease-ai/internal/logger"
	"github.com/sdpro1234/skin-disease-ai/internal/monitoring"
	"github.com/sdpro1234/skin-disease-ai/internal/services"
	"github.com/sdpro1234/skin-disease-ai/internal/session"
	"github.com/sdpro1234/skin-disease-ai/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)

	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set; predictions will fail until it is configured")
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

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	analysisService := services.NewAnalysisService(db)
	sessions := session.NewStore(cfg.SessionSecret, cfg.SessionTTL)

	model := inference.NewGeminiModel(cfg.GeminiEndpoint, cfg.GeminiModel, cfg.GeminiAPIKey, cfg.InferenceTimeout)
	analyzer := inference.NewAnalyzer(model)

	// Set up and run the background stats updater
	statUpdater := monitoring.NewStatUpdater(hub)
	go statUpdater.Run()

	// Set up and run the background sweeper
	sweeper, err := monitoring.NewSweeper(sessions, analysisService, cfg.SweepSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize sweeper")
	}
	go sweeper.Run()

	// Set up router
	isProd := cfg.AppEnv == "production"
	router := api.NewRouter(userService, sessions, analysisService, analyzer, hub, isProd, cfg.MaxImageBytes)

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

	statUpdater.Stop()
	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
