package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wonny/kisfolio/internal/api/handlers"
	"github.com/wonny/kisfolio/internal/api/router"
	"github.com/wonny/kisfolio/internal/app"
	"github.com/wonny/kisfolio/internal/pkg/config"
	"github.com/wonny/kisfolio/internal/pkg/logger"
)

const (
	serviceName    = "kisfolio-api"
	serviceVersion = "1.0.0"
)

func main() {
	// Set timezone to Asia/Seoul (KST)
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load timezone")
	}
	time.Local = loc

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:          cfg.Logging.Level,
		Format:         cfg.Logging.Format,
		FileEnabled:    cfg.Logging.FileEnabled,
		FilePath:       cfg.Logging.FilePath,
		RotationSize:   cfg.Logging.RotationSize,
		RetentionDays:  cfg.Logging.RetentionDays,
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("version", serviceVersion).
		Str("mode", cfg.KIS.Mode).
		Bool("mock", cfg.KIS.Mock).
		Msg("Starting kisfolio API server")

	// Wire the core
	core, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire application")
	}

	handler := router.NewRouter(&router.Config{
		HealthHandler:   handlers.NewHealthHandler(core.Resolver, serviceVersion),
		TokenHandler:    handlers.NewTokenHandler(core.Resolver),
		QuotesHandler:   handlers.NewQuotesHandler(core.Quotes),
		WeightsHandler:  handlers.NewWeightsHandler(core.Weights, core.Quotes),
		OrdersHandler:   handlers.NewOrdersHandler(core.Planner, core.Weights, core.Quotes, core.Book),
		ScenarioHandler: handlers.NewScenarioHandler(core.Scenarios, core.Quotes, core.Book),
		HoldingsHandler: handlers.NewHoldingsHandler(core.Book, core.Quotes),
		ReportHandler:   handlers.NewReportHandler(core.Reports),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Serve until interrupted
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
