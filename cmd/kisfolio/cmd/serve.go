package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/wonny/kisfolio/internal/api/handlers"
	"github.com/wonny/kisfolio/internal/api/router"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := buildApp()
		if err != nil {
			return err
		}
		cfg := core.Config

		handler := router.NewRouter(&router.Config{
			HealthHandler:   handlers.NewHealthHandler(core.Resolver, "1.0.0"),
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

		go func() {
			log.Info().Str("port", cfg.Server.Port).Msg("HTTP server listening")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("HTTP server failed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	},
}
