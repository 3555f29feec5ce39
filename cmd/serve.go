package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/lta/newsbridge/internal/api"
	"github.com/lta/newsbridge/internal/logger"
	"github.com/lta/newsbridge/internal/middleware"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the news API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appCfg
		log := logger.Get()
		log.Info().Msg("Starting application...")

		application, err := buildApp(cfg)
		if err != nil {
			return err
		}
		defer application.close()

		app := fiber.New(fiber.Config{
			ReadTimeout:  cfg.HTTPTimeout,
			WriteTimeout: cfg.HTTPTimeout,
			IdleTimeout:  120 * time.Second,
			ErrorHandler: middleware.ErrorHandler,
		})

		app.Use(recover.New())
		app.Use(middleware.RequestLogger())

		handlers := api.NewHandlers(cfg, application.store, application.syncer, application.plugin)
		api.SetupRoutes(app, handlers, cfg.AdminAPIKey)

		go func() {
			log.Info().Str("port", cfg.Port).Msg("Starting server")
			if err := app.Listen(":" + cfg.Port); err != nil {
				log.Fatal().Err(err).Msg("Server error")
			}
		}()

		// Wait for interrupt signal to gracefully shut down the server
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}

		log.Info().Msg("Server exited properly")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
