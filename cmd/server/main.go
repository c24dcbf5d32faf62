package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/necstaz/shopapi/internal/api"
	"github.com/necstaz/shopapi/internal/cart"
	"github.com/necstaz/shopapi/internal/catalog"
	"github.com/necstaz/shopapi/internal/config"
	"github.com/necstaz/shopapi/internal/events"
	"github.com/necstaz/shopapi/internal/netopia"
	"github.com/necstaz/shopapi/internal/repository/postgres"
	"github.com/necstaz/shopapi/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Connect to database and run migrations
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	logger.Info("Database migrations completed")

	repos := postgres.NewRepositories(db, logger)

	// Event publisher (no-op when AMQP is unconfigured)
	publisher, err := events.NewPublisher(cfg.AMQP, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message broker", zap.Error(err))
	}
	defer publisher.Close()

	// External clients and services
	catalogClient := catalog.NewClient(cfg.Sanity, logger)
	validator := cart.NewValidator(catalogClient, cfg.Cart.DepositUnit, logger)
	payments := netopia.NewClient(cfg.Netopia, logger)

	checkout := service.NewCheckoutService(repos, validator, payments, publisher, logger)
	reconcile := service.NewReconcileService(repos, publisher, logger)

	router := api.NewRouter(cfg, repos, checkout, reconcile, logger)

	logger.Info("Starting server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.Bool("netopia_configured", cfg.Netopia.Configured()),
	)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Server exited", zap.Error(err))
	}
}
