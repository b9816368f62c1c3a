package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/zuraxy/delivery-warehouse/pkg/config"
	"github.com/zuraxy/delivery-warehouse/pkg/database"
	"github.com/zuraxy/delivery-warehouse/pkg/extract"
	"github.com/zuraxy/delivery-warehouse/pkg/handlers"
	"github.com/zuraxy/delivery-warehouse/pkg/load"
	"github.com/zuraxy/delivery-warehouse/pkg/logging"
	"github.com/zuraxy/delivery-warehouse/pkg/pipeline"
	"github.com/zuraxy/delivery-warehouse/pkg/reporting"
	"github.com/zuraxy/delivery-warehouse/pkg/retry"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	serve := flag.Bool("serve", false, "serve the report API instead of running an ETL pass")
	flag.Parse()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("source", logging.SanitizeConnectionString(cfg.Source.ConnectionString())),
		zap.String("warehouse", logging.SanitizeConnectionString(cfg.Warehouse.ConnectionString())))

	ctx := context.Background()
	retryCfg := &retry.Config{MaxAttempts: cfg.Connect.MaxAttempts, Delay: cfg.Connect.Delay()}

	// Warehouse connection plus schema migrations, common to both modes.
	var warehouse *database.DB
	err = retry.Do(ctx, retryCfg, "warehouse connection", func() error {
		var connErr error
		warehouse, connErr = database.NewConnection(ctx, cfg.Warehouse.ConnectionString(), cfg.Warehouse.MaxConnections)
		if connErr != nil {
			logger.Warn("Warehouse connection attempt failed",
				zap.String("error", logging.SanitizeError(connErr)))
		}
		return connErr
	})
	if err != nil {
		logger.Error("Could not connect to warehouse", zap.String("error", logging.SanitizeError(err)))
		os.Exit(1)
	}
	defer warehouse.Close()

	migrationDB, err := sql.Open("pgx", cfg.Warehouse.ConnectionString())
	if err != nil {
		logger.Error("Could not open migration connection", zap.String("error", logging.SanitizeError(err)))
		os.Exit(1)
	}
	if err := database.RunMigrations(migrationDB, cfg.MigrationsPath, logger); err != nil {
		logger.Error("Migrations failed", zap.String("error", logging.SanitizeError(err)))
		os.Exit(1)
	}

	if *serve {
		runServer(cfg, warehouse, logger)
		return
	}

	runETL(ctx, cfg, warehouse, retryCfg, logger)
}

// runETL executes one pipeline pass and exits non-zero on failure.
func runETL(ctx context.Context, cfg *config.Config, warehouse *database.DB, retryCfg *retry.Config, logger *zap.Logger) {
	var source *database.SourceDB
	err := retry.Do(ctx, retryCfg, "source connection", func() error {
		var connErr error
		source, connErr = database.NewSourceConnection(ctx, cfg.Source.ConnectionString())
		if connErr != nil {
			logger.Warn("Source connection attempt failed",
				zap.String("error", logging.SanitizeError(connErr)))
		}
		return connErr
	})
	if err != nil {
		logger.Error("Could not connect to source", zap.String("error", logging.SanitizeError(err)))
		os.Exit(1)
	}
	defer source.Close() //nolint:errcheck

	runner := pipeline.New(
		extract.NewReader(source, logger),
		load.NewLoader(warehouse, logger),
		load.NewWatermarkStore(warehouse),
		logger,
	)

	report, err := runner.Run(ctx)
	if err != nil {
		logger.Error("ETL run failed", zap.String("error", logging.SanitizeError(err)))
		os.Exit(1)
	}

	logger.Info("ETL run succeeded",
		zap.String("run_id", report.RunID.String()),
		zap.Duration("duration", report.Duration),
		zap.Bool("full_load", report.FullLoad),
		zap.Int("facts_loaded", report.FactsLoaded))
}

// runServer exposes the report API over the warehouse.
func runServer(cfg *config.Config, warehouse *database.DB, logger *zap.Logger) {
	catalog, err := reporting.LoadCatalog()
	if err != nil {
		logger.Error("Failed to load query catalog", zap.Error(err))
		os.Exit(1)
	}

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg).RegisterRoutes(mux)
	handlers.NewReportHandler(reporting.NewExecutor(warehouse, catalog, logger), logger).RegisterRoutes(mux)

	logger.Info("Starting report API", zap.String("port", cfg.Port), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(":"+cfg.Port, mux); err != nil {
		logger.Error("Server failed", zap.Error(err))
		os.Exit(1)
	}
}
