package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"streamadmin/internal/config"
	"streamadmin/internal/database"
	"streamadmin/internal/database/migration"
	handlers "streamadmin/internal/http/handler"
	"streamadmin/internal/http/middleware"
	"streamadmin/internal/logger"
	"streamadmin/internal/otel"
	"streamadmin/internal/pagination"
	"streamadmin/internal/repository/postgres"
	"streamadmin/internal/service"
	"streamadmin/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log)
	if err != nil {
		log = zerolog.New(os.Stderr).With().Timestamp().Logger()
		log.Fatal().Err(err).Msg("invalid log level")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, cfg.Log.ServiceName, cfg.Log.Version, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := migration.EnsureMigrated(ctx, db, log); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	// Exports are optional; the rest of the API runs without object storage.
	objStore, err := storage.NewMinIO(ctx, cfg.MinIO, log)
	switch {
	case errors.Is(err, storage.ErrDisabled):
		log.Warn().Msg("object storage not configured, exports disabled")
	case err != nil:
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	pageMetrics, err := pagination.NewMetrics(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register pagination metrics")
	}
	pager := pagination.NewExecutor(db, pagination.WithLogger(log), pagination.WithMetrics(pageMetrics))

	catalog := service.NewCatalogService(service.Repositories{
		Titles:    postgres.NewTitlePostgres(db, pager),
		Licenses:  postgres.NewLicensePostgres(db, pager),
		Providers: postgres.NewProviderPostgres(db, pager),
		Genres:    postgres.NewGenrePostgres(db, pager),
		Origins:   postgres.NewOriginPostgres(db, pager),
		Admins:    postgres.NewAdminPostgres(db, pager),
		Viewers:   postgres.NewViewerPostgres(pager),
		Dashboard: postgres.NewDashboardPostgres(db),
	}, cfg.Pagination, log)
	insights := service.NewInsightsService(postgres.NewNotificationPostgres(db), postgres.NewAnalyticsPostgres(db), log)
	exports := service.NewExportService(catalog, objStore, time.Duration(cfg.MinIO.PresignExpiry)*time.Second, log)

	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register http metrics")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:       db,
		Catalog:  catalog,
		Exports:  exports,
		Insights: insights,
		Gatherer: reg,
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("server listening")
	if err := app.Listen(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown failed")
	}
}
