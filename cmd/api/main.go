package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"registry_backend/internal/adapters/storage"
	"registry_backend/internal/exports"
	apphttp "registry_backend/internal/http"
	"registry_backend/internal/http/router"
	"registry_backend/internal/people"
	"registry_backend/internal/people/service"
	"registry_backend/internal/report"
	"registry_backend/internal/scheduler"
	"registry_backend/internal/users"
	"registry_backend/platform/config"
	"registry_backend/platform/db"
	"registry_backend/platform/logger"
	"registry_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Shared validator instance for dependency injection
	val := validator.New()

	// Remote user directory for export recipient lookups
	userClient := users.New(cfg.GetUsersServiceURL(), cfg.GetUsersServiceAPIKey(), log)

	// Roster PDF renderer writing into the export directory
	renderer := report.NewRenderer(cfg.GetExportDir())

	// Asynq client for the export email handoff
	notifier, closeNotifier := initNotifier(cfg, log)
	if closeNotifier != nil {
		defer closeNotifier()
	}

	// Optional MinIO archive for generated exports
	archive := initArchive(ctx, cfg, log)

	// Export audit log module
	exportsModule := exports.NewModule(pool, log)

	peopleModule := people.NewModule(pool, people.Deps{
		Lookup:      userClient,
		Renderer:    renderer,
		Notifier:    notifier,
		Archive:     archive,
		Recorder:    exportsModule.Repo(),
		PhoneRegion: cfg.GetPhoneDefaultRegion(),
	}, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	engine := router.New(cfg, cfg.Env, pool, log, []apphttp.Module{
		peopleModule,
		exportsModule,
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initNotifier(cfg config.SchedulerConfig, log *logger.Logger) (service.Notifier, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; export email dispatch disabled")
		return (*scheduler.Client)(nil), nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return (*scheduler.Client)(nil), nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func initArchive(ctx context.Context, cfg *config.Config, log *logger.Logger) service.Archiver {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MinIO not configured; export archiving disabled")
		return nil
	}

	archive, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		return nil
	}

	if err := withRetry(ctx, log, "ensure exports bucket", 5, 2*time.Second, func() error {
		return archive.EnsureBucketExists(ctx)
	}); err != nil {
		log.Error("failed to ensure exports bucket exists", "error", err)
		return nil
	}

	log.Info("storage service initialized", "exportsBucket", cfg.GetMinioBucketExports())
	return archive
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
