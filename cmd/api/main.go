package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/civic-report/civic-report-service/internal/api/http"
	"github.com/civic-report/civic-report-service/internal/api/http/handlers"
	"github.com/civic-report/civic-report-service/internal/auth"
	"github.com/civic-report/civic-report-service/internal/config"
	"github.com/civic-report/civic-report-service/internal/domain"
	"github.com/civic-report/civic-report-service/internal/events"
	"github.com/civic-report/civic-report-service/internal/observability"
	"github.com/civic-report/civic-report-service/internal/persistence"
	"github.com/civic-report/civic-report-service/internal/service"
	"github.com/civic-report/civic-report-service/internal/state"
	"github.com/civic-report/civic-report-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshotter, err := newSnapshotter(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init snapshot backend", zap.Error(err))
	}
	defer snapshotter.Close()

	credentials := auth.NewCredentialStore()
	store := state.NewStore(loadInitialState(ctx, snapshotter, credentials, cfg, logger))

	// Mirror every transition into the snapshot slot, last write wins.
	store.Subscribe(func(st domain.AppState) {
		if err := snapshotter.Save(ctx, persistence.NewEnvelope(st, credentials.Snapshot())); err != nil {
			logger.Error("failed to persist state", zap.Error(err))
		}
	})

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	for _, eventType := range events.AllEventTypes {
		dispatcher.Subscribe(eventType, func(context.Context, events.Event) error {
			metrics.RecordEvent(string(eventType))
			return nil
		})
	}

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		Store:       store,
		Credentials: credentials,
		Dispatcher:  dispatcher,
	})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		Store:      store,
		Dispatcher: dispatcher,
	})
	statsService := service.NewStatsService(store)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), store)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(),
		Auth:           handlers.NewAuthHandler(authService),
		Complaints:     handlers.NewComplaintsHandler(complaintService),
		Stats:          handlers.NewStatsHandler(statsService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func newSnapshotter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (persistence.Snapshotter, error) {
	switch cfg.Store.Backend {
	case "file":
		return persistence.NewFileSnapshotter(cfg.Store.FilePath, logger)
	case "redis":
		return persistence.NewRedisSnapshotter(cfg.Redis, logger), nil
	case "postgres":
		return persistence.NewPostgresSnapshotter(ctx, cfg.Postgres, logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// loadInitialState restores the prior aggregate when a usable snapshot
// exists, otherwise starts from the seeded defaults with demo credentials.
func loadInitialState(ctx context.Context, snapshotter persistence.Snapshotter, credentials *auth.CredentialStore, cfg *config.Config, logger *zap.Logger) domain.AppState {
	env, ok, err := snapshotter.Load(ctx)
	if err != nil {
		logger.Warn("snapshot load failed, starting from defaults", zap.Error(err))
	}
	if ok {
		credentials.Restore(env.Credentials)
		logger.Info("restored state from snapshot",
			zap.Int("users", len(env.State.Users)),
			zap.Int("complaints", len(env.State.Complaints)),
			zap.Time("saved_at", env.SavedAt))
		return env.State
	}

	seedDemoCredentials(credentials, cfg.Auth.BcryptCost, logger)
	logger.Info("starting from default state")
	return domain.DefaultState()
}

func seedDemoCredentials(credentials *auth.CredentialStore, bcryptCost int, logger *zap.Logger) {
	demo := map[string]string{
		"user@demo.com":  "user123",
		"admin@demo.com": "admin123",
	}
	for email, password := range demo {
		hash, err := auth.HashPassword(password, bcryptCost)
		if err != nil {
			logger.Warn("failed to seed demo credential", zap.String("email", email), zap.Error(err))
			continue
		}
		credentials.Set(email, hash)
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
