package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm_backend/internal/areas"
	"crm_backend/internal/auth"
	"crm_backend/internal/clients"
	"crm_backend/internal/dashboard"
	"crm_backend/internal/email"
	"crm_backend/internal/employees"
	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/http/router"
	"crm_backend/internal/leads"
	"crm_backend/internal/notification"
	"crm_backend/internal/postsale"
	"crm_backend/internal/preferences"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"
	"crm_backend/platform/store"
	"crm_backend/platform/validator"

	"github.com/redis/go-redis/v9"
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

	storeClient := store.New(cfg, log)
	if err := withRetry(ctx, log, "store connectivity", 5, 2*time.Second, func() error {
		return storeClient.Ping(ctx)
	}); err != nil {
		// The service still starts: reads degrade and /api/ready reports it.
		log.Warn("data store unreachable at startup", "error", err)
	} else {
		log.Info("data store reachable", "url", cfg.StoreURL)
	}

	redisClient := initRedis(cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification wiring subscribes to domain events (not HTTP-facing)
	var sender email.Sender = email.NoopSender{}
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
		log.Info("smtp sender initialized", "host", cfg.SMTPHost)
	}
	notification.NewNotifier(sender, cfg.GetNotifyAddress(), log).Register(eventBus)

	areasModule := areas.NewModule(storeClient, val, log)
	employeesModule := employees.NewModule(storeClient, log)

	authModule := auth.NewModule(storeClient, cfg, val, log)
	leadsModule := leads.NewModule(storeClient, employeesModule, areasModule.Service(), eventBus, val, log)
	postSaleModule := postsale.NewModule(storeClient, employeesModule, eventBus, val, log)
	clientsModule := clients.NewModule(storeClient, employeesModule, eventBus, log)
	dashboardModule := dashboard.NewModule(storeClient, log)
	preferencesModule := preferences.NewModule(cfg, redisClient, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   storeClient,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			leadsModule,
			postSaleModule,
			clientsModule,
			dashboardModule,
			areasModule,
			employeesModule,
			preferencesModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRedis(cfg *config.Config, log *logger.Logger) *redis.Client {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; session preferences kept in memory")
		return nil
	}

	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL; session preferences kept in memory", "error", err)
		return nil
	}
	return redis.NewClient(opts)
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
			log.Warn(name+" attempt failed", "attempt", attempt, "error", err)
		}
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(baseDelay * time.Duration(attempt)):
			}
		}
	}
	return fmt.Errorf("%s: %w", name, lastErr)
}
