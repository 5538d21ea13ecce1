package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ticketdesk_backend/internal/accounts"
	accountshandler "ticketdesk_backend/internal/accounts/handler"
	accountsrepo "ticketdesk_backend/internal/accounts/repository"
	"ticketdesk_backend/internal/adapters/storage"
	"ticketdesk_backend/internal/auth"
	"ticketdesk_backend/internal/email"
	"ticketdesk_backend/internal/events"
	apphttp "ticketdesk_backend/internal/http"
	"ticketdesk_backend/internal/http/router"
	"ticketdesk_backend/internal/notification"
	"ticketdesk_backend/internal/session"
	sessionhandler "ticketdesk_backend/internal/session/handler"
	"ticketdesk_backend/internal/tickets"
	"ticketdesk_backend/internal/tickets/store"
	"ticketdesk_backend/internal/uploads"
	"ticketdesk_backend/migrations"
	"ticketdesk_backend/platform/config"
	"ticketdesk_backend/platform/db"
	"ticketdesk_backend/platform/logger"
	"ticketdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
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

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
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

	// Redis backs the session cache and, optionally, the ticket store.
	var rdb *redis.Client
	if err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
		client, err := newRedisClient(cfg)
		if err != nil {
			return err
		}
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return err
		}
		rdb = client
		return nil
	}); err != nil {
		log.Error("failed to connect to redis", "error", err)
		panic("failed to connect to redis: " + err.Error())
	}
	defer func() { _ = rdb.Close() }()
	log.Info("redis connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Session Resolution
	// ========================================================================

	var mockAuth *session.MockAuth
	if cfg.IsMockAuthEnabled() {
		mockAuth = session.NewMockAuth(session.DefaultMockUsers())
		log.Info("mock auth enabled")
	}

	sessionCache := session.NewRedisCache(rdb, session.TTLs{
		Session:   cfg.GetSessionCacheTTL(),
		Persisted: cfg.GetPersistedSessionTTL(),
	}, log)

	accountsRepo := accountsrepo.New(pool)
	resolver := session.NewResolver(mockAuth, sessionCache, accountsRepo, cfg, eventBus, log)

	// ========================================================================
	// Ticket Store
	// ========================================================================

	var ticketStore store.Store
	switch cfg.GetTicketStoreBackend() {
	case "redis":
		ticketStore = store.NewRedisStore(rdb, log)
	default:
		ticketStore = store.NewMemoryStore()
	}
	log.Info("ticket store initialized", "backend", cfg.GetTicketStoreBackend())

	// ========================================================================
	// Object Storage (ticket images)
	// ========================================================================

	var objectStore storage.ObjectStore
	if cfg.IsMinIOEnabled() {
		minioSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		bucket := cfg.GetMinioBucketTicketImages()
		if err := withRetry(ctx, log, "ensure ticket images bucket", 5, 2*time.Second, func() error {
			return minioSvc.EnsureBucketExists(ctx, bucket)
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		objectStore = minioSvc
		log.Info("storage service initialized", "ticketImagesBucket", bucket)
	} else {
		log.Warn("MinIO not configured; image uploads fall back to the placeholder URL")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	var sender email.Sender = email.NoopSender{}
	if cfg.IsEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
		log.Info("smtp email sender initialized", "host", cfg.GetSMTPHost())
	}

	// Notification module subscribes to domain events and serves the SSE stream
	notificationModule := notification.New(sender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)
	defer notificationModule.Hub().Close()

	secureCookies := !strings.EqualFold(cfg.Env, "development")

	sessionModule := sessionhandler.NewModule(resolver, val, secureCookies)
	accountsModule := accountshandler.NewModule(pool, resolver, val, log, secureCookies)
	ticketsModule := tickets.NewModule(ticketStore, store.SeedTickets, eventBus, val, log)
	uploadsModule := uploads.NewModule(objectStore, cfg, log)

	modules := []apphttp.Module{
		sessionModule,
		accountsModule,
		ticketsModule,
		uploadsModule,
		notificationModule,
	}

	// The backend auth provider is only mounted when a real JWT secret is
	// configured; otherwise mock auth and the account stores are authoritative.
	if cfg.IsBackendAuthEnabled() {
		modules = append(modules, auth.NewModule(pool, cfg, eventBus, val, log))
		log.Info("backend auth provider enabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	var managers accounts.ManagerDirectory = accountsRepo

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Resolver: resolver,
		Managers: managers,
		Modules:  modules,
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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func newRedisClient(cfg *config.Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}
	if cfg.GetRedisTLSInsecure() && opt.TLSConfig != nil {
		opt.TLSConfig.InsecureSkipVerify = true
	}
	return redis.NewClient(opt), nil
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
