package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	authrepo "ticketdesk_backend/internal/auth/repository"
	authservice "ticketdesk_backend/internal/auth/service"
	"ticketdesk_backend/internal/events"
	"ticketdesk_backend/internal/scheduler"
	"ticketdesk_backend/internal/tickets/store"
	"ticketdesk_backend/platform/config"
	"ticketdesk_backend/platform/db"
	"ticketdesk_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	tokenPurgeInterval  = time.Hour
	storeBackupInterval = 24 * time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eventBus := events.NewInMemoryBus(log)

	// The token purge task only applies when the backend auth provider is
	// configured; mock-auth deployments have no refresh tokens to purge.
	var purger scheduler.TokenPurger
	if cfg.IsBackendAuthEnabled() {
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

		purger = authservice.New(authrepo.New(pool), cfg, eventBus, log)
	}

	// The backup task only applies to the Redis-backed store; the in-memory
	// store lives and dies with the API process.
	var ticketStore store.Store
	if cfg.GetTicketStoreBackend() == "redis" && cfg.GetRedisURL() != "" {
		rdb, err := newRedisClient(cfg)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			panic("failed to connect to redis: " + err.Error())
		}
		defer func() { _ = rdb.Close() }()
		ticketStore = store.NewRedisStore(rdb, log)
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	go runPeriodic(ctx, log, client, purger != nil, ticketStore != nil)

	worker, err := scheduler.NewWorker(cfg, purger, ticketStore, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

// runPeriodic enqueues the recurring maintenance tasks. Each task runs once
// at startup and then on its interval.
func runPeriodic(ctx context.Context, log *logger.Logger, client *scheduler.Client, purgeEnabled, backupEnabled bool) {
	enqueuePurge := func() {
		if !purgeEnabled {
			return
		}
		if err := client.EnqueueTokenPurge(ctx); err != nil {
			log.Error("failed to enqueue token purge", "error", err)
		}
	}
	enqueueBackup := func() {
		if !backupEnabled {
			return
		}
		if err := client.EnqueueStoreBackup(ctx, store.DefaultKey); err != nil {
			log.Error("failed to enqueue store backup", "error", err)
		}
	}

	enqueuePurge()
	enqueueBackup()

	purgeTicker := time.NewTicker(tokenPurgeInterval)
	defer purgeTicker.Stop()
	backupTicker := time.NewTicker(storeBackupInterval)
	defer backupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-purgeTicker.C:
			enqueuePurge()
		case <-backupTicker.C:
			enqueueBackup()
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
		return errors.New(name + ": invalid retry attempts")
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
