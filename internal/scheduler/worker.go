package scheduler

import (
	"context"
	"fmt"
	"time"

	"ticketdesk_backend/internal/tickets/store"
	"ticketdesk_backend/platform/config"
	"ticketdesk_backend/platform/logger"

	"github.com/hibiken/asynq"
)

const defaultConcurrency = 10

// TokenPurger removes expired refresh tokens from the auth store.
type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	purger TokenPurger
	store  store.Store
	log    *logger.Logger
}

// NewWorker creates the background worker. purger may be nil when backend
// auth is disabled; the purge task is then a no-op.
func NewWorker(cfg config.SchedulerConfig, purger TokenPurger, st store.Store, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: defaultConcurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		purger: purger,
		store:  st,
		log:    log,
	}

	mux.HandleFunc(TaskAuthTokensPurge, w.handleTokenPurge)
	mux.HandleFunc(TaskTicketStoreBackup, w.handleStoreBackup)

	return w, nil
}

func (w *Worker) handleTokenPurge(ctx context.Context, _ *asynq.Task) error {
	if w.purger == nil {
		return nil
	}
	purged, err := w.purger.PurgeExpiredTokens(ctx)
	if err != nil {
		return err
	}
	if purged > 0 {
		w.log.Info("expired refresh tokens purged", "count", purged)
	}
	return nil
}

// handleStoreBackup copies the ticket list to a dated backup key so operator
// mistakes on the live key are recoverable.
func (w *Worker) handleStoreBackup(ctx context.Context, task *asynq.Task) error {
	if w.store == nil {
		return nil
	}

	payload, err := ParseTicketStoreBackupPayload(task)
	if err != nil {
		return err
	}
	sourceKey := payload.SourceKey
	if sourceKey == "" {
		sourceKey = store.DefaultKey
	}

	tickets, err := w.store.Get(ctx, sourceKey)
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		return nil
	}

	backupKey := fmt.Sprintf("%s:backup:%s", sourceKey, time.Now().UTC().Format("2006-01-02"))
	if err := w.store.Set(ctx, backupKey, tickets); err != nil {
		return err
	}
	w.log.Info("ticket store backed up", "sourceKey", sourceKey, "backupKey", backupKey, "count", len(tickets))
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
