// Package worker consumes notification messages from NATS and delivers them
// by email, and runs the periodic cleanup job.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/email"
	"github.com/dukerupert/shopery/internal/jobs"
	"github.com/dukerupert/shopery/internal/telemetry"
)

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// QueueGroup load-balances messages across worker instances
	QueueGroup string

	// MaxConcurrency is the maximum number of messages processed concurrently
	MaxConcurrency int

	// JobTimeout bounds a single delivery
	JobTimeout time.Duration

	// CleanupInterval is how often expired carts and sessions are swept.
	// Zero disables the sweep.
	CleanupInterval time.Duration
}

// Deliverer renders and sends a notification. Implemented by *email.Service.
type Deliverer interface {
	Deliver(ctx context.Context, n domain.Notification) (string, error)
}

// Worker processes background jobs
type Worker struct {
	config  Config
	conn    *nats.Conn
	mailer  Deliverer
	cleanup jobs.CleanupStore
	metrics *telemetry.BusinessMetrics
	logger  zerolog.Logger
	now     func() time.Time
}

// NewWorker creates a new background job worker
func NewWorker(
	conn *nats.Conn,
	mailer Deliverer,
	cleanup jobs.CleanupStore,
	metrics *telemetry.BusinessMetrics,
	config Config,
	logger zerolog.Logger,
) *Worker {
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.QueueGroup == "" {
		config.QueueGroup = "shopery-mailer"
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 5
	}
	if config.JobTimeout == 0 {
		config.JobTimeout = 30 * time.Second
	}

	return &Worker{
		config:  config,
		conn:    conn,
		mailer:  mailer,
		cleanup: cleanup,
		metrics: metrics,
		logger:  logger.With().Str("worker_id", config.WorkerID).Logger(),
		now:     time.Now,
	}
}

// Start processes messages until the context is cancelled. In-flight
// deliveries finish before Start returns.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info().
		Str("queue_group", w.config.QueueGroup).
		Int("max_concurrency", w.config.MaxConcurrency).
		Dur("cleanup_interval", w.config.CleanupInterval).
		Msg("worker starting")

	var wg sync.WaitGroup

	if w.conn != nil {
		msgs := make(chan *nats.Msg, w.config.MaxConcurrency*4)
		sub, err := w.conn.ChanQueueSubscribe(jobs.NotificationSubjectAll, w.config.QueueGroup, msgs)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", jobs.NotificationSubjectAll, err)
		}
		defer func() {
			if err := sub.Unsubscribe(); err != nil {
				w.logger.Warn().Err(err).Msg("failed to unsubscribe")
			}
		}()

		for i := 0; i < w.config.MaxConcurrency; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					select {
					case <-ctx.Done():
						return
					case msg := <-msgs:
						w.HandleMessage(ctx, msg.Data)
					}
				}
			}()
		}
	} else {
		w.logger.Warn().Msg("no NATS connection: notification delivery disabled")
	}

	if w.cleanup != nil && w.config.CleanupInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.runCleanupLoop(ctx)
		}()
	}

	<-ctx.Done()
	w.logger.Info().Msg("worker shutting down")
	wg.Wait()
	return nil
}

// HandleMessage decodes one notification and delivers it. Errors are logged,
// counted and captured; core NATS has no redelivery so nothing is returned.
func (w *Worker) HandleMessage(ctx context.Context, data []byte) {
	payload, err := jobs.DecodeNotification(data)
	if err != nil {
		w.logger.Error().Err(err).Msg("dropping malformed notification")
		w.metrics.RecordJob("notification", err)
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, w.config.JobTimeout)
	defer cancel()

	log := w.logger.With().
		Str("template", payload.Template).
		Str("to", payload.To).
		Logger()

	messageID, err := w.mailer.Deliver(jobCtx, payload.Notification())
	w.metrics.RecordJob("notification", err)
	if err != nil {
		w.metrics.RecordNotification(payload.Template, err, "deliver")
		log.Error().Err(err).Bool("permanent", email.IsPermanent(err)).Msg("notification delivery failed")
		telemetry.CaptureError(err, map[string]any{
			"template":  payload.Template,
			"permanent": email.IsPermanent(err),
		})
		return
	}

	log.Info().
		Str("message_id", messageID).
		Dur("latency", w.now().Sub(payload.RequestedAt)).
		Msg("notification delivered")
}

func (w *Worker) runCleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.RunCleanup(ctx)
		}
	}
}

// RunCleanup runs one cleanup sweep and logs any failure.
func (w *Worker) RunCleanup(ctx context.Context) {
	jobCtx, cancel := context.WithTimeout(ctx, w.config.JobTimeout)
	defer cancel()

	if _, err := jobs.RunCleanup(jobCtx, w.cleanup, w.now(), w.metrics, w.logger); err != nil {
		w.logger.Error().Err(err).Msg("cleanup failed")
		telemetry.CaptureError(err, map[string]any{"job": jobs.JobCleanup})
	}
}
