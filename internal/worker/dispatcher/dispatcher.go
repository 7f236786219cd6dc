package dispatcher

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"entitlement-service/internal/infra/notify"
	"entitlement-service/internal/infra/sqlc"
	"entitlement-service/internal/pkg/clock"
	"entitlement-service/internal/pkg/config"
	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase/readmodel"
	"entitlement-service/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	deliveryTimeout = 10 * time.Second
	maxRetryBackoff = time.Hour
)

// errPermanent marks failures that another attempt cannot fix.
var errPermanent = errs.New("permanent delivery failure")

type JobClaimer interface {
	ClaimDue(ctx context.Context, tx sqlc.DBTX, now time.Time, limit int32) ([]*readmodel.NotificationJobRM, error)
}

type JobStatusWriter interface {
	MarkSent(ctx context.Context, tx sqlc.DBTX, jobID uuid.UUID) error
	MarkRetry(ctx context.Context, tx sqlc.DBTX, jobID uuid.UUID, runAt time.Time, lastError string) error
	MarkFailed(ctx context.Context, tx sqlc.DBTX, jobID uuid.UUID, lastError string) error
}

type Mailer interface {
	Send(ctx context.Context, email notify.Email) error
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, message []byte) error
}

// Dispatcher drains the notification outbox. Jobs are claimed one at a time
// with SKIP LOCKED and delivered while the claiming transaction is open, so
// each queued job has at most one dispatcher working on it. Delivery is at
// least once: a crash between sending and commit resends on the next poll.
type Dispatcher struct {
	uow       shared.UnitOfWork
	claimer   JobClaimer
	jobs      JobStatusWriter
	mailer    Mailer
	publisher Publisher
	renderer  *Renderer
	metrics   shared.Metrics
	clock     clock.Clock
	cfg       config.NotificationConfig

	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func New(
	uow shared.UnitOfWork,
	claimer JobClaimer,
	jobs JobStatusWriter,
	mailer Mailer,
	publisher Publisher,
	renderer *Renderer,
	metrics shared.Metrics,
	clk clock.Clock,
	cfg config.NotificationConfig,
) *Dispatcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &Dispatcher{
		uow:       uow,
		claimer:   claimer,
		jobs:      jobs,
		mailer:    mailer,
		publisher: publisher,
		renderer:  renderer,
		metrics:   metrics,
		clock:     clk,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the poll loop and returns immediately.
func (d *Dispatcher) Start() {
	slog.Info("notification dispatcher started",
		"poll_interval", d.cfg.PollInterval,
		"batch_size", d.cfg.BatchSize)
	go d.loop()
}

// Stop waits for the in-flight batch to finish or ctx to expire.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() { close(d.stopCh) })
	select {
	case <-d.done:
		slog.Info("notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		return errs.Wrap(ctx.Err(), "notification dispatcher did not stop in time")
	}
}

func (d *Dispatcher) loop() {
	defer close(d.done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-d.stopCh
		cancel()
	}()

	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopCh:
			return
		case <-ticker.C:
			if _, err := d.RunOnce(ctx); err != nil && ctx.Err() == nil {
				slog.Error("notification dispatch failed", "error", err.Error())
			}
		}
	}
}

// RunOnce settles up to BatchSize due jobs and returns how many it claimed.
// Each job is claimed, delivered and settled in its own transaction, so a
// failed status write only puts that job back in the queue.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	claimed := 0
	for claimed < int(d.cfg.BatchSize) {
		ok, err := d.runNext(ctx)
		if ok {
			claimed++
		}
		if err != nil {
			return claimed, err
		}
		if !ok {
			break
		}
	}
	return claimed, nil
}

// runNext reports whether a job was claimed. A retried transaction reuses
// the delivery result of the same job instead of sending it again.
func (d *Dispatcher) runNext(ctx context.Context) (bool, error) {
	var (
		claimed     bool
		deliveredID uuid.UUID
		deliveryErr error
	)
	err := d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := d.clock.Now()
		jobs, err := d.claimer.ClaimDue(ctx, tx.DB(), now, 1)
		if err != nil {
			return err
		}
		claimed = len(jobs) > 0
		if !claimed {
			return nil
		}

		job := jobs[0]
		if deliveredID != job.ID {
			deliveryErr = d.deliver(ctx, job)
			deliveredID = job.ID
		}
		return d.settle(ctx, tx.DB(), job, deliveryErr, now)
	})
	return claimed, err
}

func (d *Dispatcher) deliver(ctx context.Context, job *readmodel.NotificationJobRM) error {
	ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	switch shared.NotificationKind(job.Kind) {
	case shared.NotificationEmail:
		var payload shared.EmailPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return errs.Mark(errs.Wrap(err, "decode email payload"), errPermanent)
		}
		email, err := d.renderer.Render(payload)
		if err != nil {
			return errs.Mark(err, errPermanent)
		}
		if email.To == "" {
			return errs.Mark(errs.New("email recipient is empty"), errPermanent)
		}
		return d.mailer.Send(ctx, email)
	case shared.NotificationEvent:
		return d.publisher.Publish(ctx, job.Topic, job.Payload)
	default:
		return errs.Mark(errs.Newf("unknown notification kind %q", job.Kind), errPermanent)
	}
}

func (d *Dispatcher) settle(ctx context.Context, tx sqlc.DBTX, job *readmodel.NotificationJobRM, deliveryErr error, now time.Time) error {
	log := slog.With("job_id", job.ID.String(), "kind", job.Kind, "topic", job.Topic, "attempt", job.Attempts+1)

	if deliveryErr == nil {
		d.metrics.NotificationDelivered(job.Kind, "sent")
		log.Info("notification delivered")
		return d.jobs.MarkSent(ctx, tx, job.ID)
	}

	if errs.Is(deliveryErr, errPermanent) || job.Attempts+1 >= d.cfg.MaxAttempts {
		d.metrics.NotificationDelivered(job.Kind, "failed")
		log.Error("notification delivery failed permanently", "error", deliveryErr.Error())
		return d.jobs.MarkFailed(ctx, tx, job.ID, deliveryErr.Error())
	}

	runAt := now.Add(retryBackoff(d.cfg.RetryBackoff, job.Attempts))
	d.metrics.NotificationDelivered(job.Kind, "retry")
	log.Warn("notification delivery failed, rescheduling", "error", deliveryErr.Error(), "run_at", runAt)
	return d.jobs.MarkRetry(ctx, tx, job.ID, runAt, deliveryErr.Error())
}

// retryBackoff doubles base for each previous attempt, up to an hour.
func retryBackoff(base time.Duration, attempts int32) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	wait := base
	for i := int32(0); i < attempts; i++ {
		wait *= 2
		if wait >= maxRetryBackoff {
			return maxRetryBackoff
		}
	}
	return wait
}
