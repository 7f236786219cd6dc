package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	"entitlement-service/internal/domain/offer"
	"entitlement-service/internal/domain/user"
	"entitlement-service/internal/infra/readstore"
	"entitlement-service/internal/infra/repository"
	"entitlement-service/internal/infra/sqlc"
	"entitlement-service/internal/pkg/clock"
	"entitlement-service/internal/pkg/config"
	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"

	maxTxRetries = 3
	txRetryBase  = 100 * time.Millisecond
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool        *pgxpool.Pool
	q           *sqlc.Queries
	clock       clock.Clock
	lockTimeout time.Duration
}

func NewPostgresUoW(pool *pgxpool.Pool, q *sqlc.Queries, clk clock.Clock, cfg config.Config) shared.UnitOfWork {
	return &PostgresUoW{
		pool:        pool,
		q:           q,
		clock:       clk,
		lockTimeout: cfg.DB.LockTimeout,
	}
}

// Within runs fn in a READ COMMITTED transaction. The quota row is serialized
// with FOR UPDATE, so stronger isolation is not needed. Serialization failures
// and deadlocks are retried with backoff.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	var err error
	for attempt := 0; attempt <= maxTxRetries; attempt++ {
		if err = u.attempt(ctx, fn); err == nil {
			return nil
		}
		if !shouldRetry(err, attempt, maxTxRetries) {
			break
		}

		wait := calculateBackoff(attempt, txRetryBase)
		slog.Warn("retrying transaction", "attempt", attempt+1, "wait_ms", wait.Milliseconds(), "error", err.Error())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	if isRetryableError(err) {
		slog.Error("transaction failed after max retries", "attempts", maxTxRetries+1, "error", err.Error())
		return errs.Mark(err, errMaxRetriesExceeded)
	}
	return err
}

// attempt owns exactly one pgx transaction so nothing is deferred across retries.
func (u *PostgresUoW) attempt(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	err = u.applyLockTimeout(ctx, pgxTx)
	if err == nil {
		err = fn(ctx, &pgTx{dbtx: pgxTx, uow: u})
	}
	if err == nil {
		if err = pgxTx.Commit(ctx); err == nil {
			return nil
		}
		err = errs.Mark(err, errTransactionCommit)
	}

	rollback(ctx, pgxTx)
	return err
}

func (u *PostgresUoW) applyLockTimeout(ctx context.Context, tx pgx.Tx) error {
	if u.lockTimeout <= 0 {
		return nil
	}
	// SET does not take bind parameters.
	_, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", u.lockTimeout.Milliseconds()))
	return errs.Wrap(err, "set lock_timeout")
}

// WithinReadOnly gives the query side one consistent snapshot across tables.
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}
	defer rollback(ctx, pgxTx)

	if err := fn(ctx, pgxTx); err != nil {
		return err
	}
	return pgxTx.Commit(ctx)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error {
	return fn(ctx, u.pool)
}

// CommandReads answers the orchestrator's lookups outside any transaction.
func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{uow: u, dbtx: u.pool}
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errs.Is(err, pgx.ErrTxClosed) {
		slog.Warn("rollback failed", "error", err.Error())
	}
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

// calculateBackoff doubles base per attempt and adds up to 20% jitter.
func calculateBackoff(attempt int, base time.Duration) time.Duration {
	wait := time.Duration(1<<attempt) * base
	return wait + time.Duration(cryptoRandInt63n(int64(wait/5)))
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	// #nosec G115 -- high bit masked off
	return int64(binary.BigEndian.Uint64(buf[:])&0x7FFFFFFFFFFFFFFF) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errs.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgErrCodeSerializationFailure || pgErr.Code == pgErrCodeDeadlockDetected
}

// pgTx hands out repositories bound to one transaction, built on first use.
type pgTx struct {
	dbtx sqlc.DBTX
	uow  *PostgresUoW

	purchases       shared.PurchaseRepository
	entitlements    shared.EntitlementRepository
	quotas          shared.QuotaRepository
	artifacts       shared.ArtifactRepository
	processedEvents shared.ProcessedEventRepository
	notifications   shared.NotificationRepository
	reads           shared.CommandReads
}

func (t *pgTx) DB() sqlc.DBTX { return t.dbtx }

func (t *pgTx) Purchases() shared.PurchaseRepository {
	if t.purchases == nil {
		t.purchases = repository.NewPurchaseRepository(t.uow.q, t.uow.clock)
	}
	return t.purchases
}

func (t *pgTx) Entitlements() shared.EntitlementRepository {
	if t.entitlements == nil {
		t.entitlements = repository.NewEntitlementRepository(t.uow.q)
	}
	return t.entitlements
}

func (t *pgTx) Quotas() shared.QuotaRepository {
	if t.quotas == nil {
		t.quotas = repository.NewQuotaRepository(t.uow.q)
	}
	return t.quotas
}

func (t *pgTx) Artifacts() shared.ArtifactRepository {
	if t.artifacts == nil {
		t.artifacts = repository.NewArtifactRepository(t.uow.q)
	}
	return t.artifacts
}

func (t *pgTx) ProcessedEvents() shared.ProcessedEventRepository {
	if t.processedEvents == nil {
		t.processedEvents = repository.NewProcessedEventRepository(t.uow.q)
	}
	return t.processedEvents
}

func (t *pgTx) Notifications() shared.NotificationRepository {
	if t.notifications == nil {
		t.notifications = repository.NewNotificationRepository(t.uow.q)
	}
	return t.notifications
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.reads == nil {
		t.reads = &commandReads{uow: t.uow, dbtx: t.dbtx}
	}
	return t.reads
}

type commandReads struct {
	uow  *PostgresUoW
	dbtx sqlc.DBTX

	offers    *readstore.OfferReadStore
	users     *readstore.UserReadStore
	processed *readstore.ProcessedEventReadStore
}

func (r *commandReads) OfferByCode(ctx context.Context, code string) (*offer.Offer, error) {
	if r.offers == nil {
		r.offers = readstore.NewOfferReadStore(r.uow.q, r.dbtx)
	}
	return r.offers.FindByCode(ctx, code)
}

func (r *commandReads) UserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if r.users == nil {
		r.users = readstore.NewUserReadStore(r.uow.q, r.dbtx)
	}
	return r.users.FindByID(ctx, id)
}

func (r *commandReads) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	if r.processed == nil {
		r.processed = readstore.NewProcessedEventReadStore(r.uow.q, r.dbtx)
	}
	return r.processed.IsProcessed(ctx, eventID)
}
