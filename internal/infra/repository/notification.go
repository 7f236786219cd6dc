package repository

import (
	"context"
	"time"

	"entitlement-service/internal/infra"
	"entitlement-service/internal/infra/sqlc"
	"entitlement-service/internal/pkg/pgconv"
	"entitlement-service/internal/usecase/shared"

	"github.com/google/uuid"
)

type NotificationWriteQueries interface {
	EnqueueNotificationJob(ctx context.Context, db sqlc.DBTX, arg sqlc.EnqueueNotificationJobParams) (int64, error)
	MarkNotificationJobSent(ctx context.Context, db sqlc.DBTX, id uuid.UUID) error
	MarkNotificationJobRetry(ctx context.Context, db sqlc.DBTX, arg sqlc.MarkNotificationJobRetryParams) error
	MarkNotificationJobFailed(ctx context.Context, db sqlc.DBTX, arg sqlc.MarkNotificationJobFailedParams) error
}

type NotificationRepository struct {
	queries NotificationWriteQueries
}

func NewNotificationRepository(queries NotificationWriteQueries) *NotificationRepository {
	return &NotificationRepository{queries: queries}
}

func (r *NotificationRepository) Enqueue(ctx context.Context, tx sqlc.DBTX, job shared.NotificationJob) (bool, error) {
	n, err := r.queries.EnqueueNotificationJob(ctx, tx, sqlc.EnqueueNotificationJobParams{
		ID:        uuid.New(),
		Kind:      string(job.Kind),
		Topic:     job.Topic,
		DedupeKey: job.DedupeKey,
		Payload:   job.Payload,
		RunAt:     pgconv.TimeToPgtype(job.RunAt),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to enqueue notification job", err)
	}
	return n > 0, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, tx sqlc.DBTX, jobID uuid.UUID) error {
	if err := r.queries.MarkNotificationJobSent(ctx, tx, jobID); err != nil {
		return infra.WrapRepoErr("failed to mark notification job sent", err)
	}
	return nil
}

func (r *NotificationRepository) MarkRetry(ctx context.Context, tx sqlc.DBTX, jobID uuid.UUID, runAt time.Time, lastError string) error {
	err := r.queries.MarkNotificationJobRetry(ctx, tx, sqlc.MarkNotificationJobRetryParams{
		ID:        jobID,
		RunAt:     pgconv.TimeToPgtype(runAt),
		LastError: pgconv.OptionalStringToPgtype(lastError),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to reschedule notification job", err)
	}
	return nil
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, tx sqlc.DBTX, jobID uuid.UUID, lastError string) error {
	err := r.queries.MarkNotificationJobFailed(ctx, tx, sqlc.MarkNotificationJobFailedParams{
		ID:        jobID,
		LastError: pgconv.OptionalStringToPgtype(lastError),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification job failed", err)
	}
	return nil
}
