package readstore

import (
	"context"
	"time"

	"entitlement-service/internal/infra"
	"entitlement-service/internal/infra/sqlc"
	"entitlement-service/internal/pkg/pgconv"
	"entitlement-service/internal/usecase/readmodel"
)

type NotificationReadQueries interface {
	ClaimDueNotificationJobs(ctx context.Context, db sqlc.DBTX, arg sqlc.ClaimDueNotificationJobsParams) ([]sqlc.NotificationJobs, error)
}

type NotificationReadStore struct {
	queries NotificationReadQueries
}

func NewNotificationReadStore(queries NotificationReadQueries) *NotificationReadStore {
	return &NotificationReadStore{queries: queries}
}

// ClaimDue locks up to limit due jobs. tx must be a transaction for the
// claim to hold past the statement.
func (s *NotificationReadStore) ClaimDue(ctx context.Context, tx sqlc.DBTX, now time.Time, limit int32) ([]*readmodel.NotificationJobRM, error) {
	rows, err := s.queries.ClaimDueNotificationJobs(ctx, tx, sqlc.ClaimDueNotificationJobsParams{
		Now:   pgconv.TimeToPgtype(now),
		Limit: limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim due notification jobs", err)
	}

	result := make([]*readmodel.NotificationJobRM, len(rows))
	for i, row := range rows {
		result[i] = toNotificationJobRM(row)
	}
	return result, nil
}

func toNotificationJobRM(row sqlc.NotificationJobs) *readmodel.NotificationJobRM {
	return &readmodel.NotificationJobRM{
		ID:        row.ID,
		Kind:      row.Kind,
		Topic:     row.Topic,
		DedupeKey: row.DedupeKey,
		Payload:   row.Payload,
		RunAt:     row.RunAt.Time,
		Attempts:  row.Attempts,
		Status:    row.Status,
		LastError: pgconv.StringPtrFromPgtype(row.LastError),
		CreatedAt: row.CreatedAt.Time,
	}
}
