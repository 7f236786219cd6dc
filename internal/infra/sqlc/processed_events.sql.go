package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const isEventProcessed = `-- name: IsEventProcessed :one
SELECT EXISTS (SELECT 1 FROM processed_events WHERE event_id = $1)
`

func (q *Queries) IsEventProcessed(ctx context.Context, db DBTX, eventID string) (bool, error) {
	row := db.QueryRow(ctx, isEventProcessed, eventID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const markEventProcessed = `-- name: MarkEventProcessed :execrows
INSERT INTO processed_events (event_id, event_type, checkout_session_id, purchase_id, processed_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (event_id) DO NOTHING
`

type MarkEventProcessedParams struct {
	EventID           string             `json:"event_id"`
	EventType         string             `json:"event_type"`
	CheckoutSessionID string             `json:"checkout_session_id"`
	PurchaseID        pgtype.UUID        `json:"purchase_id"`
	ProcessedAt       pgtype.Timestamptz `json:"processed_at"`
}

func (q *Queries) MarkEventProcessed(ctx context.Context, db DBTX, arg MarkEventProcessedParams) (int64, error) {
	result, err := db.Exec(ctx, markEventProcessed,
		arg.EventID,
		arg.EventType,
		arg.CheckoutSessionID,
		arg.PurchaseID,
		arg.ProcessedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
