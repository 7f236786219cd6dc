package repository

import (
	"context"
	"log/slog"

	"entitlement-service/internal/infra"
	"entitlement-service/internal/infra/sqlc"
	"entitlement-service/internal/pkg/pgconv"
	"entitlement-service/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ProcessedEventWriteQueries interface {
	MarkEventProcessed(ctx context.Context, db sqlc.DBTX, arg sqlc.MarkEventProcessedParams) (int64, error)
}

type ProcessedEventRepository struct {
	queries ProcessedEventWriteQueries
}

func NewProcessedEventRepository(queries ProcessedEventWriteQueries) *ProcessedEventRepository {
	return &ProcessedEventRepository{queries: queries}
}

// MarkProcessed is idempotent: marking an already marked event succeeds.
func (r *ProcessedEventRepository) MarkProcessed(ctx context.Context, tx sqlc.DBTX, ev shared.ProcessedEvent) error {
	purchaseID := pgtype.UUID{Valid: false}
	if ev.PurchaseID != uuid.Nil {
		purchaseID = pgconv.UUIDToPgtype(ev.PurchaseID)
	}

	n, err := r.queries.MarkEventProcessed(ctx, tx, sqlc.MarkEventProcessedParams{
		EventID:           ev.EventID,
		EventType:         ev.EventType,
		CheckoutSessionID: ev.CheckoutSessionID,
		PurchaseID:        purchaseID,
		ProcessedAt:       pgconv.TimeToPgtype(ev.At),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to mark event processed", err)
	}
	if n == 0 {
		slog.Debug("event was already marked processed", "event_id", ev.EventID)
	}
	return nil
}
