package repository

import (
	"context"

	"entitlement-service/internal/domain/purchase"
	"entitlement-service/internal/infra"
	"entitlement-service/internal/infra/converter"
	"entitlement-service/internal/infra/sqlc"
	"entitlement-service/internal/pkg/clock"
	"entitlement-service/internal/usecase/shared"
)

type PurchaseWriteQueries interface {
	UpsertPaidPurchase(ctx context.Context, db sqlc.DBTX, arg sqlc.UpsertPaidPurchaseParams) (sqlc.UpsertPaidPurchaseRow, error)
}

type PurchaseRepository struct {
	queries PurchaseWriteQueries
	clock   clock.Clock
}

func NewPurchaseRepository(queries PurchaseWriteQueries, clk clock.Clock) *PurchaseRepository {
	return &PurchaseRepository{
		queries: queries,
		clock:   clk,
	}
}

// Upsert keys on checkout_session_id; a re-delivered session keeps its row.
func (r *PurchaseRepository) Upsert(ctx context.Context, tx sqlc.DBTX, p *purchase.Purchase) (*shared.PurchaseUpsert, error) {
	row, err := r.queries.UpsertPaidPurchase(ctx, tx, converter.PurchaseToUpsertParams(p, r.clock.Now()))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to upsert purchase", err)
	}

	status, err := purchase.NewStatus(row.Status)
	if err != nil {
		return nil, infra.WrapRepoErr("stored purchase has unknown status", err)
	}

	return &shared.PurchaseUpsert{
		ID:      row.ID,
		Status:  status,
		Created: row.Inserted,
	}, nil
}
