package repository

import (
	"context"

	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/internal/infra"
	"entitlement-service/internal/infra/converter"
	"entitlement-service/internal/infra/sqlc"

	"github.com/google/uuid"
)

type EntitlementWriteQueries interface {
	UpsertEntitlement(ctx context.Context, db sqlc.DBTX, arg sqlc.UpsertEntitlementParams) (sqlc.UpsertEntitlementRow, error)
}

type EntitlementRepository struct {
	queries EntitlementWriteQueries
}

func NewEntitlementRepository(queries EntitlementWriteQueries) *EntitlementRepository {
	return &EntitlementRepository{queries: queries}
}

func (r *EntitlementRepository) Upsert(ctx context.Context, tx sqlc.DBTX, e *entitlement.Entitlement) (uuid.UUID, bool, error) {
	row, err := r.queries.UpsertEntitlement(ctx, tx, converter.EntitlementToUpsertParams(e))
	if err != nil {
		return uuid.Nil, false, infra.WrapRepoErr("failed to upsert entitlement", err)
	}
	return row.ID, row.Inserted, nil
}
