package readstore

import (
	"context"

	"entitlement-service/internal/domain/quota"
	"entitlement-service/internal/infra"
	"entitlement-service/internal/infra/converter"
	"entitlement-service/internal/infra/sqlc"
	"entitlement-service/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type QuotaReadQueries interface {
	FindAiQuotaByUser(ctx context.Context, db sqlc.DBTX, userID uuid.UUID) (sqlc.AiQuotas, error)
}

type QuotaReadStore struct {
	queries QuotaReadQueries
	db      sqlc.DBTX
}

func NewQuotaReadStore(queries QuotaReadQueries, db sqlc.DBTX) *QuotaReadStore {
	return &QuotaReadStore{
		queries: queries,
		db:      db,
	}
}

func (s *QuotaReadStore) FindByUser(ctx context.Context, userID uuid.UUID) (*quota.AIQuota, error) {
	row, err := s.queries.FindAiQuotaByUser(ctx, s.db, userID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("ai quota not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find ai quota", err)
	}

	q, err := converter.QuotaFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("stored ai quota is invalid", err)
	}
	return q, nil
}
