package readstore

import (
	"context"

	"entitlement-service/internal/infra"
	"entitlement-service/internal/infra/sqlc"
)

type ProcessedEventReadQueries interface {
	IsEventProcessed(ctx context.Context, db sqlc.DBTX, eventID string) (bool, error)
}

type ProcessedEventReadStore struct {
	queries ProcessedEventReadQueries
	db      sqlc.DBTX
}

func NewProcessedEventReadStore(queries ProcessedEventReadQueries, db sqlc.DBTX) *ProcessedEventReadStore {
	return &ProcessedEventReadStore{
		queries: queries,
		db:      db,
	}
}

func (s *ProcessedEventReadStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	done, err := s.queries.IsEventProcessed(ctx, s.db, eventID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check processed event", err)
	}
	return done, nil
}
