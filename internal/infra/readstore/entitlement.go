package readstore

import (
	"context"

	"entitlement-service/internal/infra"
	"entitlement-service/internal/infra/sqlc"
	"entitlement-service/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type EntitlementReadQueries interface {
	ListEntitlementsByUser(ctx context.Context, db sqlc.DBTX, userID uuid.UUID) ([]sqlc.Entitlements, error)
}

type EntitlementReadStore struct {
	queries EntitlementReadQueries
	db      sqlc.DBTX
}

func NewEntitlementReadStore(queries EntitlementReadQueries, db sqlc.DBTX) *EntitlementReadStore {
	return &EntitlementReadStore{
		queries: queries,
		db:      db,
	}
}

func (s *EntitlementReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*readmodel.EntitlementRM, error) {
	rows, err := s.queries.ListEntitlementsByUser(ctx, s.db, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list entitlements", err)
	}

	result := make([]*readmodel.EntitlementRM, len(rows))
	for i, row := range rows {
		result[i] = toEntitlementRM(row)
	}
	return result, nil
}

func toEntitlementRM(row sqlc.Entitlements) *readmodel.EntitlementRM {
	return &readmodel.EntitlementRM{
		ID:                       row.ID,
		PurchaseID:               row.PurchaseID,
		OfferID:                  row.OfferID,
		OfferCode:                row.OfferCode,
		CoachingMinutesTotal:     row.CoachingMinutesTotal,
		CoachingMinutesUsed:      row.CoachingMinutesUsed,
		CoachingMinutesRemaining: row.CoachingMinutesRemaining,
		SimulationsTotal:         row.SimulationsTotal,
		SimulationsUsed:          row.SimulationsUsed,
		HasDiagnostic:            row.HasDiagnostic,
		HasLearningPlan:          row.HasLearningPlan,
		HasAICoach:               row.HasAiCoach,
		ValidFrom:                row.ValidFrom.Time,
		ValidUntil:               row.ValidUntil.Time,
		Status:                   row.Status,
		CreatedAt:                row.CreatedAt.Time,
	}
}
