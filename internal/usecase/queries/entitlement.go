package queries

import (
	"context"

	"entitlement-service/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type EntitlementReadStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*readmodel.EntitlementRM, error)
}

type EntitlementQueries interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*readmodel.EntitlementRM, error)
}

type entitlementQueriesImpl struct {
	readStore EntitlementReadStore
}

func NewEntitlementQueries(readStore EntitlementReadStore) EntitlementQueries {
	return &entitlementQueriesImpl{readStore: readStore}
}

// ListByUser returns newest first.
func (q *entitlementQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*readmodel.EntitlementRM, error) {
	return q.readStore.ListByUser(ctx, userID)
}
