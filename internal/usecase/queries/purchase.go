package queries

import (
	"context"
	"strings"

	"entitlement-service/internal/infra"
	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase/readmodel"

	"github.com/google/uuid"
)

var ErrPurchaseNotFound = errs.New("purchase not found")

type PurchaseReadStore interface {
	FindBySession(ctx context.Context, userID uuid.UUID, sessionID string) (*readmodel.PurchaseRM, error)
}

type PurchaseQueries interface {
	GetBySession(ctx context.Context, userID uuid.UUID, sessionID string) (*readmodel.PurchaseRM, error)
}

type purchaseQueriesImpl struct {
	readStore PurchaseReadStore
}

func NewPurchaseQueries(readStore PurchaseReadStore) PurchaseQueries {
	return &purchaseQueriesImpl{readStore: readStore}
}

// GetBySession only finds the caller's own purchases; another user's session
// id reads as not found.
func (q *purchaseQueriesImpl) GetBySession(ctx context.Context, userID uuid.UUID, sessionID string) (*readmodel.PurchaseRM, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrPurchaseNotFound
	}

	p, err := q.readStore.FindBySession(ctx, userID, sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	return p, nil
}
