package readstore

import (
	"context"

	"entitlement-service/internal/infra"
	"entitlement-service/internal/infra/sqlc"
	"entitlement-service/internal/pkg/pgconv"
	"entitlement-service/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type PurchaseReadQueries interface {
	FindPurchaseBySessionForUser(ctx context.Context, db sqlc.DBTX, arg sqlc.FindPurchaseBySessionForUserParams) (sqlc.FindPurchaseBySessionForUserRow, error)
}

type PurchaseReadStore struct {
	queries PurchaseReadQueries
	db      sqlc.DBTX
}

func NewPurchaseReadStore(queries PurchaseReadQueries, db sqlc.DBTX) *PurchaseReadStore {
	return &PurchaseReadStore{
		queries: queries,
		db:      db,
	}
}

// FindBySession only returns purchases owned by userID.
func (s *PurchaseReadStore) FindBySession(ctx context.Context, userID uuid.UUID, sessionID string) (*readmodel.PurchaseRM, error) {
	row, err := s.queries.FindPurchaseBySessionForUser(ctx, s.db, sqlc.FindPurchaseBySessionForUserParams{
		CheckoutSessionID: sessionID,
		UserID:            userID,
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("purchase not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find purchase by session", err)
	}

	return &readmodel.PurchaseRM{
		ID:                row.ID,
		UserID:            row.UserID,
		OfferID:           row.OfferID,
		OfferCode:         row.OfferCode,
		OfferKind:         row.OfferKind,
		OfferNameEN:       row.OfferNameEn,
		OfferNameFR:       row.OfferNameFr,
		CheckoutSessionID: row.CheckoutSessionID,
		AmountCents:       row.AmountCents,
		Currency:          row.Currency,
		Status:            row.Status,
		Locale:            row.Locale,
		PaidAt:            pgconv.TimePtrFromPgtype(row.PaidAt),
		CreatedAt:         row.CreatedAt.Time,
	}, nil
}
