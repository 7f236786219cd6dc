package readstore

import (
	"context"

	"entitlement-service/internal/domain/offer"
	"entitlement-service/internal/infra"
	"entitlement-service/internal/infra/converter"
	"entitlement-service/internal/infra/sqlc"
	"entitlement-service/internal/pkg/pgconv"
)

type OfferReadQueries interface {
	FindOfferByCode(ctx context.Context, db sqlc.DBTX, code string) (sqlc.Offers, error)
	ListActiveOffers(ctx context.Context, db sqlc.DBTX) ([]sqlc.Offers, error)
}

type OfferReadStore struct {
	queries OfferReadQueries
	db      sqlc.DBTX
}

func NewOfferReadStore(queries OfferReadQueries, db sqlc.DBTX) *OfferReadStore {
	return &OfferReadStore{
		queries: queries,
		db:      db,
	}
}

func (s *OfferReadStore) FindByCode(ctx context.Context, code string) (*offer.Offer, error) {
	row, err := s.queries.FindOfferByCode(ctx, s.db, code)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("offer not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find offer by code", err)
	}

	o, err := converter.OfferFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("stored offer violates catalog rules", err)
	}
	return o, nil
}

func (s *OfferReadStore) ListActive(ctx context.Context) ([]*offer.Offer, error) {
	rows, err := s.queries.ListActiveOffers(ctx, s.db)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active offers", err)
	}

	result := make([]*offer.Offer, 0, len(rows))
	for _, row := range rows {
		o, err := converter.OfferFromRow(row)
		if err != nil {
			return nil, infra.WrapRepoErr("stored offer violates catalog rules", err)
		}
		result = append(result, o)
	}
	return result, nil
}
