package queries

import (
	"context"

	"entitlement-service/internal/domain/locale"
	"entitlement-service/internal/domain/offer"
)

type OfferView struct {
	Code                 string `json:"code"`
	Kind                 string `json:"kind"`
	NameEN               string `json:"name_en"`
	NameFR               string `json:"name_fr"`
	PriceCents           int64  `json:"price_cents"`
	Currency             string `json:"currency"`
	CoachingMinutes      int32  `json:"coaching_minutes"`
	AIDailyMinutes       int32  `json:"ai_daily_minutes"`
	AccessDurationMonths int32  `json:"access_duration_months"`
	TopupMinutes         int32  `json:"topup_minutes"`
	IncludesDiagnostic   bool   `json:"includes_diagnostic"`
	IncludesLearningPlan bool   `json:"includes_learning_plan"`
	SimulationsIncluded  int32  `json:"simulations_included"`
}

type OfferReadStore interface {
	ListActive(ctx context.Context) ([]*offer.Offer, error)
}

type OfferQueries interface {
	ListActive(ctx context.Context) ([]*OfferView, error)
}

type offerQueriesImpl struct {
	readStore OfferReadStore
}

func NewOfferQueries(readStore OfferReadStore) OfferQueries {
	return &offerQueriesImpl{readStore: readStore}
}

func (q *offerQueriesImpl) ListActive(ctx context.Context) ([]*OfferView, error) {
	offers, err := q.readStore.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*OfferView, len(offers))
	for i, o := range offers {
		views[i] = &OfferView{
			Code:                 o.Code(),
			Kind:                 o.Kind().String(),
			NameEN:               o.Name(locale.EN),
			NameFR:               o.Name(locale.FR),
			PriceCents:           o.PriceCents(),
			Currency:             o.Currency(),
			CoachingMinutes:      o.CoachingMinutes(),
			AIDailyMinutes:       o.AIDailyMinutes(),
			AccessDurationMonths: o.AccessDurationMonths(),
			TopupMinutes:         o.TopupMinutes(),
			IncludesDiagnostic:   o.IncludesDiagnostic(),
			IncludesLearningPlan: o.IncludesLearningPlan(),
			SimulationsIncluded:  o.SimulationsIncluded(),
		}
	}
	return views, nil
}
