package converter

import (
	"entitlement-service/internal/domain/offer"
	"entitlement-service/internal/infra/sqlc"
)

func OfferFromRow(row sqlc.Offers) (*offer.Offer, error) {
	kind, err := offer.NewKind(row.Kind)
	if err != nil {
		return nil, err
	}
	return offer.New(offer.Params{
		ID:                   row.ID,
		Code:                 row.Code,
		Version:              row.Version,
		Kind:                 kind,
		NameEN:               row.NameEn,
		NameFR:               row.NameFr,
		PriceCents:           row.PriceCents,
		Currency:             row.Currency,
		CoachingMinutes:      row.CoachingMinutes,
		AIDailyMinutes:       row.AiDailyMinutes,
		AccessDurationMonths: row.AccessDurationMonths,
		TopupMinutes:         row.TopupMinutes,
		IncludesDiagnostic:   row.IncludesDiagnostic,
		IncludesLearningPlan: row.IncludesLearningPlan,
		SimulationsIncluded:  row.SimulationsIncluded,
		IsActive:             row.IsActive,
	})
}
