package response

import (
	"entitlement-service/internal/usecase/queries"
)

type OfferResponse struct {
	Code                 string `json:"code"`
	Kind                 string `json:"kind"`
	NameEN               string `json:"nameEn"`
	NameFR               string `json:"nameFr"`
	PriceCents           int64  `json:"priceCents"`
	Currency             string `json:"currency"`
	CoachingMinutes      int32  `json:"coachingMinutes"`
	AIDailyMinutes       int32  `json:"aiDailyMinutes"`
	AccessDurationMonths int32  `json:"accessDurationMonths"`
	TopupMinutes         int32  `json:"topupMinutes"`
	IncludesDiagnostic   bool   `json:"includesDiagnostic"`
	IncludesLearningPlan bool   `json:"includesLearningPlan"`
	SimulationsIncluded  int32  `json:"simulationsIncluded"`
}

func FromOfferViews(views []*queries.OfferView) ([]*OfferResponse, error) {
	res := make([]*OfferResponse, len(views))
	for i, v := range views {
		res[i] = &OfferResponse{}
		if err := copyFrom(res[i], v); err != nil {
			return nil, err
		}
	}
	return res, nil
}
