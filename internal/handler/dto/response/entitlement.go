package response

import (
	"time"

	"entitlement-service/internal/usecase/readmodel"
)

type EntitlementResponse struct {
	ID                       string    `json:"id"`
	PurchaseID               string    `json:"purchaseId"`
	OfferCode                string    `json:"offerCode"`
	CoachingMinutesTotal     int32     `json:"coachingMinutesTotal"`
	CoachingMinutesUsed      int32     `json:"coachingMinutesUsed"`
	CoachingMinutesRemaining int32     `json:"coachingMinutesRemaining"`
	SimulationsTotal         int32     `json:"simulationsTotal"`
	SimulationsUsed          int32     `json:"simulationsUsed"`
	HasDiagnostic            bool      `json:"hasDiagnostic"`
	HasLearningPlan          bool      `json:"hasLearningPlan"`
	HasAICoach               bool      `json:"hasAiCoach"`
	ValidFrom                time.Time `json:"validFrom"`
	ValidUntil               time.Time `json:"validUntil"`
	Status                   string    `json:"status"`
	CreatedAt                time.Time `json:"createdAt"`
}

func FromEntitlementList(items []*readmodel.EntitlementRM) ([]*EntitlementResponse, error) {
	res := make([]*EntitlementResponse, len(items))
	for i, it := range items {
		res[i] = &EntitlementResponse{}
		if err := copyFrom(res[i], it); err != nil {
			return nil, err
		}
	}
	return res, nil
}
