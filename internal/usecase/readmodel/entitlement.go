package readmodel

import (
	"time"

	"github.com/google/uuid"
)

type EntitlementRM struct {
	ID                       uuid.UUID `json:"id"`
	PurchaseID               uuid.UUID `json:"purchase_id"`
	OfferID                  uuid.UUID `json:"offer_id"`
	OfferCode                string    `json:"offer_code"`
	CoachingMinutesTotal     int32     `json:"coaching_minutes_total"`
	CoachingMinutesUsed      int32     `json:"coaching_minutes_used"`
	CoachingMinutesRemaining int32     `json:"coaching_minutes_remaining"`
	SimulationsTotal         int32     `json:"simulations_total"`
	SimulationsUsed          int32     `json:"simulations_used"`
	HasDiagnostic            bool      `json:"has_diagnostic"`
	HasLearningPlan          bool      `json:"has_learning_plan"`
	HasAICoach               bool      `json:"has_ai_coach"`
	ValidFrom                time.Time `json:"valid_from"`
	ValidUntil               time.Time `json:"valid_until"`
	Status                   string    `json:"status"`
	CreatedAt                time.Time `json:"created_at"`
}
