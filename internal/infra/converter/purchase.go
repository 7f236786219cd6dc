package converter

import (
	"time"

	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/internal/domain/purchase"
	"entitlement-service/internal/infra/sqlc"
	"entitlement-service/internal/pkg/pgconv"
)

func PurchaseToUpsertParams(p *purchase.Purchase, now time.Time) sqlc.UpsertPaidPurchaseParams {
	return sqlc.UpsertPaidPurchaseParams{
		ID:                p.ID(),
		UserID:            p.UserID(),
		OfferID:           p.OfferID(),
		OfferCode:         p.OfferCode(),
		CheckoutSessionID: p.CheckoutSessionID(),
		PaymentIntentID:   pgconv.OptionalStringToPgtype(p.PaymentIntentID()),
		CustomerID:        pgconv.OptionalStringToPgtype(p.CustomerID()),
		AmountCents:       p.AmountCents(),
		Currency:          p.Currency(),
		Locale:            p.Locale().String(),
		PaidAt:            pgconv.TimePtrToPgtype(p.PaidAt()),
		Now:               pgconv.TimeToPgtype(now),
	}
}

func EntitlementToUpsertParams(e *entitlement.Entitlement) sqlc.UpsertEntitlementParams {
	return sqlc.UpsertEntitlementParams{
		ID:                   e.ID(),
		UserID:               e.UserID(),
		PurchaseID:           e.PurchaseID(),
		OfferID:              e.OfferID(),
		OfferCode:            e.OfferCode(),
		CoachingMinutesTotal: e.CoachingMinutesTotal(),
		SimulationsTotal:     e.SimulationsTotal(),
		HasDiagnostic:        e.HasDiagnostic(),
		HasLearningPlan:      e.HasLearningPlan(),
		HasAiCoach:           e.HasAICoach(),
		ValidFrom:            pgconv.TimeToPgtype(e.ValidFrom()),
		ValidUntil:           pgconv.TimeToPgtype(e.ValidUntil()),
	}
}
