package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"entitlement-service/internal/domain/locale"
	"entitlement-service/internal/domain/offer"
	"entitlement-service/internal/domain/purchase"
	"entitlement-service/internal/domain/user"
	"entitlement-service/internal/usecase/shared"

	"github.com/google/uuid"
)

// NotificationPlanner decides which outbox jobs a fulfilled purchase produces.
// Delivery belongs to the dispatcher worker.
type NotificationPlanner struct {
	publishEvents bool
}

// NewNotificationPlanner enables the purchase.fulfilled event only when a
// topic exists to publish it to.
func NewNotificationPlanner(snsTopicARN string) *NotificationPlanner {
	return &NotificationPlanner{publishEvents: snsTopicARN != ""}
}

type NotificationInput struct {
	EventID       string
	User          *user.User
	Offer         *offer.Offer
	Purchase      *purchase.Purchase
	PurchaseID    uuid.UUID
	EntitlementID *uuid.UUID
	At            time.Time
}

func (p *NotificationPlanner) Plan(in NotificationInput) ([]shared.NotificationJob, error) {
	template := shared.TemplateMainOfferConfirmation
	if in.Offer.IsTopup() {
		template = shared.TemplateTopupConfirmation
	}

	loc := in.Purchase.Locale()
	email, err := json.Marshal(shared.EmailPayload{
		Template: template,
		Locale:   loc.String(),
		Recipient: shared.Recipient{
			Email: in.User.Email().Value(),
			Name:  in.User.DisplayName(),
		},
		PurchaseID: in.PurchaseID,
		Params: shared.ConfirmationParams{
			OfferCode:            in.Offer.Code(),
			OfferName:            in.Offer.Name(loc),
			CoachingMinutes:      in.Offer.CoachingMinutes(),
			AIDailyMinutes:       in.Offer.AIDailyMinutes(),
			TopupMinutes:         in.Offer.TopupMinutes(),
			AccessMonths:         in.Offer.AccessDurationMonths(),
			IncludesDiagnostic:   in.Offer.IncludesDiagnostic(),
			IncludesLearningPlan: in.Offer.IncludesLearningPlan(),
			SimulationsIncluded:  in.Offer.SimulationsIncluded(),
			AmountCents:          in.Purchase.AmountCents(),
			Currency:             in.Purchase.Currency(),
			FormattedPrice:       FormatPrice(in.Purchase.AmountCents(), in.Purchase.Currency(), loc),
		},
	})
	if err != nil {
		return nil, err
	}

	jobs := []shared.NotificationJob{{
		Kind:      shared.NotificationEmail,
		Topic:     template,
		DedupeKey: dedupeKey(in.PurchaseID, template),
		Payload:   email,
		RunAt:     in.At,
	}}

	if !p.publishEvents {
		return jobs, nil
	}

	event, err := json.Marshal(shared.FulfilledEventPayload{
		EventID:           in.EventID,
		PurchaseID:        in.PurchaseID,
		UserID:            in.User.ID(),
		OfferCode:         in.Offer.Code(),
		OfferKind:         in.Offer.Kind().String(),
		CheckoutSessionID: in.Purchase.CheckoutSessionID(),
		EntitlementID:     in.EntitlementID,
		FulfilledAt:       in.At,
	})
	if err != nil {
		return nil, err
	}

	return append(jobs, shared.NotificationJob{
		Kind:      shared.NotificationEvent,
		Topic:     shared.TopicPurchaseFulfilled,
		DedupeKey: dedupeKey(in.PurchaseID, shared.TopicPurchaseFulfilled),
		Payload:   event,
		RunAt:     in.At,
	}), nil
}

// DedupeKeyPrefix groups every outbox job a purchase produced.
func DedupeKeyPrefix(purchaseID uuid.UUID) string {
	return "purchase:" + purchaseID.String() + ":"
}

func dedupeKey(purchaseID uuid.UUID, name string) string {
	return DedupeKeyPrefix(purchaseID) + name
}

// FormatPrice renders minor units the way the confirmation emails show them:
// "$299.00 CAD" in English, "299.00 $ CAD" in French.
func FormatPrice(cents int64, currency string, l locale.Locale) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	amount := fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
	if l == locale.FR {
		return amount + " $ " + currency
	}
	return "$" + amount + " " + currency
}
