package shared

import (
	"time"

	"github.com/google/uuid"
)

// Notification templates and event topics written to the outbox.
const (
	TemplateMainOfferConfirmation = "main-offer-confirmation"
	TemplateTopupConfirmation     = "topup-confirmation"
	TopicPurchaseFulfilled        = "purchase.fulfilled"
)

type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ConfirmationParams carries everything the templates render; the
// dispatcher never reads the catalog.
type ConfirmationParams struct {
	OfferCode            string `json:"offer_code"`
	OfferName            string `json:"offer_name"`
	CoachingMinutes      int32  `json:"coaching_minutes"`
	AIDailyMinutes       int32  `json:"ai_daily_minutes"`
	TopupMinutes         int32  `json:"topup_minutes"`
	AccessMonths         int32  `json:"access_months"`
	IncludesDiagnostic   bool   `json:"includes_diagnostic"`
	IncludesLearningPlan bool   `json:"includes_learning_plan"`
	SimulationsIncluded  int32  `json:"simulations_included"`
	AmountCents          int64  `json:"amount_cents"`
	Currency             string `json:"currency"`
	FormattedPrice       string `json:"formatted_price"`
}

type EmailPayload struct {
	Template   string             `json:"template"`
	Locale     string             `json:"locale"`
	Recipient  Recipient          `json:"recipient"`
	PurchaseID uuid.UUID          `json:"purchase_id"`
	Params     ConfirmationParams `json:"params"`
}

type FulfilledEventPayload struct {
	EventID           string     `json:"event_id"`
	PurchaseID        uuid.UUID  `json:"purchase_id"`
	UserID            uuid.UUID  `json:"user_id"`
	OfferCode         string     `json:"offer_code"`
	OfferKind         string     `json:"offer_kind"`
	CheckoutSessionID string     `json:"checkout_session_id"`
	EntitlementID     *uuid.UUID `json:"entitlement_id,omitempty"`
	FulfilledAt       time.Time  `json:"fulfilled_at"`
}
