package readmodel

import (
	"time"

	"github.com/google/uuid"
)

type PurchaseRM struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	OfferID           uuid.UUID  `json:"offer_id"`
	OfferCode         string     `json:"offer_code"`
	OfferKind         string     `json:"offer_kind"`
	OfferNameEN       string     `json:"offer_name_en"`
	OfferNameFR       string     `json:"offer_name_fr"`
	CheckoutSessionID string     `json:"checkout_session_id"`
	AmountCents       int64      `json:"amount_cents"`
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	Locale            string     `json:"locale"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}
