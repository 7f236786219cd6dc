package request

import (
	"entitlement-service/internal/domain/checkout"
)

// CheckoutEventRequest is the processor's event envelope. Only the fields
// fulfillment reads are bound; everything else in the payload is ignored.
type CheckoutEventRequest struct {
	ID   string            `json:"id"`
	Type string            `json:"type" binding:"required"`
	Data CheckoutEventData `json:"data"`
}

type CheckoutEventData struct {
	Object CheckoutSessionObject `json:"object"`
}

type CheckoutSessionObject struct {
	ID            string           `json:"id"`
	PaymentIntent string           `json:"payment_intent"`
	Customer      string           `json:"customer"`
	AmountTotal   *int64           `json:"amount_total"`
	Currency      string           `json:"currency"`
	Metadata      CheckoutMetadata `json:"metadata"`
}

type CheckoutMetadata struct {
	OfferCode string `json:"offerCode"`
	UserID    string `json:"userId"`
	Locale    string `json:"locale"`
}

func (r *CheckoutEventRequest) ToRaw() checkout.Raw {
	obj := r.Data.Object
	return checkout.Raw{
		EventID:           r.ID,
		CheckoutSessionID: obj.ID,
		PaymentIntentID:   obj.PaymentIntent,
		CustomerID:        obj.Customer,
		AmountTotal:       obj.AmountTotal,
		Currency:          obj.Currency,
		Metadata: checkout.RawMetadata{
			OfferCode: obj.Metadata.OfferCode,
			UserID:    obj.Metadata.UserID,
			Locale:    obj.Metadata.Locale,
		},
	}
}
