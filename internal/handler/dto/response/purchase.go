package response

import (
	"time"

	"entitlement-service/internal/usecase/readmodel"
)

type PurchaseResponse struct {
	ID                string     `json:"id"`
	OfferCode         string     `json:"offerCode"`
	OfferKind         string     `json:"offerKind"`
	OfferNameEN       string     `json:"offerNameEn"`
	OfferNameFR       string     `json:"offerNameFr"`
	CheckoutSessionID string     `json:"checkoutSessionId"`
	AmountCents       int64      `json:"amountCents"`
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	Locale            string     `json:"locale"`
	PaidAt            *time.Time `json:"paidAt"`
	CreatedAt         time.Time  `json:"createdAt"`
}

func FromPurchaseRM(p *readmodel.PurchaseRM) (*PurchaseResponse, error) {
	var res PurchaseResponse
	if err := copyFrom(&res, p); err != nil {
		return nil, err
	}
	return &res, nil
}
