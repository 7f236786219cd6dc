package response

import (
	"entitlement-service/internal/usecase/commands"

	"github.com/google/uuid"
)

type WebhookResponse struct {
	Received      bool   `json:"received"`
	Outcome       string `json:"outcome"`
	EventID       string `json:"eventId,omitempty"`
	PurchaseID    string `json:"purchaseId,omitempty"`
	EntitlementID string `json:"entitlementId,omitempty"`
	OfferCode     string `json:"offerCode,omitempty"`
	Replayed      bool   `json:"replayed"`
}

func FromFulfillmentResult(r *commands.FulfillmentResult) *WebhookResponse {
	res := &WebhookResponse{
		Received:  true,
		Outcome:   r.Outcome.String(),
		EventID:   r.EventID,
		OfferCode: r.OfferCode,
		Replayed:  r.Replayed,
	}
	if r.PurchaseID != uuid.Nil {
		res.PurchaseID = r.PurchaseID.String()
	}
	if r.EntitlementID != nil {
		res.EntitlementID = r.EntitlementID.String()
	}
	return res
}
