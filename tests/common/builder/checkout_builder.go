//go:build unit || e2e

package builder

import (
	reqdto "entitlement-service/internal/handler/dto/request"
	"entitlement-service/internal/pkg/ptr"

	"github.com/google/uuid"
)

const CheckoutCompleted = "checkout.session.completed"

type CheckoutEventBuilder struct {
	req reqdto.CheckoutEventRequest
}

func NewCheckoutEventBuilder() *CheckoutEventBuilder {
	return &CheckoutEventBuilder{req: reqdto.CheckoutEventRequest{
		ID:   "evt_" + uuid.NewString()[:8],
		Type: CheckoutCompleted,
		Data: reqdto.CheckoutEventData{Object: reqdto.CheckoutSessionObject{
			ID:            "cs_test_" + uuid.NewString()[:8],
			PaymentIntent: "pi_test_1",
			Customer:      "cus_test_1",
			AmountTotal:   ptr.Of(int64(29900)),
			Currency:      "cad",
			Metadata: reqdto.CheckoutMetadata{
				OfferCode: "QUICK",
				UserID:    uuid.NewString(),
				Locale:    "en",
			},
		}},
	}}
}

func (b *CheckoutEventBuilder) WithEventID(id string) *CheckoutEventBuilder {
	b.req.ID = id
	return b
}

func (b *CheckoutEventBuilder) WithType(t string) *CheckoutEventBuilder {
	b.req.Type = t
	return b
}

func (b *CheckoutEventBuilder) WithSessionID(id string) *CheckoutEventBuilder {
	b.req.Data.Object.ID = id
	return b
}

func (b *CheckoutEventBuilder) WithOffer(code string) *CheckoutEventBuilder {
	b.req.Data.Object.Metadata.OfferCode = code
	return b
}

func (b *CheckoutEventBuilder) WithUser(id uuid.UUID) *CheckoutEventBuilder {
	b.req.Data.Object.Metadata.UserID = id.String()
	return b
}

func (b *CheckoutEventBuilder) WithLocale(l string) *CheckoutEventBuilder {
	b.req.Data.Object.Metadata.Locale = l
	return b
}

func (b *CheckoutEventBuilder) WithAmount(cents int64) *CheckoutEventBuilder {
	b.req.Data.Object.AmountTotal = ptr.Of(cents)
	return b
}

// WithoutAmount drops amount_total so the offer price is used.
func (b *CheckoutEventBuilder) WithoutAmount() *CheckoutEventBuilder {
	b.req.Data.Object.AmountTotal = nil
	return b
}

func (b *CheckoutEventBuilder) BuildRequestDTO() reqdto.CheckoutEventRequest {
	return b.req
}
