package checkout

import (
	"strings"

	"entitlement-service/internal/domain/locale"
	"entitlement-service/internal/pkg/errs"

	"github.com/google/uuid"
)

// EventTypeCompleted is the only processor event type that triggers fulfillment.
const EventTypeCompleted = "checkout.session.completed"

var (
	ErrMissingEventID   = errs.New("event id is required")
	ErrMissingSessionID = errs.New("checkout session id is required")
	ErrMissingOfferCode = errs.New("metadata.offerCode is required")
	ErrInvalidUserID    = errs.New("metadata.userId must be a UUID")
	ErrNegativeAmount   = errs.New("amount_total must not be negative")
)

// Completed is a "checkout completed" notification as delivered by the
// payment processor, reduced to what fulfillment needs.
type Completed struct {
	EventID           string
	CheckoutSessionID string
	PaymentIntentID   string
	CustomerID        string
	// AmountTotal is nil when the processor omitted it; the offer price is used instead.
	AmountTotal *int64
	Currency    string
	OfferCode   string
	UserID      uuid.UUID
	Locale      locale.Locale
}

type RawMetadata struct {
	OfferCode string
	UserID    string
	Locale    string
}

type Raw struct {
	EventID           string
	CheckoutSessionID string
	PaymentIntentID   string
	CustomerID        string
	AmountTotal       *int64
	Currency          string
	Metadata          RawMetadata
}

// Parse validates the delivery. Any error here is a permanent rejection:
// nothing is written for the event.
func Parse(raw Raw, defaultLocale locale.Locale) (*Completed, error) {
	eventID := strings.TrimSpace(raw.EventID)
	if eventID == "" {
		return nil, ErrMissingEventID
	}
	session := strings.TrimSpace(raw.CheckoutSessionID)
	if session == "" {
		return nil, ErrMissingSessionID
	}
	code := strings.ToUpper(strings.TrimSpace(raw.Metadata.OfferCode))
	if code == "" {
		return nil, ErrMissingOfferCode
	}
	userID, err := uuid.Parse(strings.TrimSpace(raw.Metadata.UserID))
	if err != nil || userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}
	if raw.AmountTotal != nil && *raw.AmountTotal < 0 {
		return nil, ErrNegativeAmount
	}

	return &Completed{
		EventID:           eventID,
		CheckoutSessionID: session,
		PaymentIntentID:   strings.TrimSpace(raw.PaymentIntentID),
		CustomerID:        strings.TrimSpace(raw.CustomerID),
		AmountTotal:       raw.AmountTotal,
		Currency:          strings.ToUpper(strings.TrimSpace(raw.Currency)),
		OfferCode:         code,
		UserID:            userID,
		Locale:            locale.Parse(raw.Metadata.Locale, defaultLocale),
	}, nil
}
