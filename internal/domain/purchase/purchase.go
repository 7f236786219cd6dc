package purchase

import (
	"strings"
	"time"

	"entitlement-service/internal/domain/locale"
	"entitlement-service/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrMissingSession   = errs.New("checkout session id is required")
	ErrMissingUser      = errs.New("purchase user is required")
	ErrMissingOffer     = errs.New("purchase offer is required")
	ErrNegativeAmount   = errs.New("purchase amount must not be negative")
	ErrInvalidStatus    = errs.New("invalid purchase status")
	ErrStatusRegression = errs.New("purchase status cannot move backwards")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusRefunded Status = "refunded"
	StatusDisputed Status = "disputed"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusRefunded, StatusDisputed:
		return true
	default:
		return false
	}
}

// IsTerminal reports statuses that fulfillment never moves out of.
func (s Status) IsTerminal() bool {
	return s == StatusRefunded || s == StatusDisputed
}

func NewStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Purchase is keyed by its checkout session; at most one row exists per session.
type Purchase struct {
	id                uuid.UUID
	userID            uuid.UUID
	offerID           uuid.UUID
	offerCode         string
	checkoutSessionID string
	paymentIntentID   string
	customerID        string
	amountCents       int64
	currency          string
	status            Status
	locale            locale.Locale
	paidAt            *time.Time
	createdAt         time.Time
}

type PaidParams struct {
	UserID            uuid.UUID
	OfferID           uuid.UUID
	OfferCode         string
	CheckoutSessionID string
	PaymentIntentID   string
	CustomerID        string
	AmountCents       int64
	Currency          string
	Locale            locale.Locale
}

// NewPaid builds the purchase state a completed checkout produces.
func NewPaid(p PaidParams, now time.Time) (*Purchase, error) {
	session := strings.TrimSpace(p.CheckoutSessionID)
	if session == "" {
		return nil, ErrMissingSession
	}
	if p.UserID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if p.OfferID == uuid.Nil || p.OfferCode == "" {
		return nil, ErrMissingOffer
	}
	if p.AmountCents < 0 {
		return nil, ErrNegativeAmount
	}

	paidAt := now
	return &Purchase{
		id:                uuid.New(),
		userID:            p.UserID,
		offerID:           p.OfferID,
		offerCode:         p.OfferCode,
		checkoutSessionID: session,
		paymentIntentID:   p.PaymentIntentID,
		customerID:        p.CustomerID,
		amountCents:       p.AmountCents,
		currency:          strings.ToUpper(p.Currency),
		status:            StatusPaid,
		locale:            p.Locale,
		paidAt:            &paidAt,
		createdAt:         now,
	}, nil
}

// Transition enforces pending -> paid -> terminal ordering.
func (p *Purchase) Transition(to Status) error {
	if !to.IsValid() {
		return ErrInvalidStatus
	}
	if p.status == to {
		return nil
	}
	switch p.status {
	case StatusPending:
		// any forward move is fine
	case StatusPaid:
		if !to.IsTerminal() {
			return ErrStatusRegression
		}
	default:
		return ErrStatusRegression
	}
	p.status = to
	return nil
}

func (p *Purchase) ID() uuid.UUID             { return p.id }
func (p *Purchase) UserID() uuid.UUID         { return p.userID }
func (p *Purchase) OfferID() uuid.UUID        { return p.offerID }
func (p *Purchase) OfferCode() string         { return p.offerCode }
func (p *Purchase) CheckoutSessionID() string { return p.checkoutSessionID }
func (p *Purchase) PaymentIntentID() string   { return p.paymentIntentID }
func (p *Purchase) CustomerID() string        { return p.customerID }
func (p *Purchase) AmountCents() int64        { return p.amountCents }
func (p *Purchase) Currency() string          { return p.currency }
func (p *Purchase) Status() Status            { return p.status }
func (p *Purchase) Locale() locale.Locale     { return p.locale }
func (p *Purchase) PaidAt() *time.Time        { return p.paidAt }
func (p *Purchase) CreatedAt() time.Time      { return p.createdAt }
