package entitlement

import (
	"time"

	"entitlement-service/internal/domain/offer"
	"entitlement-service/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrTopupOffer  = errs.New("topup offers do not grant entitlements")
	ErrMissingRefs = errs.New("entitlement requires user and purchase")
)

type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusRevoked Status = "revoked"
)

func (s Status) String() string { return string(s) }

// Entitlement is the access right produced by one main-offer purchase.
// Entitlements from different purchases coexist; they are never merged.
type Entitlement struct {
	id                   uuid.UUID
	userID               uuid.UUID
	purchaseID           uuid.UUID
	offerID              uuid.UUID
	offerCode            string
	coachingMinutesTotal int32
	coachingMinutesUsed  int32
	simulationsTotal     int32
	simulationsUsed      int32
	hasDiagnostic        bool
	hasLearningPlan      bool
	hasAICoach           bool
	validFrom            time.Time
	validUntil           time.Time
	status               Status
}

// NewFromOffer grants the offer's allocations for a window of
// AccessDurationMonths calendar months starting at now.
func NewFromOffer(o *offer.Offer, userID, purchaseID uuid.UUID, now time.Time) (*Entitlement, error) {
	if o.IsTopup() {
		return nil, ErrTopupOffer
	}
	if userID == uuid.Nil || purchaseID == uuid.Nil {
		return nil, ErrMissingRefs
	}

	return &Entitlement{
		id:                   uuid.New(),
		userID:               userID,
		purchaseID:           purchaseID,
		offerID:              o.ID(),
		offerCode:            o.Code(),
		coachingMinutesTotal: o.CoachingMinutes(),
		simulationsTotal:     o.SimulationsIncluded(),
		hasDiagnostic:        o.IncludesDiagnostic(),
		hasLearningPlan:      o.IncludesLearningPlan(),
		hasAICoach:           true,
		validFrom:            now,
		validUntil:           ExpiryFrom(now, o.AccessDurationMonths()),
		status:               StatusActive,
	}, nil
}

// ExpiryFrom adds calendar months, normalizing overflow the way time.AddDate does
// (Jan 31 + 1 month = Mar 3 in non-leap years).
func ExpiryFrom(start time.Time, months int32) time.Time {
	return start.AddDate(0, int(months), 0)
}

func (e *Entitlement) ID() uuid.UUID               { return e.id }
func (e *Entitlement) UserID() uuid.UUID           { return e.userID }
func (e *Entitlement) PurchaseID() uuid.UUID       { return e.purchaseID }
func (e *Entitlement) OfferID() uuid.UUID          { return e.offerID }
func (e *Entitlement) OfferCode() string           { return e.offerCode }
func (e *Entitlement) CoachingMinutesTotal() int32 { return e.coachingMinutesTotal }
func (e *Entitlement) CoachingMinutesUsed() int32  { return e.coachingMinutesUsed }
func (e *Entitlement) SimulationsTotal() int32     { return e.simulationsTotal }
func (e *Entitlement) SimulationsUsed() int32      { return e.simulationsUsed }
func (e *Entitlement) HasDiagnostic() bool         { return e.hasDiagnostic }
func (e *Entitlement) HasLearningPlan() bool       { return e.hasLearningPlan }
func (e *Entitlement) HasAICoach() bool            { return e.hasAICoach }
func (e *Entitlement) ValidFrom() time.Time        { return e.validFrom }
func (e *Entitlement) ValidUntil() time.Time       { return e.validUntil }
func (e *Entitlement) Status() Status              { return e.status }

func (e *Entitlement) CoachingMinutesRemaining() int32 {
	return e.coachingMinutesTotal - e.coachingMinutesUsed
}

// IsActiveAt is true while the window is open and the row is not revoked.
func (e *Entitlement) IsActiveAt(t time.Time) bool {
	return e.status == StatusActive && !t.Before(e.validFrom) && t.Before(e.validUntil)
}
