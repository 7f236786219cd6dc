package quota

import (
	"time"

	"entitlement-service/internal/pkg/clock"
	"entitlement-service/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidTopup      = errs.New("topup minutes must be positive")
	ErrInvalidDaily      = errs.New("daily minutes must not be negative")
	ErrInvalidUsage      = errs.New("usage must be positive")
	ErrInsufficientQuota = errs.New("insufficient AI quota")
	ErrCorruptQuota      = errs.New("stored quota violates its invariants")
)

// AIQuota is the single per-user row that governs AI practice minutes.
//
// dailyQuotaMinutes and accessExpiresAt only ever grow through fulfillment.
// dailyUsedMinutes and dailyResetAt belong to the consumption path.
type AIQuota struct {
	userID              uuid.UUID
	dailyQuotaMinutes   int32
	dailyUsedMinutes    int32
	dailyResetAt        time.Time
	topupMinutesBalance int32
	activeOfferCode     string
	accessExpiresAt     *time.Time
}

// NewEmpty is the row created on first contact: no ceiling, no balance, no expiry.
func NewEmpty(userID uuid.UUID, now time.Time) *AIQuota {
	return &AIQuota{
		userID:       userID,
		dailyResetAt: clock.StartOfDay(now),
	}
}

type Snapshot struct {
	UserID              uuid.UUID
	DailyQuotaMinutes   int32
	DailyUsedMinutes    int32
	DailyResetAt        time.Time
	TopupMinutesBalance int32
	ActiveOfferCode     string
	AccessExpiresAt     *time.Time
}

func FromSnapshot(s Snapshot) (*AIQuota, error) {
	if s.DailyQuotaMinutes < 0 || s.DailyUsedMinutes < 0 || s.TopupMinutesBalance < 0 {
		return nil, ErrCorruptQuota
	}
	return &AIQuota{
		userID:              s.UserID,
		dailyQuotaMinutes:   s.DailyQuotaMinutes,
		dailyUsedMinutes:    s.DailyUsedMinutes,
		dailyResetAt:        s.DailyResetAt,
		topupMinutesBalance: s.TopupMinutesBalance,
		activeOfferCode:     s.ActiveOfferCode,
		accessExpiresAt:     s.AccessExpiresAt,
	}, nil
}

func (q *AIQuota) Snapshot() Snapshot {
	return Snapshot{
		UserID:              q.userID,
		DailyQuotaMinutes:   q.dailyQuotaMinutes,
		DailyUsedMinutes:    q.dailyUsedMinutes,
		DailyResetAt:        q.dailyResetAt,
		TopupMinutesBalance: q.topupMinutesBalance,
		ActiveOfferCode:     q.activeOfferCode,
		AccessExpiresAt:     q.accessExpiresAt,
	}
}

// ApplyMainGrant merges a main-offer grant without ever regressing access.
// An absent expiry compares as minus infinity. The active offer code moves
// only when the ceiling or the expiry actually changed. Returns whether
// anything changed.
func (q *AIQuota) ApplyMainGrant(offerCode string, dailyMinutes int32, expiresAt time.Time) (bool, error) {
	if dailyMinutes < 0 {
		return false, ErrInvalidDaily
	}

	changed := false
	if dailyMinutes > q.dailyQuotaMinutes {
		q.dailyQuotaMinutes = dailyMinutes
		changed = true
	}
	if q.accessExpiresAt == nil || expiresAt.After(*q.accessExpiresAt) {
		exp := expiresAt
		q.accessExpiresAt = &exp
		changed = true
	}
	if changed {
		q.activeOfferCode = offerCode
	}
	return changed, nil
}

// ApplyTopup is additive: N top-ups of M minutes add N*M.
func (q *AIQuota) ApplyTopup(minutes int32) error {
	if minutes <= 0 {
		return ErrInvalidTopup
	}
	q.topupMinutesBalance += minutes
	return nil
}

func (q *AIQuota) UserID() uuid.UUID           { return q.userID }
func (q *AIQuota) DailyQuotaMinutes() int32    { return q.dailyQuotaMinutes }
func (q *AIQuota) DailyUsedMinutes() int32     { return q.dailyUsedMinutes }
func (q *AIQuota) DailyResetAt() time.Time     { return q.dailyResetAt }
func (q *AIQuota) TopupMinutesBalance() int32  { return q.topupMinutesBalance }
func (q *AIQuota) ActiveOfferCode() string     { return q.activeOfferCode }
func (q *AIQuota) AccessExpiresAt() *time.Time { return q.accessExpiresAt }

func (q *AIQuota) IsExpired(now time.Time) bool {
	return q.accessExpiresAt != nil && q.accessExpiresAt.Before(now)
}
