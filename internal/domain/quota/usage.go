package quota

import (
	"time"

	"entitlement-service/internal/pkg/clock"
)

// CharsPerMinute converts conversation volume into billable AI minutes.
const CharsPerMinute = 900

type Source string

const (
	SourceDaily Source = "daily"
	SourceTopup Source = "topup"
)

func (s Source) String() string { return string(s) }

// MinutesForChars rounds up and charges at least one minute per exchange.
func MinutesForChars(inputChars, outputChars int) int32 {
	total := inputChars + outputChars
	if total < 0 {
		total = 0
	}
	minutes := (total + CharsPerMinute - 1) / CharsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	// #nosec G115 -- bounded by request validation on chars
	return int32(minutes)
}

type Usage struct {
	Minutes             int32
	FromDaily           int32
	FromTopup           int32
	Source              Source
	DailyRemainingAfter int32
	TopupRemainingAfter int32
	ResetApplied        bool
}

type Status struct {
	DailyQuota      int32
	DailyUsed       int32
	DailyRemaining  int32
	TopupBalance    int32
	TotalAvailable  int32
	AccessExpiresAt *time.Time
	ActiveOfferCode string
	IsExpired       bool
}

// resetIfNewDay zeroes daily usage once per calendar day (UTC).
func (q *AIQuota) resetIfNewDay(now time.Time) bool {
	today := clock.StartOfDay(now)
	if today.After(clock.StartOfDay(q.dailyResetAt)) {
		q.dailyUsedMinutes = 0
		q.dailyResetAt = today
		return true
	}
	return false
}

func (q *AIQuota) dailyRemaining(now time.Time) int32 {
	if q.IsExpired(now) {
		return 0
	}
	rem := q.dailyQuotaMinutes - q.dailyUsedMinutes
	if rem < 0 {
		return 0
	}
	return rem
}

// Consume draws from the daily allowance first. Whatever the allowance
// cannot cover comes out of the top-up balance; any top-up share marks the
// charge as SourceTopup. Nothing is mutated when the pools cannot cover it.
func (q *AIQuota) Consume(minutes int32, now time.Time) (Usage, error) {
	if minutes <= 0 {
		return Usage{}, ErrInvalidUsage
	}

	reset := q.resetIfNewDay(now)
	daily := q.dailyRemaining(now)

	fromDaily := min(daily, minutes)
	fromTopup := minutes - fromDaily
	if fromTopup > q.topupMinutesBalance {
		return Usage{ResetApplied: reset}, ErrInsufficientQuota
	}

	q.dailyUsedMinutes += fromDaily
	q.topupMinutesBalance -= fromTopup

	src := SourceDaily
	if fromTopup > 0 {
		src = SourceTopup
	}

	return Usage{
		Minutes:             minutes,
		FromDaily:           fromDaily,
		FromTopup:           fromTopup,
		Source:              src,
		DailyRemainingAfter: q.dailyRemaining(now),
		TopupRemainingAfter: q.topupMinutesBalance,
		ResetApplied:        reset,
	}, nil
}

// CanConsume answers without mutating the quota.
func (q *AIQuota) CanConsume(minutes int32, now time.Time) bool {
	return q.StatusAt(now).TotalAvailable >= minutes
}

// StatusAt reports the quota as it would look after today's reset,
// without applying the reset.
func (q *AIQuota) StatusAt(now time.Time) Status {
	view := *q
	view.resetIfNewDay(now)
	daily := view.dailyRemaining(now)

	return Status{
		DailyQuota:      view.dailyQuotaMinutes,
		DailyUsed:       view.dailyUsedMinutes,
		DailyRemaining:  daily,
		TopupBalance:    view.topupMinutesBalance,
		TotalAvailable:  daily + view.topupMinutesBalance,
		AccessExpiresAt: view.accessExpiresAt,
		ActiveOfferCode: view.activeOfferCode,
		IsExpired:       view.IsExpired(now),
	}
}
