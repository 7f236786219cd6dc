package queries

import (
	"context"
	"time"

	"entitlement-service/internal/domain/quota"
	"entitlement-service/internal/infra"
	"entitlement-service/internal/pkg/clock"

	"github.com/google/uuid"
)

// QuotaStatusView is the dashboard shape of the AI quota. Daily usage is
// shown as it stands after today's reset even when no write happened yet.
type QuotaStatusView struct {
	DailyQuota      int32      `json:"daily_quota"`
	DailyUsed       int32      `json:"daily_used"`
	DailyRemaining  int32      `json:"daily_remaining"`
	TopupBalance    int32      `json:"topup_balance"`
	TotalAvailable  int32      `json:"total_available"`
	AccessExpiresAt *time.Time `json:"access_expires_at,omitempty"`
	ActiveOfferCode string     `json:"active_offer_code,omitempty"`
	IsExpired       bool       `json:"is_expired"`
}

type QuotaCheckView struct {
	Allowed         bool            `json:"allowed"`
	MinutesRequired int32           `json:"minutes_required"`
	Status          QuotaStatusView `json:"status"`
}

type QuotaReadStore interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*quota.AIQuota, error)
}

type QuotaQueries interface {
	GetStatus(ctx context.Context, userID uuid.UUID) (*QuotaStatusView, error)
	Check(ctx context.Context, userID uuid.UUID, inputChars, outputChars int) (*QuotaCheckView, error)
}

type quotaQueriesImpl struct {
	readStore QuotaReadStore
	clock     clock.Clock
}

func NewQuotaQueries(readStore QuotaReadStore, clk clock.Clock) QuotaQueries {
	return &quotaQueriesImpl{readStore: readStore, clock: clk}
}

func (q *quotaQueriesImpl) GetStatus(ctx context.Context, userID uuid.UUID) (*QuotaStatusView, error) {
	now := q.clock.Now()
	aq, err := q.load(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	view := toQuotaStatusView(aq.StatusAt(now))
	return &view, nil
}

func (q *quotaQueriesImpl) Check(ctx context.Context, userID uuid.UUID, inputChars, outputChars int) (*QuotaCheckView, error) {
	now := q.clock.Now()
	aq, err := q.load(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	minutes := quota.MinutesForChars(inputChars, outputChars)
	return &QuotaCheckView{
		Allowed:         aq.CanConsume(minutes, now),
		MinutesRequired: minutes,
		Status:          toQuotaStatusView(aq.StatusAt(now)),
	}, nil
}

// load treats a user without a quota row as having an empty one.
func (q *quotaQueriesImpl) load(ctx context.Context, userID uuid.UUID, now time.Time) (*quota.AIQuota, error) {
	aq, err := q.readStore.FindByUser(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return quota.NewEmpty(userID, now), nil
		}
		return nil, err
	}
	return aq, nil
}

func toQuotaStatusView(st quota.Status) QuotaStatusView {
	return QuotaStatusView{
		DailyQuota:      st.DailyQuota,
		DailyUsed:       st.DailyUsed,
		DailyRemaining:  st.DailyRemaining,
		TopupBalance:    st.TopupBalance,
		TotalAvailable:  st.TotalAvailable,
		AccessExpiresAt: st.AccessExpiresAt,
		ActiveOfferCode: st.ActiveOfferCode,
		IsExpired:       st.IsExpired,
	}
}
