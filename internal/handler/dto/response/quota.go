package response

import (
	"time"

	"entitlement-service/internal/usecase/commands"
	"entitlement-service/internal/usecase/queries"
)

type QuotaStatusResponse struct {
	DailyQuota      int32      `json:"dailyQuota"`
	DailyUsed       int32      `json:"dailyUsed"`
	DailyRemaining  int32      `json:"dailyRemaining"`
	TopupBalance    int32      `json:"topupBalance"`
	TotalAvailable  int32      `json:"totalAvailable"`
	AccessExpiresAt *time.Time `json:"accessExpiresAt"`
	ActiveOfferCode string     `json:"activeOfferCode"`
	IsExpired       bool       `json:"isExpired"`
}

func FromQuotaStatusView(v *queries.QuotaStatusView) (*QuotaStatusResponse, error) {
	var res QuotaStatusResponse
	if err := copyFrom(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}

type QuotaCheckResponse struct {
	Allowed         bool                `json:"allowed"`
	MinutesRequired int32               `json:"minutesRequired"`
	Status          QuotaStatusResponse `json:"status"`
}

func FromQuotaCheckView(v *queries.QuotaCheckView) (*QuotaCheckResponse, error) {
	var res QuotaCheckResponse
	if err := copyFrom(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}

type ConsumeQuotaResponse struct {
	Success        bool   `json:"success"`
	Consumed       int32  `json:"consumed"`
	FromDaily      int32  `json:"fromDaily"`
	FromTopup      int32  `json:"fromTopup"`
	Source         string `json:"source"`
	DailyRemaining int32  `json:"dailyRemaining"`
	TopupBalance   int32  `json:"topupBalance"`
	TotalAvailable int32  `json:"totalAvailable"`
}

func FromConsumeResult(r *commands.ConsumeResult) *ConsumeQuotaResponse {
	return &ConsumeQuotaResponse{
		Success:        true,
		Consumed:       r.MinutesUsed,
		FromDaily:      r.FromDaily,
		FromTopup:      r.FromTopup,
		Source:         r.Source.String(),
		DailyRemaining: r.DailyRemainingAfter,
		TopupBalance:   r.TopupRemainingAfter,
		TotalAvailable: r.DailyRemainingAfter + r.TopupRemainingAfter,
	}
}
