package converter

import (
	"entitlement-service/internal/domain/quota"
	"entitlement-service/internal/infra/sqlc"
	"entitlement-service/internal/pkg/pgconv"
)

func QuotaFromRow(row sqlc.AiQuotas) (*quota.AIQuota, error) {
	return quota.FromSnapshot(quota.Snapshot{
		UserID:              row.UserID,
		DailyQuotaMinutes:   row.DailyQuotaMinutes,
		DailyUsedMinutes:    row.DailyUsedMinutes,
		DailyResetAt:        row.DailyResetAt.Time.UTC(),
		TopupMinutesBalance: row.TopupMinutesBalance,
		ActiveOfferCode:     pgconv.StringFromPgtype(row.ActiveOfferCode),
		AccessExpiresAt:     pgconv.TimePtrFromPgtype(row.AccessExpiresAt),
	})
}

func QuotaToUpdateParams(q *quota.AIQuota) sqlc.UpdateAiQuotaParams {
	s := q.Snapshot()
	return sqlc.UpdateAiQuotaParams{
		UserID:              s.UserID,
		DailyQuotaMinutes:   s.DailyQuotaMinutes,
		DailyUsedMinutes:    s.DailyUsedMinutes,
		DailyResetAt:        pgconv.TimeToPgtype(s.DailyResetAt),
		TopupMinutesBalance: s.TopupMinutesBalance,
		ActiveOfferCode:     pgconv.OptionalStringToPgtype(s.ActiveOfferCode),
		AccessExpiresAt:     pgconv.TimePtrToPgtype(s.AccessExpiresAt),
	}
}
