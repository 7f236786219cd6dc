package sqlc

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const ensureAiQuota = `-- name: EnsureAiQuota :exec
INSERT INTO ai_quotas (user_id, daily_quota_minutes, daily_used_minutes, daily_reset_at, topup_minutes_balance)
VALUES ($1, 0, 0, $2, 0)
ON CONFLICT (user_id) DO NOTHING
`

type EnsureAiQuotaParams struct {
	UserID       uuid.UUID          `json:"user_id"`
	DailyResetAt pgtype.Timestamptz `json:"daily_reset_at"`
}

func (q *Queries) EnsureAiQuota(ctx context.Context, db DBTX, arg EnsureAiQuotaParams) error {
	_, err := db.Exec(ctx, ensureAiQuota, arg.UserID, arg.DailyResetAt)
	return err
}

const aiQuotaColumns = `user_id, daily_quota_minutes, daily_used_minutes, daily_reset_at, topup_minutes_balance,
       active_offer_code, access_expires_at, created_at, updated_at`

const lockAiQuota = `-- name: LockAiQuota :one
SELECT ` + aiQuotaColumns + `
FROM ai_quotas
WHERE user_id = $1
FOR UPDATE
`

func (q *Queries) LockAiQuota(ctx context.Context, db DBTX, userID uuid.UUID) (AiQuotas, error) {
	row := db.QueryRow(ctx, lockAiQuota, userID)
	var i AiQuotas
	err := scanAiQuota(row, &i)
	return i, err
}

const findAiQuotaByUser = `-- name: FindAiQuotaByUser :one
SELECT ` + aiQuotaColumns + `
FROM ai_quotas
WHERE user_id = $1
`

func (q *Queries) FindAiQuotaByUser(ctx context.Context, db DBTX, userID uuid.UUID) (AiQuotas, error) {
	row := db.QueryRow(ctx, findAiQuotaByUser, userID)
	var i AiQuotas
	err := scanAiQuota(row, &i)
	return i, err
}

func scanAiQuota(row scanner, i *AiQuotas) error {
	return row.Scan(
		&i.UserID,
		&i.DailyQuotaMinutes,
		&i.DailyUsedMinutes,
		&i.DailyResetAt,
		&i.TopupMinutesBalance,
		&i.ActiveOfferCode,
		&i.AccessExpiresAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
}

const updateAiQuota = `-- name: UpdateAiQuota :execrows
UPDATE ai_quotas SET
    daily_quota_minutes   = $2,
    daily_used_minutes    = $3,
    daily_reset_at        = $4,
    topup_minutes_balance = $5,
    active_offer_code     = $6,
    access_expires_at     = $7,
    updated_at            = NOW()
WHERE user_id = $1
`

type UpdateAiQuotaParams struct {
	UserID              uuid.UUID          `json:"user_id"`
	DailyQuotaMinutes   int32              `json:"daily_quota_minutes"`
	DailyUsedMinutes    int32              `json:"daily_used_minutes"`
	DailyResetAt        pgtype.Timestamptz `json:"daily_reset_at"`
	TopupMinutesBalance int32              `json:"topup_minutes_balance"`
	ActiveOfferCode     pgtype.Text        `json:"active_offer_code"`
	AccessExpiresAt     pgtype.Timestamptz `json:"access_expires_at"`
}

func (q *Queries) UpdateAiQuota(ctx context.Context, db DBTX, arg UpdateAiQuotaParams) (int64, error) {
	result, err := db.Exec(ctx, updateAiQuota,
		arg.UserID,
		arg.DailyQuotaMinutes,
		arg.DailyUsedMinutes,
		arg.DailyResetAt,
		arg.TopupMinutesBalance,
		arg.ActiveOfferCode,
		arg.AccessExpiresAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const insertAiQuotaGrant = `-- name: InsertAiQuotaGrant :execrows
INSERT INTO ai_quota_grants (purchase_id, user_id, offer_code, kind, daily_minutes, topup_minutes)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (purchase_id) DO NOTHING
`

type InsertAiQuotaGrantParams struct {
	PurchaseID   uuid.UUID `json:"purchase_id"`
	UserID       uuid.UUID `json:"user_id"`
	OfferCode    string    `json:"offer_code"`
	Kind         string    `json:"kind"`
	DailyMinutes int32     `json:"daily_minutes"`
	TopupMinutes int32     `json:"topup_minutes"`
}

func (q *Queries) InsertAiQuotaGrant(ctx context.Context, db DBTX, arg InsertAiQuotaGrantParams) (int64, error) {
	result, err := db.Exec(ctx, insertAiQuotaGrant,
		arg.PurchaseID,
		arg.UserID,
		arg.OfferCode,
		arg.Kind,
		arg.DailyMinutes,
		arg.TopupMinutes,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const insertAiUsageEvent = `-- name: InsertAiUsageEvent :exec
INSERT INTO ai_usage_events (
    id, user_id, minutes_used, characters_input, characters_output, source,
    daily_remaining_after, topup_remaining_after, conversation_type, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

type InsertAiUsageEventParams struct {
	ID                  uuid.UUID          `json:"id"`
	UserID              uuid.UUID          `json:"user_id"`
	MinutesUsed         int32              `json:"minutes_used"`
	CharactersInput     int32              `json:"characters_input"`
	CharactersOutput    int32              `json:"characters_output"`
	Source              string             `json:"source"`
	DailyRemainingAfter int32              `json:"daily_remaining_after"`
	TopupRemainingAfter int32              `json:"topup_remaining_after"`
	ConversationType    pgtype.Text        `json:"conversation_type"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) InsertAiUsageEvent(ctx context.Context, db DBTX, arg InsertAiUsageEventParams) error {
	_, err := db.Exec(ctx, insertAiUsageEvent,
		arg.ID,
		arg.UserID,
		arg.MinutesUsed,
		arg.CharactersInput,
		arg.CharactersOutput,
		arg.Source,
		arg.DailyRemainingAfter,
		arg.TopupRemainingAfter,
		arg.ConversationType,
		arg.CreatedAt,
	)
	return err
}
