package repository

import (
	"context"
	"time"

	"entitlement-service/internal/domain/quota"
	"entitlement-service/internal/infra"
	"entitlement-service/internal/infra/converter"
	"entitlement-service/internal/infra/sqlc"
	"entitlement-service/internal/pkg/clock"
	"entitlement-service/internal/pkg/pgconv"
	"entitlement-service/internal/usecase/shared"

	"github.com/google/uuid"
)

type QuotaWriteQueries interface {
	EnsureAiQuota(ctx context.Context, db sqlc.DBTX, arg sqlc.EnsureAiQuotaParams) error
	LockAiQuota(ctx context.Context, db sqlc.DBTX, userID uuid.UUID) (sqlc.AiQuotas, error)
	UpdateAiQuota(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateAiQuotaParams) (int64, error)
	InsertAiQuotaGrant(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertAiQuotaGrantParams) (int64, error)
	InsertAiUsageEvent(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertAiUsageEventParams) error
}

type QuotaRepository struct {
	queries QuotaWriteQueries
}

func NewQuotaRepository(queries QuotaWriteQueries) *QuotaRepository {
	return &QuotaRepository{queries: queries}
}

// LockForUpdate must run inside a transaction; outside one the row lock is
// released as soon as the statement returns.
func (r *QuotaRepository) LockForUpdate(ctx context.Context, tx sqlc.DBTX, userID uuid.UUID, now time.Time) (*quota.AIQuota, error) {
	err := r.queries.EnsureAiQuota(ctx, tx, sqlc.EnsureAiQuotaParams{
		UserID:       userID,
		DailyResetAt: pgconv.TimeToPgtype(clock.StartOfDay(now)),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to ensure ai quota row", err)
	}

	row, err := r.queries.LockAiQuota(ctx, tx, userID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("ai quota not found after ensure", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock ai quota", err)
	}

	q, err := converter.QuotaFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("stored ai quota is invalid", err)
	}
	return q, nil
}

func (r *QuotaRepository) RecordGrant(ctx context.Context, tx sqlc.DBTX, grant shared.QuotaGrant) (bool, error) {
	n, err := r.queries.InsertAiQuotaGrant(ctx, tx, sqlc.InsertAiQuotaGrantParams{
		PurchaseID:   grant.PurchaseID,
		UserID:       grant.UserID,
		OfferCode:    grant.OfferCode,
		Kind:         grant.Kind.String(),
		DailyMinutes: grant.DailyMinutes,
		TopupMinutes: grant.TopupMinutes,
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to record ai quota grant", err)
	}
	return n > 0, nil
}

func (r *QuotaRepository) Save(ctx context.Context, tx sqlc.DBTX, q *quota.AIQuota) error {
	n, err := r.queries.UpdateAiQuota(ctx, tx, converter.QuotaToUpdateParams(q))
	if err != nil {
		return infra.WrapRepoErr("failed to save ai quota", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("ai quota row vanished", nil, infra.KindNotFound)
	}
	return nil
}

func (r *QuotaRepository) AppendUsage(ctx context.Context, tx sqlc.DBTX, rec shared.UsageRecord) error {
	err := r.queries.InsertAiUsageEvent(ctx, tx, sqlc.InsertAiUsageEventParams{
		ID:                  uuid.New(),
		UserID:              rec.UserID,
		MinutesUsed:         rec.Usage.Minutes,
		CharactersInput:     rec.InputChars,
		CharactersOutput:    rec.OutputChars,
		Source:              rec.Usage.Source.String(),
		DailyRemainingAfter: rec.Usage.DailyRemainingAfter,
		TopupRemainingAfter: rec.Usage.TopupRemainingAfter,
		ConversationType:    pgconv.OptionalStringToPgtype(rec.ConversationType),
		CreatedAt:           pgconv.TimeToPgtype(rec.At),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to append ai usage event", err)
	}
	return nil
}
