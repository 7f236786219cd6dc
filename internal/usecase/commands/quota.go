package commands

import (
	"context"
	"log/slog"
	"strings"

	"entitlement-service/internal/domain/quota"
	"entitlement-service/internal/infra"
	"entitlement-service/internal/pkg/clock"
	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInsufficientQuota = errs.New("insufficient AI quota")
	ErrInvalidUsage      = errs.New("invalid AI usage")
)

// MaxCharsPerExchange bounds one consume request.
const MaxCharsPerExchange = 1_000_000

type ConsumeRequest struct {
	InputChars       int
	OutputChars      int
	ConversationType string
}

type ConsumeResult struct {
	MinutesUsed         int32
	FromDaily           int32
	FromTopup           int32
	Source              quota.Source
	DailyRemainingAfter int32
	TopupRemainingAfter int32
	ResetApplied        bool
}

type QuotaCommands interface {
	Consume(ctx context.Context, userID uuid.UUID, req ConsumeRequest) (*ConsumeResult, error)
}

type quotaUseCaseImpl struct {
	uow     shared.UnitOfWork
	metrics shared.Metrics
	clock   clock.Clock
}

func NewQuotaUseCase(uow shared.UnitOfWork, metrics shared.Metrics, clk clock.Clock) QuotaCommands {
	return &quotaUseCaseImpl{uow: uow, metrics: metrics, clock: clk}
}

// Consume charges one AI exchange against the caller's quota under the row
// lock and appends it to the usage log. A rejected charge writes nothing.
func (uc *quotaUseCaseImpl) Consume(ctx context.Context, userID uuid.UUID, req ConsumeRequest) (*ConsumeResult, error) {
	if req.InputChars < 0 || req.OutputChars < 0 ||
		req.InputChars > MaxCharsPerExchange || req.OutputChars > MaxCharsPerExchange {
		return nil, ErrInvalidUsage
	}
	minutes := quota.MinutesForChars(req.InputChars, req.OutputChars)

	var usage quota.Usage
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()

		q, err := tx.Quotas().LockForUpdate(ctx, tx.DB(), userID, now)
		if err != nil {
			// no users row behind the token: nothing was ever granted
			if infra.IsKind(err, infra.KindForeignKeyViolated) {
				return errs.Mark(err, ErrInsufficientQuota)
			}
			return err
		}

		usage, err = q.Consume(minutes, now)
		if err != nil {
			if errs.Is(err, quota.ErrInsufficientQuota) {
				return errs.Mark(err, ErrInsufficientQuota)
			}
			return err
		}

		if err := tx.Quotas().Save(ctx, tx.DB(), q); err != nil {
			return err
		}
		return tx.Quotas().AppendUsage(ctx, tx.DB(), shared.UsageRecord{
			UserID:           userID,
			Usage:            usage,
			InputChars:       int32(req.InputChars),  // #nosec G115 -- bounded by MaxCharsPerExchange
			OutputChars:      int32(req.OutputChars), // #nosec G115 -- bounded by MaxCharsPerExchange
			ConversationType: strings.TrimSpace(req.ConversationType),
			At:               now,
		})
	})
	if err != nil {
		if errs.Is(err, ErrInsufficientQuota) {
			uc.metrics.QuotaRejected()
			slog.Info("ai consumption rejected", "user_id", userID.String(), "minutes", minutes)
		}
		return nil, err
	}

	uc.metrics.QuotaConsumed(usage.Source.String(), usage.Minutes)
	return &ConsumeResult{
		MinutesUsed:         usage.Minutes,
		FromDaily:           usage.FromDaily,
		FromTopup:           usage.FromTopup,
		Source:              usage.Source,
		DailyRemainingAfter: usage.DailyRemainingAfter,
		TopupRemainingAfter: usage.TopupRemainingAfter,
		ResetApplied:        usage.ResetApplied,
	}, nil
}
