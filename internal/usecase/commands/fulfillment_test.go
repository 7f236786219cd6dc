//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"entitlement-service/internal/domain/checkout"
	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/internal/domain/fulfillment"
	"entitlement-service/internal/domain/locale"
	"entitlement-service/internal/domain/offer"
	"entitlement-service/internal/domain/purchase"
	"entitlement-service/internal/domain/quota"
	"entitlement-service/internal/domain/user"
	"entitlement-service/internal/infra/lock"
	"entitlement-service/internal/infra/metrics"
	"entitlement-service/internal/pkg/clock"
	"entitlement-service/internal/pkg/config"
	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase/commands"
	"entitlement-service/internal/usecase/shared"
	"entitlement-service/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

var fulfillmentNow = time.Date(2026, time.March, 10, 14, 30, 0, 0, time.UTC)

type fulfillmentFixture struct {
	uow    *memUoW
	clock  *clock.MockClock
	locker shared.SessionLocker
	user   *user.User
	quick  *offer.Offer
	boost  *offer.Offer
	topup  *offer.Offer
	topic  string
}

func newFulfillmentFixture(t *testing.T) *fulfillmentFixture {
	t.Helper()

	u, err := builder.NewUserBuilder().WithName("Amina Diallo").WithLocale("fr").BuildDomain()
	require.NoError(t, err)

	f := &fulfillmentFixture{
		uow:    newMemUoW(),
		clock:  clock.NewMockClock(fulfillmentNow),
		locker: lock.NewLocalLocker(),
		user:   u,
		quick:  builder.NewOfferBuilder().MustBuild(),
		boost:  builder.NewOfferBuilder().Boost().MustBuild(),
		topup:  builder.NewOfferBuilder().Topup60().MustBuild(),
		topic:  "arn:aws:sns:ca-central-1:000000000000:purchases",
	}
	f.uow.addUser(u)
	f.uow.addOffer(f.quick)
	f.uow.addOffer(f.boost)
	f.uow.addOffer(f.topup)
	f.uow.addOffer(builder.NewOfferBuilder().Mastery().MustBuild())
	return f
}

func (f *fulfillmentFixture) useCase() commands.FulfillmentCommands {
	return commands.NewFulfillmentUseCase(
		f.uow,
		f.locker,
		commands.NewNotificationPlanner(f.topic),
		metrics.Nop{},
		noop.NewTracerProvider().Tracer("test"),
		f.clock,
		config.FulfillmentConfig{
			StepTimeout:     time.Second,
			SessionLockTTL:  time.Minute,
			DefaultCurrency: "CAD",
			DefaultLocale:   "en",
		},
	)
}

func (f *fulfillmentFixture) event(eventID, sessionID, offerCode string) checkout.Raw {
	amount := int64(29900)
	return checkout.Raw{
		EventID:           eventID,
		CheckoutSessionID: sessionID,
		PaymentIntentID:   "pi_1",
		CustomerID:        "cus_1",
		AmountTotal:       &amount,
		Currency:          "cad",
		Metadata: checkout.RawMetadata{
			OfferCode: offerCode,
			UserID:    f.user.ID().String(),
			Locale:    "fr-CA",
		},
	}
}

func TestFulfill_MainOfferGrantsEverything(t *testing.T) {
	f := newFulfillmentFixture(t)
	uc := f.useCase()

	res, err := uc.Fulfill(context.Background(), checkout.EventTypeCompleted, f.event("evt_1", "cs_1", "quick"))
	require.NoError(t, err)

	assert.Equal(t, fulfillment.OutcomeFulfilled, res.Outcome)
	assert.Equal(t, "QUICK", res.OfferCode)
	assert.Equal(t, offer.KindMain, res.OfferKind)
	require.NotNil(t, res.EntitlementID)

	st := f.uow.snapshot()
	require.Contains(t, st.purchases, "cs_1")
	p := st.purchases["cs_1"]
	assert.Equal(t, res.PurchaseID, p.id)
	assert.Equal(t, int64(29900), p.p.AmountCents())
	assert.Equal(t, "CAD", p.p.Currency())
	assert.Equal(t, locale.FR, p.p.Locale())

	ent := st.entitlements[res.PurchaseID]
	require.NotNil(t, ent)
	assert.Equal(t, *res.EntitlementID, ent.ID())
	assert.Equal(t, int32(900), ent.CoachingMinutesTotal())
	assert.True(t, ent.HasAICoach())

	q := st.quotas[f.user.ID()]
	assert.Equal(t, int32(15), q.DailyQuotaMinutes)
	assert.Equal(t, "QUICK", q.ActiveOfferCode)
	require.NotNil(t, q.AccessExpiresAt)
	assert.True(t, q.AccessExpiresAt.Equal(ent.ValidUntil()))

	assert.Contains(t, st.diagnostics, ent.ID())
	assert.Contains(t, st.plans, ent.ID())

	require.Contains(t, st.jobs, commands.DedupeKeyPrefix(res.PurchaseID)+shared.TemplateMainOfferConfirmation)
	require.Contains(t, st.jobs, commands.DedupeKeyPrefix(res.PurchaseID)+shared.TopicPurchaseFulfilled)

	ev, ok := st.processed["evt_1"]
	require.True(t, ok)
	assert.Equal(t, res.PurchaseID, ev.PurchaseID)
	assert.Equal(t, "cs_1", ev.CheckoutSessionID)
}

func TestFulfill_ReplayOfProcessedEventDoesNothing(t *testing.T) {
	f := newFulfillmentFixture(t)
	uc := f.useCase()
	ctx := context.Background()

	_, err := uc.Fulfill(ctx, checkout.EventTypeCompleted, f.event("evt_1", "cs_1", "QUICK"))
	require.NoError(t, err)
	before := f.uow.snapshot()

	f.clock.Add(time.Hour)
	res, err := uc.Fulfill(ctx, checkout.EventTypeCompleted, f.event("evt_1", "cs_1", "QUICK"))
	require.NoError(t, err)
	assert.Equal(t, fulfillment.OutcomeReplayed, res.Outcome)
	assert.True(t, res.Replayed)

	after := f.uow.snapshot()
	assert.Equal(t, before.quotas, after.quotas)
	assert.Len(t, after.purchases, 1)
	assert.Len(t, after.entitlements, 1)
	assert.Len(t, after.jobs, len(before.jobs))
}

func TestFulfill_IgnoresOtherEventTypes(t *testing.T) {
	f := newFulfillmentFixture(t)

	res, err := f.useCase().Fulfill(context.Background(), "payment_intent.succeeded", f.event("evt_1", "cs_1", "QUICK"))
	require.NoError(t, err)
	assert.Equal(t, fulfillment.OutcomeIgnored, res.Outcome)

	st := f.uow.snapshot()
	assert.Empty(t, st.purchases)
	assert.Empty(t, st.processed)
}

func TestFulfill_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(f *fulfillmentFixture, raw *checkout.Raw)
		want   error
	}{
		{
			name:   "missing session id",
			mutate: func(_ *fulfillmentFixture, raw *checkout.Raw) { raw.CheckoutSessionID = " " },
			want:   commands.ErrInvalidEvent,
		},
		{
			name:   "user id is not a uuid",
			mutate: func(_ *fulfillmentFixture, raw *checkout.Raw) { raw.Metadata.UserID = "user-42" },
			want:   commands.ErrInvalidEvent,
		},
		{
			name:   "unknown offer",
			mutate: func(_ *fulfillmentFixture, raw *checkout.Raw) { raw.Metadata.OfferCode = "PLATINUM" },
			want:   commands.ErrOfferNotFound,
		},
		{
			name:   "unknown user",
			mutate: func(_ *fulfillmentFixture, raw *checkout.Raw) { raw.Metadata.UserID = uuid.NewString() },
			want:   commands.ErrUserNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFulfillmentFixture(t)
			raw := f.event("evt_1", "cs_1", "QUICK")
			tc.mutate(f, &raw)

			_, err := f.useCase().Fulfill(context.Background(), checkout.EventTypeCompleted, raw)
			require.Error(t, err)
			assert.True(t, errs.Is(err, tc.want), "got %v", err)
			assert.False(t, errs.Is(err, commands.ErrFulfillmentFailed))

			st := f.uow.snapshot()
			assert.Empty(t, st.purchases)
			assert.Empty(t, st.quotas)
			assert.Empty(t, st.processed)
		})
	}
}

func TestFulfill_LockHeldReturnsInProgress(t *testing.T) {
	f := newFulfillmentFixture(t)
	locker := &stubLocker{err: shared.ErrLockHeld}
	f.locker = locker

	_, err := f.useCase().Fulfill(context.Background(), checkout.EventTypeCompleted, f.event("evt_1", "cs_1", "QUICK"))
	require.Error(t, err)
	assert.True(t, errs.Is(err, commands.ErrFulfillmentInProgress))
	assert.Equal(t, []string{"fulfillment:session:cs_1"}, locker.calls)
	assert.Empty(t, f.uow.snapshot().purchases)
}

func TestFulfill_LockBackendFailureFailsOpen(t *testing.T) {
	f := newFulfillmentFixture(t)
	f.locker = &stubLocker{err: errors.New("dial tcp: connection refused")}

	res, err := f.useCase().Fulfill(context.Background(), checkout.EventTypeCompleted, f.event("evt_1", "cs_1", "QUICK"))
	require.NoError(t, err)
	assert.Equal(t, fulfillment.OutcomeFulfilled, res.Outcome)
	assert.Contains(t, f.uow.snapshot().processed, "evt_1")
}

func TestFulfill_RedeliveryUnderNewEventIDDoesNotDoubleTopup(t *testing.T) {
	f := newFulfillmentFixture(t)
	uc := f.useCase()
	ctx := context.Background()

	first, err := uc.Fulfill(ctx, checkout.EventTypeCompleted, f.event("evt_1", "cs_topup", "AI_TOPUP_60"))
	require.NoError(t, err)
	second, err := uc.Fulfill(ctx, checkout.EventTypeCompleted, f.event("evt_2", "cs_topup", "AI_TOPUP_60"))
	require.NoError(t, err)

	assert.Equal(t, first.PurchaseID, second.PurchaseID)
	assert.Nil(t, second.EntitlementID)

	st := f.uow.snapshot()
	assert.Equal(t, int32(60), st.quotas[f.user.ID()].TopupMinutesBalance)
	assert.Len(t, st.grants, 1)
	assert.Empty(t, st.entitlements)
	assert.Contains(t, st.processed, "evt_1")
	assert.Contains(t, st.processed, "evt_2")
}

func TestFulfill_TopupsFromDistinctPurchasesAdd(t *testing.T) {
	f := newFulfillmentFixture(t)
	uc := f.useCase()
	ctx := context.Background()

	_, err := uc.Fulfill(ctx, checkout.EventTypeCompleted, f.event("evt_1", "cs_a", "AI_TOPUP_60"))
	require.NoError(t, err)
	_, err = uc.Fulfill(ctx, checkout.EventTypeCompleted, f.event("evt_2", "cs_b", "AI_TOPUP_60"))
	require.NoError(t, err)

	assert.Equal(t, int32(120), f.uow.snapshot().quotas[f.user.ID()].TopupMinutesBalance)
}

func TestFulfill_SmallerOfferNeverLowersDailyQuotaOrExpiry(t *testing.T) {
	f := newFulfillmentFixture(t)
	uc := f.useCase()
	ctx := context.Background()

	_, err := uc.Fulfill(ctx, checkout.EventTypeCompleted, f.event("evt_1", "cs_quick", "QUICK"))
	require.NoError(t, err)
	afterQuick := f.uow.snapshot().quotas[f.user.ID()]

	_, err = uc.Fulfill(ctx, checkout.EventTypeCompleted, f.event("evt_2", "cs_boost", "BOOST"))
	require.NoError(t, err)
	afterBoost := f.uow.snapshot().quotas[f.user.ID()]

	assert.Equal(t, int32(15), afterBoost.DailyQuotaMinutes)
	require.NotNil(t, afterBoost.AccessExpiresAt)
	assert.True(t, afterBoost.AccessExpiresAt.Equal(*afterQuick.AccessExpiresAt))
	assert.Len(t, f.uow.snapshot().entitlements, 2)
}

func TestFulfill_UpgradeRaisesQuotaAndTopupKeepsExpiry(t *testing.T) {
	f := newFulfillmentFixture(t)
	uc := f.useCase()
	ctx := context.Background()

	quick, err := uc.Fulfill(ctx, checkout.EventTypeCompleted, f.event("evt_1", "cs_quick", "QUICK"))
	require.NoError(t, err)
	quickEnt := *f.uow.snapshot().entitlements[quick.PurchaseID]

	f.clock.Add(24 * time.Hour)
	upgradedAt := f.clock.Now()
	mastery, err := uc.Fulfill(ctx, checkout.EventTypeCompleted, f.event("evt_2", "cs_mastery", "MASTERY"))
	require.NoError(t, err)

	st := f.uow.snapshot()
	q := st.quotas[f.user.ID()]
	assert.Equal(t, int32(30), q.DailyQuotaMinutes)
	assert.Equal(t, "MASTERY", q.ActiveOfferCode)
	require.NotNil(t, q.AccessExpiresAt)
	assert.True(t, q.AccessExpiresAt.Equal(entitlement.ExpiryFrom(upgradedAt, 24)), "expiry %s", q.AccessExpiresAt)

	require.Len(t, st.entitlements, 2)
	require.Contains(t, st.entitlements, mastery.PurchaseID)
	after := st.entitlements[quick.PurchaseID]
	assert.Equal(t, quickEnt.ID(), after.ID())
	assert.Equal(t, "QUICK", after.OfferCode())
	assert.True(t, quickEnt.ValidUntil().Equal(after.ValidUntil()))
	assert.Equal(t, quickEnt.CoachingMinutesTotal(), after.CoachingMinutesTotal())
	assert.Equal(t, quickEnt.Status(), after.Status())

	f.clock.Add(time.Hour)
	_, err = uc.Fulfill(ctx, checkout.EventTypeCompleted, f.event("evt_3", "cs_topup", "AI_TOPUP_60"))
	require.NoError(t, err)

	afterTopup := f.uow.snapshot().quotas[f.user.ID()]
	assert.Equal(t, int32(30), afterTopup.DailyQuotaMinutes)
	assert.Equal(t, int32(60), afterTopup.TopupMinutesBalance)
	assert.Equal(t, "MASTERY", afterTopup.ActiveOfferCode)
	require.NotNil(t, afterTopup.AccessExpiresAt)
	assert.True(t, afterTopup.AccessExpiresAt.Equal(*q.AccessExpiresAt))
}

func TestFulfill_FailureBeforeMarkLeavesEventRetryable(t *testing.T) {
	f := newFulfillmentFixture(t)
	uc := f.useCase()
	ctx := context.Background()

	f.uow.fail[failProcessedMark] = errors.New("connection reset")
	_, err := uc.Fulfill(ctx, checkout.EventTypeCompleted, f.event("evt_1", "cs_topup", "AI_TOPUP_60"))
	require.Error(t, err)
	assert.True(t, errs.Is(err, commands.ErrFulfillmentFailed))

	st := f.uow.snapshot()
	assert.NotContains(t, st.processed, "evt_1")
	assert.Equal(t, int32(60), st.quotas[f.user.ID()].TopupMinutesBalance)

	delete(f.uow.fail, failProcessedMark)
	res, err := uc.Fulfill(ctx, checkout.EventTypeCompleted, f.event("evt_1", "cs_topup", "AI_TOPUP_60"))
	require.NoError(t, err)
	assert.Equal(t, fulfillment.OutcomeFulfilled, res.Outcome)

	st = f.uow.snapshot()
	assert.Contains(t, st.processed, "evt_1")
	assert.Equal(t, int32(60), st.quotas[f.user.ID()].TopupMinutesBalance)
	assert.Len(t, st.jobs, 2)
}

func TestFulfill_FailureInsideGrantTransactionRollsBack(t *testing.T) {
	f := newFulfillmentFixture(t)
	uc := f.useCase()
	ctx := context.Background()

	f.uow.fail[failQuotaSave] = errors.New("deadlock detected")
	_, err := uc.Fulfill(ctx, checkout.EventTypeCompleted, f.event("evt_1", "cs_1", "QUICK"))
	require.Error(t, err)
	assert.True(t, errs.Is(err, commands.ErrFulfillmentFailed))

	st := f.uow.snapshot()
	assert.Empty(t, st.purchases)
	assert.Empty(t, st.entitlements)
	assert.Empty(t, st.grants)
	assert.Empty(t, st.processed)

	delete(f.uow.fail, failQuotaSave)
	_, err = uc.Fulfill(ctx, checkout.EventTypeCompleted, f.event("evt_1", "cs_1", "QUICK"))
	require.NoError(t, err)
	assert.Equal(t, int32(15), f.uow.snapshot().quotas[f.user.ID()].DailyQuotaMinutes)
}

func TestFulfill_NotificationFailureIsNotFatal(t *testing.T) {
	f := newFulfillmentFixture(t)
	f.uow.fail[failNotificationInsert] = errors.New("outbox unavailable")

	res, err := f.useCase().Fulfill(context.Background(), checkout.EventTypeCompleted, f.event("evt_1", "cs_1", "QUICK"))
	require.NoError(t, err)
	assert.Equal(t, fulfillment.OutcomeFulfilled, res.Outcome)

	st := f.uow.snapshot()
	assert.Empty(t, st.jobs)
	assert.Contains(t, st.processed, "evt_1")
	assert.Equal(t, int32(15), st.quotas[f.user.ID()].DailyQuotaMinutes)
}

func TestFulfill_TerminalPurchaseIsSkipped(t *testing.T) {
	f := newFulfillmentFixture(t)

	refunded, err := purchase.NewPaid(purchase.PaidParams{
		UserID:            f.user.ID(),
		OfferID:           f.quick.ID(),
		OfferCode:         f.quick.Code(),
		CheckoutSessionID: "cs_1",
		AmountCents:       29900,
		Currency:          "CAD",
		Locale:            locale.EN,
	}, fulfillmentNow.Add(-24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, refunded.Transition(purchase.StatusRefunded))
	f.uow.state.purchases["cs_1"] = storedPurchase{id: refunded.ID(), status: refunded.Status(), p: refunded}

	res, err := f.useCase().Fulfill(context.Background(), checkout.EventTypeCompleted, f.event("evt_1", "cs_1", "QUICK"))
	require.NoError(t, err)
	assert.Equal(t, fulfillment.OutcomeSkipped, res.Outcome)
	assert.Equal(t, refunded.ID(), res.PurchaseID)

	st := f.uow.snapshot()
	assert.Empty(t, st.entitlements)
	assert.Empty(t, st.quotas)
	assert.Empty(t, st.jobs)
	assert.Contains(t, st.processed, "evt_1")
}

func TestFulfill_MissingAmountFallsBackToOfferPrice(t *testing.T) {
	f := newFulfillmentFixture(t)
	raw := f.event("evt_1", "cs_1", "BOOST")
	raw.AmountTotal = nil
	raw.Currency = ""

	_, err := f.useCase().Fulfill(context.Background(), checkout.EventTypeCompleted, raw)
	require.NoError(t, err)

	p := f.uow.snapshot().purchases["cs_1"].p
	assert.Equal(t, int64(6700), p.AmountCents())
	assert.Equal(t, "CAD", p.Currency())
}

func TestFulfill_ProcessedLookupFailureIsRetryable(t *testing.T) {
	f := newFulfillmentFixture(t)
	f.uow.fail[failReadsProcessed] = errors.New("timeout")

	_, err := f.useCase().Fulfill(context.Background(), checkout.EventTypeCompleted, f.event("evt_1", "cs_1", "QUICK"))
	require.Error(t, err)
	assert.True(t, errs.Is(err, commands.ErrFulfillmentFailed))
	assert.Empty(t, f.uow.snapshot().purchases)
}

func TestFulfill_NeverResetsDailyUsage(t *testing.T) {
	f := newFulfillmentFixture(t)
	f.uow.state.quotas[f.user.ID()] = quota.Snapshot{
		UserID:            f.user.ID(),
		DailyQuotaMinutes: 10,
		DailyUsedMinutes:  7,
		DailyResetAt:      clock.StartOfDay(fulfillmentNow),
	}

	_, err := f.useCase().Fulfill(context.Background(), checkout.EventTypeCompleted, f.event("evt_1", "cs_1", "QUICK"))
	require.NoError(t, err)

	q := f.uow.snapshot().quotas[f.user.ID()]
	assert.Equal(t, int32(15), q.DailyQuotaMinutes)
	assert.Equal(t, int32(7), q.DailyUsedMinutes)
}
