//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"entitlement-service/internal/domain/offer"
	"entitlement-service/internal/domain/quota"
	"entitlement-service/internal/infra"
	"entitlement-service/internal/pkg/clock"
	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase/queries"
	"entitlement-service/internal/usecase/readmodel"
	"entitlement-service/tests/common/builder"
	queriesmock "entitlement-service/tests/mock/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var queryNow = time.Date(2026, time.March, 11, 8, 0, 0, 0, time.UTC)

func TestQuotaQueries_GetStatus(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	expires := queryNow.AddDate(0, 6, 0)

	testCases := []struct {
		name      string
		setupMock func(*queriesmock.MockQuotaReadStore)
		want      *queries.QuotaStatusView
		wantErr   bool
	}{
		{
			name: "yesterday's usage is shown as reset",
			setupMock: func(m *queriesmock.MockQuotaReadStore) {
				q, err := quota.FromSnapshot(quota.Snapshot{
					UserID:              userID,
					DailyQuotaMinutes:   15,
					DailyUsedMinutes:    15,
					DailyResetAt:        clock.StartOfDay(queryNow.Add(-24 * time.Hour)),
					TopupMinutesBalance: 20,
					ActiveOfferCode:     "QUICK",
					AccessExpiresAt:     &expires,
				})
				require.NoError(t, err)
				m.EXPECT().FindByUser(ctx, userID).Return(q, nil)
			},
			want: &queries.QuotaStatusView{
				DailyQuota:      15,
				DailyRemaining:  15,
				TopupBalance:    20,
				TotalAvailable:  35,
				AccessExpiresAt: &expires,
				ActiveOfferCode: "QUICK",
			},
		},
		{
			name: "missing row reads as an empty quota",
			setupMock: func(m *queriesmock.MockQuotaReadStore) {
				m.EXPECT().FindByUser(ctx, userID).Return(nil, infra.WrapRepoErr("ai quota not found", nil, infra.KindNotFound))
			},
			want: &queries.QuotaStatusView{},
		},
		{
			name: "store failure propagates",
			setupMock: func(m *queriesmock.MockQuotaReadStore) {
				m.EXPECT().FindByUser(ctx, userID).Return(nil, infra.WrapRepoErr("boom", assert.AnError))
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := queriesmock.NewMockQuotaReadStore(ctrl)
			tc.setupMock(store)

			got, err := queries.NewQuotaQueries(store, clock.NewMockClock(queryNow)).GetStatus(ctx, userID)
			if tc.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("status mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQuotaQueries_Check(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	expires := queryNow.AddDate(0, 1, 0)

	q, err := quota.FromSnapshot(quota.Snapshot{
		UserID:              userID,
		DailyQuotaMinutes:   10,
		DailyUsedMinutes:    9,
		DailyResetAt:        clock.StartOfDay(queryNow),
		TopupMinutesBalance: 2,
		AccessExpiresAt:     &expires,
	})
	require.NoError(t, err)

	testCases := []struct {
		name        string
		chars       int
		wantAllowed bool
		wantMinutes int32
	}{
		{name: "zero chars still costs a minute", chars: 0, wantAllowed: true, wantMinutes: 1},
		{name: "exactly what is left", chars: 2700, wantAllowed: true, wantMinutes: 3},
		{name: "one minute over", chars: 2701, wantAllowed: false, wantMinutes: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := queriesmock.NewMockQuotaReadStore(ctrl)
			store.EXPECT().FindByUser(ctx, userID).Return(q, nil)

			got, err := queries.NewQuotaQueries(store, clock.NewMockClock(queryNow)).Check(ctx, userID, tc.chars, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.wantAllowed, got.Allowed)
			assert.Equal(t, tc.wantMinutes, got.MinutesRequired)
			assert.Equal(t, int32(3), got.Status.TotalAvailable)
		})
	}

	// Check is read-only
	assert.Equal(t, int32(9), q.Snapshot().DailyUsedMinutes)
	assert.Equal(t, int32(2), q.Snapshot().TopupMinutesBalance)
}

func TestPurchaseQueries_GetBySession(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockPurchaseReadStore(ctrl)
		want := &readmodel.PurchaseRM{ID: uuid.New(), UserID: userID, CheckoutSessionID: "cs_1"}
		store.EXPECT().FindBySession(ctx, userID, "cs_1").Return(want, nil)

		got, err := queries.NewPurchaseQueries(store).GetBySession(ctx, userID, "  cs_1 ")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("blank session never hits the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockPurchaseReadStore(ctrl)

		_, err := queries.NewPurchaseQueries(store).GetBySession(ctx, userID, "   ")
		assert.True(t, errs.Is(err, queries.ErrPurchaseNotFound))
	})

	t.Run("not found maps to ErrPurchaseNotFound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockPurchaseReadStore(ctrl)
		store.EXPECT().FindBySession(ctx, userID, "cs_other").
			Return(nil, infra.WrapRepoErr("purchase not found", nil, infra.KindNotFound))

		_, err := queries.NewPurchaseQueries(store).GetBySession(ctx, userID, "cs_other")
		assert.True(t, errs.Is(err, queries.ErrPurchaseNotFound))
	})

	t.Run("db failure is not masked", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockPurchaseReadStore(ctrl)
		store.EXPECT().FindBySession(ctx, userID, "cs_1").Return(nil, infra.WrapRepoErr("boom", assert.AnError))

		_, err := queries.NewPurchaseQueries(store).GetBySession(ctx, userID, "cs_1")
		require.Error(t, err)
		assert.False(t, errs.Is(err, queries.ErrPurchaseNotFound))
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}

func TestOfferQueries_ListActive(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := queriesmock.NewMockOfferReadStore(ctrl)

	quick := builder.NewOfferBuilder().MustBuild()
	topup := builder.NewOfferBuilder().Topup60().MustBuild()
	store.EXPECT().ListActive(ctx).Return([]*offer.Offer{quick, topup}, nil)

	views, err := queries.NewOfferQueries(store).ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, &queries.OfferView{
		Code:                 "QUICK",
		Kind:                 "main",
		NameEN:               "Quick Prep",
		NameFR:               "Préparation rapide",
		PriceCents:           29900,
		Currency:             "CAD",
		CoachingMinutes:      900,
		AIDailyMinutes:       15,
		AccessDurationMonths: 6,
		IncludesDiagnostic:   true,
		IncludesLearningPlan: true,
		SimulationsIncluded:  1,
	}, views[0])
	assert.Equal(t, "topup", views[1].Kind)
	assert.Equal(t, int32(60), views[1].TopupMinutes)
}
