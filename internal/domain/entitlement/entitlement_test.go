//go:build unit

package entitlement_test

import (
	"testing"
	"time"

	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromOffer(t *testing.T) {
	now := time.Date(2026, time.January, 15, 10, 30, 0, 0, time.UTC)
	userID, purchaseID := uuid.New(), uuid.New()

	t.Run("QUICK grants 900 coaching minutes for six months", func(t *testing.T) {
		o := builder.NewOfferBuilder().MustBuild()

		e, err := entitlement.NewFromOffer(o, userID, purchaseID, now)
		require.NoError(t, err)

		assert.Equal(t, int32(900), e.CoachingMinutesTotal())
		assert.Equal(t, int32(0), e.CoachingMinutesUsed())
		assert.Equal(t, int32(900), e.CoachingMinutesRemaining())
		assert.Equal(t, int32(1), e.SimulationsTotal())
		assert.True(t, e.HasDiagnostic())
		assert.True(t, e.HasLearningPlan())
		assert.True(t, e.HasAICoach())
		assert.Equal(t, entitlement.StatusActive, e.Status())
		assert.Equal(t, now, e.ValidFrom())
		assert.Equal(t, time.Date(2026, time.July, 15, 10, 30, 0, 0, time.UTC), e.ValidUntil())
		assert.Equal(t, purchaseID, e.PurchaseID())
		assert.Equal(t, "QUICK", e.OfferCode())
	})

	t.Run("window is open at start and closed at expiry", func(t *testing.T) {
		e, err := entitlement.NewFromOffer(builder.NewOfferBuilder().Boost().MustBuild(), userID, purchaseID, now)
		require.NoError(t, err)

		assert.True(t, e.IsActiveAt(now))
		assert.True(t, e.IsActiveAt(e.ValidUntil().Add(-time.Second)))
		assert.False(t, e.IsActiveAt(e.ValidUntil()))
		assert.False(t, e.IsActiveAt(now.Add(-time.Second)))
	})

	t.Run("calendar month arithmetic normalizes short months", func(t *testing.T) {
		jan31 := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), entitlement.ExpiryFrom(jan31, 1))
		assert.Equal(t, time.Date(2028, time.January, 31, 0, 0, 0, 0, time.UTC), entitlement.ExpiryFrom(jan31, 24))
	})

	t.Run("topup offers are rejected", func(t *testing.T) {
		_, err := entitlement.NewFromOffer(builder.NewOfferBuilder().Topup60().MustBuild(), userID, purchaseID, now)
		assert.ErrorIs(t, err, entitlement.ErrTopupOffer)
	})

	t.Run("purchase is required", func(t *testing.T) {
		_, err := entitlement.NewFromOffer(builder.NewOfferBuilder().MustBuild(), userID, uuid.Nil, now)
		assert.ErrorIs(t, err, entitlement.ErrMissingRefs)
	})
}
