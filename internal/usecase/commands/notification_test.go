//go:build unit

package commands_test

import (
	"encoding/json"
	"testing"
	"time"

	"entitlement-service/internal/domain/locale"
	"entitlement-service/internal/domain/purchase"
	"entitlement-service/internal/usecase/commands"
	"entitlement-service/internal/usecase/shared"
	"entitlement-service/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		cents    int64
		currency string
		loc      locale.Locale
		want     string
	}{
		{29900, "CAD", locale.EN, "$299.00 CAD"},
		{29900, "CAD", locale.FR, "299.00 $ CAD"},
		{6705, "CAD", locale.EN, "$67.05 CAD"},
		{0, "USD", locale.EN, "$0.00 USD"},
		{-150, "CAD", locale.FR, "-1.50 $ CAD"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, commands.FormatPrice(tc.cents, tc.currency, tc.loc))
	}
}

func plannerInput(t *testing.T, code string, loc locale.Locale) commands.NotificationInput {
	t.Helper()

	u, err := builder.NewUserBuilder().WithName("Sam Tremblay").BuildDomain()
	require.NoError(t, err)

	ob := builder.NewOfferBuilder()
	if code == "AI_TOPUP_60" {
		ob = ob.Topup60()
	}
	o := ob.MustBuild()

	p, err := purchase.NewPaid(purchase.PaidParams{
		UserID:            u.ID(),
		OfferID:           o.ID(),
		OfferCode:         o.Code(),
		CheckoutSessionID: "cs_1",
		AmountCents:       o.PriceCents(),
		Currency:          o.Currency(),
		Locale:            loc,
	}, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	entID := uuid.New()
	return commands.NotificationInput{
		EventID:       "evt_1",
		User:          u,
		Offer:         o,
		Purchase:      p,
		PurchaseID:    p.ID(),
		EntitlementID: &entID,
		At:            p.CreatedAt(),
	}
}

func TestNotificationPlanner_MainOffer(t *testing.T) {
	in := plannerInput(t, "QUICK", locale.FR)

	jobs, err := commands.NewNotificationPlanner("arn:aws:sns:ca-central-1:0:purchases").Plan(in)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	email := jobs[0]
	assert.Equal(t, shared.NotificationEmail, email.Kind)
	assert.Equal(t, shared.TemplateMainOfferConfirmation, email.Topic)
	assert.Equal(t, commands.DedupeKeyPrefix(in.PurchaseID)+shared.TemplateMainOfferConfirmation, email.DedupeKey)

	var payload shared.EmailPayload
	require.NoError(t, json.Unmarshal(email.Payload, &payload))
	want := shared.EmailPayload{
		Template:   shared.TemplateMainOfferConfirmation,
		Locale:     "fr",
		Recipient:  shared.Recipient{Email: "learner@example.com", Name: "Sam Tremblay"},
		PurchaseID: in.PurchaseID,
		Params: shared.ConfirmationParams{
			OfferCode:            "QUICK",
			OfferName:            "Préparation rapide",
			CoachingMinutes:      900,
			AIDailyMinutes:       15,
			AccessMonths:         6,
			IncludesDiagnostic:   true,
			IncludesLearningPlan: true,
			SimulationsIncluded:  1,
			AmountCents:          29900,
			Currency:             "CAD",
			FormattedPrice:       "299.00 $ CAD",
		},
	}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Errorf("email payload mismatch (-want +got):\n%s", diff)
	}

	event := jobs[1]
	assert.Equal(t, shared.NotificationEvent, event.Kind)
	assert.Equal(t, shared.TopicPurchaseFulfilled, event.Topic)
	var ev shared.FulfilledEventPayload
	require.NoError(t, json.Unmarshal(event.Payload, &ev))
	assert.Equal(t, "evt_1", ev.EventID)
	assert.Equal(t, "main", ev.OfferKind)
	assert.Equal(t, in.EntitlementID, ev.EntitlementID)
}

func TestNotificationPlanner_TopupWithoutTopic(t *testing.T) {
	in := plannerInput(t, "AI_TOPUP_60", locale.EN)
	in.EntitlementID = nil

	jobs, err := commands.NewNotificationPlanner("").Plan(in)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, shared.TemplateTopupConfirmation, jobs[0].Topic)

	var payload shared.EmailPayload
	require.NoError(t, json.Unmarshal(jobs[0].Payload, &payload))
	assert.Equal(t, int32(60), payload.Params.TopupMinutes)
	assert.Equal(t, "$39.00 CAD", payload.Params.FormattedPrice)
}
