//go:build unit

package metrics_test

import (
	"strings"
	"testing"
	"time"

	"entitlement-service/internal/infra/metrics"
	"entitlement-service/internal/usecase/shared"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ shared.Metrics = (*metrics.Recorder)(nil)
	_ shared.Metrics = metrics.Nop{}
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.NewRecorder(reg)

	r.FulfillmentFinished("fulfilled", "main", 120*time.Millisecond)
	r.FulfillmentFinished("replayed", "main", time.Millisecond)
	r.FulfillmentStageFailed("quota-reconciled")
	r.QuotaConsumed("daily", 3)
	r.QuotaConsumed("daily", 2)
	r.QuotaRejected()

	count, err := testutil.GatherAndCount(reg, "entitlement_fulfillments_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per outcome")

	expected := `
# HELP entitlement_ai_minutes_consumed_total AI practice minutes consumed by pool
# TYPE entitlement_ai_minutes_consumed_total counter
entitlement_ai_minutes_consumed_total{source="daily"} 5
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "entitlement_ai_minutes_consumed_total"))
}
