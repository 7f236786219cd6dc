package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "entitlement"

// Recorder implements shared.Metrics on a Prometheus registry.
type Recorder struct {
	fulfillments       *prometheus.CounterVec
	fulfillmentSeconds *prometheus.HistogramVec
	stageFailures      *prometheus.CounterVec
	quotaMinutes       *prometheus.CounterVec
	quotaRejections    prometheus.Counter
	notifEnqueued      *prometheus.CounterVec
	notifDelivered     *prometheus.CounterVec
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		fulfillments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fulfillments_total",
			Help:      "Checkout events handled by the fulfillment orchestrator",
		}, []string{"outcome", "offer_kind"}),
		fulfillmentSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fulfillment_duration_seconds",
			Help:      "Duration of one fulfillment run in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		stageFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fulfillment_stage_failures_total",
			Help:      "Fulfillment failures by the stage that failed",
		}, []string{"stage"}),
		quotaMinutes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_minutes_consumed_total",
			Help:      "AI practice minutes consumed by pool",
		}, []string{"source"}),
		quotaRejections: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_consumption_rejected_total",
			Help:      "AI consumption requests rejected for insufficient quota",
		}),
		notifEnqueued: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_enqueued_total",
			Help:      "Notification jobs written to the outbox",
		}, []string{"kind"}),
		notifDelivered: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_delivered_total",
			Help:      "Notification delivery attempts by outcome",
		}, []string{"kind", "outcome"}),
	}
}

func (r *Recorder) FulfillmentFinished(outcome, offerKind string, elapsed time.Duration) {
	r.fulfillments.WithLabelValues(outcome, offerKind).Inc()
	r.fulfillmentSeconds.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (r *Recorder) FulfillmentStageFailed(stage string) {
	r.stageFailures.WithLabelValues(stage).Inc()
}

func (r *Recorder) QuotaConsumed(source string, minutes int32) {
	r.quotaMinutes.WithLabelValues(source).Add(float64(minutes))
}

func (r *Recorder) QuotaRejected() {
	r.quotaRejections.Inc()
}

func (r *Recorder) NotificationEnqueued(kind string) {
	r.notifEnqueued.WithLabelValues(kind).Inc()
}

func (r *Recorder) NotificationDelivered(kind, outcome string) {
	r.notifDelivered.WithLabelValues(kind, outcome).Inc()
}

// Nop discards everything. Used when metrics are disabled and in tests.
type Nop struct{}

func (Nop) FulfillmentFinished(string, string, time.Duration) {}
func (Nop) FulfillmentStageFailed(string)                      {}
func (Nop) QuotaConsumed(string, int32)                        {}
func (Nop) QuotaRejected()                                     {}
func (Nop) NotificationEnqueued(string)                        {}
func (Nop) NotificationDelivered(string, string)               {}
