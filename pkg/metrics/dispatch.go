package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DispatchMetrics records outcomes of webhook dispatch runs.
type DispatchMetrics struct {
	duration  *prometheus.HistogramVec
	success   *prometheus.CounterVec
	failure   *prometheus.CounterVec
	envelopes *prometheus.CounterVec
}

// NewDispatchMetrics registers the dispatch metrics on the provided registerer.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	if reg == nil {
		return &DispatchMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dispatch_duration_seconds",
		Help:    "Duration of webhook dispatch runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_success",
		Help: "Fully delivered dispatch runs.",
	}, []string{"mode"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_failure",
		Help: "Dispatch runs aborted on a delivery error.",
	}, []string{"mode"})
	envelopes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_envelopes_sent",
		Help: "Envelopes accepted by the webhook endpoint.",
	}, []string{"mode"})
	reg.MustRegister(duration, success, failure, envelopes)
	return &DispatchMetrics{
		duration:  duration,
		success:   success,
		failure:   failure,
		envelopes: envelopes,
	}
}

// ObserveDuration records the duration of one dispatch run.
func (d *DispatchMetrics) ObserveDuration(mode string, duration time.Duration) {
	if d == nil || d.duration == nil {
		return
	}
	d.duration.WithLabelValues(normalizeLabel(mode)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the mode.
func (d *DispatchMetrics) IncSuccess(mode string) {
	if d == nil || d.success == nil {
		return
	}
	d.success.WithLabelValues(normalizeLabel(mode)).Inc()
}

// IncFailure increments the failure counter for the mode.
func (d *DispatchMetrics) IncFailure(mode string) {
	if d == nil || d.failure == nil {
		return
	}
	d.failure.WithLabelValues(normalizeLabel(mode)).Inc()
}

// AddEnvelopes counts envelopes the endpoint accepted.
func (d *DispatchMetrics) AddEnvelopes(mode string, n int) {
	if d == nil || d.envelopes == nil || n <= 0 {
		return
	}
	d.envelopes.WithLabelValues(normalizeLabel(mode)).Add(float64(n))
}

func normalizeLabel(mode string) string {
	if mode == "" {
		return "unknown"
	}
	return mode
}
