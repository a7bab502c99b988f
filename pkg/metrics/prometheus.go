package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	ticksTotal      prometheus.Counter
	deliveriesTotal *prometheus.CounterVec
	fetchErrors     *prometheus.CounterVec
	lastPrice       *prometheus.GaugeVec
	fetchLatency    *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		ticksTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stocksentry_ticks_total",
				Help: "Total number of scheduler ticks",
			},
		),
		deliveriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksentry_deliveries_total",
				Help: "Total number of digest delivery attempts",
			},
			[]string{"result"},
		),
		fetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksentry_fetch_errors_total",
				Help: "Total number of collaborator fetch failures",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stocksentry_last_price",
				Help: "Last recorded price for a ticker",
			},
			[]string{"ticker"},
		),
		fetchLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stocksentry_fetch_duration_seconds",
				Help:    "Duration of collaborator calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordTick records one scheduler tick.
func (r *Recorder) RecordTick() {
	r.ticksTotal.Inc()
}

// RecordDelivery records a digest delivery attempt. Chat ids are not used as
// labels to keep cardinality bounded.
func (r *Recorder) RecordDelivery(_ string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	r.deliveriesTotal.WithLabelValues(result).Inc()
}

// RecordFetchError records a collaborator failure.
func (r *Recorder) RecordFetchError(kind string) {
	r.fetchErrors.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a ticker.
func (r *Recorder) RecordLastPrice(ticker string, price float64) {
	r.lastPrice.WithLabelValues(ticker).Set(price)
}

// RecordFetchLatency records collaborator call latency in seconds.
func (r *Recorder) RecordFetchLatency(op string, seconds float64) {
	r.fetchLatency.WithLabelValues(op).Observe(seconds)
}
