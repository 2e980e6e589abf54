package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the calculator's Prometheus collectors.
type Recorder struct {
	registry *prometheus.Registry

	Requests  *prometheus.CounterVec
	Duration  *prometheus.HistogramVec
	Branches  prometheus.Histogram
	Rejected  *prometheus.CounterVec
	Simulated prometheus.Counter
}

// New registers the collectors on a fresh registry, plus the Go runtime
// and process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raisehell_requests_total",
				Help: "Total number of calculator operations",
			},
			[]string{"op"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "raisehell_compute_duration_seconds",
				Help:    "Duration of calculator operations",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"op"},
		),
		Branches: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "raisehell_terminal_branches",
				Help:    "Terminal branches visited per exact distribution",
				Buckets: prometheus.ExponentialBuckets(1, 8, 10),
			},
		),
		Rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raisehell_rejected_total",
				Help: "Requests refused before computing",
			},
			[]string{"op", "reason"},
		),
		Simulated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "raisehell_simulated_cascades_total",
				Help: "Random cascades played by the sampler",
			},
		),
	}
	r.registry.MustRegister(
		r.Requests, r.Duration, r.Branches, r.Rejected, r.Simulated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Observe records one finished operation.
func (r *Recorder) Observe(op string, started time.Time) {
	if r == nil {
		return
	}
	r.Requests.WithLabelValues(op).Inc()
	r.Duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// ObserveBranches records the size of one enumeration.
func (r *Recorder) ObserveBranches(n uint64) {
	if r == nil {
		return
	}
	r.Branches.Observe(float64(n))
}

// Reject counts a refused request.
func (r *Recorder) Reject(op, reason string) {
	if r == nil {
		return
	}
	r.Rejected.WithLabelValues(op, reason).Inc()
}

// AddSimulated counts sampled cascades.
func (r *Recorder) AddSimulated(n int) {
	if r == nil {
		return
	}
	r.Simulated.Add(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
