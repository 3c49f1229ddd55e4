// internal/observability/metrics.go
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the prediction collectors. Each process builds one set on its
// own registry.
type Metrics struct {
	Registry    *prometheus.Registry
	Predictions *prometheus.CounterVec
	Errors      *prometheus.CounterVec
	Duration    prometheus.Histogram
	ModelInfo   *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourism_predictions_total",
			Help: "Predictions served, by label.",
		}, []string{"label"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourism_prediction_errors_total",
			Help: "Rejected prediction requests, by kind.",
		}, []string{"kind"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tourism_prediction_duration_seconds",
			Help:    "Time spent encoding and scoring one record.",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		ModelInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tourism_model_info",
			Help: "Loaded classifier artifact.",
		}, []string{"name", "version"}),
	}
	reg.MustRegister(
		m.Predictions,
		m.Errors,
		m.Duration,
		m.ModelInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// NewServer exposes only /metrics, for processes without an HTTP API.
func (m *Metrics) NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
