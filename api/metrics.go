package api

import (
	"context"
	"errors"
	"time"

	"github.com/go-bond/algoperf"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "algoperf"

const (
	statusOK      = "ok"
	statusUnknown = "unknown_algorithm"
	statusFailed  = "failed"
)

type Metrics struct {
	benchmarks *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		benchmarks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "benchmarks_total",
			Help:      "Number of benchmark runs by algorithm and outcome.",
		}, []string{"algorithm", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "benchmark_duration_seconds",
			Help:      "Wall time of complete benchmark runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"algorithm"}),
	}

	if reg != nil {
		reg.MustRegister(m.benchmarks, m.duration)
	}
	return m
}

type instrumentedService struct {
	Service
	metrics *Metrics
}

// WithMetrics records every Benchmark call of svc in m.
func WithMetrics(svc Service, m *Metrics) Service {
	return &instrumentedService{Service: svc, metrics: m}
}

func (s *instrumentedService) Benchmark(ctx context.Context, algorithmID string) (*algoperf.Report, error) {
	start := time.Now()
	report, err := s.Service.Benchmark(ctx, algorithmID)

	switch {
	case err == nil:
		s.metrics.benchmarks.WithLabelValues(algorithmID, statusOK).Inc()
		s.metrics.duration.WithLabelValues(algorithmID).Observe(time.Since(start).Seconds())
	case errors.Is(err, algoperf.ErrUnknownAlgorithm):
		// unknown ids are caller supplied; keep them out of the label set
		s.metrics.benchmarks.WithLabelValues("", statusUnknown).Inc()
	default:
		s.metrics.benchmarks.WithLabelValues(algorithmID, statusFailed).Inc()
	}
	return report, err
}
