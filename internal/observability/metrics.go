package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// condition ingestion pipeline.
type Metrics struct {
	RefreshCycles   prometheus.Counter
	ResortRefreshes *prometheus.CounterVec // labels: outcome={ok,error}
	FetchRequests   *prometheus.CounterVec // labels: outcome={ok,not_modified,error}
	CacheHits       prometheus.Counter
	WeatherFallback prometheus.Counter

	RefreshDuration prometheus.Histogram
	ResortScore     *prometheus.GaugeVec // label: resort
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RefreshCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "snowday",
			Name:      "refresh_cycles_total",
			Help:      "Total completed refresh cycles across all resorts.",
		}),
		ResortRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snowday",
			Name:      "resort_refreshes_total",
			Help:      "Per-resort refresh attempts by outcome.",
		}, []string{"outcome"}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snowday",
			Name:      "fetch_requests_total",
			Help:      "Report page fetches by outcome.",
		}, []string{"outcome"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "snowday",
			Name:      "validation_cache_hits_total",
			Help:      "Fetches answered from the validation cache via HTTP 304.",
		}),
		WeatherFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "snowday",
			Name:      "weather_fallback_total",
			Help:      "Records whose wind/temperature came from the weather fallback.",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "snowday",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete all-resort refresh cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		ResortScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "snowday",
			Name:      "resort_score",
			Help:      "Most recent conditions score per resort.",
		}, []string{"resort"}),
	}

	prometheus.MustRegister(
		m.RefreshCycles,
		m.ResortRefreshes,
		m.FetchRequests,
		m.CacheHits,
		m.WeatherFallback,
		m.RefreshDuration,
		m.ResortScore,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RefreshCycles:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "snowday", Name: "refresh_cycles_total"}),
		ResortRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "snowday", Name: "resort_refreshes_total"}, []string{"outcome"}),
		FetchRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "snowday", Name: "fetch_requests_total"}, []string{"outcome"}),
		CacheHits:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "snowday", Name: "validation_cache_hits_total"}),
		WeatherFallback: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "snowday", Name: "weather_fallback_total"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "snowday", Name: "refresh_duration_seconds"}),
		ResortScore:     prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "snowday", Name: "resort_score"}, []string{"resort"}),
	}
}
