package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges shared by the
// pipeline and the weather collector.
type Metrics struct {
	RowsExtracted      *prometheus.CounterVec // labels: table={shipments,weather,cities}
	ShipmentsJoined    prometheus.Counter
	ShipmentsUnmatched prometheus.Counter
	TransformErrors    prometheus.Counter
	BucketsProduced    prometheus.Gauge
	PipelineRunning    prometheus.Gauge
	RunDuration        prometheus.Histogram

	// Weather collection metrics.
	WeatherFetches       *prometheus.CounterVec // labels: outcome={success,error,skipped}
	WeatherFetchDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fuel_etl",
			Name:      "rows_extracted_total",
			Help:      "Rows read from each input table.",
		}, []string{"table"}),
		ShipmentsJoined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fuel_etl",
			Name:      "shipments_joined_total",
			Help:      "Shipments that matched a weather observation.",
		}),
		ShipmentsUnmatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fuel_etl",
			Name:      "shipments_unmatched_total",
			Help:      "Shipments left without weather data after the join.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fuel_etl",
			Name:      "transform_errors_total",
			Help:      "Failed processing runs.",
		}),
		BucketsProduced: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fuel_etl",
			Name:      "buckets_produced",
			Help:      "Temperature buckets formed in the last run (1-4).",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fuel_etl",
			Name:      "pipeline_running",
			Help:      "1 while a run is active, 0 otherwise.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fuel_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extract-transform-load run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		WeatherFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fuel_etl",
			Name:      "weather_fetches_total",
			Help:      "Per-city weather fetch attempts by outcome.",
		}, []string{"outcome"}),
		WeatherFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fuel_etl",
			Name:      "weather_fetch_duration_seconds",
			Help:      "Open-Meteo archive request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.RowsExtracted,
		m.ShipmentsJoined,
		m.ShipmentsUnmatched,
		m.TransformErrors,
		m.BucketsProduced,
		m.PipelineRunning,
		m.RunDuration,
		m.WeatherFetches,
		m.WeatherFetchDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RowsExtracted:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fuel_etl", Name: "rows_extracted_total"}, []string{"table"}),
		ShipmentsJoined:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fuel_etl", Name: "shipments_joined_total"}),
		ShipmentsUnmatched:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fuel_etl", Name: "shipments_unmatched_total"}),
		TransformErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fuel_etl", Name: "transform_errors_total"}),
		BucketsProduced:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fuel_etl", Name: "buckets_produced"}),
		PipelineRunning:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fuel_etl", Name: "pipeline_running"}),
		RunDuration:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fuel_etl", Name: "run_duration_seconds"}),
		WeatherFetches:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fuel_etl", Name: "weather_fetches_total"}, []string{"outcome"}),
		WeatherFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fuel_etl", Name: "weather_fetch_duration_seconds"}),
	}
}
