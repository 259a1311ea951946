package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Parse outcomes for PointsParsedTotal.
const (
	ParseOK      = "ok"
	ParseIgnored = "ignored"
	ParseError   = "error"
)

// Spatial Prometheus metrics.
var (
	PointsParsedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "xydex",
			Name:      "points_parsed_total",
			Help:      "Total xy_point field values parsed, by outcome",
		},
		[]string{"result"}, // "ok" / "ignored" / "error"
	)

	QueriesCompiledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "xydex",
			Name:      "queries_compiled_total",
			Help:      "Total spatial queries compiled, by shape kind and outcome",
		},
		[]string{"shape", "result"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "xydex",
			Name:      "search_duration_seconds",
			Help:      "Spatial query execution duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"engine"},
	)
)

var spatialMetricsRegistered bool

// RegisterSpatialMetrics registers the spatial metrics. Must be called once from main.
func RegisterSpatialMetrics() {
	if spatialMetricsRegistered {
		return
	}
	prometheus.MustRegister(PointsParsedTotal)
	prometheus.MustRegister(QueriesCompiledTotal)
	prometheus.MustRegister(SearchDuration)
	spatialMetricsRegistered = true
}

// ObserveSearch records a search duration for an engine.
func ObserveSearch(engine string, start time.Time) {
	SearchDuration.WithLabelValues(engine).Observe(time.Since(start).Seconds())
}
