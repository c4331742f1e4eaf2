package parser

import "github.com/prometheus/client_golang/prometheus"

var (
	parseResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "queryd",
			Subsystem: "parser",
			Name:      "results_total",
			Help:      "Parse outcomes by kind",
		},
		[]string{"outcome"},
	)

	generationRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "queryd",
			Subsystem: "parser",
			Name:      "generation_retries_total",
			Help:      "Generation attempts beyond the first",
		},
	)

	generationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "queryd",
			Subsystem: "parser",
			Name:      "generation_duration_seconds",
			Help:      "Wall time of successful generations",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(parseResults, generationRetries, generationDuration)
}

// outcome labels for parseResults
const (
	outcomeOK         = "ok"
	outcomeCached     = "cached"
	outcomeGeneration = "generation_failed"
	outcomeNoJSON     = "no_json"
	outcomeBadJSON    = "bad_json"
)

func classify(res map[string]any) string {
	switch res["error"] {
	case nil:
		return outcomeOK
	case msgNoJSON:
		return outcomeNoJSON
	case msgBadJSON:
		return outcomeBadJSON
	default:
		return outcomeGeneration
	}
}
