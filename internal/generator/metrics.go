package generator

import "github.com/prometheus/client_golang/prometheus"

var (
	generateTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ai4l",
			Subsystem: "generator",
			Name:      "requests_total",
			Help:      "Generation requests by model and outcome",
		},
		[]string{"model", "outcome"},
	)

	generateDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ai4l",
			Subsystem: "generator",
			Name:      "engine_duration_seconds",
			Help:      "Time spent in the engine per generation",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"model"},
	)
)

func init() {
	prometheus.MustRegister(generateTotal, generateDuration)
}
