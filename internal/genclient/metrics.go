package genclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"ai4l/internal/session"
)

var (
	clientRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ai4l",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Generation calls issued by the client, by outcome",
		},
		[]string{"outcome"},
	)

	clientRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ai4l",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Duration of generation calls in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(clientRequestsTotal, clientRequestDuration)
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case session.IsResponseShape(err):
		return "response_shape"
	default:
		return "transport"
	}
}

func observe(err error, d time.Duration) {
	o := outcomeLabel(err)
	clientRequestsTotal.WithLabelValues(o).Inc()
	clientRequestDuration.WithLabelValues(o).Observe(d.Seconds())
}
