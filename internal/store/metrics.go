package store

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vim",
			Subsystem: "store",
			Name:      "requests_total",
			Help:      "Store round trips by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vim",
			Subsystem: "store",
			Name:      "request_duration_seconds",
			Help:      "Store round trip latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

func observe(op string, start time.Time, err error) {
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	var pe *PreconditionError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &pe):
		return "precondition"
	default:
		return "error"
	}
}
