package notifications

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deliveryAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moe_delivery_attempts_total",
		Help: "Delivery attempts per channel and result",
	}, []string{"channel", "result"})

	notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moe_notifications_total",
		Help: "Finished notifications per channel and termination reason",
	}, []string{"channel", "reason"})

	deliveryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "moe_delivery_duration_seconds",
		Help:    "Time spent delivering a notification, retries included",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"channel"})
)

func attemptResult(a Attempt) string {
	switch {
	case a.Success():
		return "accepted"
	case a.HTTPStatus != 0:
		return "rejected"
	}
	return "transport_error"
}
