package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// FriendRequestsTotal counts SendRequest outcomes: sent, duplicate, invalid, error.
	FriendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "red_social",
			Name:      "friend_requests_total",
			Help:      "Friend requests by outcome.",
		},
		[]string{"outcome"},
	)

	// FriendRequestTransitionsTotal counts accept/reject attempts by result.
	FriendRequestTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "red_social",
			Name:      "friend_request_transitions_total",
			Help:      "Accept and reject attempts by result.",
		},
		[]string{"action", "result"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "red_social",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "red_social",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

func init() {
	prometheus.MustRegister(
		FriendRequestsTotal,
		FriendRequestTransitionsTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
