// Package metrics exposes Prometheus counters for site activity.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "syucap"

var (
	signupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created",
	})

	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Login attempts by outcome",
	}, []string{"outcome"}) // outcome=success|failure|throttled

	postsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Posts created per category",
	}, []string{"category"})

	commentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_created_total",
		Help:      "Total number of comments created",
	})

	joinRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "join_requests_total",
		Help:      "Join request transitions by action",
	}, []string{"action"}) // action=requested|approved|rejected|cancelled

	groupsClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "groups_closed_total",
		Help:      "Groups that stopped accepting requests, by reason",
	}, []string{"reason"}) // reason=manual|full

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method and status code",
	}, []string{"method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

func RecordSignup() { signupsTotal.Inc() }

func RecordLogin(outcome string) { loginsTotal.WithLabelValues(outcome).Inc() }

func RecordPostCreated(category string) { postsCreated.WithLabelValues(category).Inc() }

func RecordCommentCreated() { commentsCreated.Inc() }

func RecordJoinRequest(action string) { joinRequests.WithLabelValues(action).Inc() }

func RecordGroupClosed(reason string) { groupsClosed.WithLabelValues(reason).Inc() }

// RecordHTTPRequest observes one served request.
func RecordHTTPRequest(method string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
