package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal      *prometheus.CounterVec
	questionsCreatedTotal  prometheus.Counter
	responsesRecordedTotal prometheus.Counter
	orphanResponsesTotal   prometheus.Counter
	responsesByBucketTotal *prometheus.CounterVec
	registerOnce           sync.Once
)

// Register initializes Prometheus metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the polling API.",
		}, []string{"method", "path", "status"})
		questionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "questions_created_total",
			Help:      "Questions created together with their choices.",
		})
		responsesRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "responses_recorded_total",
			Help:      "Responses stored, linked or not.",
		})
		orphanResponsesTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "orphan_responses_total",
			Help:      "Responses stored for a choice id that matched nothing.",
		})
		responsesByBucketTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polling",
			Name:      "responses_by_bucket_total",
			Help:      "Linked responses per demographic dimension and value.",
		}, []string{"dimension", "value"})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func IncQuestionsCreated() {
	if questionsCreatedTotal == nil {
		return
	}
	questionsCreatedTotal.Inc()
}

// IncResponse counts a stored response; orphan marks one that was not linked.
func IncResponse(orphan bool) {
	if responsesRecordedTotal == nil {
		return
	}
	responsesRecordedTotal.Inc()
	if orphan {
		orphanResponsesTotal.Inc()
	}
}

func ObserveBucket(dimension, value string) {
	if responsesByBucketTotal == nil {
		return
	}
	responsesByBucketTotal.WithLabelValues(dimension, value).Inc()
}
