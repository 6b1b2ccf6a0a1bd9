package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	apiRequestsTotal       *prometheus.CounterVec
	apiLatencySeconds      *prometheus.HistogramVec
	apiErrorsTotal         *prometheus.CounterVec
	activitiesTotal        *prometheus.CounterVec
	activityFeedTotal      *prometheus.CounterVec
	applicationsTotal      *prometheus.CounterVec
	activityFeedLatencySec prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crm_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		activitiesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_activities_recorded_total",
			Help: "Activity records written to the audit trail, by type.",
		}, []string{"type"})

		activityFeedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_activity_feed_requests_total",
			Help: "Recent-activity feed lookups by cache outcome.",
		}, []string{"result"})

		applicationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_job_applications_total",
			Help: "Job applications received, by outcome.",
		}, []string{"outcome"})

		activityFeedLatencySec = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "crm_activity_feed_latency_seconds",
			Help:    "Latency distribution for recent-activity feed lookups.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			activitiesTotal,
			activityFeedTotal,
			applicationsTotal,
			activityFeedLatencySec,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// ActivitiesRecorded exposes the per-type counter of audit records written.
func ActivitiesRecorded() *prometheus.CounterVec {
	RegisterMetrics()
	return activitiesTotal
}

// ActivityFeedRequests exposes the cache hit/miss counter for the feed.
func ActivityFeedRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return activityFeedTotal
}

// JobApplications exposes the counter for received applications.
func JobApplications() *prometheus.CounterVec {
	RegisterMetrics()
	return applicationsTotal
}

// ActivityFeedLatency exposes the feed lookup latency histogram.
func ActivityFeedLatency() prometheus.Histogram {
	RegisterMetrics()
	return activityFeedLatencySec
}
