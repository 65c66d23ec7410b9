package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitcenter_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitcenter_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	EnrollmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitcenter_enrollments_total",
			Help: "Total number of enrollment attempts",
		},
		[]string{"result"},
	)

	DropsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitcenter_enrollment_drops_total",
			Help: "Total number of enrollment drops",
		},
	)

	MembersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitcenter_members_created_total",
			Help: "Total number of member signups",
		},
	)

	ClassesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitcenter_classes_created_total",
			Help: "Total number of classes created",
		},
	)

	CapacityInconsistencies = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitcenter_capacity_inconsistencies_total",
			Help: "Times a class was observed with more enrollments than capacity",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordEnrollment(result string) {
	EnrollmentsTotal.WithLabelValues(result).Inc()
}

func RecordDrop() {
	DropsTotal.Inc()
}

func RecordMemberCreated() {
	MembersCreatedTotal.Inc()
}

func RecordClassCreated() {
	ClassesCreatedTotal.Inc()
}

func RecordCapacityInconsistency() {
	CapacityInconsistencies.Inc()
}
