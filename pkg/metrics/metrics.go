package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics holds the request-level collectors wired into the router.
type HTTPMetrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestTotal    *prometheus.CounterVec
	ErrorTotal      *prometheus.CounterVec
}

func NewHTTPMetrics(prefix string) *HTTPMetrics {
	return &HTTPMetrics{
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		RequestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		ErrorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

// SweepMetrics counts missed-appointment sweep activity.
type SweepMetrics struct {
	Runs         prometheus.Counter
	MarkedMissed prometheus.Counter
	Failures     prometheus.Counter
}

func NewSweepMetrics() *SweepMetrics {
	return &SweepMetrics{
		Runs: promauto.NewCounter(prometheus.CounterOpts{
			Name: "appointment_sweep_runs_total",
			Help: "The total number of missed-appointment sweep runs",
		}),
		MarkedMissed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "appointment_sweep_marked_missed_total",
			Help: "The total number of appointments marked missed",
		}),
		Failures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "appointment_sweep_failures_total",
			Help: "The total number of failed sweep runs",
		}),
	}
}

// EmailMetrics counts email worker activity.
type EmailMetrics struct {
	Processed prometheus.Counter
	Failed    prometheus.Counter
}

func NewEmailMetrics() *EmailMetrics {
	return &EmailMetrics{
		Processed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "email_jobs_processed_total",
			Help: "The total number of processed email jobs",
		}),
		Failed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "email_jobs_failed_total",
			Help: "The total number of failed email jobs",
		}),
	}
}
