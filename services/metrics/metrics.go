package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// JobName is the Pushgateway job label
const JobName = "labubu_watcher"

// Metrics holds the counters of one process. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	FetchAttempts *prometheus.CounterVec
	FetchFailures *prometheus.CounterVec
	Matches       *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	JobDuration   *prometheus.HistogramVec
}

// New registers the watcher metrics on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FetchAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "watcher_fetch_attempts_total",
				Help: "Total number of page fetch attempts.",
			},
			[]string{"target"},
		),
		FetchFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "watcher_fetch_failures_total",
				Help: "Total number of fetches that exhausted their retries.",
			},
			[]string{"target"},
		),
		Matches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "watcher_matches_total",
				Help: "Total number of detected signals.",
			},
			[]string{"target", "category"},
		),
		Notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "watcher_notifications_total",
				Help: "Total number of notification deliveries.",
			},
			[]string{"target", "status"}, // status: sent, failed
		),
		JobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "watcher_job_duration_seconds",
				Help:    "Duration of watch jobs.",
				Buckets: []float64{1, 5, 10, 15, 30, 60, 120, 300},
			},
			[]string{"target"},
		),
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// FetchAttempt counts one fetch attempt
func (m *Metrics) FetchAttempt(target string) {
	if m == nil {
		return
	}
	m.FetchAttempts.WithLabelValues(target).Inc()
}

// FetchFailed counts one exhausted fetch
func (m *Metrics) FetchFailed(target string) {
	if m == nil {
		return
	}
	m.FetchFailures.WithLabelValues(target).Inc()
}

// Match counts one detected signal
func (m *Metrics) Match(target, category string) {
	if m == nil {
		return
	}
	m.Matches.WithLabelValues(target, category).Inc()
}

// Notified counts one delivery outcome
func (m *Metrics) Notified(target string, err error) {
	if m == nil {
		return
	}
	status := "sent"
	if err != nil {
		status = "failed"
	}
	m.Notifications.WithLabelValues(target, status).Inc()
}

// ObserveJob records how long a job took
func (m *Metrics) ObserveJob(target string, d time.Duration) {
	if m == nil {
		return
	}
	m.JobDuration.WithLabelValues(target).Observe(d.Seconds())
}

// Push sends every metric to a Pushgateway, replacing the job's previous push
func (m *Metrics) Push(url string) error {
	if m == nil || url == "" {
		return nil
	}
	if err := push.New(url, JobName).Gatherer(m.registry).Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
