// Package metrics holds the prometheus collectors for lifecycle invocations.
//
// A Lambda function has no scrape endpoint, so collectors live in a private
// registry that can be pushed to a Pushgateway at the end of an invocation.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Invocation outcomes recorded in the status label.
const (
	StatusSuccess    = "SUCCESS"
	StatusFailed     = "FAILED"
	StatusUnreported = "UNREPORTED"
)

// Recorder collects invocation metrics.
type Recorder struct {
	registry *prometheus.Registry

	invocationsTotal *prometheus.CounterVec
	stepDuration     *prometheus.HistogramVec
	cleanupFailures  *prometheus.CounterVec
	callbackFailures prometheus.Counter
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		invocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "helm_handler",
				Subsystem: "lifecycle",
				Name:      "invocations_total",
				Help:      "Total number of lifecycle invocations by request type and status",
			},
			[]string{"request_type", "status"},
		),

		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "helm_handler",
				Subsystem: "lifecycle",
				Name:      "step_duration_seconds",
				Help:      "Duration of lifecycle steps in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~7min
			},
			[]string{"step", "result"},
		),

		cleanupFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "helm_handler",
				Subsystem: "lifecycle",
				Name:      "cleanup_failures_total",
				Help:      "Best-effort delete steps that failed and were ignored",
			},
			[]string{"step"},
		),

		callbackFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "helm_handler",
				Subsystem: "callback",
				Name:      "failures_total",
				Help:      "Responses that could not be delivered to CloudFormation",
			},
		),
	}

	r.registry.MustRegister(
		r.invocationsTotal,
		r.stepDuration,
		r.cleanupFailures,
		r.callbackFailures,
	)

	return r
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordInvocation counts a finished invocation.
func (r *Recorder) RecordInvocation(requestType, status string) {
	r.invocationsTotal.WithLabelValues(requestType, status).Inc()
}

// ObserveStep records how long a step took and whether it failed.
func (r *Recorder) ObserveStep(step string, d time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	r.stepDuration.WithLabelValues(step, result).Observe(d.Seconds())
}

// RecordCleanupFailure counts an ignored delete-path failure.
func (r *Recorder) RecordCleanupFailure(step string) {
	r.cleanupFailures.WithLabelValues(step).Inc()
}

// RecordCallbackFailure counts an undeliverable response.
func (r *Recorder) RecordCallbackFailure() {
	r.callbackFailures.Inc()
}

// Push sends the current values to a Pushgateway under job.
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
