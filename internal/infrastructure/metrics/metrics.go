// Package metrics exposes report computation measurements as Prometheus
// collectors and pushes them to a Pushgateway at the end of a CLI run.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "attendance_regularity"

// Collector implements query.ReportMetrics.
type Collector struct {
	registry *prometheus.Registry

	reports         *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	studentFailures *prometheus.CounterVec
	students        *prometheus.GaugeVec
}

// NewCollector creates the collectors and registers them on a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Course reports requested, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_duration_seconds",
			Help:      "Time spent producing a course report.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"outcome"}),
		studentFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "student_failures_total",
			Help:      "Students whose statistics could not be computed.",
		}, []string{"course_id"}),
		students: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "students",
			Help:      "Students per regularity status in the last computed report.",
		}, []string{"course_id", "status"}),
	}
	c.registry.MustRegister(c.reports, c.duration, c.studentFailures, c.students)
	return c
}

// Registry returns the registry holding the collectors.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveReport counts a report request and records its latency.
func (c *Collector) ObserveReport(outcome string, elapsed time.Duration) {
	c.reports.WithLabelValues(outcome).Inc()
	c.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveStudentFailures adds n failed students for the course.
func (c *Collector) ObserveStudentFailures(courseID string, n int) {
	if n <= 0 {
		return
	}
	c.studentFailures.WithLabelValues(courseID).Add(float64(n))
}

// ObserveStatus sets the status gauges of the course.
func (c *Collector) ObserveStatus(courseID string, regular, atRisk, withdrawn int) {
	c.students.WithLabelValues(courseID, "regular").Set(float64(regular))
	c.students.WithLabelValues(courseID, "at_risk").Set(float64(atRisk))
	c.students.WithLabelValues(courseID, "withdrawn").Set(float64(withdrawn))
}

// Push sends the registry to a Pushgateway under the given job name.
func (c *Collector) Push(ctx context.Context, gatewayURL, job string) error {
	err := push.New(gatewayURL, job).
		Gatherer(c.registry).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("metrics: push to %s: %w", gatewayURL, err)
	}
	return nil
}
