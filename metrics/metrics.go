package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "xcodebuild"

// Recorder collects the metrics of a step run into its own registry.
type Recorder struct {
	registry *prometheus.Registry

	attemptsTotal          *prometheus.CounterVec
	transientFailuresTotal *prometheus.CounterVec
	lastExitCode           *prometheus.GaugeVec
	tests                  *prometheus.GaugeVec
	testFailures           *prometheus.GaugeVec
}

// NewRecorder ...
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		attemptsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "attempts_total",
			Help:      "Number of xcodebuild runs, retries included",
		}, []string{"action"}),
		transientFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "transient_failures_total",
			Help:      "Number of xcodebuild runs failed with a known transient error",
		}, []string{"signature"}),
		lastExitCode: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_exit_code",
			Help:      "Exit code of the last xcodebuild run",
		}, []string{"action"}),
		tests: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "tests",
			Help:      "Number of test cases in the JUnit report",
		}, []string{"action"}),
		testFailures: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "test_failures",
			Help:      "Number of failed test cases in the JUnit report",
		}, []string{"action"}),
	}
}

// RecordInvocation records the outcome of a retried xcodebuild invocation.
func (r *Recorder) RecordInvocation(action string, attempts int, exitCode int, transientErrors []string) {
	r.attemptsTotal.WithLabelValues(action).Add(float64(attempts))
	r.lastExitCode.WithLabelValues(action).Set(float64(exitCode))
	for _, signature := range transientErrors {
		r.transientFailuresTotal.WithLabelValues(signature).Inc()
	}
}

// RecordTestReport ...
func (r *Recorder) RecordTestReport(action string, tests, failures int) {
	r.tests.WithLabelValues(action).Set(float64(tests))
	r.testFailures.WithLabelValues(action).Set(float64(failures))
}

// WriteTextfile writes the metrics in the Prometheus text format, for the node exporter's textfile collector.
func (r *Recorder) WriteTextfile(pth string) error {
	if err := prometheus.WriteToTextfile(pth, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", pth, err)
	}
	return nil
}
