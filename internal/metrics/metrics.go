package metrics

import (
	"errors"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/agbru/flightdash/internal/orchestration"
	"github.com/agbru/flightdash/internal/sysmon"
)

// Run outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Collector records orchestration events. It implements
// orchestration.Observer and is safe for concurrent use.
type Collector struct {
	registry     *prometheus.Registry
	runs         *prometheus.CounterVec
	runDuration  prometheus.Histogram
	stepDuration *prometheus.HistogramVec
	stepFailures *prometheus.CounterVec
	stepsRunning prometheus.Gauge
}

var _ orchestration.Observer = (*Collector)(nil)

// NewCollector returns a Collector registered on its own registry, together
// with the process memory and host usage gauges.
func NewCollector() *Collector {
	return NewCollectorWithSampler(sysmon.Host{})
}

// NewCollectorWithSampler is NewCollector reading host usage from s.
func NewCollectorWithSampler(s sysmon.Sampler) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flightdash_runs_total",
			Help: "Dashboard loads by outcome and failure kind.",
		}, []string{"outcome", "kind"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "flightdash_run_duration_seconds",
			Help:    "Time from run start to its terminal event.",
			Buckets: prometheus.DefBuckets,
		}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flightdash_step_duration_seconds",
			Help:    "Time from step start to settlement.",
			Buckets: prometheus.DefBuckets,
		}, []string{"step"}),
		stepFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flightdash_step_failures_total",
			Help: "Steps that settled with an error.",
		}, []string{"step"}),
		stepsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flightdash_steps_running",
			Help: "Steps started and not yet settled.",
		}),
	}
	c.registry.MustRegister(c.runs, c.runDuration, c.stepDuration, c.stepFailures, c.stepsRunning)
	registerMemory(c.registry, NewMemoryCollector())
	registerHost(c.registry, s)
	return c
}

// Registry returns the registry holding every metric of c.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// StepStarted counts the step as running.
func (c *Collector) StepStarted(_, _ string) {
	c.stepsRunning.Inc()
}

// StepSettled records the step's duration and failure.
func (c *Collector) StepSettled(_, step string, elapsed time.Duration, err error) {
	c.stepsRunning.Dec()
	c.stepDuration.WithLabelValues(step).Observe(elapsed.Seconds())
	if err != nil {
		c.stepFailures.WithLabelValues(step).Inc()
	}
}

// RunFinished records the run's outcome and duration.
func (c *Collector) RunFinished(_ string, elapsed time.Duration, err error) {
	c.runDuration.Observe(elapsed.Seconds())
	outcome, kind := OutcomeSuccess, "none"
	if err != nil {
		outcome, kind = OutcomeFailure, "unknown"
		var f *orchestration.Failure
		if errors.As(err, &f) {
			kind = f.Kind.String()
		}
	}
	c.runs.WithLabelValues(outcome, kind).Inc()
}

// WriteText writes every metric to w in the Prometheus text format.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
