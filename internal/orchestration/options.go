package orchestration

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/flightdash/internal/logging"
)

// FailureMode selects how failures of concurrently running steps are reported.
type FailureMode int

const (
	// FirstFailure reports the earliest-settled failure only.
	FirstFailure FailureMode = iota
	// AggregateFailures reports every failure of the failing stage in one
	// Failure whose Err is an errors.Join composite in settlement order.
	AggregateFailures
)

func (m FailureMode) String() string {
	if m == AggregateFailures {
		return "aggregate"
	}
	return "first"
}

// Policy tunes failure handling. The zero value waits for every started
// step and reports the first failure.
type Policy struct {
	// CancelSiblingsOnFailure cancels the context handed to steps running
	// alongside a failed step. Cancelled steps still settle before the run
	// reports.
	CancelSiblingsOnFailure bool
	FailureMode             FailureMode
}

// Option configures an Orchestrator.
type Option func(*options)

type options struct {
	failures FailureSink
	observer Observer
	logger   logging.Logger
	tracer   trace.Tracer
	policy   Policy
}

// WithFailureSink sets where run failures are delivered. The default logs
// them through the orchestrator's logger.
func WithFailureSink(sink FailureSink) Option {
	return func(o *options) {
		if sink != nil {
			o.failures = sink
		}
	}
}

// WithObserver adds an Observer. It may be given more than once.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs == nil {
			return
		}
		if multi, ok := o.observer.(Observers); ok {
			o.observer = append(multi, obs)
			return
		}
		if _, isNull := o.observer.(NullObserver); isNull {
			o.observer = obs
			return
		}
		o.observer = Observers{o.observer, obs}
	}
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracer sets the tracer used for run and step spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithPolicy sets the failure handling policy.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}
