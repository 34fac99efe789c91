package orchestration

import (
	"context"
	"time"

	"github.com/agbru/flightdash/internal/logging"
)

// OutputSink receives the merged output of a successful run. Store is
// called at most once per run, after every step has succeeded, and the
// implementation must apply the value as one unit so readers never observe
// a partially-applied merge.
//
// Runs sharing a sink must be serialised by the caller.
type OutputSink[S any] interface {
	Store(value S)
}

// OutputSinkFunc is a function adapter that implements OutputSink.
type OutputSinkFunc[S any] func(value S)

// Store calls the underlying function.
func (f OutputSinkFunc[S]) Store(value S) { f(value) }

// FailureSink is the single destination for run failures. It is called at
// most once per run and never together with OutputSink.Store.
type FailureSink interface {
	ReportFailure(ctx context.Context, failure *Failure)
}

// FailureSinkFunc is a function adapter that implements FailureSink.
type FailureSinkFunc func(ctx context.Context, failure *Failure)

// ReportFailure calls the underlying function.
func (f FailureSinkFunc) ReportFailure(ctx context.Context, failure *Failure) { f(ctx, failure) }

// LogFailureSink logs the failure text at error level.
type LogFailureSink struct {
	Logger logging.Logger
}

// ReportFailure logs the failure with its run, step and kind.
func (s LogFailureSink) ReportFailure(_ context.Context, failure *Failure) {
	logger := s.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	logger.Error(failure.String(), failure.Err,
		logging.String("run_id", failure.RunID),
		logging.String("step", failure.Step),
		logging.String("kind", failure.Kind.String()),
	)
}

// Observer receives per-step and per-run events. Events are informational
// and sit outside the atomic output contract: StepSettled may fire for steps
// whose values are never written. Implementations must be safe for
// concurrent use.
type Observer interface {
	StepStarted(runID, step string)
	StepSettled(runID, step string, elapsed time.Duration, err error)
	RunFinished(runID string, elapsed time.Duration, err error)
}

// NullObserver is a no-op Observer.
type NullObserver struct{}

// StepStarted does nothing.
func (NullObserver) StepStarted(string, string) {}

// StepSettled does nothing.
func (NullObserver) StepSettled(string, string, time.Duration, error) {}

// RunFinished does nothing.
func (NullObserver) RunFinished(string, time.Duration, error) {}

// Observers fans every event out to each Observer in order.
type Observers []Observer

// StepStarted forwards the event.
func (o Observers) StepStarted(runID, step string) {
	for _, obs := range o {
		obs.StepStarted(runID, step)
	}
}

// StepSettled forwards the event.
func (o Observers) StepSettled(runID, step string, elapsed time.Duration, err error) {
	for _, obs := range o {
		obs.StepSettled(runID, step, elapsed, err)
	}
}

// RunFinished forwards the event.
func (o Observers) RunFinished(runID string, elapsed time.Duration, err error) {
	for _, obs := range o {
		obs.RunFinished(runID, elapsed, err)
	}
}
