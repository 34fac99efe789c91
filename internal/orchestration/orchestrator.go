package orchestration

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/flightdash/internal/future"
	"github.com/agbru/flightdash/internal/logging"
)

const tracerName = "github.com/agbru/flightdash/internal/orchestration"

// ErrNilSink is returned by Start and Run when no OutputSink is given. No
// run is started and no failure is delivered.
var ErrNilSink = errors.New("nil output sink")

// MergeFunc builds the value written to the OutputSink from the results of
// a run in which every step succeeded. A returned error or a panic becomes a
// MergeFailure and the sink is left untouched.
type MergeFunc[S any] func(Snapshot) (S, error)

// Orchestrator executes a Graph and funnels its outcome into exactly one
// terminal event per run: a single OutputSink.Store on success or a single
// FailureSink.ReportFailure on failure.
//
// An Orchestrator is immutable after New and may run concurrently, as long as
// concurrent runs do not share a sink.
type Orchestrator[S any] struct {
	graph *Graph
	merge MergeFunc[S]
	opts  options
}

// New returns an Orchestrator for g that merges results with merge.
//
// Parameters:
//   - g: The validated step graph.
//   - merge: Builds the sink value from a complete Snapshot.
//   - opts: Failure sink, observer, logger, tracer and policy overrides.
//
// Returns:
//   - *Orchestrator[S]: The orchestrator.
//   - error: A *GraphError if g or merge is nil.
func New[S any](g *Graph, merge MergeFunc[S], opts ...Option) (*Orchestrator[S], error) {
	if g == nil {
		return nil, &GraphError{Err: fmt.Errorf("%w: nil graph", ErrEmptyGraph)}
	}
	if merge == nil {
		return nil, &GraphError{Step: MergeStepName, Err: fmt.Errorf("%w: nil merge function", ErrInvalidStep)}
	}
	o := options{
		observer: NullObserver{},
		logger:   logging.Nop(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.failures == nil {
		o.failures = LogFailureSink{Logger: o.logger}
	}
	return &Orchestrator[S]{graph: g, merge: merge, opts: o}, nil
}

// Graph returns the graph the orchestrator runs.
func (o *Orchestrator[S]) Graph() *Graph { return o.graph }

// Start begins a run and returns a Future that settles after the terminal
// event, with nil on success or the delivered *Failure.
func (o *Orchestrator[S]) Start(ctx context.Context, input any, sink OutputSink[S]) *future.Future[struct{}] {
	if sink == nil {
		return future.Rejected[struct{}](ErrNilSink)
	}
	return future.Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, o.Run(ctx, input, sink)
	})
}

// Run executes one run and blocks until its terminal event has been
// delivered.
//
// Steps without dependencies start first; a step starts only once every
// dependency has produced a value. Ready steps are called in declaration
// order and all of them settle before the next stage begins or the run
// reports. If any step fails, no later step starts, the sink is not touched
// and the returned *Failure is the one handed to the FailureSink.
//
// If ctx is done while steps are in flight the run fails with ctx's error
// attributed to the first unsettled step.
func (o *Orchestrator[S]) Run(ctx context.Context, input any, sink OutputSink[S]) error {
	if sink == nil {
		return ErrNilSink
	}
	r := &run{
		id:      uuid.NewString(),
		input:   input,
		started: make(map[string]bool, o.graph.Len()),
		results: make(map[string]any, o.graph.Len()),
	}
	ctx, span := o.opts.tracer.Start(ctx, "orchestration.run", trace.WithAttributes(
		attribute.String("run.id", r.id),
		attribute.Int("run.steps", o.graph.Len()),
	))
	defer span.End()

	begin := time.Now()
	o.opts.logger.Debug("run started", logging.String("run_id", r.id), logging.Int("steps", o.graph.Len()))

	failure := o.drive(ctx, r)
	if failure == nil {
		value, err := o.callMerge(r.snapshot(o.graph))
		if err != nil {
			failure = &Failure{RunID: r.id, Step: MergeStepName, Kind: MergeFailure, Err: err, Steps: []string{MergeStepName}}
		} else {
			sink.Store(value)
		}
	}
	elapsed := time.Since(begin)

	if failure != nil {
		o.opts.observer.RunFinished(r.id, elapsed, failure)
		span.RecordError(failure)
		span.SetStatus(codes.Error, failure.Kind.String()+" failure")
		o.opts.logger.Debug("run failed",
			logging.String("run_id", r.id),
			logging.String("step", failure.Step),
			logging.Float64("seconds", elapsed.Seconds()),
		)
		o.opts.failures.ReportFailure(ctx, failure)
		return failure
	}

	o.opts.observer.RunFinished(r.id, elapsed, nil)
	span.SetStatus(codes.Ok, "")
	o.opts.logger.Debug("run finished", logging.String("run_id", r.id), logging.Float64("seconds", elapsed.Seconds()))
	return nil
}

// run is the state of one execution. It is only touched by the goroutine
// driving the run.
type run struct {
	id      string
	input   any
	started map[string]bool
	results map[string]any
}

func (r *run) inputsFor(step Step) Inputs {
	results := make(map[string]any, len(step.DependsOn))
	for _, dep := range step.DependsOn {
		results[dep] = r.results[dep]
	}
	return Inputs{input: r.input, results: results}
}

func (r *run) snapshot(g *Graph) Snapshot {
	order := make([]string, len(g.steps))
	for i, s := range g.steps {
		order[i] = s.Name
	}
	return Snapshot{order: order, terminal: g.terminal, values: r.results}
}

// drive runs stages of ready steps until every step has a value or a stage
// fails.
func (o *Orchestrator[S]) drive(ctx context.Context, r *run) *Failure {
	for {
		ready := o.ready(r)
		if len(ready) == 0 {
			return nil
		}
		if failure := o.runStage(ctx, r, ready); failure != nil {
			return failure
		}
	}
}

// ready returns, in declaration order, the steps not yet started whose
// dependencies all have values.
func (o *Orchestrator[S]) ready(r *run) []Step {
	var out []Step
	for _, s := range o.graph.steps {
		if r.started[s.Name] {
			continue
		}
		satisfied := true
		for _, dep := range s.DependsOn {
			if _, ok := r.results[dep]; !ok {
				satisfied = false
				break
			}
		}
		if satisfied {
			out = append(out, s)
		}
	}
	return out
}

// runStage starts every ready step, waits for all of them to settle and
// records their values. It returns the stage's Failure, if any.
func (o *Orchestrator[S]) runStage(ctx context.Context, r *run, ready []Step) *Failure {
	stageCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var watchers sync.WaitGroup
	futures := make([]*future.Future[any], len(ready))
	for i, step := range ready {
		r.started[step.Name] = true
		futures[i] = o.launch(stageCtx, r, step, cancel, &watchers)
	}

	settled, err := future.JoinAllSettled(ctx, futures...).Await(ctx)
	if err != nil {
		return interrupted(r.id, ready, futures, err)
	}
	watchers.Wait()

	var failed []int
	for i, res := range settled {
		if res.Err != nil {
			failed = append(failed, i)
			continue
		}
		r.results[ready[i].Name] = res.Value
	}
	if len(failed) == 0 {
		return nil
	}

	first, _ := future.FirstFailure(settled)
	failure := &Failure{
		RunID: r.id,
		Step:  ready[first].Name,
		Kind:  kindOf(ready[first]),
		Err:   settled[first].Err,
		Steps: []string{ready[first].Name},
	}
	if o.opts.policy.FailureMode == AggregateFailures && len(failed) > 1 {
		sort.SliceStable(failed, func(a, b int) bool {
			return settled[failed[a]].Seq() < settled[failed[b]].Seq()
		})
		errs := make([]error, len(failed))
		names := make([]string, len(failed))
		for i, idx := range failed {
			errs[i] = settled[idx].Err
			names[i] = ready[idx].Name
		}
		failure.Err = errors.Join(errs...)
		failure.Steps = names
	}
	return failure
}

// launch calls one step and watches its Future to close the step span,
// notify the observer and, under CancelSiblingsOnFailure, cancel the stage.
func (o *Orchestrator[S]) launch(ctx context.Context, r *run, step Step, cancel context.CancelCauseFunc, watchers *sync.WaitGroup) *future.Future[any] {
	stepCtx, span := o.opts.tracer.Start(ctx, "orchestration.step", trace.WithAttributes(
		attribute.String("run.id", r.id),
		attribute.String("step.name", step.Name),
		attribute.Int("step.dependencies", len(step.DependsOn)),
	))
	o.opts.observer.StepStarted(r.id, step.Name)
	begin := time.Now()
	f := invoke(stepCtx, step, r.inputsFor(step))

	watchers.Add(1)
	go func() {
		defer watchers.Done()
		<-f.Done()
		err := f.Err()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if o.opts.policy.CancelSiblingsOnFailure {
				cancel(fmt.Errorf("sibling step %q failed: %w", step.Name, err))
			}
		}
		span.End()
		o.opts.observer.StepSettled(r.id, step.Name, time.Since(begin), err)
	}()
	return f
}

func invoke(ctx context.Context, step Step, in Inputs) (f *future.Future[any]) {
	defer func() {
		if rec := recover(); rec != nil {
			f = future.Rejected[any](&future.PanicError{Value: rec, Stack: debug.Stack()})
		}
	}()
	if f = step.Run(ctx, in); f == nil {
		return future.Rejected[any](fmt.Errorf("step %q returned %w", step.Name, future.ErrNilFuture))
	}
	return f
}

func (o *Orchestrator[S]) callMerge(snap Snapshot) (value S, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &future.PanicError{Value: rec, Stack: debug.Stack()}
		}
	}()
	return o.merge(snap)
}

// interrupted builds the Failure for a stage abandoned because the run
// context ended.
func interrupted(runID string, ready []Step, futures []*future.Future[any], err error) *Failure {
	step := ready[0]
	for i, f := range futures {
		if !f.Settled() {
			step = ready[i]
			break
		}
	}
	return &Failure{RunID: runID, Step: step.Name, Kind: kindOf(step), Err: err, Steps: []string{step.Name}}
}

func kindOf(step Step) FailureKind {
	if len(step.DependsOn) == 0 {
		return RootFailure
	}
	return DependentFailure
}
