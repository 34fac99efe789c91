package orchestration

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agbru/flightdash/internal/future"
)

// fakeStep simulates a fetch with a fixed latency and outcome.
type fakeStep struct {
	delay     time.Duration
	value     any
	err       error
	honourCtx bool

	calls  atomic.Int32
	mu     sync.Mutex
	gotCtx context.Context
	gotIn  Inputs
}

func (f *fakeStep) run(ctx context.Context, in Inputs) *future.Future[any] {
	f.calls.Add(1)
	f.mu.Lock()
	f.gotCtx, f.gotIn = ctx, in
	f.mu.Unlock()
	return future.Go(ctx, func(ctx context.Context) (any, error) {
		if f.honourCtx {
			select {
			case <-time.After(f.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		} else {
			time.Sleep(f.delay)
		}
		return f.value, f.err
	})
}

func (f *fakeStep) inputs() Inputs {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gotIn
}

func (f *fakeStep) ctx() context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gotCtx
}

// recordingSink counts Store calls and keeps the last value.
type recordingSink[S any] struct {
	mu     sync.Mutex
	stores int
	last   S
}

func (s *recordingSink[S]) Store(v S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores++
	s.last = v
}

func (s *recordingSink[S]) snapshot() (int, S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stores, s.last
}

// failureRecorder counts FailureSink deliveries.
type failureRecorder struct {
	mu       sync.Mutex
	failures []*Failure
}

func (r *failureRecorder) ReportFailure(_ context.Context, f *Failure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, f)
}

func (r *failureRecorder) all() []*Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Failure(nil), r.failures...)
}

type settledEvent struct {
	step string
	err  error
}

// recordingObserver keeps every event in arrival order.
type recordingObserver struct {
	mu       sync.Mutex
	started  []string
	settled  []settledEvent
	finished []error
}

func (o *recordingObserver) StepStarted(_, step string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = append(o.started, step)
}

func (o *recordingObserver) StepSettled(_, step string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.settled = append(o.settled, settledEvent{step: step, err: err})
}

func (o *recordingObserver) RunFinished(_ string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished = append(o.finished, err)
}

func (o *recordingObserver) startedSteps() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.started...)
}

func (o *recordingObserver) settledSteps() []settledEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]settledEvent(nil), o.settled...)
}

// fanoutMerge returns the terminal values in declaration order.
func fanoutMerge(s Snapshot) ([]any, error) { return s.Fanout(), nil }

// tutorialGraph builds root -> {plane, forecast}.
func tutorialGraph(t interface{ Fatalf(string, ...any) }, root, plane, forecast *fakeStep) *Graph {
	g, err := NewGraph(
		Step{Name: "root", Run: root.run},
		Step{Name: "plane", DependsOn: []string{"root"}, Run: plane.run},
		Step{Name: "forecast", DependsOn: []string{"root"}, Run: forecast.run},
	)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}
