package orchestration

import "fmt"

// Snapshot holds the Success value of every step of one run. It is built
// only after all steps have succeeded and is handed to the merge function.
type Snapshot struct {
	order    []string
	terminal []string
	values   map[string]any
}

// Get returns the value produced by the named step.
func (s Snapshot) Get(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Values returns every step's value in declaration order.
func (s Snapshot) Values() []any {
	return s.pick(s.order)
}

// Fanout returns the values of the terminal steps in declaration order,
// independent of the order in which they completed.
func (s Snapshot) Fanout() []any {
	return s.pick(s.terminal)
}

func (s Snapshot) pick(names []string) []any {
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = s.values[n]
	}
	return out
}

// SnapshotValue returns the named step's value as T.
func SnapshotValue[T any](s Snapshot, name string) (T, error) {
	var zero T
	raw, ok := s.values[name]
	if !ok {
		return zero, fmt.Errorf("%w %q", ErrMissingResult, name)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("%w: step %q produced %T, want %T", ErrResultType, name, raw, zero)
	}
	return v, nil
}
