package orchestration

import (
	"errors"
	"fmt"
)

// ErrMissingResult is returned when a step asks for a result that is not
// among its dependencies.
var ErrMissingResult = errors.New("no result for step")

// ErrResultType is returned when a value does not have the requested type.
var ErrResultType = errors.New("unexpected result type")

// Inputs is what a step receives: the run input and the Success values of
// its declared dependencies.
type Inputs struct {
	input   any
	results map[string]any
}

// Input returns the value passed to Start or Run.
func (in Inputs) Input() any { return in.input }

// Result returns the Success value of the named dependency.
func (in Inputs) Result(name string) (any, bool) {
	v, ok := in.results[name]
	return v, ok
}

// InputAs returns the run input as T.
func InputAs[T any](in Inputs) (T, error) {
	v, ok := in.input.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: input is %T, want %T", ErrResultType, in.input, zero)
	}
	return v, nil
}

// ResultAs returns the Success value of the named dependency as T.
func ResultAs[T any](in Inputs, name string) (T, error) {
	var zero T
	raw, ok := in.results[name]
	if !ok {
		return zero, fmt.Errorf("%w %q", ErrMissingResult, name)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("%w: step %q produced %T, want %T", ErrResultType, name, raw, zero)
	}
	return v, nil
}
