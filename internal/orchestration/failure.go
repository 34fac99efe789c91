package orchestration

import "fmt"

// FailureKind classifies where a run failed.
type FailureKind int

const (
	// RootFailure is a failure of a step without dependencies.
	RootFailure FailureKind = iota + 1
	// DependentFailure is a failure of a step started after its dependencies.
	DependentFailure
	// MergeFailure is an error or panic raised while building the output.
	MergeFailure
)

func (k FailureKind) String() string {
	switch k {
	case RootFailure:
		return "root"
	case DependentFailure:
		return "dependent"
	case MergeFailure:
		return "merge"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// MergeStepName is the Step reported for a MergeFailure.
const MergeStepName = "merge"

// Failure is the single failure reported for a run. Err is the underlying
// error exactly as the step produced it, or an errors.Join composite when
// failures are aggregated.
type Failure struct {
	RunID string
	Step  string
	Kind  FailureKind
	Err   error
	// Steps lists every failed step in settlement order. It has more than one
	// entry only in AggregateFailures mode.
	Steps []string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failure in step %q: %v", f.Kind, f.Step, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// String returns the text of the underlying error.
func (f *Failure) String() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}
