package orchestration

import (
	"context"
	"errors"
	"fmt"

	"github.com/agbru/flightdash/internal/future"
)

// Graph definition errors. A *GraphError wraps exactly one of these.
var (
	ErrEmptyGraph        = errors.New("graph has no steps")
	ErrInvalidStep       = errors.New("invalid step")
	ErrDuplicateStep     = errors.New("duplicate step name")
	ErrUnknownDependency = errors.New("unknown dependency")
	ErrCycle             = errors.New("dependency cycle")
)

// GraphError reports an invalid graph definition. It is returned at
// construction time, before any step has been invoked.
type GraphError struct {
	Step string
	Err  error
}

func (e *GraphError) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("graph definition: %v", e.Err)
	}
	return fmt.Sprintf("graph definition: step %q: %v", e.Step, e.Err)
}

func (e *GraphError) Unwrap() error { return e.Err }

// StepFunc starts one fetch and returns its Future. It must not block: the
// orchestrator calls every ready step in declaration order from a single
// goroutine before waiting on any of them.
type StepFunc func(ctx context.Context, in Inputs) *future.Future[any]

// Step is a named asynchronous fetch with its dependencies.
type Step struct {
	Name      string
	DependsOn []string
	Run       StepFunc
}

// Graph is a validated, immutable set of steps. The zero value is not usable;
// build one with NewGraph.
type Graph struct {
	steps    []Step
	index    map[string]int
	terminal []string
}

// NewGraph validates steps and returns the Graph.
//
// Validation rejects an empty step list, steps without a name or Run
// function, duplicate names, dependencies on undeclared steps and cycles
// (a step depending on itself included). Repeated entries in one DependsOn
// list are collapsed.
func NewGraph(steps ...Step) (*Graph, error) {
	if len(steps) == 0 {
		return nil, &GraphError{Err: ErrEmptyGraph}
	}

	g := &Graph{
		steps: make([]Step, len(steps)),
		index: make(map[string]int, len(steps)),
	}
	for i, s := range steps {
		if s.Name == "" {
			return nil, &GraphError{Err: fmt.Errorf("%w: step %d has no name", ErrInvalidStep, i)}
		}
		if s.Run == nil {
			return nil, &GraphError{Step: s.Name, Err: fmt.Errorf("%w: nil Run", ErrInvalidStep)}
		}
		if _, dup := g.index[s.Name]; dup {
			return nil, &GraphError{Step: s.Name, Err: ErrDuplicateStep}
		}
		g.index[s.Name] = i
		g.steps[i] = Step{Name: s.Name, DependsOn: dedupe(s.DependsOn), Run: s.Run}
	}

	hasDependents := make(map[string]bool, len(steps))
	for _, s := range g.steps {
		for _, dep := range s.DependsOn {
			if _, ok := g.index[dep]; !ok {
				return nil, &GraphError{Step: s.Name, Err: fmt.Errorf("%w %q", ErrUnknownDependency, dep)}
			}
			hasDependents[dep] = true
		}
	}

	if name, found := g.findCycle(); found {
		return nil, &GraphError{Step: name, Err: ErrCycle}
	}

	for _, s := range g.steps {
		if !hasDependents[s.Name] {
			g.terminal = append(g.terminal, s.Name)
		}
	}
	return g, nil
}

func dedupe(deps []string) []string {
	if len(deps) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(deps))
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

// findCycle runs a DFS with white/gray/black marking over the dependency
// edges and returns a step on the first cycle found.
func (g *Graph) findCycle() (string, bool) {
	const (
		white = iota
		gray
		black
	)
	colors := make([]int, len(g.steps))

	var visit func(i int) (string, bool)
	visit = func(i int) (string, bool) {
		colors[i] = gray
		for _, dep := range g.steps[i].DependsOn {
			j := g.index[dep]
			switch colors[j] {
			case gray:
				return g.steps[j].Name, true
			case white:
				if name, found := visit(j); found {
					return name, true
				}
			}
		}
		colors[i] = black
		return "", false
	}

	for i := range g.steps {
		if colors[i] == white {
			if name, found := visit(i); found {
				return name, true
			}
		}
	}
	return "", false
}

// Len returns the number of steps.
func (g *Graph) Len() int { return len(g.steps) }

// Steps returns a copy of the steps in declaration order.
func (g *Graph) Steps() []Step {
	out := make([]Step, len(g.steps))
	copy(out, g.steps)
	return out
}

// Step returns the step with the given name.
func (g *Graph) Step(name string) (Step, bool) {
	i, ok := g.index[name]
	if !ok {
		return Step{}, false
	}
	return g.steps[i], true
}

// Roots returns the names of steps without dependencies, in declaration order.
func (g *Graph) Roots() []string {
	var out []string
	for _, s := range g.steps {
		if len(s.DependsOn) == 0 {
			out = append(out, s.Name)
		}
	}
	return out
}

// Terminal returns the names of steps nothing depends on, in declaration order.
func (g *Graph) Terminal() []string {
	return append([]string(nil), g.terminal...)
}

// Levels groups step names by depth: level 0 holds the roots and a step's
// level is one more than its deepest dependency. Names keep declaration
// order within a level.
func (g *Graph) Levels() [][]string {
	depth := make([]int, len(g.steps))
	done := make([]bool, len(g.steps))
	var depthOf func(i int) int
	depthOf = func(i int) int {
		if done[i] {
			return depth[i]
		}
		d := 0
		for _, dep := range g.steps[i].DependsOn {
			if dd := depthOf(g.index[dep]) + 1; dd > d {
				d = dd
			}
		}
		depth[i], done[i] = d, true
		return d
	}

	var levels [][]string
	for i, s := range g.steps {
		d := depthOf(i)
		for len(levels) <= d {
			levels = append(levels, nil)
		}
		levels[d] = append(levels[d], s.Name)
	}
	return levels
}
