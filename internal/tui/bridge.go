package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/flightdash/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so orchestration goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe). It is a
// no-op before SetProgram.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// loadObserver forwards the step events of one load to the program.
type loadObserver struct {
	ref        *programRef
	generation uint64
}

var _ orchestration.Observer = loadObserver{}

func (o loadObserver) StepStarted(_, step string) {
	o.ref.Send(StepStartedMsg{Generation: o.generation, Step: step})
}

func (o loadObserver) StepSettled(_, step string, elapsed time.Duration, err error) {
	o.ref.Send(StepSettledMsg{Generation: o.generation, Step: step, Elapsed: elapsed, Err: err})
}

// RunFinished is covered by LoadDoneMsg, which also carries the error.
func (o loadObserver) RunFinished(string, time.Duration, error) {}
