package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/flightdash/internal/orchestration"
)

// SpinnerRefreshRate is how often the spinner redraws.
const SpinnerRefreshRate = 100 * time.Millisecond

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// Spinner abstracts a terminal spinner so progress output can be tested
// without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

// UpdateSuffix takes the spinner's lock because the animation goroutine
// reads Suffix concurrently.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], SpinnerRefreshRate, options...)
	return &realSpinner{s}
}

// ProgressObserver shows load progress on a spinner. It implements
// orchestration.Observer; the suffix lists the steps still in flight and the
// number of settled steps.
type ProgressObserver struct {
	mu      sync.Mutex
	spinner Spinner
	total   int
	settled int
	failed  int
	running []string
}

var _ orchestration.Observer = (*ProgressObserver)(nil)

// NewProgressObserver returns an observer for a graph of total steps. A nil
// spinner selects the terminal spinner writing to stderr.
func NewProgressObserver(s Spinner, total int) *ProgressObserver {
	if s == nil {
		s = newSpinner(spinner.WithWriterFile(os.Stderr))
	}
	return &ProgressObserver{spinner: s, total: total}
}

// Start starts the spinner.
func (p *ProgressObserver) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.spinner.UpdateSuffix(p.suffix())
	p.spinner.Start()
}

// Stop stops the spinner.
func (p *ProgressObserver) Stop() {
	p.spinner.Stop()
}

// StepStarted adds step to the in-flight list.
func (p *ProgressObserver) StepStarted(_, step string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = append(p.running, step)
	p.spinner.UpdateSuffix(p.suffix())
}

// StepSettled removes step from the in-flight list.
func (p *ProgressObserver) StepSettled(_, step string, _ time.Duration, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, name := range p.running {
		if name == step {
			p.running = append(p.running[:i], p.running[i+1:]...)
			break
		}
	}
	p.settled++
	if err != nil {
		p.failed++
	}
	p.spinner.UpdateSuffix(p.suffix())
}

// RunFinished does nothing; the caller stops the spinner.
func (p *ProgressObserver) RunFinished(string, time.Duration, error) {}

func (p *ProgressObserver) suffix() string {
	var b strings.Builder
	b.WriteString(" loading")
	if len(p.running) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(p.running, ", "))
	}
	fmt.Fprintf(&b, " (%d/%d)", p.settled, p.total)
	if p.failed > 0 {
		fmt.Fprintf(&b, " %d failed", p.failed)
	}
	return b.String()
}
