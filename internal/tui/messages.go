package tui

import (
	"time"

	"github.com/agbru/flightdash/internal/sysmon"
)

// StepStartedMsg reports that a step of load Generation started.
type StepStartedMsg struct {
	Generation uint64
	Step       string
}

// StepSettledMsg reports that a step of load Generation settled.
type StepSettledMsg struct {
	Generation uint64
	Step       string
	Elapsed    time.Duration
	Err        error
}

// LoadDoneMsg is sent when load Generation reached its terminal event.
type LoadDoneMsg struct {
	Generation uint64
	Err        error
	Elapsed    time.Duration
}

// TickMsg drives host sampling.
type TickMsg time.Time

// SysStatsMsg carries one host sample.
type SysStatsMsg sysmon.Stats
