package dashboard

import (
	"sync"

	"github.com/agbru/flightdash/internal/flight"
)

// View is one consistent state of the dashboard. Nil fields have not been
// loaded.
type View struct {
	Flight   *flight.Flight `json:"flight"`
	Plane    *flight.Plane  `json:"plane"`
	Forecast *string        `json:"forecast"`
}

// Loaded reports whether every field has been set.
func (v View) Loaded() bool {
	return v.Flight != nil && v.Plane != nil && v.Forecast != nil
}

// Dashboard holds the current View. It implements
// orchestration.OutputSink[View]: Store replaces all fields under one lock so
// readers never see a mix of two loads.
type Dashboard struct {
	mu      sync.RWMutex
	view    View
	commits int
}

// Store replaces the current view.
func (d *Dashboard) Store(v View) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view = v
	d.commits++
}

// View returns the current view.
func (d *Dashboard) View() View {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.view
}

// Commits returns how many times the view has been replaced.
func (d *Dashboard) Commits() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.commits
}
