package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agbru/flightdash/internal/dashboard"
	"github.com/agbru/flightdash/internal/orchestration"
	"github.com/agbru/flightdash/internal/ui"
)

// Presenter renders dashboards, failures and graphs with the current theme.
type Presenter struct {
	styles ui.Styles
}

// NewPresenter returns a Presenter using the active ui theme.
func NewPresenter() Presenter {
	return Presenter{styles: ui.GetCurrentTheme().Styles()}
}

const placeholder = "n/a"

// PresentView writes the dashboard. Fields that were never loaded show a
// placeholder.
func (p Presenter) PresentView(out io.Writer, user string, v dashboard.View, elapsed time.Duration) {
	s := p.styles
	row := func(label, value string) string {
		return s.Label.Render(label) + s.Value.Render(value)
	}

	flightID, departure := placeholder, placeholder
	if v.Flight != nil {
		flightID, departure = v.Flight.ID, v.Flight.Departure
	}
	pilot, model, status := placeholder, placeholder, placeholder
	if v.Plane != nil {
		pilot, model, status = v.Plane.Pilot, v.Plane.Make.Model, v.Plane.Status
	}
	forecast := placeholder
	if v.Forecast != nil {
		forecast = *v.Forecast
	}

	lines := []string{
		s.Title.Render("Travel dashboard") + " " + s.Dim.Render(user),
		"",
		row("Flight", flightID),
		row("Departs", departure),
		row("Pilot", pilot),
		row("Aircraft", model),
		row("Status", status),
		row("Forecast", forecast),
	}
	fmt.Fprintln(out, s.Box.Render(strings.Join(lines, "\n")))
	fmt.Fprintln(out, s.Success.Render("Loaded in "+FormatExecutionDuration(elapsed)))
}

// PresentFailure writes the funnelled failure.
func (p Presenter) PresentFailure(out io.Writer, f *orchestration.Failure, elapsed time.Duration) {
	s := p.styles
	fmt.Fprintf(out, "%s %s\n", s.Error.Render("Load failed:"), f.String())
	steps := f.Step
	if len(f.Steps) > 1 {
		steps = strings.Join(f.Steps, ", ")
	}
	fmt.Fprintln(out, s.Dim.Render(fmt.Sprintf("%s failure in %s after %s (run %s)",
		f.Kind, steps, FormatExecutionDuration(elapsed), f.RunID)))
}

// PresentGraph writes the steps of g level by level.
func (p Presenter) PresentGraph(out io.Writer, mode dashboard.Mode, g *orchestration.Graph) {
	s := p.styles
	fmt.Fprintln(out, s.Title.Render(fmt.Sprintf("Load graph (%s)", mode)))
	for depth, level := range g.Levels() {
		for _, name := range level {
			step, _ := g.Step(name)
			deps := s.Dim.Render("root")
			if len(step.DependsOn) > 0 {
				deps = s.Dim.Render("after " + strings.Join(step.DependsOn, ", "))
			}
			fmt.Fprintf(out, "%s%s %s\n", strings.Repeat("  ", depth), s.Value.Render(name), deps)
		}
	}
}
