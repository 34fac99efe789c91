package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agbru/flightdash/internal/dashboard"
	"github.com/agbru/flightdash/internal/flight"
	"github.com/agbru/flightdash/internal/orchestration"
	"github.com/agbru/flightdash/internal/ui"
)

func init() {
	ui.InitTheme(true)
}

func TestPresentView(t *testing.T) {
	details := flight.CannedFlightDetails(flight.DefaultUser)
	plane := flight.CannedPlane(details.Flight.ID)
	forecast := flight.CannedForecast(details.Flight.Departure).Forecast
	v := dashboard.View{Flight: &details.Flight, Plane: &plane, Forecast: &forecast}

	var buf bytes.Buffer
	NewPresenter().PresentView(&buf, flight.DefaultUser.Email, v, 12*time.Millisecond)

	out := buf.String()
	for _, want := range []string{
		"Travel dashboard", flight.DefaultUser.Email,
		details.Flight.ID, details.Flight.Departure,
		plane.Pilot, plane.Make.Model, plane.Status, forecast,
		"Loaded in 12ms",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got:\n%s", want, out)
		}
	}
}

func TestPresentView_Placeholders(t *testing.T) {
	var buf bytes.Buffer
	NewPresenter().PresentView(&buf, "nobody", dashboard.View{}, time.Millisecond)
	if n := strings.Count(buf.String(), placeholder); n != 6 {
		t.Errorf("expected 6 placeholders, got %d:\n%s", n, buf.String())
	}
}

func TestPresentFailure(t *testing.T) {
	tests := []struct {
		name     string
		failure  *orchestration.Failure
		contains []string
	}{
		{
			name: "single",
			failure: &orchestration.Failure{
				RunID: "run-1", Step: "forecast", Kind: orchestration.DependentFailure,
				Err: errors.New("forecast unavailable"),
			},
			contains: []string{"Load failed:", "forecast unavailable", "dependent failure in forecast", "run-1"},
		},
		{
			name: "aggregate",
			failure: &orchestration.Failure{
				RunID: "run-2", Step: "plane", Kind: orchestration.DependentFailure,
				Err:   errors.Join(errors.New("a"), errors.New("b")),
				Steps: []string{"plane", "forecast"},
			},
			contains: []string{"plane, forecast"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPresenter().PresentFailure(&buf, tt.failure, time.Millisecond)
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output should contain %q, got:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestPresentGraph(t *testing.T) {
	flights := &flight.CannedFlightService{}
	weather := &flight.CannedWeatherService{}

	tests := []struct {
		mode  dashboard.Mode
		lines []string
	}{
		{dashboard.ModeParallel, []string{"flight root", "  plane after flight", "  forecast after flight"}},
		{dashboard.ModeSequential, []string{"flight root", "  plane after flight", "    forecast after flight, plane"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			l, err := dashboard.NewLoader(flights, weather, tt.mode)
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			NewPresenter().PresentGraph(&buf, tt.mode, l.Graph())
			out := buf.String()
			if !strings.Contains(out, "Load graph ("+string(tt.mode)+")") {
				t.Errorf("missing title:\n%s", out)
			}
			for _, want := range tt.lines {
				if !strings.Contains(out, want+"\n") {
					t.Errorf("output should contain line %q, got:\n%s", want, out)
				}
			}
		})
	}
}
