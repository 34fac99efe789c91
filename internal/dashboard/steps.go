package dashboard

import (
	"context"
	"fmt"

	"github.com/agbru/flightdash/internal/flight"
	"github.com/agbru/flightdash/internal/future"
	"github.com/agbru/flightdash/internal/orchestration"
	"github.com/agbru/flightdash/internal/spread"
)

// Step names, also used as keys for fixtures and metrics labels.
const (
	StepFlight   = "flight"
	StepPlane    = "plane"
	StepForecast = "forecast"
)

// Mode selects the shape of the load graph.
type Mode string

const (
	// ModeParallel fetches plane and forecast concurrently once the flight
	// is known.
	ModeParallel Mode = "parallel"
	// ModeSequential fetches plane, then forecast.
	ModeSequential Mode = "sequential"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeParallel, ModeSequential:
		return m, nil
	case "":
		return ModeParallel, nil
	default:
		return "", fmt.Errorf("unknown load mode %q (want %q or %q)", s, ModeParallel, ModeSequential)
	}
}

// Steps returns the load graph steps for mode, in declaration order
// flight, plane, forecast.
func Steps(flights flight.FlightService, weather flight.WeatherService, mode Mode) []orchestration.Step {
	forecastDeps := []string{StepFlight}
	if mode == ModeSequential {
		forecastDeps = []string{StepFlight, StepPlane}
	}
	return []orchestration.Step{
		{
			Name: StepFlight,
			Run: func(ctx context.Context, in orchestration.Inputs) *future.Future[any] {
				user, err := orchestration.InputAs[flight.User](in)
				if err != nil {
					return future.Rejected[any](err)
				}
				return future.Erase(future.Go(ctx, func(ctx context.Context) (flight.FlightDetails, error) {
					return flights.GetFlightDetails(ctx, user)
				}))
			},
		},
		{
			Name:      StepPlane,
			DependsOn: []string{StepFlight},
			Run: func(ctx context.Context, in orchestration.Inputs) *future.Future[any] {
				details, err := orchestration.ResultAs[flight.FlightDetails](in, StepFlight)
				if err != nil {
					return future.Rejected[any](err)
				}
				return future.Erase(future.Go(ctx, func(ctx context.Context) (flight.Plane, error) {
					return flights.GetPlaneDetails(ctx, details.Flight.ID)
				}))
			},
		},
		{
			Name:      StepForecast,
			DependsOn: forecastDeps,
			Run: func(ctx context.Context, in orchestration.Inputs) *future.Future[any] {
				details, err := orchestration.ResultAs[flight.FlightDetails](in, StepFlight)
				if err != nil {
					return future.Rejected[any](err)
				}
				return future.Erase(future.Go(ctx, func(ctx context.Context) (flight.Forecast, error) {
					return weather.GetForecast(ctx, details.Flight.Departure)
				}))
			},
		},
	}
}

// buildView spreads the step values, in declaration order, into a View.
var buildView = spread.Apply3(func(details flight.FlightDetails, plane flight.Plane, info flight.Forecast) (View, error) {
	fl := details.Flight
	outlook := info.Forecast
	return View{Flight: &fl, Plane: &plane, Forecast: &outlook}, nil
})

// Merge builds the View from a complete run.
func Merge(s orchestration.Snapshot) (View, error) {
	return buildView(s.Values())
}
