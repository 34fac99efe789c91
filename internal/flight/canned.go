package flight

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// Canned record values returned by the in-process services.
const (
	CannedFlightID  = "UA_343223"
	CannedDeparture = "01/14/2014 8:00 AM"
	CannedPilot     = "Captain Morgan"
	CannedModel     = "Boeing 747 RC"
	CannedStatus    = "onTime"
	CannedOutlook   = "rain"
)

// CannedFlightDetails returns the flight booked for user.
func CannedFlightDetails(user User) FlightDetails {
	return FlightDetails{
		UserID: user.Email,
		Flight: Flight{ID: CannedFlightID, Departure: CannedDeparture},
	}
}

// CannedPlane returns the plane operating flightID.
func CannedPlane(flightID string) Plane {
	return Plane{ID: flightID, Pilot: CannedPilot, Make: Make{Model: CannedModel}, Status: CannedStatus}
}

// CannedForecast returns the forecast for date.
func CannedForecast(date string) Forecast {
	return Forecast{Date: date, Forecast: CannedOutlook}
}

// Behavior shapes one canned call: Latency delays the reply and a non-nil
// Err replaces it.
type Behavior struct {
	Latency time.Duration
	Err     error
}

// ErrUnknownUser is returned for users the canned flight service has no
// booking for.
var ErrUnknownUser = errors.New("no flight booked for user")

func (b Behavior) wait(ctx context.Context) error {
	if b.Latency > 0 {
		timer := time.NewTimer(b.Latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return b.Err
}

// CannedFlightService is an in-process FlightService. An empty email is
// rejected with ErrUnknownUser; any other user gets the canned booking.
type CannedFlightService struct {
	Details Behavior
	Plane   Behavior

	detailCalls atomic.Int64
	planeCalls  atomic.Int64
}

// GetFlightDetails returns CannedFlightDetails(user).
func (s *CannedFlightService) GetFlightDetails(ctx context.Context, user User) (FlightDetails, error) {
	s.detailCalls.Add(1)
	if err := s.Details.wait(ctx); err != nil {
		return FlightDetails{}, err
	}
	if user.Email == "" {
		return FlightDetails{}, ErrUnknownUser
	}
	return CannedFlightDetails(user), nil
}

// GetPlaneDetails returns CannedPlane(flightID).
func (s *CannedFlightService) GetPlaneDetails(ctx context.Context, flightID string) (Plane, error) {
	s.planeCalls.Add(1)
	if err := s.Plane.wait(ctx); err != nil {
		return Plane{}, err
	}
	return CannedPlane(flightID), nil
}

// Calls returns how many times each method has been invoked.
func (s *CannedFlightService) Calls() (details, plane int64) {
	return s.detailCalls.Load(), s.planeCalls.Load()
}

// CannedWeatherService is an in-process WeatherService.
type CannedWeatherService struct {
	Forecast Behavior

	calls atomic.Int64
}

// GetForecast returns CannedForecast(date).
func (s *CannedWeatherService) GetForecast(ctx context.Context, date string) (Forecast, error) {
	s.calls.Add(1)
	if err := s.Forecast.wait(ctx); err != nil {
		return Forecast{}, err
	}
	return CannedForecast(date), nil
}

// Calls returns how many times GetForecast has been invoked.
func (s *CannedWeatherService) Calls() int64 { return s.calls.Load() }
