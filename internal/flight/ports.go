package flight

//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks

import "context"

// FlightService looks up flights and the planes operating them.
type FlightService interface {
	GetFlightDetails(ctx context.Context, user User) (FlightDetails, error)
	GetPlaneDetails(ctx context.Context, flightID string) (Plane, error)
}

// WeatherService forecasts the weather for a departure date.
type WeatherService interface {
	GetForecast(ctx context.Context, date string) (Forecast, error)
}
