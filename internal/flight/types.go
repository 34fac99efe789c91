package flight

// User identifies who the dashboard is loaded for.
type User struct {
	Email string `json:"email" yaml:"email"`
}

// DefaultUser is the user the canned services know about.
var DefaultUser = User{Email: "ThomasBurleson@Gmail.com"}

// Flight is a single booked flight.
type Flight struct {
	ID        string `json:"id"`
	Departure string `json:"departure"`
}

// FlightDetails links a user to their flight.
type FlightDetails struct {
	UserID string `json:"userID"`
	Flight Flight `json:"flight"`
}

// Make describes the aircraft model.
type Make struct {
	Model string `json:"model"`
}

// Plane is the aircraft operating a flight.
type Plane struct {
	ID     string `json:"id"`
	Pilot  string `json:"pilot"`
	Make   Make   `json:"make"`
	Status string `json:"status"`
}

// Forecast is the weather expected at departure.
type Forecast struct {
	Date     string `json:"date"`
	Forecast string `json:"forecast"`
}
