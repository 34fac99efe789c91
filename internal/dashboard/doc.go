// Package dashboard loads the travel dashboard: the user's flight, the plane
// operating it and the departure forecast. The three records are fetched
// through the flight service ports and written to a Dashboard in one
// update, or not at all.
package dashboard
