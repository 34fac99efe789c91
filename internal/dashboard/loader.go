package dashboard

import (
	"context"

	"github.com/agbru/flightdash/internal/flight"
	"github.com/agbru/flightdash/internal/future"
	"github.com/agbru/flightdash/internal/orchestration"
)

// Loader loads the dashboard for a user through an orchestrator.
type Loader struct {
	mode Mode
	orch *orchestration.Orchestrator[View]
}

// NewLoader builds the load graph for mode over the given services.
func NewLoader(flights flight.FlightService, weather flight.WeatherService, mode Mode, opts ...orchestration.Option) (*Loader, error) {
	g, err := orchestration.NewGraph(Steps(flights, weather, mode)...)
	if err != nil {
		return nil, err
	}
	orch, err := orchestration.New(g, Merge, opts...)
	if err != nil {
		return nil, err
	}
	return &Loader{mode: mode, orch: orch}, nil
}

// Mode returns the graph shape the loader runs.
func (l *Loader) Mode() Mode { return l.mode }

// Graph returns the load graph.
func (l *Loader) Graph() *orchestration.Graph { return l.orch.Graph() }

// Load fetches everything for user and stores it on d. On failure d is left
// unchanged and the returned error is the *orchestration.Failure that was
// reported.
func (l *Loader) Load(ctx context.Context, user flight.User, d *Dashboard) error {
	if d == nil {
		return orchestration.ErrNilSink
	}
	return l.orch.Run(ctx, user, d)
}

// Start is the asynchronous form of Load.
func (l *Loader) Start(ctx context.Context, user flight.User, d *Dashboard) *future.Future[struct{}] {
	if d == nil {
		return future.Rejected[struct{}](orchestration.ErrNilSink)
	}
	return l.orch.Start(ctx, user, d)
}
