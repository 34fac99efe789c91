package app

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/agbru/flightdash/internal/cli"
	apperrors "github.com/agbru/flightdash/internal/errors"
	"github.com/agbru/flightdash/internal/flight"
	"github.com/agbru/flightdash/internal/logging"
)

// Application represents the flightdash application instance.
type Application struct {
	// Flights and Weather replace the canned services built from the
	// fixture configuration when set.
	Flights flight.FlightService
	Weather flight.WeatherService
	// Logger replaces the logger built from the log configuration.
	Logger logging.Logger
	// Spinner replaces the terminal spinner shown while loading.
	Spinner cli.Spinner
	// DotEnv is the .env file read before the environment.
	DotEnv string
	// ProgramOptions are passed to the watch screen.
	ProgramOptions []tea.ProgramOption
	ErrWriter      io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithServices sets the flight and weather services used by load.
func WithServices(flights flight.FlightService, weather flight.WeatherService) AppOption {
	return func(a *Application) {
		a.Flights = flights
		a.Weather = weather
	}
}

// WithLogger sets a fixed logger.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// WithSpinner sets the spinner used for load progress.
func WithSpinner(s cli.Spinner) AppOption {
	return func(a *Application) { a.Spinner = s }
}

// WithDotEnv sets the .env file to load.
func WithDotEnv(path string) AppOption {
	return func(a *Application) { a.DotEnv = path }
}

// New creates a new Application writing diagnostics to errWriter.
func New(errWriter io.Writer, opts ...AppOption) *Application {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.ErrWriter == nil {
		app.ErrWriter = io.Discard
	}
	return app
}

// NewRootCommand builds the flightdash command tree.
func NewRootCommand(a *Application) *cobra.Command {
	root := &cobra.Command{
		Use:   "flightdash",
		Short: "Load the travel dashboard with a root fetch and a fan-out of dependent fetches",
		Long: `flightdash loads a travel dashboard for a user:
  1. flight   - look up the user's flight
  2. plane    - fetch the plane operating that flight
  3. forecast - fetch the weather at departure

plane and forecast run concurrently in parallel mode. The dashboard is
written once, after every fetch succeeded; any failure is reported once.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("flightdash {{.Version}}\n")
	root.AddCommand(newLoadCommand(a), newWatchCommand(a), newGraphCommand(), newVersionCommand())
	return root
}

// Run executes the command line args and returns the process exit code.
func (a *Application) Run(ctx context.Context, args []string, out io.Writer) int {
	root := NewRootCommand(a)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(a.ErrWriter)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return apperrors.ExitSuccess
	}
	// Exit errors were already presented by the command.
	if code, ok := cli.IsExitError(err); ok {
		return code
	}
	fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
	// Anything else is a usage or flag error.
	if code := apperrors.ExitCode(err); code != apperrors.ExitErrorGeneric {
		return code
	}
	return apperrors.ExitErrorConfig
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			PrintVersion(cmd.OutOrStdout())
		},
	}
}
