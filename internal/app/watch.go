package app

import (
	"context"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/agbru/flightdash/internal/cli"
	"github.com/agbru/flightdash/internal/dashboard"
	apperrors "github.com/agbru/flightdash/internal/errors"
	"github.com/agbru/flightdash/internal/flight"
	"github.com/agbru/flightdash/internal/logging"
	"github.com/agbru/flightdash/internal/orchestration"
	"github.com/agbru/flightdash/internal/tui"
	"github.com/agbru/flightdash/internal/ui"
)

// WithProgramOptions passes extra options to the watch screen's program.
func WithProgramOptions(opts ...tea.ProgramOption) AppOption {
	return func(a *Application) { a.ProgramOptions = append(a.ProgramOptions, opts...) }
}

func newWatchCommand(a *Application) *cobra.Command {
	var noColor bool
	var cf *configFlags
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Interactive dashboard: watch each load and reload on demand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runWatch(cmd.Context(), cf, noColor)
		},
	}
	cf = addConfigFlags(cmd.Flags())
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

// runWatch runs the watch screen until the user quits. The screen owns the
// terminal, so failures are shown there and only logged through an injected
// logger.
func (a *Application) runWatch(ctx context.Context, cf *configFlags, noColor bool) error {
	cfg, err := a.resolveConfig(cf)
	if err != nil {
		return err
	}
	ui.InitTheme(noColor)
	logger := a.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	flights, weather := a.services(cfg)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	code := tui.Run(ctx, tui.Options{
		User:    flight.User{Email: cfg.User.Email},
		Mode:    cfg.Mode(),
		Version: Version,
		NewLoader: func(mode dashboard.Mode, obs orchestration.Observer) (*dashboard.Loader, error) {
			return dashboard.NewLoader(flights, weather, mode, orchestrationOptions(cfg, logger, obs)...)
		},
	}, a.ProgramOptions...)
	if code != apperrors.ExitSuccess {
		return cli.NewExitError(code, nil)
	}
	return nil
}
