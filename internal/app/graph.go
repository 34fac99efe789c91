package app

import (
	"github.com/spf13/cobra"

	"github.com/agbru/flightdash/internal/cli"
	"github.com/agbru/flightdash/internal/dashboard"
	apperrors "github.com/agbru/flightdash/internal/errors"
	"github.com/agbru/flightdash/internal/flight"
	"github.com/agbru/flightdash/internal/ui"
)

func newGraphCommand() *cobra.Command {
	var mode string
	var noColor bool
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the load graph level by level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := dashboard.ParseMode(mode)
			if err != nil {
				return apperrors.ValidationError{Field: "--mode", Message: err.Error()}
			}
			loader, err := dashboard.NewLoader(&flight.CannedFlightService{}, &flight.CannedWeatherService{}, m)
			if err != nil {
				return err
			}
			ui.InitTheme(noColor)
			cli.NewPresenter().PresentGraph(cmd.OutOrStdout(), loader.Mode(), loader.Graph())
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(dashboard.ModeParallel), "load graph: parallel or sequential")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}
