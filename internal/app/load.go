package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agbru/flightdash/internal/cli"
	"github.com/agbru/flightdash/internal/dashboard"
	apperrors "github.com/agbru/flightdash/internal/errors"
	"github.com/agbru/flightdash/internal/flight"
	"github.com/agbru/flightdash/internal/metrics"
	"github.com/agbru/flightdash/internal/orchestration"
	"github.com/agbru/flightdash/internal/ui"
)

// Output formats accepted by load --output.
const (
	OutputText = "text"
	OutputJSON = "json"
)

type loadFlags struct {
	*configFlags
	metrics bool
	quiet   bool
	noColor bool
	output  string
}

func newLoadCommand(a *Application) *cobra.Command {
	lf := &loadFlags{}
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load and print the travel dashboard",
		Example: `  flightdash load
  flightdash load --mode sequential
  flightdash load --fail forecast="forecast unavailable" --latency plane=200ms
  flightdash load --aggregate --fail plane=grounded --fail forecast=unavailable`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runLoad(cmd.Context(), cmd.OutOrStdout(), lf)
		},
	}

	f := cmd.Flags()
	lf.configFlags = addConfigFlags(f)
	f.BoolVar(&lf.metrics, "metrics", false, "print prometheus metrics after the load")
	f.BoolVarP(&lf.quiet, "quiet", "q", false, "no progress spinner")
	f.BoolVar(&lf.noColor, "no-color", false, "disable colored output")
	f.StringVarP(&lf.output, "output", "o", OutputText, "output format: text or json")
	return cmd
}

// runLoad orchestrates the execution of the load command.
func (a *Application) runLoad(ctx context.Context, out io.Writer, lf *loadFlags) error {
	if lf.output != OutputText && lf.output != OutputJSON {
		return apperrors.ValidationError{Field: "--output", Message: fmt.Sprintf("unknown format %q", lf.output)}
	}
	cfg, err := a.resolveConfig(lf.configFlags)
	if err != nil {
		return err
	}

	ui.InitTheme(lf.noColor)
	logger := a.logger(cfg.Log)
	flights, weather := a.services(cfg)
	mode := cfg.Mode()

	collector := metrics.NewCollector()
	opts := orchestrationOptions(cfg, logger, collector)
	var progress *cli.ProgressObserver
	if !lf.quiet && lf.output == OutputText {
		progress = cli.NewProgressObserver(a.Spinner, len(dashboard.Steps(flights, weather, mode)))
		opts = append(opts, orchestration.WithObserver(progress))
	}

	loader, err := dashboard.NewLoader(flights, weather, mode, opts...)
	if err != nil {
		return err
	}

	// Setup lifecycle (timeout + signals)
	if cfg.Load.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, cfg.Load.Timeout)
		defer cancelTimeout()
	}
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	user := flight.User{Email: cfg.User.Email}
	board := &dashboard.Dashboard{}
	start := time.Now()
	if progress != nil {
		progress.Start()
	}
	loadErr := loader.Load(ctx, user, board)
	if progress != nil {
		progress.Stop()
	}
	elapsed := time.Since(start)

	presenter := cli.NewPresenter()
	if loadErr != nil {
		var failure *orchestration.Failure
		if errors.As(loadErr, &failure) {
			presenter.PresentFailure(out, failure, elapsed)
		} else {
			fmt.Fprintf(out, "Load failed: %v\n", loadErr)
		}
	} else if err := a.present(out, presenter, lf.output, user, board.View(), elapsed); err != nil {
		return err
	}

	if lf.metrics {
		if err := collector.WriteText(out); err != nil {
			return apperrors.WrapError(err, "write metrics")
		}
	}
	if loadErr != nil {
		return cli.NewExitError(apperrors.ExitCode(loadErr), loadErr)
	}
	return nil
}

func (a *Application) present(out io.Writer, p cli.Presenter, format string, user flight.User, v dashboard.View, elapsed time.Duration) error {
	if format == OutputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	p.PresentView(out, user.Email, v, elapsed)
	return nil
}
