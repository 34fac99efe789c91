package app

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/agbru/flightdash/internal/config"
	"github.com/agbru/flightdash/internal/dashboard"
	"github.com/agbru/flightdash/internal/flight"
	"github.com/agbru/flightdash/internal/logging"
	"github.com/agbru/flightdash/internal/orchestration"
)

// configFlags are the flags shared by every command that loads the
// dashboard. Flags listed in bindings override the config file and the
// environment when set explicitly.
type configFlags struct {
	configFile string
	fail       map[string]string
	latency    map[string]string
	bindings   map[string]*pflag.Flag
}

func addConfigFlags(f *pflag.FlagSet) *configFlags {
	cf := &configFlags{}
	f.StringVar(&cf.configFile, "config", "", "config file (yaml, json or toml)")
	f.String("email", flight.DefaultUser.Email, "user to load the dashboard for")
	f.String("mode", string(dashboard.ModeParallel), "load graph: parallel or sequential")
	f.Bool("cancel-siblings", false, "cancel running fetches once one fails")
	f.Bool("aggregate", false, "report every failed fetch instead of the first")
	f.Duration("timeout", 30*time.Second, "overall load timeout")
	f.String("log-level", "info", "log level: debug, info, warn or error")
	f.String("log-format", "console", "log format: console or json")
	f.StringToStringVar(&cf.fail, "fail", nil, "make a step fail with a message, e.g. forecast=unavailable")
	f.StringToStringVar(&cf.latency, "latency", nil, "delay a step, e.g. plane=200ms")

	cf.bindings = map[string]*pflag.Flag{
		"user.email":           f.Lookup("email"),
		"load.mode":            f.Lookup("mode"),
		"load.cancel_siblings": f.Lookup("cancel-siblings"),
		"load.aggregate":       f.Lookup("aggregate"),
		"load.timeout":         f.Lookup("timeout"),
		"log.level":            f.Lookup("log-level"),
		"log.format":           f.Lookup("log-format"),
	}
	return cf
}

// resolveConfig loads the configuration and applies the step overrides.
func (a *Application) resolveConfig(cf *configFlags) (config.Config, error) {
	cfg, err := config.Load(config.Options{File: cf.configFile, DotEnv: a.DotEnv, Flags: cf.bindings})
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.ApplyOverrides(cf.fail, cf.latency); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// orchestrationOptions are the options common to every load.
func orchestrationOptions(cfg config.Config, logger logging.Logger, observers ...orchestration.Observer) []orchestration.Option {
	opts := []orchestration.Option{
		orchestration.WithLogger(logger),
		orchestration.WithPolicy(cfg.Policy()),
		orchestration.WithFailureSink(orchestration.LogFailureSink{Logger: logger}),
	}
	for _, obs := range observers {
		opts = append(opts, orchestration.WithObserver(obs))
	}
	return opts
}

// services returns the configured services, or canned ones shaped by the
// fixtures.
func (a *Application) services(cfg config.Config) (flight.FlightService, flight.WeatherService) {
	flights, weather := a.Flights, a.Weather
	if flights == nil {
		flights = &flight.CannedFlightService{
			Details: cfg.Fixture(dashboard.StepFlight).Behavior(),
			Plane:   cfg.Fixture(dashboard.StepPlane).Behavior(),
		}
	}
	if weather == nil {
		weather = &flight.CannedWeatherService{
			Forecast: cfg.Fixture(dashboard.StepForecast).Behavior(),
		}
	}
	return flights, weather
}

func (a *Application) logger(lc config.LogConfig) logging.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	level := logging.ParseLevel(lc.Level)
	if lc.Format == "json" {
		return logging.NewLogger(a.ErrWriter, "flightdash").WithLevel(level)
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: a.ErrWriter, NoColor: true}).With().Timestamp().Logger()
	return logging.NewZerologAdapter(zl).WithLevel(level)
}
