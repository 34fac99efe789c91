package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/agbru/flightdash/internal/dashboard"
	apperrors "github.com/agbru/flightdash/internal/errors"
	"github.com/agbru/flightdash/internal/flight"
	"github.com/agbru/flightdash/internal/orchestration"
)

// EnvPrefix prefixes every environment variable read by Load, e.g.
// FLIGHTDASH_LOAD_MODE or FLIGHTDASH_FIXTURES_FORECAST_FAIL.
const EnvPrefix = "FLIGHTDASH"

// DefaultDotEnv is the .env file read when Options.DotEnv is empty. A
// missing default file is not an error.
const DefaultDotEnv = ".env"

// Config is the full application configuration.
type Config struct {
	User     UserConfig               `mapstructure:"user"`
	Load     LoadConfig               `mapstructure:"load"`
	Log      LogConfig                `mapstructure:"log"`
	Fixtures map[string]FixtureConfig `mapstructure:"fixtures"`
}

// UserConfig selects whose dashboard is loaded.
type UserConfig struct {
	Email string `mapstructure:"email"`
}

// LoadConfig tunes a dashboard load.
type LoadConfig struct {
	Mode           string        `mapstructure:"mode"`
	CancelSiblings bool          `mapstructure:"cancel_siblings"`
	Aggregate      bool          `mapstructure:"aggregate"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// FixtureConfig shapes the canned service behind one step.
type FixtureConfig struct {
	Latency time.Duration `mapstructure:"latency"`
	Fail    string        `mapstructure:"fail"`
}

// FixtureSteps are the steps that accept fixtures.
var FixtureSteps = []string{dashboard.StepFlight, dashboard.StepPlane, dashboard.StepForecast}

// Options controls where Load reads from.
type Options struct {
	// File is an optional YAML, JSON or TOML config file.
	File string
	// DotEnv is the .env file to load; DefaultDotEnv when empty.
	DotEnv string
	// Flags binds config keys to command-line flags. A flag only overrides
	// the other sources when it was set explicitly.
	Flags map[string]*pflag.Flag
}

// ─────────────────────────────────────────────────────────────────────────────
// Loading
// ─────────────────────────────────────────────────────────────────────────────

func setDefaults(v *viper.Viper) {
	v.SetDefault("user.email", flight.DefaultUser.Email)
	v.SetDefault("load.mode", string(dashboard.ModeParallel))
	v.SetDefault("load.cancel_siblings", false)
	v.SetDefault("load.aggregate", false)
	v.SetDefault("load.timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	for _, step := range FixtureSteps {
		v.SetDefault("fixtures."+step+".latency", time.Duration(0))
		v.SetDefault("fixtures."+step+".fail", "")
	}
}

// Load resolves the configuration and validates it. Every error it returns
// maps to apperrors.ExitErrorConfig.
func Load(opts Options) (Config, error) {
	if err := loadDotEnv(opts.DotEnv); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	keys := make([]string, 0, len(opts.Flags))
	for key := range opts.Flags {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := v.BindPFlag(key, opts.Flags[key]); err != nil {
			return Config{}, apperrors.NewConfigError("bind flag for %s: %v", key, err)
		}
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, apperrors.NewConfigError("read config file %s: %v", opts.File, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, apperrors.NewConfigError("decode configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultDotEnv
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return apperrors.NewConfigError("load env file %s: %v", path, err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation and derived settings
// ─────────────────────────────────────────────────────────────────────────────

// Validate checks field values and returns an apperrors.ValidationError for
// the first invalid one.
func (c Config) Validate() error {
	if strings.TrimSpace(c.User.Email) == "" {
		return apperrors.ValidationError{Field: "user.email", Message: "must not be empty"}
	}
	if _, err := dashboard.ParseMode(c.Load.Mode); err != nil {
		return apperrors.ValidationError{Field: "load.mode", Message: err.Error()}
	}
	if c.Load.Timeout < 0 {
		return apperrors.ValidationError{Field: "load.timeout", Message: "must not be negative"}
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return apperrors.ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", c.Log.Level)}
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return apperrors.ValidationError{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}
	for step, fx := range c.Fixtures {
		if !isFixtureStep(step) {
			return apperrors.ValidationError{Field: "fixtures." + step, Message: "unknown step"}
		}
		if fx.Latency < 0 {
			return apperrors.ValidationError{Field: "fixtures." + step + ".latency", Message: "must not be negative"}
		}
	}
	return nil
}

func isFixtureStep(step string) bool {
	for _, s := range FixtureSteps {
		if s == step {
			return true
		}
	}
	return false
}

// Mode returns the validated load mode.
func (c Config) Mode() dashboard.Mode {
	m, err := dashboard.ParseMode(c.Load.Mode)
	if err != nil {
		return dashboard.ModeParallel
	}
	return m
}

// Policy returns the orchestration policy selected by the load settings.
func (c Config) Policy() orchestration.Policy {
	p := orchestration.Policy{CancelSiblingsOnFailure: c.Load.CancelSiblings}
	if c.Load.Aggregate {
		p.FailureMode = orchestration.AggregateFailures
	}
	return p
}

// Fixture returns the fixture for step, or the zero value.
func (c Config) Fixture(step string) FixtureConfig {
	return c.Fixtures[step]
}

// Behavior converts a fixture into a canned service behavior.
func (f FixtureConfig) Behavior() flight.Behavior {
	b := flight.Behavior{Latency: f.Latency}
	if f.Fail != "" {
		b.Err = errors.New(f.Fail)
	}
	return b
}

// ApplyOverrides merges step=value overrides from the command line into the
// fixtures. fail values are failure messages; latency values are durations.
func (c *Config) ApplyOverrides(fail, latency map[string]string) error {
	if c.Fixtures == nil {
		c.Fixtures = make(map[string]FixtureConfig)
	}
	for step, msg := range fail {
		if !isFixtureStep(step) {
			return apperrors.ValidationError{Field: "--fail", Message: fmt.Sprintf("unknown step %q", step)}
		}
		fx := c.Fixtures[step]
		fx.Fail = msg
		c.Fixtures[step] = fx
	}
	for step, raw := range latency {
		if !isFixtureStep(step) {
			return apperrors.ValidationError{Field: "--latency", Message: fmt.Sprintf("unknown step %q", step)}
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return apperrors.ValidationError{Field: "--latency", Message: fmt.Sprintf("invalid duration %q for step %q", raw, step)}
		}
		fx := c.Fixtures[step]
		fx.Latency = d
		c.Fixtures[step] = fx
	}
	return nil
}
