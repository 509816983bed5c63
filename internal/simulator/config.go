package simulator

import (
	"encoding/json"
	"time"

	"github.com/ducklens-lab/trendlens/internal/detector"
	"github.com/ducklens-lab/trendlens/internal/portfolio"
	"github.com/ducklens-lab/trendlens/internal/version"
	"github.com/ducklens-lab/trendlens/pkg/errors"
	"github.com/ducklens-lab/trendlens/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
)

// Config is the complete configuration for one simulation run. The detector
// thresholds are embedded, so config files keep the flat key layout
// (min_confidence, confirmation_days, ...) alongside the portfolio and
// window settings.
type Config struct {
	detector.Config `yaml:",inline"`

	Symbols                []string                 `yaml:"symbols" json:"symbols" jsonschema:"title=Symbols,description=Candidate symbols scanned for entries" validate:"dive,required"`
	StartDate              time.Time                `yaml:"start_date" json:"start_date" jsonschema:"title=Start Date,description=First simulated trading day" validate:"required"`
	EndDate                time.Time                `yaml:"end_date" json:"end_date" jsonschema:"title=End Date,description=Last simulated trading day" validate:"required"`
	InitialCapital         float64                  `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital in USD,minimum=0" validate:"gt=0"`
	Commission             float64                  `yaml:"commission" json:"commission" jsonschema:"title=Commission,description=Commission per leg as a fraction of notional,minimum=0" validate:"gte=0,lt=1"`
	Slippage               float64                  `yaml:"slippage" json:"slippage" jsonschema:"title=Slippage,description=Slippage per leg as a fraction of notional,minimum=0" validate:"gte=0,lt=1"`
	TrailingStopEnabled    bool                     `yaml:"trailing_stop_enabled" json:"trailing_stop_enabled" jsonschema:"title=Trailing Stop Enabled,description=Whether trailing stops arm and ratchet as positions gain"`
	TrailingStopActivation float64                  `yaml:"trailing_stop_activation" json:"trailing_stop_activation" jsonschema:"title=Trailing Stop Activation,description=Unrealized gain fraction that arms the trailing stop,minimum=0" validate:"gte=0,lte=1"`
	TrailingStopDistance   float64                  `yaml:"trailing_stop_distance" json:"trailing_stop_distance" jsonschema:"title=Trailing Stop Distance,description=Fraction below the high-water mark where the stop trails,minimum=0" validate:"gte=0,lt=1"`
	BlockHighVIXTrades     bool                     `yaml:"block_high_vix_trades" json:"block_high_vix_trades" jsonschema:"title=Block High VIX Trades,description=Whether new entries are blocked above the VIX ceiling"`
	MaxVIXForEntry         float64                  `yaml:"max_vix_for_entry" json:"max_vix_for_entry" jsonschema:"title=Max VIX For Entry,description=VIX level above which no new positions open,minimum=0" validate:"gte=0"`
	IndexSymbol            string                   `yaml:"index_symbol" json:"index_symbol" jsonschema:"title=Index Symbol,description=Symbol used for regime classification"`
	VIXSymbol              string                   `yaml:"vix_symbol" json:"vix_symbol" jsonschema:"title=VIX Symbol,description=Symbol holding volatility index closes"`
	BenchmarkSymbol        string                   `yaml:"benchmark_symbol" json:"benchmark_symbol" jsonschema:"title=Benchmark Symbol,description=Buy-and-hold comparison symbol; empty disables the comparison"`
	TargetCapital          optional.Option[float64] `yaml:"target_capital" json:"target_capital" jsonschema:"title=Target Capital,description=Optional capital milestone recorded when first reached"`
	MinEngineVersion       optional.Option[string]  `yaml:"min_engine_version" json:"min_engine_version" jsonschema:"title=Minimum Engine Version,description=Oldest engine version this config is valid for"`
}

// rawConfig is the YAML wire form of Config: dates as strings, optional
// fields as pointers.
type rawConfig struct {
	detector.Config `yaml:",inline"`

	Symbols                []string `yaml:"symbols"`
	StartDate              string   `yaml:"start_date"`
	EndDate                string   `yaml:"end_date"`
	InitialCapital         float64  `yaml:"initial_capital"`
	Commission             float64  `yaml:"commission"`
	Slippage               float64  `yaml:"slippage"`
	TrailingStopEnabled    bool     `yaml:"trailing_stop_enabled"`
	TrailingStopActivation float64  `yaml:"trailing_stop_activation"`
	TrailingStopDistance   float64  `yaml:"trailing_stop_distance"`
	BlockHighVIXTrades     bool     `yaml:"block_high_vix_trades"`
	MaxVIXForEntry         float64  `yaml:"max_vix_for_entry"`
	IndexSymbol            string   `yaml:"index_symbol"`
	VIXSymbol              string   `yaml:"vix_symbol"`
	BenchmarkSymbol        string   `yaml:"benchmark_symbol"`
	TargetCapital          *float64 `yaml:"target_capital,omitempty"`
	MinEngineVersion       *string  `yaml:"min_engine_version,omitempty"`
}

// DefaultConfig returns the standard cost model and thresholds. Symbols and
// the date window must still be provided before the config validates.
func DefaultConfig() Config {
	return Config{
		Config:                 detector.DefaultConfig(),
		InitialCapital:         100_000,
		Commission:             0.001,
		Slippage:               0.001,
		TrailingStopEnabled:    true,
		TrailingStopActivation: 0.10,
		TrailingStopDistance:   0.05,
		BlockHighVIXTrades:     true,
		MaxVIXForEntry:         35,
		IndexSymbol:            "SPY",
		VIXSymbol:              "VIX",
		BenchmarkSymbol:        "SPY",
		TargetCapital:          optional.None[float64](),
		MinEngineVersion:       optional.None[string](),
	}
}

// TestConfig returns a valid config over the given window and symbols with
// default thresholds.
func TestConfig(start time.Time, end time.Time, symbols ...string) Config {
	config := DefaultConfig()
	config.Symbols = symbols
	config.StartDate = start
	config.EndDate = end

	return config
}

// UnmarshalYAML implements custom unmarshaling for Config. Absent keys keep
// their defaults; dates accept YYYY-MM-DD or RFC3339.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	defaults := DefaultConfig()
	raw := rawConfig{
		Config:                 defaults.Config,
		InitialCapital:         defaults.InitialCapital,
		Commission:             defaults.Commission,
		Slippage:               defaults.Slippage,
		TrailingStopEnabled:    defaults.TrailingStopEnabled,
		TrailingStopActivation: defaults.TrailingStopActivation,
		TrailingStopDistance:   defaults.TrailingStopDistance,
		BlockHighVIXTrades:     defaults.BlockHighVIXTrades,
		MaxVIXForEntry:         defaults.MaxVIXForEntry,
		IndexSymbol:            defaults.IndexSymbol,
		VIXSymbol:              defaults.VIXSymbol,
		BenchmarkSymbol:        defaults.BenchmarkSymbol,
	}

	if err := unmarshal(&raw); err != nil {
		return err
	}

	c.Config = raw.Config
	c.Symbols = raw.Symbols
	c.InitialCapital = raw.InitialCapital
	c.Commission = raw.Commission
	c.Slippage = raw.Slippage
	c.TrailingStopEnabled = raw.TrailingStopEnabled
	c.TrailingStopActivation = raw.TrailingStopActivation
	c.TrailingStopDistance = raw.TrailingStopDistance
	c.BlockHighVIXTrades = raw.BlockHighVIXTrades
	c.MaxVIXForEntry = raw.MaxVIXForEntry
	c.IndexSymbol = raw.IndexSymbol
	c.VIXSymbol = raw.VIXSymbol
	c.BenchmarkSymbol = raw.BenchmarkSymbol

	if raw.StartDate != "" {
		parsed, err := parseConfigDate(raw.StartDate)
		if err != nil {
			return err
		}

		c.StartDate = parsed
	}

	if raw.EndDate != "" {
		parsed, err := parseConfigDate(raw.EndDate)
		if err != nil {
			return err
		}

		c.EndDate = parsed
	}

	if raw.TargetCapital != nil {
		c.TargetCapital = optional.Some(*raw.TargetCapital)
	}

	if raw.MinEngineVersion != nil {
		c.MinEngineVersion = optional.Some(*raw.MinEngineVersion)
	}

	return nil
}

// MarshalYAML renders the config in the same shape UnmarshalYAML accepts,
// so the echo in a results file can be fed back in unchanged.
func (c Config) MarshalYAML() (interface{}, error) {
	raw := rawConfig{
		Config:                 c.Config,
		Symbols:                c.Symbols,
		InitialCapital:         c.InitialCapital,
		Commission:             c.Commission,
		Slippage:               c.Slippage,
		TrailingStopEnabled:    c.TrailingStopEnabled,
		TrailingStopActivation: c.TrailingStopActivation,
		TrailingStopDistance:   c.TrailingStopDistance,
		BlockHighVIXTrades:     c.BlockHighVIXTrades,
		MaxVIXForEntry:         c.MaxVIXForEntry,
		IndexSymbol:            c.IndexSymbol,
		VIXSymbol:              c.VIXSymbol,
		BenchmarkSymbol:        c.BenchmarkSymbol,
	}

	if !c.StartDate.IsZero() {
		raw.StartDate = c.StartDate.Format("2006-01-02")
	}

	if !c.EndDate.IsZero() {
		raw.EndDate = c.EndDate.Format("2006-01-02")
	}

	if c.TargetCapital.IsSome() {
		target := c.TargetCapital.Unwrap()
		raw.TargetCapital = &target
	}

	if c.MinEngineVersion.IsSome() {
		minVersion := c.MinEngineVersion.Unwrap()
		raw.MinEngineVersion = &minVersion
	}

	return raw, nil
}

func parseConfigDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, errors.Newf(errors.ErrCodeInvalidDateRange,
		"unrecognized date %q (want YYYY-MM-DD or RFC3339)", value)
}

// Validate checks the config, failing fast before any simulation runs.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid simulation config", err)
	}

	if c.EndDate.Before(c.StartDate) {
		return errors.Newf(errors.ErrCodeInvalidDateRange, "end date %s is before start date %s",
			c.EndDate.Format("2006-01-02"), c.StartDate.Format("2006-01-02"))
	}

	if c.TargetCapital.IsSome() && c.TargetCapital.Unwrap() <= 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "target capital must be positive")
	}

	if c.MinEngineVersion.IsSome() {
		if err := version.CheckMinimumVersion(version.Version, c.MinEngineVersion.Unwrap()); err != nil {
			return err
		}
	}

	return nil
}

// PortfolioSettings maps the config onto the portfolio cost model.
func (c *Config) PortfolioSettings() portfolio.Settings {
	return portfolio.Settings{
		InitialCapital:     c.InitialCapital,
		Commission:         c.Commission,
		Slippage:           c.Slippage,
		TrailingActivation: c.TrailingStopActivation,
		TrailingDistance:   c.TrailingStopDistance,
	}
}

// GenerateSchema generates a JSON schema for the simulation config.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	schema := utils.SchemaFromConfig(c)

	schema.Title = "trendlens-simulation-config"
	schema.Description = "Configuration schema for the walk-forward simulator"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates the JSON schema as an indented string.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
