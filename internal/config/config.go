// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	qerrors "tour-quote/internal/errors"
	"tour-quote/internal/logging"
)

// Environment variables that override file values.
const (
	EnvRatesPath    = "TOURQUOTE_RATES_PATH"
	EnvJODToUSD     = "TOURQUOTE_JOD_TO_USD"
	EnvProfitMargin = "TOURQUOTE_PROFIT_MARGIN"
	EnvAddr         = "TOURQUOTE_ADDR"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Pricing contains pricing configuration
	Pricing PricingConfig `json:"pricing"`

	// Rates locates the rate tables
	Rates RatesConfig `json:"rates"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// PricingConfig contains the knobs of a calculation pass
type PricingConfig struct {
	// JODToUSD converts every JOD-denominated rate before aggregation
	JODToUSD decimal.Decimal `json:"jod_to_usd"`

	// ProfitMargin is applied as base * (1 + margin)
	ProfitMargin decimal.Decimal `json:"profit_margin"`

	// TransportDiscountPct is subtracted from the transport total
	TransportDiscountPct decimal.Decimal `json:"transport_discount_pct"`

	// IncludeWater adds bottled water per itinerary day
	IncludeWater bool `json:"include_water"`

	// GuideLanguage is the default private guide language
	GuideLanguage string `json:"guide_language"`

	// AgentID scopes special hotel rates
	AgentID string `json:"agent_id,omitempty"`

	// UseSpecialRates prefers agent special rates when present
	UseSpecialRates bool `json:"use_special_rates"`

	// PaxBrackets are the representative group sizes to price
	PaxBrackets []int `json:"pax_brackets"`
}

// RatesConfig locates the rate tables
type RatesConfig struct {
	// Path is a .json, .yaml, .yml or .hcl rate file
	Path string `json:"path"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// ShowDetails shows the per-bracket cost breakdown
	ShowDetails bool `json:"show_details"`
}

// ServerConfig contains HTTP settings
type ServerConfig struct {
	Addr string `json:"addr"`
}

// DefaultPaxBrackets are the group sizes quoted when none are configured.
var DefaultPaxBrackets = []int{1, 2, 4, 6, 8, 10, 15, 20, 25, 30, 35, 40, 45}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	ratesPath := filepath.Join(homeDir, ".tour-quote", "rates.json")

	brackets := make([]int, len(DefaultPaxBrackets))
	copy(brackets, DefaultPaxBrackets)

	return &Config{
		Version: "1.0",
		Pricing: PricingConfig{
			JODToUSD:             decimal.RequireFromString("1.41"),
			ProfitMargin:         decimal.RequireFromString("0.10"),
			TransportDiscountPct: decimal.Zero,
			IncludeWater:         true,
			GuideLanguage:        "English",
			UseSpecialRates:      true,
			PaxBrackets:          brackets,
		},
		Rates: RatesConfig{
			Path: ratesPath,
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			ShowDetails:   true,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file. A missing file yields defaults.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, qerrors.Config("failed to decode "+path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, qerrors.Config("failed to read "+path, err)
	}

	if err := config.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overlays values from the environment lookup function.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvRatesPath); v != "" {
		c.Rates.Path = v
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := getenv(EnvJODToUSD); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return qerrors.Config(EnvJODToUSD+" is not a number", err)
		}
		c.Pricing.JODToUSD = d
	}
	if v := getenv(EnvProfitMargin); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return qerrors.Config(EnvProfitMargin+" is not a number", err)
		}
		c.Pricing.ProfitMargin = d
	}
	return nil
}

// Validate rejects configurations that cannot produce a quotation.
func (c *Config) Validate() error {
	if !c.Pricing.JODToUSD.IsPositive() {
		return qerrors.Newf(qerrors.TypeConfig, "jod_to_usd must be positive, got %s", c.Pricing.JODToUSD)
	}
	if c.Pricing.ProfitMargin.IsNegative() {
		return qerrors.Newf(qerrors.TypeConfig, "profit_margin must not be negative, got %s", c.Pricing.ProfitMargin)
	}
	if len(c.Pricing.PaxBrackets) == 0 {
		return qerrors.New(qerrors.TypeConfig, "pax_brackets must not be empty")
	}
	for i, p := range c.Pricing.PaxBrackets {
		if p <= 0 {
			return qerrors.Newf(qerrors.TypeConfig, "pax_brackets[%d] must be positive, got %d", i, p)
		}
		if i > 0 && p <= c.Pricing.PaxBrackets[i-1] {
			return qerrors.New(qerrors.TypeConfig, "pax_brackets must be strictly increasing")
		}
	}
	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ParseDecimalOr parses s, returning fallback when s is empty or invalid.
func ParseDecimalOr(s string, fallback decimal.Decimal) decimal.Decimal {
	if s == "" {
		return fallback
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return decimal.NewFromFloat(f)
	}
	return fallback
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
