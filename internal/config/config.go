package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/assay/internal/schema"
	"github.com/AndreyAkinshin/assay/pkg/tolerance"
)

// Load reads and parses a config.yaml configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults reads a config file and applies default values.
func LoadWithDefaults(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	return cfg, nil
}

// LoadAndValidate reads a config file, checks it against the config schema,
// applies defaults, validates, and returns warnings.
func LoadAndValidate(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, warnings, err := LoadWithWarnings(path, data)
	if err != nil {
		return nil, nil, err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := schema.ValidateConfig(doc); err != nil {
		return nil, warnings, err
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, warnings, err
	}

	return cfg, warnings, nil
}

// DefaultTolerance returns the configured tolerance. Without an amount the
// result is unset and equality stays exact.
func (c *ToleranceConfig) DefaultTolerance() (tolerance.Tolerance, error) {
	if c == nil || c.Amount == nil {
		return tolerance.Tolerance{}, nil
	}
	amount := *c.Amount
	switch c.Mode {
	case "", "linear":
		return tolerance.NewLinear(amount)
	case "percent":
		return tolerance.NewPercent(amount)
	case "ulps":
		if amount != math.Trunc(amount) {
			return tolerance.Tolerance{}, &ValidationError{Field: "tolerance.amount", Message: "must be a whole number of ULPs"}
		}
		return tolerance.NewUlps(int64(amount))
	default:
		return tolerance.Tolerance{}, &ValidationError{Field: "tolerance.mode", Message: fmt.Sprintf("unknown mode %q", c.Mode)}
	}
}
