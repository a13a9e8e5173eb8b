package config

import "github.com/AndreyAkinshin/assay/pkg/message"

// Default configuration values.
const (
	DefaultToleranceMode  = "linear"
	DefaultMaxLineLength  = message.DefaultMaxLineLength
	DefaultColor          = "auto"
	DefaultCasesDirectory = "cases"
	DefaultCasesPattern   = "*.yaml"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	applyToleranceDefaults(cfg)
	applyOutputDefaults(cfg)
	applyCasesDefaults(cfg)
}

func applyToleranceDefaults(cfg *Config) {
	if cfg.Tolerance == nil {
		cfg.Tolerance = &ToleranceConfig{}
	}
	if cfg.Tolerance.Mode == "" {
		cfg.Tolerance.Mode = DefaultToleranceMode
	}
}

func applyOutputDefaults(cfg *Config) {
	if cfg.Output == nil {
		cfg.Output = &OutputConfig{}
	}
	if cfg.Output.MaxLineLength == 0 {
		cfg.Output.MaxLineLength = DefaultMaxLineLength
	}
	if cfg.Output.Color == "" {
		cfg.Output.Color = DefaultColor
	}
}

func applyCasesDefaults(cfg *Config) {
	if cfg.Cases == nil {
		cfg.Cases = &CasesConfig{}
	}
	if cfg.Cases.Directory == "" {
		cfg.Cases.Directory = DefaultCasesDirectory
	}
	if cfg.Cases.Pattern == "" {
		cfg.Cases.Pattern = DefaultCasesPattern
	}
}
