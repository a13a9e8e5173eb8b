// Package config loads and validates .assay/config.yaml.
package config

// Config represents the complete .assay/config.yaml configuration.
type Config struct {
	Tolerance *ToleranceConfig `yaml:"tolerance,omitempty"`
	Output    *OutputConfig    `yaml:"output,omitempty"`
	Cases     *CasesConfig     `yaml:"cases,omitempty"`
}

// ToleranceConfig sets the tolerance applied to floating point equality
// when an assertion gives none. Without an amount equality stays exact.
type ToleranceConfig struct {
	Mode   string   `yaml:"mode,omitempty"`   // "linear", "percent" or "ulps"
	Amount *float64 `yaml:"amount,omitempty"` // Absolute amount, percentage or ULP count
}

// OutputConfig configures how results are rendered.
type OutputConfig struct {
	MaxLineLength int    `yaml:"maxLineLength,omitempty"`
	Color         string `yaml:"color,omitempty"` // "auto", "always" or "never"
}

// CasesConfig locates declarative case files.
type CasesConfig struct {
	Directory string `yaml:"directory,omitempty"`
	Pattern   string `yaml:"pattern,omitempty"`
}
