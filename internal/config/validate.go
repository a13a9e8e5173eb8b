package config

import (
	"fmt"
	"path/filepath"

	"github.com/AndreyAkinshin/assay/pkg/message"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration with defaults applied for errors the
// schema cannot express.
func Validate(cfg *Config) error {
	if err := validateTolerance(cfg.Tolerance); err != nil {
		return err
	}
	if err := validateOutput(cfg.Output); err != nil {
		return err
	}
	return validateCases(cfg.Cases)
}

func validateTolerance(tc *ToleranceConfig) error {
	if tc == nil {
		return nil
	}
	if tc.Amount != nil && *tc.Amount < 0 {
		return &ValidationError{Field: "tolerance.amount", Message: "must not be negative"}
	}
	if _, err := tc.DefaultTolerance(); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			return ve
		}
		return &ValidationError{Field: "tolerance", Message: err.Error()}
	}
	return nil
}

func validateOutput(oc *OutputConfig) error {
	if oc == nil {
		return nil
	}
	if oc.MaxLineLength <= message.PrefixLength+2 {
		return &ValidationError{
			Field:   "output.maxLineLength",
			Message: fmt.Sprintf("must exceed %d", message.PrefixLength+2),
		}
	}
	switch oc.Color {
	case "auto", "always", "never":
		return nil
	}
	return &ValidationError{Field: "output.color", Message: `must be "auto", "always" or "never"`}
}

func validateCases(cc *CasesConfig) error {
	if cc == nil {
		return nil
	}
	if _, err := filepath.Match(cc.Pattern, ""); err != nil {
		return &ValidationError{Field: "cases.pattern", Message: fmt.Sprintf("invalid glob %q", cc.Pattern)}
	}
	return nil
}
