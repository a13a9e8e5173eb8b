// Package assay provides public constants for external tools integrating
// with the assay CLI.
package assay

// Exit codes returned by the assay CLI.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates every assertion passed.
	ExitSuccess = 0

	// ExitFailure indicates at least one assertion failed.
	ExitFailure = 1

	// ExitConfigError indicates an invalid config or case file.
	ExitConfigError = 2

	// ExitUsageError indicates an invalid constraint expression or comparison.
	ExitUsageError = 3
)
