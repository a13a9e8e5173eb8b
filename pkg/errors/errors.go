// Package errors provides structured error types and exit codes for assay.
//
// Two classes of error are distinguished. Assertion failures carry a
// multi-line Expected/But was message. Everything else is a defect: an
// invalid comparison, a misused constraint expression, a bad tolerance, or a
// configuration problem. Defects render as a single diagnostic line.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes returned by the assay CLI.
const (
	ExitSuccess      = 0 // Success
	ExitFailure      = 1 // One or more assertions failed, or a runtime error occurred
	ExitConfigError  = 2 // Configuration or case file error
	ExitUsageError   = 3 // Invalid constraint expression or invalid comparison
	ExitRuntimeError = ExitFailure
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindNotFound
	KindValidation
	KindAssertion
	KindInvalidOperation
	KindInvalidArgument
	KindArgumentNull
	KindArgument
)

var kindNames = map[ErrorKind]string{
	KindRuntime:          "runtime",
	KindConfig:           "config",
	KindNotFound:         "not found",
	KindValidation:       "validation",
	KindAssertion:        "assertion",
	KindInvalidOperation: "invalid operation",
	KindInvalidArgument:  "invalid argument",
	KindArgumentNull:     "argument null",
	KindArgument:         "argument",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// AssayError is the base error type for assay.
type AssayError struct {
	Kind    ErrorKind
	Message string
	Param   string // Offending parameter name, if applicable
	Cause   error  // Underlying error
}

func (e *AssayError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s", e.Param, e.Message)
	}
	return e.Message
}

func (e *AssayError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *AssayError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindInvalidOperation, KindInvalidArgument, KindArgumentNull, KindArgument:
		return ExitUsageError
	default:
		return ExitFailure
	}
}

// New creates a new runtime error.
func New(message string) *AssayError {
	return &AssayError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *AssayError {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *AssayError {
	return &AssayError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *AssayError {
	return Config(fmt.Sprintf(format, args...))
}

// ConfigWrap wraps err as a configuration error. The message keeps the
// cause's text, since configuration errors are shown as a single line.
func ConfigWrap(err error, message string) *AssayError {
	return &AssayError{
		Kind:    KindConfig,
		Message: fmt.Sprintf("%s: %v", message, err),
		Cause:   err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *AssayError {
	return &AssayError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *AssayError {
	return &AssayError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// Assertion creates an assertion failure carrying a rendered message.
func Assertion(message string) *AssayError {
	return &AssayError{
		Kind:    KindAssertion,
		Message: message,
	}
}

// InvalidOperation reports misuse of a constraint expression.
func InvalidOperation(format string, args ...interface{}) *AssayError {
	return &AssayError{
		Kind:    KindInvalidOperation,
		Message: fmt.Sprintf(format, args...),
	}
}

// InvalidArgument reports an out-of-range argument, such as a negative tolerance.
func InvalidArgument(param, format string, args ...interface{}) *AssayError {
	return &AssayError{
		Kind:    KindInvalidArgument,
		Param:   param,
		Message: fmt.Sprintf(format, args...),
	}
}

// ArgumentNull reports a nil value where a comparison requires one.
func ArgumentNull(param, format string, args ...interface{}) *AssayError {
	return &AssayError{
		Kind:    KindArgumentNull,
		Param:   param,
		Message: fmt.Sprintf(format, args...),
	}
}

// Argument reports a value the operation cannot handle, such as two
// values of types that have no ordering between them.
func Argument(param, format string, args ...interface{}) *AssayError {
	return &AssayError{
		Kind:    KindArgument,
		Param:   param,
		Message: fmt.Sprintf(format, args...),
	}
}

// KindOf returns the kind of the first AssayError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var ae *AssayError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}

// Is reports whether err carries an AssayError of the given kind.
func Is(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsAssertion reports whether err is an assertion failure.
func IsAssertion(err error) bool {
	return Is(err, KindAssertion)
}

// IsUsage reports whether err stems from a misused expression or a bad argument.
func IsUsage(err error) bool {
	k, ok := KindOf(err)
	return ok && (k == KindInvalidOperation || k == KindInvalidArgument)
}

// IsInvalidComparison reports whether err stems from values that cannot be compared.
func IsInvalidComparison(err error) bool {
	k, ok := KindOf(err)
	return ok && (k == KindArgumentNull || k == KindArgument)
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ae *AssayError
	if errors.As(err, &ae) {
		return ae.ExitCode()
	}
	return ExitFailure
}
