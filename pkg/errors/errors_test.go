package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAssayError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AssayError
		expected string
	}{
		{
			name:     "message only",
			err:      &AssayError{Message: "something failed"},
			expected: "something failed",
		},
		{
			name:     "with parameter",
			err:      &AssayError{Param: "amount", Message: "must not be negative"},
			expected: "amount: must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAssayError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &AssayError{
		Message: "wrapper",
		Cause:   cause,
	}

	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}

	errNoCause := &AssayError{Message: "no cause"}
	if got := errNoCause.Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestAssayError_ExitCode(t *testing.T) {
	tests := []struct {
		name     string
		kind     ErrorKind
		expected int
	}{
		{"runtime", KindRuntime, ExitFailure},
		{"config", KindConfig, ExitConfigError},
		{"validation", KindValidation, ExitConfigError},
		{"not found", KindNotFound, ExitFailure},
		{"assertion", KindAssertion, ExitFailure},
		{"invalid operation", KindInvalidOperation, ExitUsageError},
		{"invalid argument", KindInvalidArgument, ExitUsageError},
		{"argument null", KindArgumentNull, ExitUsageError},
		{"argument", KindArgument, ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &AssayError{Kind: tt.kind}
			if got := err.ExitCode(); got != tt.expected {
				t.Errorf("ExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     *AssayError
		kind    ErrorKind
		message string
	}{
		{"New", New("test error"), KindRuntime, "test error"},
		{"Newf", Newf("error %d: %s", 42, "details"), KindRuntime, "error 42: details"},
		{"Config", Config("invalid config"), KindConfig, "invalid config"},
		{"Configf", Configf("field %q: %s", "name", "is required"), KindConfig, `field "name": is required`},
		{"NotFound", NotFound("case file", "x.yaml"), KindNotFound, "case file not found: x.yaml"},
		{"Assertion", Assertion("  Expected: 5"), KindAssertion, "  Expected: 5"},
		{"InvalidOperation", InvalidOperation("%s may not follow %s", "And", "Not"), KindInvalidOperation, "And may not follow Not"},
		{"InvalidArgument", InvalidArgument("amount", "must be non-negative"), KindInvalidArgument, "must be non-negative"},
		{"ArgumentNull", ArgumentNull("actual", "null element at index %d", 2), KindArgumentNull, "null element at index 2"},
		{"Argument", Argument("actual", "not comparable"), KindArgument, "not comparable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if tt.err.Message != tt.message {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.message)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("original error")
	err := Wrap(cause, "wrapped message")

	if err.Kind != KindRuntime {
		t.Errorf("Kind = %v, want %v", err.Kind, KindRuntime)
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap() should return original cause")
	}
}

func TestConfigWrap(t *testing.T) {
	cause := errors.New("yaml: line 3: did not find expected key")
	err := ConfigWrap(cause, "failed to parse config file")

	if err.Kind != KindConfig {
		t.Errorf("Kind = %v, want %v", err.Kind, KindConfig)
	}
	if got := err.Error(); got != "failed to parse config file: yaml: line 3: did not find expected key" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("ConfigWrap() should unwrap to the cause")
	}
	if err.ExitCode() != ExitConfigError {
		t.Errorf("ExitCode() = %d, want %d", err.ExitCode(), ExitConfigError)
	}
}

func TestKindPredicates(t *testing.T) {
	wrapped := fmt.Errorf("evaluating: %w", ArgumentNull("actual", "null"))

	if !IsInvalidComparison(wrapped) {
		t.Error("IsInvalidComparison() = false for wrapped ArgumentNull")
	}
	if IsUsage(wrapped) {
		t.Error("IsUsage() = true for ArgumentNull")
	}
	if !IsUsage(InvalidOperation("incomplete expression")) {
		t.Error("IsUsage() = false for InvalidOperation")
	}
	if !IsUsage(InvalidArgument("amount", "negative")) {
		t.Error("IsUsage() = false for InvalidArgument")
	}
	if !IsAssertion(Assertion("failed")) {
		t.Error("IsAssertion() = false for assertion error")
	}
	if IsAssertion(errors.New("plain")) {
		t.Error("IsAssertion() = true for plain error")
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("KindOf() reported a kind for a plain error")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, ExitSuccess},
		{"runtime", New("runtime"), ExitFailure},
		{"config", Config("config"), ExitConfigError},
		{"validation", &AssayError{Kind: KindValidation}, ExitConfigError},
		{"wrapped usage", fmt.Errorf("x: %w", InvalidOperation("bad")), ExitUsageError},
		{"generic error", errors.New("generic"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.expected {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestErrorKindString(t *testing.T) {
	if got := KindInvalidOperation.String(); got != "invalid operation" {
		t.Errorf("String() = %q, want %q", got, "invalid operation")
	}
	if got := ErrorKind(99).String(); got != "ErrorKind(99)" {
		t.Errorf("String() = %q, want %q", got, "ErrorKind(99)")
	}
}
