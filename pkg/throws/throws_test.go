package throws

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/assay/pkg/constraint"
)

type timeoutError struct{}

func (timeoutError) Error() string { return "timeout" }

func TestThrows(t *testing.T) {
	t.Parallel()
	boom := func() error { return errors.New("boom") }
	timeout := func() (int, error) { return 0, fmt.Errorf("dial: %w", timeoutError{}) }
	panics := func() { panic(fs.ErrNotExist) }
	quiet := func() {}

	tests := []struct {
		name   string
		expr   *constraint.Expression
		actual any
		want   bool
	}{
		{"any error", Error(), boom, true},
		{"any error on quiet", Error(), quiet, false},
		{"nothing", Nothing(), quiet, true},
		{"nothing on error", Nothing(), boom, false},
		{"error with message", Error().With().Property("Error").EqualTo("boom"), boom, true},
		{"type of wrapped", TypeOf[timeoutError](), timeout, false},
		{"error as wrapped", ErrorAs[timeoutError](), timeout, true},
		{"error is from panic", ErrorIs(fs.ErrNotExist), panics, true},
		{"instance of", InstanceOf[error](), panics, true},
		{"matching", Matching(constraint.Property("Error", constraint.Substring("oo"))), boom, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.expr.Matches(tt.actual)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTags(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "<throws <instanceof error>>", Error().String())
	assert.Equal(t, "<throwsnothing>", Nothing().String())
	assert.Equal(t, "<throws <typeof throws.timeoutError>>", TypeOf[timeoutError]().String())
	assert.Equal(t, `<throws <and <instanceof error> <property Error <equal "x">>>>`,
		Error().With().Property("Error").EqualTo("x").String())
}
