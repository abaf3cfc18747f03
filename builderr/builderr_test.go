package builderr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: 0},
		{name: "tool exit code", err: Tool("FitGen", 3, nil), want: 3},
		{name: "wrapped tool exit code", err: fmt.Errorf("post-build: %w", Tool("nmake", 2, nil)), want: 2},
		{name: "tool failed to start", err: Tool("nmake", -1, errors.New("not found")), want: 1},
		{name: "configuration", err: Configuration("SetArchitectures", "unsupported", "ARM"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestConfigurationErrorMessage(t *testing.T) {
	err := Configuration("SetArchitectures", "Unsupported Architecture Requested", "ARM", "RISCV64")
	assert.True(t, IsConfiguration(err))
	assert.Equal(t, "configuration error: SetArchitectures: Unsupported Architecture Requested: ARM RISCV64", err.Error())
	assert.False(t, IsConfiguration(Tool("nmake", 1, nil)))
}

func TestToolErrorUnwrap(t *testing.T) {
	cause := errors.New("executable file not found")
	err := Tool("FitGen", -1, cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "FitGen failed: executable file not found", err.Error())
	assert.Equal(t, "FitGen returned 7", Tool("FitGen", 7, nil).Error())
}
