package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineError(t *testing.T) {
	wrapped := fmt.Errorf("open charts.csv: no such file")
	err := NewIO("load_charts", "chart export not found", wrapped)

	assert.Equal(t, CategoryIO, err.Category)
	assert.Contains(t, err.Error(), "load_charts")
	assert.Contains(t, err.Error(), "io_defect")
	assert.ErrorIs(t, err, wrapped)
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"io error", NewIO("load", "missing", nil), CategoryIO},
		{"schema error", NewSchema("score", "column absent"), CategorySchemaDefect},
		{"invariant error", NewInvariant("validate", "duplicate keys"), CategoryInvariant},
		{"wrapped pipeline error", fmt.Errorf("run: %w", NewInvariant("validate", "bad sums")), CategoryInvariant},
		{"plain error", fmt.Errorf("boom"), Category("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryOf(tt.err))
		})
	}
}

func TestValidationErrors(t *testing.T) {
	v := &ValidationErrors{
		Errors:   []string{"duplicate keys", "share sum out of range"},
		Warnings: []string{"baseline index deviates"},
	}

	require.True(t, v.HasErrors())
	assert.Contains(t, v.Error(), "2 error(s)")
	assert.Contains(t, v.Error(), "duplicate keys; share sum out of range")

	empty := &ValidationErrors{Warnings: []string{"only a warning"}}
	assert.False(t, empty.HasErrors())
}
