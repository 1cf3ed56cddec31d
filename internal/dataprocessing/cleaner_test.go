package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chartpulse/pkg/contracts/domain"
)

func TestCleanValue(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		bounds      Bounds
		want        domain.Optional
		wantCoerced bool
	}{
		{"plain number", "42", Unbounded(), domain.Some(42), false},
		{"decimal", "0.85", Range(0, 1), domain.Some(0.85), false},
		{"clipped above", "300", Range(1, 200), domain.Some(200), false},
		{"clipped below", "-5", MinOnly(0), domain.Some(0), false},
		{"whitespace tolerated", "  7 ", Unbounded(), domain.Some(7), false},
		{"empty is missing not coerced", "", Range(0, 1), domain.None(), false},
		{"blank is missing not coerced", "   ", Range(0, 1), domain.None(), false},
		{"garbage coerced", "n/a", Range(0, 1), domain.None(), true},
		{"corrupt numeric coerced", "12,5x", Range(0, 100), domain.None(), true},
		{"nan coerced", "NaN", Unbounded(), domain.None(), true},
		{"infinity coerced", "Inf", Unbounded(), domain.None(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, coerced := CleanValue(tt.raw, tt.bounds)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCoerced, coerced)
		})
	}
}

func TestCleanColumn(t *testing.T) {
	result := CleanColumn([]string{"0.5", "abc", "", "1.5", "-0.2"}, Range(0, 1))

	assert.Equal(t, 1, result.CoercedCount)
	assert.Equal(t, domain.Some(0.5), result.Values[0])
	assert.Equal(t, domain.None(), result.Values[1])
	assert.Equal(t, domain.None(), result.Values[2])
	assert.Equal(t, domain.Some(1.0), result.Values[3], "clipped to upper bound")
	assert.Equal(t, domain.Some(0.0), result.Values[4], "clipped to lower bound")

	// Every present output value lies within the declared bounds
	for _, v := range result.Values {
		if v.Valid {
			assert.GreaterOrEqual(t, v.Value, 0.0)
			assert.LessOrEqual(t, v.Value, 1.0)
		}
	}
}

func TestCleanOptional(t *testing.T) {
	assert.Equal(t, domain.Some(200.0), CleanOptional(domain.Some(999), Range(1, 200)))
	assert.Equal(t, domain.None(), CleanOptional(domain.None(), Range(1, 200)))
}
