package dataprocessing

import (
	"math"
	"strconv"
	"strings"

	"chartpulse/pkg/contracts/domain"
)

// Bounds describes the valid range for a numeric column. A nil limit means
// the side is unbounded.
type Bounds struct {
	Min *float64
	Max *float64
}

// Range returns bounds clipping to [lo, hi].
func Range(lo, hi float64) Bounds {
	return Bounds{Min: &lo, Max: &hi}
}

// MinOnly returns bounds clipping only from below.
func MinOnly(lo float64) Bounds {
	return Bounds{Min: &lo}
}

// Unbounded returns bounds that never clip.
func Unbounded() Bounds {
	return Bounds{}
}

// clip forces v into the bounds.
func (b Bounds) clip(v float64) float64 {
	if b.Min != nil && v < *b.Min {
		v = *b.Min
	}
	if b.Max != nil && v > *b.Max {
		v = *b.Max
	}
	return v
}

// CleanResult is the outcome of cleaning a raw column.
type CleanResult struct {
	Values []domain.Optional
	// CoercedCount counts non-empty inputs that could not be parsed as a
	// number and were coerced to missing. Used for logging, never fatal.
	CoercedCount int
}

// CleanValue coerces one raw cell into a bounded numeric value. An empty
// cell is missing without counting as coerced; a non-numeric cell is
// missing and reported as coerced. NaN and infinities coerce to missing.
func CleanValue(raw string, bounds Bounds) (value domain.Optional, coerced bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.None(), false
	}

	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return domain.None(), true
	}

	return domain.Some(bounds.clip(v)), false
}

// CleanColumn cleans a whole raw column, coercing malformed entries to
// missing and clipping in-range values into the given bounds.
func CleanColumn(raw []string, bounds Bounds) CleanResult {
	result := CleanResult{Values: make([]domain.Optional, len(raw))}

	for i, cell := range raw {
		value, coerced := CleanValue(cell, bounds)
		result.Values[i] = value
		if coerced {
			result.CoercedCount++
		}
	}

	return result
}

// CleanOptional re-cleans an already-parsed optional value into bounds.
// Used when a column was parsed upstream but still needs range clipping.
func CleanOptional(v domain.Optional, bounds Bounds) domain.Optional {
	if !v.Valid || math.IsNaN(v.Value) || math.IsInf(v.Value, 0) {
		return domain.None()
	}
	return domain.Some(bounds.clip(v.Value))
}
