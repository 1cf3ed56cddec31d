package domain

// Optional represents a numeric value that may be absent. Cleaned columns
// coerce malformed input to the absent state instead of failing, and the
// scoring engine skips absent sub-metrics rather than zero-filling them.
type Optional struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// Some returns a present Optional holding v.
func Some(v float64) Optional {
	return Optional{Value: v, Valid: true}
}

// None returns an absent Optional.
func None() Optional {
	return Optional{}
}

// Or returns the held value when present, otherwise def.
func (o Optional) Or(def float64) float64 {
	if o.Valid {
		return o.Value
	}
	return def
}
