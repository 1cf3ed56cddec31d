// Package journal implements the pipeline's append-only audit trail. Every
// transformation step records one entry with its row deltas; the journal is
// an explicit accumulator threaded through the pipeline rather than shared
// mutable state, and entries are never mutated after being appended.
package journal

import (
	"fmt"
	"time"
)

// Entry describes one executed transformation step.
type Entry struct {
	Step        int       `json:"step"`
	Timestamp   time.Time `json:"timestamp"`
	Action      string    `json:"action"`
	Source      string    `json:"source"`
	Target      string    `json:"target"`
	Description string    `json:"description"`
	RowsBefore  *int      `json:"rows_before,omitempty"`
	RowsAfter   *int      `json:"rows_after,omitempty"`
	RowsRemoved *int      `json:"rows_removed,omitempty"`
	ExtraInfo   string    `json:"extra_info,omitempty"`
}

// Journal accumulates entries in execution order.
type Journal struct {
	entries []Entry
	nextStep int
	now      func() time.Time
}

// New creates an empty journal starting at step 1.
func New() *Journal {
	return &Journal{nextStep: 1, now: func() time.Time { return time.Now().UTC() }}
}

// Record holds the attributes of a step about to be journaled. Row counts
// are optional; load steps have no before-count and zero-removal steps are
// still recorded.
type Record struct {
	Action      string
	Source      string
	Target      string
	Description string
	RowsBefore  *int
	RowsAfter   *int
	ExtraInfo   string
}

// Rows is a convenience for taking the address of a row count.
func Rows(n int) *int {
	return &n
}

// Append adds one entry for the next step number and returns it.
func (j *Journal) Append(rec Record) Entry {
	var removed *int
	if rec.RowsBefore != nil && rec.RowsAfter != nil {
		removed = Rows(*rec.RowsBefore - *rec.RowsAfter)
	}

	entry := Entry{
		Step:        j.nextStep,
		Timestamp:   j.now(),
		Action:      rec.Action,
		Source:      rec.Source,
		Target:      rec.Target,
		Description: rec.Description,
		RowsBefore:  rec.RowsBefore,
		RowsAfter:   rec.RowsAfter,
		RowsRemoved: removed,
		ExtraInfo:   rec.ExtraInfo,
	}

	j.entries = append(j.entries, entry)
	j.nextStep++
	return entry
}

// Entries returns the recorded entries in execution order.
func (j *Journal) Entries() []Entry {
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len returns the number of recorded steps.
func (j *Journal) Len() int {
	return len(j.entries)
}

// SetClock overrides the timestamp source. Tests use this for
// deterministic output.
func (j *Journal) SetClock(now func() time.Time) {
	j.now = now
}

// FormatRows renders an optional row count for tabular output, empty when
// the count was not applicable to the step.
func FormatRows(n *int) string {
	if n == nil {
		return ""
	}
	return fmt.Sprintf("%d", *n)
}
