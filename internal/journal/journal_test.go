package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_Append(t *testing.T) {
	j := New()
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	j.SetClock(func() time.Time { return fixed })

	first := j.Append(Record{
		Action:      "load",
		Source:      "charts.csv",
		Target:      "charts",
		Description: "initial load",
		RowsAfter:   Rows(1000),
	})
	second := j.Append(Record{
		Action:      "filter",
		Source:      "charts",
		Target:      "charts",
		Description: "market filter",
		RowsBefore:  Rows(1000),
		RowsAfter:   Rows(600),
	})

	assert.Equal(t, 1, first.Step)
	assert.Equal(t, 2, second.Step)
	assert.Equal(t, fixed, first.Timestamp)

	// Load steps have no before-count and no removal count
	assert.Nil(t, first.RowsBefore)
	assert.Nil(t, first.RowsRemoved)

	require.NotNil(t, second.RowsRemoved)
	assert.Equal(t, 400, *second.RowsRemoved)

	assert.Equal(t, 2, j.Len())
}

func TestJournal_ZeroRemovalStepIsRecorded(t *testing.T) {
	j := New()

	entry := j.Append(Record{
		Action:     "feature_engineering",
		Source:     "merged",
		Target:     "merged",
		RowsBefore: Rows(500),
		RowsAfter:  Rows(500),
	})

	require.NotNil(t, entry.RowsRemoved)
	assert.Equal(t, 0, *entry.RowsRemoved)
	assert.Equal(t, 1, j.Len())
}

func TestJournal_EntriesIsACopy(t *testing.T) {
	j := New()
	j.Append(Record{Action: "load", Target: "charts"})

	entries := j.Entries()
	entries[0].Action = "mutated"

	assert.Equal(t, "load", j.Entries()[0].Action)
}

func TestFormatRows(t *testing.T) {
	assert.Equal(t, "", FormatRows(nil))
	assert.Equal(t, "42", FormatRows(Rows(42)))
}
