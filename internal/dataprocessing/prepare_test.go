package dataprocessing

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartpulse/internal/journal"
	"chartpulse/pkg/contracts/domain"
)

var testMarkets = []string{"Germany", "United Kingdom", "Brazil"}

func chartRow(date, region, url, streams, rank string) []string {
	return []string{"Song", "Artist", date, region, url, streams, rank}
}

func chartTable(rows ...[]string) *Table {
	return &Table{
		Headers: []string{"title", "artist", "date", "region", "url", "streams", "rank"},
		Rows:    rows,
	}
}

func TestChartPreparer_Prepare(t *testing.T) {
	p := NewChartPreparer(testMarkets, 2017, 2021, slog.Default())
	j := journal.New()

	table := chartTable(
		chartRow("2018-05-01", "Germany", "https://open.spotify.com/track/AAA1", "1000", "1"),
		chartRow("2018-05-01", " Germany ", "https://open.spotify.com/track/AAA1", "1000", "1"), // duplicate after trim
		chartRow("2018-05-01", "France", "https://open.spotify.com/track/BBB2", "500", "2"),     // market filtered
		chartRow("2015-01-01", "Germany", "https://open.spotify.com/track/CCC3", "800", "3"),    // year filtered
		chartRow("2018-05-02", "Brazil", "https://open.spotify.com/album/none", "300", "4"),     // no track id
		chartRow("2018-05-02", "Brazil", "https://open.spotify.com/track/DDD4", "corrupt", "5"), // streams imputed
		chartRow("2018-05-02", "Brazil", "https://open.spotify.com/track/EEE5", "600", "250"),   // rank clipped
		chartRow("bad-date", "Brazil", "https://open.spotify.com/track/FFF6", "100", "6"),       // date dropped
	)

	entries, err := p.Prepare(table, j)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byID := make(map[string]domain.ChartEntry)
	for _, e := range entries {
		byID[e.TrackID] = e
	}

	de := byID["AAA1"]
	assert.Equal(t, domain.MarketGermany, de.Market)
	assert.Equal(t, 2018, de.Year)
	assert.Equal(t, domain.Some(1000), de.Streams)

	// The corrupt stream count was imputed with the (2018, BR) median.
	// The id-less album row still participates in the median (300, 600)
	// because the null sweep runs after imputation.
	br := byID["DDD4"]
	require.True(t, br.Streams.Valid)
	assert.Equal(t, 450.0, br.Streams.Value)

	// Rank 250 clipped to 200
	assert.Equal(t, domain.Some(200), byID["EEE5"].Rank)

	// Journal captured the full step sequence including zero-removal steps
	actions := make([]string, 0, j.Len())
	for _, e := range j.Entries() {
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []string{"filter", "filter", "feature_engineering", "drop_duplicates", "imputation", "clean_nulls"}, actions)
}

func TestChartPreparer_MissingEssentialColumns(t *testing.T) {
	p := NewChartPreparer(testMarkets, 2017, 2021, slog.Default())

	table := &Table{Headers: []string{"title", "streams"}, Rows: [][]string{{"Song", "100"}}}
	_, err := p.Prepare(table, journal.New())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "essential columns")
}

func TestChartPreparer_ZeroStreamRowsDropped(t *testing.T) {
	p := NewChartPreparer(testMarkets, 2017, 2021, slog.Default())

	table := chartTable(
		chartRow("2019-01-01", "Germany", "https://open.spotify.com/track/AAA1", "0", "1"),
		chartRow("2019-01-01", "Germany", "https://open.spotify.com/track/BBB2", "10", "2"),
	)

	entries, err := p.Prepare(table, journal.New())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "BBB2", entries[0].TrackID)
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"odd count", []float64{3, 1, 2}, 2},
		{"even count", []float64{1, 2, 3, 4}, 2.5},
		{"single", []float64{7}, 7},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, median(tt.values))
		})
	}
}

func TestChartPreparer_DeterministicAcrossRuns(t *testing.T) {
	table := chartTable(
		chartRow("2019-01-01", "Germany", "https://open.spotify.com/track/AAA1", "100", "1"),
		chartRow("2019-01-02", "Brazil", "https://open.spotify.com/track/BBB2", "", "2"),
		chartRow("2019-01-03", "Brazil", "https://open.spotify.com/track/CCC3", "50", "3"),
	)

	run := func() string {
		p := NewChartPreparer(testMarkets, 2017, 2021, slog.Default())
		entries, err := p.Prepare(table, journal.New())
		require.NoError(t, err)
		return fmt.Sprintf("%+v", entries)
	}

	assert.Equal(t, run(), run())
}
