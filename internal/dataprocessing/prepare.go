package dataprocessing

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	perrors "chartpulse/internal/errors"
	"chartpulse/internal/journal"
	"chartpulse/pkg/contracts/domain"
)

// ChartPreparer turns the raw chart export into cleaned chart entries:
// date parsing, market filtering, numeric cleaning, track-ID extraction,
// deduplication, stream imputation and the final null sweep. Every
// row-changing step is journaled.
type ChartPreparer struct {
	markets  []string
	codes    map[string]domain.Market
	minYear  int
	maxYear  int
	logger   *slog.Logger
}

// NewChartPreparer creates a preparer for the configured markets and year
// window.
func NewChartPreparer(markets []string, minYear, maxYear int, logger *slog.Logger) *ChartPreparer {
	if logger == nil {
		logger = slog.Default()
	}

	codes := make(map[string]domain.Market, len(markets))
	for _, m := range markets {
		if code, ok := domain.MarketCodes[m]; ok {
			codes[m] = code
		}
	}

	return &ChartPreparer{
		markets: markets,
		codes:   codes,
		minYear: minYear,
		maxYear: maxYear,
		logger:  logger,
	}
}

// chartDateFormats lists the date layouts seen in chart exports.
var chartDateFormats = []string{"2006-01-02", "2006-01-02 15:04:05", "02.01.2006", "01/02/2006"}

func parseChartDate(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range chartDateFormats {
		if d, err := time.Parse(layout, trimmed); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// Prepare runs the full chart preparation sequence on the loaded table.
func (p *ChartPreparer) Prepare(table *Table, j *journal.Journal) ([]domain.ChartEntry, error) {
	dateCol, hasDate := table.Column("date", "Date")
	regionCol, hasRegion := table.Column("region", "Region")
	urlCol, hasURL := table.Column("url", "URL", "uri", "Uri")
	if !hasDate || !hasRegion || !hasURL {
		return nil, perrors.NewSchema("prepare_charts",
			fmt.Sprintf("chart export is missing essential columns (date=%t region=%t url=%t)", hasDate, hasRegion, hasURL))
	}

	titleCol, hasTitle := table.Column("title", "Title", "track_name")
	artistCol, hasArtist := table.Column("artist", "Artist")
	streamsCol, hasStreams := table.Column("streams", "Streams")
	rankCol, hasRank := table.Column("rank", "Rank", "position", "Position")
	if !hasStreams {
		p.logger.Warn("chart export has no streams column, stream-based metrics will be empty")
	}

	// Parse rows; dates that do not parse leave the zero time and fall to
	// the final null sweep.
	entries := make([]domain.ChartEntry, 0, table.Len())
	for _, row := range table.Rows {
		entry := domain.ChartEntry{
			Region: table.Cell(row, regionCol),
			URL:    table.Cell(row, urlCol),
		}
		if hasTitle {
			entry.Title = table.Cell(row, titleCol)
		}
		if hasArtist {
			entry.Artist = table.Cell(row, artistCol)
		}
		if d, ok := parseChartDate(table.Cell(row, dateCol)); ok {
			entry.Date = d
			entry.Year = d.Year()
		}
		if hasStreams {
			entry.Streams, _ = CleanValue(table.Cell(row, streamsCol), MinOnly(0))
		}
		if hasRank {
			entry.Rank, _ = CleanValue(table.Cell(row, rankCol), Range(1, 200))
		}
		entries = append(entries, entry)
	}

	// Market filter
	before := len(entries)
	filtered := entries[:0]
	for _, e := range entries {
		region := strings.TrimSpace(e.Region)
		if code, ok := p.codes[region]; ok {
			e.Region = region
			e.Market = code
			filtered = append(filtered, e)
		}
	}
	entries = filtered
	j.Append(journal.Record{
		Action: "filter", Source: "charts", Target: "charts",
		Description: fmt.Sprintf("Restricted chart entries to the configured markets: %s.", strings.Join(p.markets, ", ")),
		RowsBefore:  journal.Rows(before), RowsAfter: journal.Rows(len(entries)),
		ExtraInfo: fmt.Sprintf("Filter: region in %v", p.markets),
	})

	// Year window filter
	before = len(entries)
	filtered = entries[:0]
	for _, e := range entries {
		if e.Year >= p.minYear && e.Year <= p.maxYear {
			filtered = append(filtered, e)
		}
	}
	entries = filtered
	j.Append(journal.Record{
		Action: "filter", Source: "charts", Target: "charts",
		Description: fmt.Sprintf("Restricted chart entries to the analysis window %d-%d.", p.minYear, p.maxYear),
		RowsBefore:  journal.Rows(before), RowsAfter: journal.Rows(len(entries)),
		ExtraInfo: fmt.Sprintf("Filter: year between %d and %d", p.minYear, p.maxYear),
	})

	// Track-ID extraction
	missingIDs := 0
	for i := range entries {
		entries[i].TrackID = ExtractTrackID(entries[i].URL)
		if entries[i].TrackID == "" {
			missingIDs++
		}
	}
	if missingIDs > 0 {
		p.logger.Warn("chart entries without extractable track ID",
			slog.Int("count", missingIDs))
	}
	j.Append(journal.Record{
		Action: "feature_engineering", Source: "charts", Target: "charts",
		Description: "Derived the track ID from the source URL so chart entries can be joined with the track databases.",
		RowsBefore:  journal.Rows(len(entries)), RowsAfter: journal.Rows(len(entries)),
		ExtraInfo: "Pattern: track/([A-Za-z0-9]+)",
	})

	// Duplicate sweep on (track_id, date, market), keep-first
	before = len(entries)
	type chartKey struct {
		id     string
		date   time.Time
		market domain.Market
	}
	seen := make(map[chartKey]bool, len(entries))
	filtered = entries[:0]
	for _, e := range entries {
		k := chartKey{e.TrackID, e.Date, e.Market}
		if seen[k] {
			continue
		}
		seen[k] = true
		filtered = append(filtered, e)
	}
	entries = filtered
	j.Append(journal.Record{
		Action: "drop_duplicates", Source: "charts", Target: "charts",
		Description: "Removed exact duplicates on track ID, date and market so each chart placement appears once per day and market.",
		RowsBefore:  journal.Rows(before), RowsAfter: journal.Rows(len(entries)),
		ExtraInfo: "Keys: track_id, date, market",
	})

	// Median stream imputation per (year, market)
	imputed := p.imputeStreams(entries)
	j.Append(journal.Record{
		Action: "imputation", Source: "charts", Target: "charts",
		Description: "Filled missing stream counts with the median of the same year and market as a simple fallback.",
		RowsBefore:  journal.Rows(len(entries)), RowsAfter: journal.Rows(len(entries)),
		ExtraInfo: fmt.Sprintf("Method: median imputation grouped by year x market | Imputed: %d", imputed),
	})

	// Final sweep: essential fields present and streams > 0
	before = len(entries)
	filtered = entries[:0]
	for _, e := range entries {
		if e.HasKey() && e.Streams.Valid && e.Streams.Value > 0 {
			filtered = append(filtered, e)
		}
	}
	entries = filtered
	j.Append(journal.Record{
		Action: "clean_nulls", Source: "charts", Target: "charts",
		Description: "Final sweep: removed entries missing essential fields or with non-positive streams.",
		RowsBefore:  journal.Rows(before), RowsAfter: journal.Rows(len(entries)),
		ExtraInfo: "Dropped: track_id/date/market missing OR streams <= 0",
	})

	p.logger.Info("chart preparation complete",
		slog.Int("rows", len(entries)),
		slog.Int("missing_track_ids", missingIDs))

	return entries, nil
}

// imputeStreams replaces missing stream counts with the (year, market)
// median when that median is positive. Returns the number of filled rows.
func (p *ChartPreparer) imputeStreams(entries []domain.ChartEntry) int {
	type sliceKey struct {
		year   int
		market domain.Market
	}

	groups := make(map[sliceKey][]float64)
	for _, e := range entries {
		if e.Streams.Valid {
			k := sliceKey{e.Year, e.Market}
			groups[k] = append(groups[k], e.Streams.Value)
		}
	}

	medians := make(map[sliceKey]float64, len(groups))
	for k, values := range groups {
		medians[k] = median(values)
	}

	imputed := 0
	for i := range entries {
		if entries[i].Streams.Valid {
			continue
		}
		if m, ok := medians[sliceKey{entries[i].Year, entries[i].Market}]; ok && m > 0 {
			entries[i].Streams = domain.Some(m)
			imputed++
		}
	}
	return imputed
}

// median returns the middle value of the inputs; for even counts the mean
// of the two middle values.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
