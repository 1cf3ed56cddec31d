package exporter

import (
	"fmt"
	"log/slog"
	"time"

	"chartpulse/internal/journal"
	"chartpulse/pkg/contracts/domain"
)

// Output file names. The presentation layer reads these by name, so they
// are fixed.
const (
	FileKPI           = "cleaned_charts_kpi.csv"
	FileEnhanced      = "spotify_charts_enhanced.csv"
	FileHighPotential = "high_potential_tracks.csv"
	FileMarketTrends  = "cleaned_market_trends.csv"
	FileJournal       = "data_journal.csv"
)

// TableExporter renders the pipeline's output tables into their fixed CSV
// layouts. Export runs only after the KPI table has passed validation.
type TableExporter struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewTableExporter creates a table exporter writing into outputDir
func NewTableExporter(outputDir string, logger *slog.Logger) *TableExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TableExporter{
		writer: NewCSVWriter(outputDir),
		logger: logger,
	}
}

// ExportKPI writes the KPI table
func (e *TableExporter) ExportKPI(records []domain.KPIRecord) error {
	headers := []string{
		"market", "year", "genre", "genre_harmonized", "streams_total",
		"market_share_percent", "shannon_diversity", "success_rate_percent",
		"market_potential_score", "growth_momentum_index",
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			string(r.Market),
			formatInt(r.Year),
			r.Genre,
			r.Genre,
			formatStreams(r.StreamsTotal),
			formatFloat(r.MarketSharePercent),
			formatFloat3(r.ShannonDiversity),
			formatFloat(r.SuccessRatePercent),
			formatFloat(r.MarketPotential),
			formatFloat(r.GrowthMomentum),
		})
	}

	if err := e.writer.WriteSimpleCSV(FileKPI, headers, rows); err != nil {
		return fmt.Errorf("export KPI table: %w", err)
	}
	e.logger.Info("KPI table exported", slog.Int("rows", len(rows)))
	return nil
}

// ExportEnhanced streams the full enriched-track table. The table holds one
// row per chart placement, so it can be large; rows are written through the
// stream writer instead of being materialized twice.
func (e *TableExporter) ExportEnhanced(tracks []domain.EnrichedTrack) error {
	headers := []string{
		"track_id", "title", "artist", "date", "year", "region", "market",
		"rank", "streams", "danceability", "energy", "valence",
		"acousticness", "tempo", "popularity", "artist_followers",
		"genre_harmonized", "audio_matched", "success_score",
	}

	sw, err := e.writer.CreateStreamWriter(FileEnhanced, headers)
	if err != nil {
		return fmt.Errorf("export enhanced table: %w", err)
	}

	for i := range tracks {
		t := &tracks[i]
		row := []string{
			t.TrackID,
			t.Title,
			t.Artist,
			formatDate(t.Date),
			formatInt(t.Year),
			t.Region,
			string(t.Market),
			formatOptional(t.Rank),
			formatOptional(t.Streams),
			formatOptional(t.Audio.Danceability),
			formatOptional(t.Audio.Energy),
			formatOptional(t.Audio.Valence),
			formatOptional(t.Audio.Acousticness),
			formatOptional(t.Audio.Tempo),
			formatOptional(t.Audio.Popularity),
			formatOptional(t.Audio.ArtistFollowers),
			t.Genre,
			formatBool(t.AudioMatched),
			formatFloat(t.SuccessScore),
		}
		if err := sw.WriteRecord(row); err != nil {
			sw.Close()
			return fmt.Errorf("export enhanced table row %d: %w", i, err)
		}
	}

	if err := sw.Close(); err != nil {
		return fmt.Errorf("export enhanced table: %w", err)
	}
	e.logger.Info("enhanced track table exported", slog.Int("rows", len(tracks)))
	return nil
}

// ExportHighPotential writes the high-potential track shortlist
func (e *TableExporter) ExportHighPotential(tracks []domain.HighPotentialTrack) error {
	headers := []string{
		"track_id", "market", "total_streams", "rank", "track_name",
		"artist", "genre_harmonized", "year", "success_score",
		"danceability", "energy", "valence",
	}

	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{
			t.TrackID,
			string(t.Market),
			formatStreams(t.TotalStreams),
			formatOptional(t.MeanRank),
			t.TrackName,
			t.Artist,
			t.Genre,
			formatInt(t.Year),
			formatFloat(t.SuccessScore),
			formatOptional(t.Danceability),
			formatOptional(t.Energy),
			formatOptional(t.Valence),
		})
	}

	if err := e.writer.WriteSimpleCSV(FileHighPotential, headers, rows); err != nil {
		return fmt.Errorf("export high-potential table: %w", err)
	}
	e.logger.Info("high-potential table exported", slog.Int("rows", len(rows)))
	return nil
}

// ExportMarketTrends writes the yearly market-share table
func (e *TableExporter) ExportMarketTrends(trends []domain.MarketTrend) error {
	headers := []string{"year", "market", "total_streams", "market_share_percent"}

	rows := make([][]string, 0, len(trends))
	for _, t := range trends {
		rows = append(rows, []string{
			formatInt(t.Year),
			string(t.Market),
			formatStreams(t.TotalStreams),
			formatFloat(t.MarketSharePercent),
		})
	}

	if err := e.writer.WriteSimpleCSV(FileMarketTrends, headers, rows); err != nil {
		return fmt.Errorf("export market-trends table: %w", err)
	}
	e.logger.Info("market-trends table exported", slog.Int("rows", len(rows)))
	return nil
}

// ExportJournal writes the data journal, one row per executed step in
// execution order.
func (e *TableExporter) ExportJournal(j *journal.Journal) error {
	headers := []string{
		"step", "timestamp", "action", "source", "target", "description",
		"rows_before", "rows_after", "rows_removed", "extra_info",
	}

	entries := j.Entries()
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			formatInt(entry.Step),
			entry.Timestamp.UTC().Format(time.RFC3339),
			entry.Action,
			entry.Source,
			entry.Target,
			entry.Description,
			journal.FormatRows(entry.RowsBefore),
			journal.FormatRows(entry.RowsAfter),
			journal.FormatRows(entry.RowsRemoved),
			entry.ExtraInfo,
		})
	}

	if err := e.writer.WriteSimpleCSV(FileJournal, headers, rows); err != nil {
		return fmt.Errorf("export data journal: %w", err)
	}
	e.logger.Info("data journal exported", slog.Int("steps", len(rows)))
	return nil
}
