package dataprocessing

import (
	"fmt"
	"log/slog"

	"chartpulse/internal/journal"
	"chartpulse/pkg/contracts/domain"
)

// featureColumn binds a feature-database column (with its naming variants)
// to a cleaning range and a setter on AudioFeatures.
type featureColumn struct {
	variants []string
	bounds   Bounds
	assign   func(*domain.AudioFeatures, domain.Optional)
}

var featureColumns = []featureColumn{
	{[]string{"danceability", "Danceability"}, Range(0, 1),
		func(a *domain.AudioFeatures, v domain.Optional) { a.Danceability = v }},
	{[]string{"energy", "Energy"}, Range(0, 1),
		func(a *domain.AudioFeatures, v domain.Optional) { a.Energy = v }},
	{[]string{"valence", "Valence"}, Range(0, 1),
		func(a *domain.AudioFeatures, v domain.Optional) { a.Valence = v }},
	{[]string{"acousticness", "acoustics", "Acoustics"}, Range(0, 1),
		func(a *domain.AudioFeatures, v domain.Optional) { a.Acousticness = v }},
	{[]string{"instrumentalness", "Instrumentalness"}, Range(0, 1),
		func(a *domain.AudioFeatures, v domain.Optional) { a.Instrumentalness = v }},
	{[]string{"speechiness", "Speechiness"}, Range(0, 1),
		func(a *domain.AudioFeatures, v domain.Optional) { a.Speechiness = v }},
	{[]string{"liveness", "liveliness", "Liveliness"}, Range(0, 1),
		func(a *domain.AudioFeatures, v domain.Optional) { a.Liveness = v }},
	{[]string{"tempo", "Tempo"}, Range(30, 250),
		func(a *domain.AudioFeatures, v domain.Optional) { a.Tempo = v }},
	{[]string{"Popularity", "popularity"}, Range(0, 100),
		func(a *domain.AudioFeatures, v domain.Optional) { a.Popularity = v }},
	{[]string{"Artist_followers", "artist_followers"}, MinOnly(0),
		func(a *domain.AudioFeatures, v domain.Optional) { a.ArtistFollowers = v }},
	{[]string{"Top10_dummy", "top10_dummy"}, Range(0, 1),
		func(a *domain.AudioFeatures, v domain.Optional) { a.Top10 = v }},
	{[]string{"Top50_dummy", "top50_dummy"}, Range(0, 1),
		func(a *domain.AudioFeatures, v domain.Optional) { a.Top50 = v }},
}

// FeaturePreparer extracts audio features and genre assignments from the
// feature database.
type FeaturePreparer struct {
	logger *slog.Logger
}

// NewFeaturePreparer creates a feature preparer.
func NewFeaturePreparer(logger *slog.Logger) *FeaturePreparer {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeaturePreparer{logger: logger}
}

// trackIDOf resolves a row's track ID: a direct track_id column wins,
// otherwise the ID is extracted from the URI column variants.
func trackIDOf(table *Table, row []string) string {
	if idCol, ok := table.Column("track_id", "Track_id"); ok {
		if id := table.Cell(row, idCol); id != "" {
			return id
		}
	}
	if uriCol, ok := table.Column("Uri", "uri", "url", "URL"); ok {
		return ExtractTrackID(table.Cell(row, uriCol))
	}
	return ""
}

// PrepareAudio builds the deduplicated audio-feature table. Rows without a
// resolvable track ID are dropped; duplicate track IDs keep the first
// occurrence; every numeric column is cleaned into its declared range.
func (p *FeaturePreparer) PrepareAudio(table *Table, j *journal.Journal) []domain.AudioFeatures {
	if table == nil || table.Len() == 0 {
		p.logger.Warn("no feature database available, audio features will be absent")
		return nil
	}

	cols := make([]int, len(featureColumns))
	present := make([]bool, len(featureColumns))
	for i, fc := range featureColumns {
		cols[i], present[i] = table.Column(fc.variants...)
	}

	before := table.Len()
	coerced := make([]int, len(featureColumns))
	seen := make(map[string]bool, table.Len())

	var features []domain.AudioFeatures
	for _, row := range table.Rows {
		id := trackIDOf(table, row)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		af := domain.AudioFeatures{TrackID: id}
		for i, fc := range featureColumns {
			if !present[i] {
				continue
			}
			value, wasCoerced := CleanValue(table.Cell(row, cols[i]), fc.bounds)
			if wasCoerced {
				coerced[i]++
			}
			fc.assign(&af, value)
		}
		features = append(features, af)
	}

	for i, fc := range featureColumns {
		if coerced[i] > 0 {
			p.logger.Warn("coerced malformed values to missing",
				slog.String("column", fc.variants[0]),
				slog.Int("count", coerced[i]))
		}
	}

	j.Append(journal.Record{
		Action: "clean_nulls", Source: "final_db", Target: "audio_df",
		Description: "Extracted audio features and artist metadata, dropped rows without a track ID and deduplicated by track ID.",
		RowsBefore:  journal.Rows(before), RowsAfter: journal.Rows(len(features)),
		ExtraInfo: "Columns: track_id, audio features, metadata",
	})
	j.Append(journal.Record{
		Action: "clean_numeric", Source: "audio_df", Target: "audio_df",
		Description: "Clipped audio features into their valid ranges (0-1, tempo 30-250 BPM, popularity 0-100).",
		RowsBefore:  journal.Rows(len(features)), RowsAfter: journal.Rows(len(features)),
		ExtraInfo: "Tempo: 30-250 BPM, audio features: 0-1, popularity: 0-100",
	})

	p.logger.Info("audio features prepared", slog.Int("rows", len(features)))
	return features
}

// PrepareGenres builds the deduplicated genre table by harmonizing the raw
// genre column. The Other-rate is journaled as a coverage statistic.
func (p *FeaturePreparer) PrepareGenres(table *Table, h *Harmonizer, mappingSource string, j *journal.Journal) []domain.GenreAssignment {
	if table == nil || table.Len() == 0 {
		return nil
	}

	genreCol, hasGenre := table.Column("Genre", "genre")
	if !hasGenre {
		p.logger.Warn("feature database has no genre column, all genres will be Other")
		return nil
	}

	before := table.Len()
	seen := make(map[string]bool, table.Len())
	otherCount := 0

	var assignments []domain.GenreAssignment
	for _, row := range table.Rows {
		id := trackIDOf(table, row)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		genre := h.Harmonize(table.Cell(row, genreCol))
		if genre == domain.GenreOther {
			otherCount++
		}
		assignments = append(assignments, domain.GenreAssignment{TrackID: id, Genre: genre})
	}

	otherRate := 0.0
	if len(assignments) > 0 {
		otherRate = float64(otherCount) / float64(len(assignments)) * 100
	}

	j.Append(journal.Record{
		Action: "harmonize", Source: mappingSource, Target: "genre_df",
		Description: fmt.Sprintf("Harmonized raw genre labels through the mapping table, consolidating %d detail genres into main categories.", h.Len()),
		RowsBefore:  journal.Rows(before), RowsAfter: journal.Rows(len(assignments)),
		ExtraInfo: fmt.Sprintf("Mapping categories: %d unique genres | Other-Rate: %.1f%%", len(h.Categories()), otherRate),
	})

	p.logger.Info("genre assignments prepared",
		slog.Int("rows", len(assignments)),
		slog.Float64("other_rate_percent", otherRate))

	return assignments
}
