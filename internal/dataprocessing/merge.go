package dataprocessing

import (
	"fmt"
	"log/slog"

	"chartpulse/internal/journal"
	"chartpulse/pkg/contracts/domain"
)

// Merger left-joins cleaned chart entries with the audio-feature and genre
// tables on the derived track ID. Left-join semantics guarantee every chart
// row survives; unmatched audio features stay absent (never zero-filled, to
// avoid biasing the scorer) and unmatched genres fall back to Other.
type Merger struct {
	logger *slog.Logger
}

// NewMerger creates a merge engine.
func NewMerger(logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{logger: logger}
}

// Merge joins charts with audio and genre data. The lookup tables are
// deduplicated keep-first before joining so the chart-side row count is
// preserved exactly.
func (m *Merger) Merge(charts []domain.ChartEntry, audio []domain.AudioFeatures, genres []domain.GenreAssignment, j *journal.Journal) []domain.EnrichedTrack {
	audioByID := make(map[string]domain.AudioFeatures, len(audio))
	for _, a := range audio {
		if _, ok := audioByID[a.TrackID]; !ok {
			audioByID[a.TrackID] = a
		}
	}

	genreByID := make(map[string]string, len(genres))
	for _, g := range genres {
		if _, ok := genreByID[g.TrackID]; !ok {
			genreByID[g.TrackID] = g.Genre
		}
	}

	merged := make([]domain.EnrichedTrack, 0, len(charts))
	audioMatches := 0
	for _, c := range charts {
		track := domain.EnrichedTrack{ChartEntry: c, Genre: domain.GenreOther}
		if a, ok := audioByID[c.TrackID]; ok {
			track.Audio = a
			track.AudioMatched = true
			audioMatches++
		}
		if g, ok := genreByID[c.TrackID]; ok {
			track.Genre = g
		}
		merged = append(merged, track)
	}

	audioCoverage := 0.0
	genreCoverage := 0.0
	otherRate := 0.0
	if len(merged) > 0 {
		mapped := 0
		other := 0
		for _, t := range merged {
			if t.Genre != domain.GenreOther {
				mapped++
			} else {
				other++
			}
		}
		audioCoverage = float64(audioMatches) / float64(len(merged)) * 100
		genreCoverage = float64(mapped) / float64(len(merged)) * 100
		otherRate = float64(other) / float64(len(merged)) * 100
	}

	j.Append(journal.Record{
		Action: "merge", Source: "charts + audio_df", Target: "merged",
		Description: "Joined chart entries with audio features on track ID, adding audio characteristics and artist followers.",
		RowsBefore:  journal.Rows(len(charts)), RowsAfter: journal.Rows(len(merged)),
		ExtraInfo: fmt.Sprintf("Join: charts.track_id = audio_df.track_id (left join) | Coverage: %.1f%%", audioCoverage),
	})
	j.Append(journal.Record{
		Action: "merge", Source: "merged + genre_df", Target: "merged",
		Description: "Enriched the merged table with harmonized genre information for genre-level analysis.",
		RowsBefore:  journal.Rows(len(merged)), RowsAfter: journal.Rows(len(merged)),
		ExtraInfo: fmt.Sprintf("Join: merged.track_id = genre_df.track_id (left join) | Genre-Coverage: %.1f%% | Other-Rate: %.1f%%", genreCoverage, otherRate),
	})

	m.logger.Info("merge complete",
		slog.Int("rows", len(merged)),
		slog.Float64("audio_coverage_percent", audioCoverage),
		slog.Float64("genre_coverage_percent", genreCoverage))

	return merged
}
