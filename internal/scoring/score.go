package scoring

import (
	"fmt"
	"log/slog"
	"math"

	"chartpulse/internal/journal"
	"chartpulse/pkg/contracts/domain"
)

// Scorer computes the composite success score for enriched tracks.
type Scorer struct {
	weights Weights
	cutoff  float64
	terms   []term
	logger  *slog.Logger
}

// NewScorer creates a Scorer with the given weights and high-potential
// cutoff. A nil logger falls back to slog.Default.
func NewScorer(weights Weights, cutoff float64, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{
		weights: weights,
		cutoff:  cutoff,
		terms:   scoreTerms(),
		logger:  logger,
	}
}

// scoreTerms returns the static list of score sub-metrics. Each term maps
// its raw field onto a 0-100 scale; a missing field contributes zero.
func scoreTerms() []term {
	return []term{
		{
			name:   "rank",
			weight: func(w Weights) float64 { return w.Rank },
			field:  func(t domain.EnrichedTrack) domain.Optional { return t.Rank },
			normalize: func(v float64, _ *batchContext) float64 {
				// Rank 1 maps to 99.5, rank 200 to 0.
				s := (200.0 - v) / 2.0
				return clamp(s, 0, 100)
			},
		},
		{
			name:   "streams",
			weight: func(w Weights) float64 { return w.Streams },
			field:  func(t domain.EnrichedTrack) domain.Optional { return t.Streams },
			normalize: func(v float64, b *batchContext) float64 {
				if b.maxLogStreams <= 0 {
					return 0
				}
				return clamp(math.Log1p(v)/b.maxLogStreams*100.0, 0, 100)
			},
		},
		{
			name:   "danceability",
			weight: func(w Weights) float64 { return w.Danceability },
			field:  func(t domain.EnrichedTrack) domain.Optional { return t.Audio.Danceability },
			normalize: func(v float64, _ *batchContext) float64 {
				return clamp(v*100.0, 0, 100)
			},
		},
		{
			name:   "energy",
			weight: func(w Weights) float64 { return w.Energy },
			field:  func(t domain.EnrichedTrack) domain.Optional { return t.Audio.Energy },
			normalize: func(v float64, _ *batchContext) float64 {
				return clamp(v*100.0, 0, 100)
			},
		},
		{
			name:   "followers",
			weight: func(w Weights) float64 { return w.Followers },
			field:  func(t domain.EnrichedTrack) domain.Optional { return t.Audio.ArtistFollowers },
			normalize: func(v float64, b *batchContext) float64 {
				if b.maxLogFollowers <= 0 {
					return 0
				}
				return clamp(math.Log1p(v)/b.maxLogFollowers*100.0, 0, 100)
			},
		},
		{
			name:   "top10",
			weight: func(w Weights) float64 { return w.Top10 },
			field:  func(t domain.EnrichedTrack) domain.Optional { return t.Audio.Top10 },
			normalize: func(v float64, _ *batchContext) float64 {
				if v >= 1 {
					return 100
				}
				return 0
			},
		},
	}
}

// Score computes the success score for every track in place and records a
// journal entry. The streams and artist-reach sub-metrics are normalized
// against the batch maxima, so scores are comparable within one run only.
func (s *Scorer) Score(tracks []domain.EnrichedTrack, j *journal.Journal) {
	b := s.batchContext(tracks)

	scored := 0
	aboveCutoff := 0
	for i := range tracks {
		score := 0.0
		for _, t := range s.terms {
			opt := t.field(tracks[i])
			if !opt.Valid {
				continue
			}
			score += t.weight(s.weights) * t.normalize(opt.Value, b)
		}
		tracks[i].SuccessScore = round2(score)
		scored++
		if tracks[i].SuccessScore >= s.cutoff {
			aboveCutoff++
		}
	}

	s.logger.Info("success scores computed",
		slog.Int("tracks", scored),
		slog.Int("above_cutoff", aboveCutoff),
		slog.Float64("cutoff", s.cutoff))

	if j != nil {
		n := len(tracks)
		j.Append(journal.Record{
			Action: "feature_engineering",
			Source: "merged",
			Target: "merged",
			Description: fmt.Sprintf(
				"Success-Score berechnet (Rang 25%%, Streams 15%%, Audio 30%%, Reichweite 20%%, Top10 10%%), %d Tracks >= %.0f",
				aboveCutoff, s.cutoff),
			RowsBefore: journal.Rows(n),
			RowsAfter:  journal.Rows(n),
		})
	}
}

// batchContext scans the batch once for the log-scale maxima used by the
// relative sub-metrics.
func (s *Scorer) batchContext(tracks []domain.EnrichedTrack) *batchContext {
	b := &batchContext{}
	for i := range tracks {
		if tracks[i].Streams.Valid {
			if l := math.Log1p(tracks[i].Streams.Value); l > b.maxLogStreams {
				b.maxLogStreams = l
			}
		}
		if tracks[i].Audio.ArtistFollowers.Valid {
			if l := math.Log1p(tracks[i].Audio.ArtistFollowers.Value); l > b.maxLogFollowers {
				b.maxLogFollowers = l
			}
		}
	}
	return b
}

// Cutoff returns the high-potential score threshold.
func (s *Scorer) Cutoff() float64 {
	return s.cutoff
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
