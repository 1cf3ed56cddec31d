package kpi

import (
	"log/slog"
	"sort"

	"chartpulse/internal/journal"
	"chartpulse/pkg/contracts/domain"
)

// HighPotentialSelector extracts the high-potential track shortlist: tracks
// from the most recent chart years that cleared the stream floor, ranked by
// success score.
type HighPotentialSelector struct {
	streamFloor float64
	recentYears int
	logger      *slog.Logger
}

// NewHighPotentialSelector creates a selector keeping tracks from the
// recentYears most recent distinct years with at least streamFloor total
// streams.
func NewHighPotentialSelector(streamFloor float64, recentYears int, logger *slog.Logger) *HighPotentialSelector {
	if logger == nil {
		logger = slog.Default()
	}
	if recentYears < 1 {
		recentYears = 1
	}
	return &HighPotentialSelector{
		streamFloor: streamFloor,
		recentYears: recentYears,
		logger:      logger,
	}
}

// candidate accumulates the per-(track, market) aggregate before the
// floor filter.
type candidate struct {
	track     domain.HighPotentialTrack
	rankSum   float64
	rankCount int
	scoreSum  float64
	scoreRows int
}

// Select aggregates daily chart rows per (track, market), keeps the recent
// years only, applies the stream floor and sorts by mean success score
// descending. Ties break on track id so the output order is stable.
func (s *HighPotentialSelector) Select(tracks []domain.EnrichedTrack, j *journal.Journal) []domain.HighPotentialTrack {
	years := recentYearSet(tracks, s.recentYears)
	if len(years) == 0 {
		s.logger.Warn("no chart years found, high-potential shortlist is empty")
		return nil
	}

	type candidateKey struct {
		TrackID string
		Market  domain.Market
	}
	candidates := make(map[candidateKey]*candidate)
	order := make([]candidateKey, 0)
	considered := 0
	for i := range tracks {
		t := &tracks[i]
		if !years[t.Year] {
			continue
		}
		considered++
		key := candidateKey{TrackID: t.TrackID, Market: t.Market}
		c, ok := candidates[key]
		if !ok {
			c = &candidate{track: domain.HighPotentialTrack{
				TrackID: t.TrackID,
				Market:  t.Market,
			}}
			candidates[key] = c
			order = append(order, key)
		}
		if t.Streams.Valid {
			c.track.TotalStreams += t.Streams.Value
		}
		if t.Rank.Valid {
			c.rankSum += t.Rank.Value
			c.rankCount++
		}
		c.scoreSum += t.SuccessScore
		c.scoreRows++
		if t.Year > c.track.Year {
			c.track.Year = t.Year
		}
		// First non-missing value wins for the descriptive columns.
		if c.track.TrackName == "" {
			c.track.TrackName = t.Title
		}
		if c.track.Artist == "" {
			c.track.Artist = t.Artist
		}
		if c.track.Genre == "" || c.track.Genre == domain.GenreOther {
			if t.Genre != "" {
				c.track.Genre = t.Genre
			}
		}
		if !c.track.Danceability.Valid {
			c.track.Danceability = t.Audio.Danceability
		}
		if !c.track.Energy.Valid {
			c.track.Energy = t.Audio.Energy
		}
		if !c.track.Valence.Valid {
			c.track.Valence = t.Audio.Valence
		}
	}

	shortlist := make([]domain.HighPotentialTrack, 0, len(candidates))
	for _, key := range order {
		c := candidates[key]
		if c.track.TotalStreams < s.streamFloor {
			continue
		}
		if c.rankCount > 0 {
			c.track.MeanRank = domain.Some(round2(c.rankSum / float64(c.rankCount)))
		}
		if c.scoreRows > 0 {
			c.track.SuccessScore = round2(c.scoreSum / float64(c.scoreRows))
		}
		shortlist = append(shortlist, c.track)
	}

	sort.Slice(shortlist, func(i, k int) bool {
		if shortlist[i].SuccessScore != shortlist[k].SuccessScore {
			return shortlist[i].SuccessScore > shortlist[k].SuccessScore
		}
		if shortlist[i].TrackID != shortlist[k].TrackID {
			return shortlist[i].TrackID < shortlist[k].TrackID
		}
		return shortlist[i].Market < shortlist[k].Market
	})

	s.logger.Info("high-potential tracks selected",
		slog.Int("candidates", len(candidates)),
		slog.Int("selected", len(shortlist)),
		slog.Float64("stream_floor", s.streamFloor))

	if j != nil {
		j.Append(journal.Record{
			Action:      "filter",
			Source:      "merged",
			Target:      "high_potential",
			Description: "High-Potential-Tracks der letzten Jahre ermittelt",
			RowsBefore:  journal.Rows(considered),
			RowsAfter:   journal.Rows(len(shortlist)),
		})
	}

	return shortlist
}

// recentYearSet returns the n most recent distinct chart years as a set.
func recentYearSet(tracks []domain.EnrichedTrack, n int) map[int]bool {
	distinct := make(map[int]bool)
	for i := range tracks {
		if tracks[i].Year > 0 {
			distinct[tracks[i].Year] = true
		}
	}
	years := make([]int, 0, len(distinct))
	for y := range distinct {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	if len(years) > n {
		years = years[:n]
	}
	set := make(map[int]bool, len(years))
	for _, y := range years {
		set[y] = true
	}
	return set
}
