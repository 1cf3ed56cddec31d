package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartpulse/pkg/contracts/domain"
)

func dailyRow(trackID string, market domain.Market, year int, streams, rank, score float64) domain.EnrichedTrack {
	return domain.EnrichedTrack{
		ChartEntry: domain.ChartEntry{
			TrackID: trackID,
			Title:   "Title " + trackID,
			Artist:  "Artist " + trackID,
			Year:    year,
			Market:  market,
			Streams: domain.Some(streams),
			Rank:    domain.Some(rank),
		},
		Genre:        "Pop",
		SuccessScore: score,
	}
}

func TestSelectKeepsRecentYearsOnly(t *testing.T) {
	tracks := []domain.EnrichedTrack{
		dailyRow("old", domain.MarketGermany, 2019, 50_000, 1, 90),
		dailyRow("mid", domain.MarketGermany, 2020, 50_000, 1, 80),
		dailyRow("new", domain.MarketGermany, 2021, 50_000, 1, 70),
	}

	s := NewHighPotentialSelector(1000, 2, nil)
	shortlist := s.Select(tracks, nil)

	require.Len(t, shortlist, 2)
	ids := []string{shortlist[0].TrackID, shortlist[1].TrackID}
	assert.ElementsMatch(t, []string{"mid", "new"}, ids)
}

func TestSelectAppliesStreamFloor(t *testing.T) {
	tracks := []domain.EnrichedTrack{
		dailyRow("big", domain.MarketGermany, 2021, 5_000, 1, 80),
		dailyRow("small", domain.MarketGermany, 2021, 999, 1, 95),
	}

	s := NewHighPotentialSelector(1000, 2, nil)
	shortlist := s.Select(tracks, nil)

	require.Len(t, shortlist, 1)
	assert.Equal(t, "big", shortlist[0].TrackID)
}

func TestSelectAggregatesDailyRows(t *testing.T) {
	// The same track charts twice in the same market: streams sum, rank
	// and score average, and the latest year wins.
	tracks := []domain.EnrichedTrack{
		dailyRow("hit", domain.MarketGermany, 2020, 800, 4, 70),
		dailyRow("hit", domain.MarketGermany, 2021, 700, 2, 80),
	}

	s := NewHighPotentialSelector(1000, 2, nil)
	shortlist := s.Select(tracks, nil)

	require.Len(t, shortlist, 1)
	hit := shortlist[0]
	assert.InDelta(t, 1500.0, hit.TotalStreams, 1e-9)
	require.True(t, hit.MeanRank.Valid)
	assert.InDelta(t, 3.0, hit.MeanRank.Value, 1e-9)
	assert.InDelta(t, 75.0, hit.SuccessScore, 1e-9)
	assert.Equal(t, 2021, hit.Year)
	assert.Equal(t, "Title hit", hit.TrackName)
}

func TestSelectSeparatesMarkets(t *testing.T) {
	tracks := []domain.EnrichedTrack{
		dailyRow("hit", domain.MarketGermany, 2021, 2_000, 1, 80),
		dailyRow("hit", domain.MarketBrazil, 2021, 3_000, 1, 60),
	}

	s := NewHighPotentialSelector(1000, 2, nil)
	shortlist := s.Select(tracks, nil)

	require.Len(t, shortlist, 2)
	assert.Equal(t, domain.MarketGermany, shortlist[0].Market)
	assert.Equal(t, domain.MarketBrazil, shortlist[1].Market)
}

func TestSelectSortsByScoreDescending(t *testing.T) {
	tracks := []domain.EnrichedTrack{
		dailyRow("c", domain.MarketGermany, 2021, 2_000, 1, 60),
		dailyRow("a", domain.MarketGermany, 2021, 2_000, 1, 90),
		dailyRow("b", domain.MarketGermany, 2021, 2_000, 1, 90),
	}

	s := NewHighPotentialSelector(1000, 2, nil)
	shortlist := s.Select(tracks, nil)

	require.Len(t, shortlist, 3)
	// Equal scores break the tie on track id.
	assert.Equal(t, "a", shortlist[0].TrackID)
	assert.Equal(t, "b", shortlist[1].TrackID)
	assert.Equal(t, "c", shortlist[2].TrackID)
}

func TestSelectEmptyInput(t *testing.T) {
	s := NewHighPotentialSelector(1000, 2, nil)
	assert.Empty(t, s.Select(nil, nil))
}
