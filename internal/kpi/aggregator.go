package kpi

import (
	"log/slog"
	"math"
	"sort"

	"chartpulse/internal/journal"
	"chartpulse/pkg/contracts/domain"
)

// shannonEpsilon guards the logarithm against zero proportions.
const shannonEpsilon = 1e-12

// Aggregator computes (market, year, genre) KPI records from scored
// tracks.
type Aggregator struct {
	successCutoff float64
	growthCap     float64
	baselineYear  int
	logger        *slog.Logger
}

// NewAggregator creates an Aggregator. baselineYear anchors the growth
// momentum index; growthCap bounds the growth contribution to the market
// potential blend.
func NewAggregator(successCutoff, growthCap float64, baselineYear int, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		successCutoff: successCutoff,
		growthCap:     growthCap,
		baselineYear:  baselineYear,
		logger:        logger,
	}
}

// sliceKey groups tracks into one (year, market) aggregation slice.
type sliceKey struct {
	Year   int
	Market domain.Market
}

// genreStats accumulates the per-genre figures within one slice.
type genreStats struct {
	streams    float64
	trackCount int
	successful int
}

// Aggregate groups tracks by (year, market, genre) and computes the KPI
// table. Slices with zero total streams are dropped entirely. Output rows
// are sorted by market, year, genre so the table is stable across runs.
func (a *Aggregator) Aggregate(tracks []domain.EnrichedTrack, j *journal.Journal) []domain.KPIRecord {
	slices := make(map[sliceKey]map[string]*genreStats)
	for i := range tracks {
		t := &tracks[i]
		key := sliceKey{Year: t.Year, Market: t.Market}
		genres, ok := slices[key]
		if !ok {
			genres = make(map[string]*genreStats)
			slices[key] = genres
		}
		stats, ok := genres[t.Genre]
		if !ok {
			stats = &genreStats{}
			genres[t.Genre] = stats
		}
		if t.Streams.Valid {
			stats.streams += t.Streams.Value
		}
		stats.trackCount++
		if t.SuccessScore >= a.successCutoff {
			stats.successful++
		}
	}

	// Baseline streams per (market, genre) anchor the growth index.
	baseline := make(map[domain.Market]map[string]float64)
	for key, genres := range slices {
		if key.Year != a.baselineYear {
			continue
		}
		byGenre := make(map[string]float64, len(genres))
		for genre, stats := range genres {
			byGenre[genre] = stats.streams
		}
		baseline[key.Market] = byGenre
	}

	records := make([]domain.KPIRecord, 0, len(slices)*4)
	skipped := 0
	for key, genres := range slices {
		totalStreams := 0.0
		totalTracks := 0
		for _, stats := range genres {
			totalStreams += stats.streams
			totalTracks += stats.trackCount
		}
		if totalStreams <= 0 {
			skipped++
			continue
		}

		diversity := shannonDiversity(genres, totalTracks)

		for genre, stats := range genres {
			successRate := 0.0
			if stats.trackCount > 0 {
				successRate = float64(stats.successful) / float64(stats.trackCount) * 100.0
			}
			growth := a.growthMomentum(key, genre, stats.streams, baseline)
			share := stats.streams / totalStreams * 100.0

			records = append(records, domain.KPIRecord{
				Market:             key.Market,
				Year:               key.Year,
				Genre:              genre,
				StreamsTotal:       stats.streams,
				TrackCount:         stats.trackCount,
				MarketSharePercent: round2(share),
				GrowthMomentum:     round2(growth),
				ShannonDiversity:   round3(diversity),
				SuccessRatePercent: round2(successRate),
				MarketPotential:    round2(a.marketPotential(share, successRate, growth)),
			})
		}
	}

	sort.Slice(records, func(i, k int) bool {
		if records[i].Market != records[k].Market {
			return records[i].Market < records[k].Market
		}
		if records[i].Year != records[k].Year {
			return records[i].Year < records[k].Year
		}
		return records[i].Genre < records[k].Genre
	})

	a.logger.Info("KPI aggregation complete",
		slog.Int("records", len(records)),
		slog.Int("slices_skipped", skipped),
		slog.Int("baseline_year", a.baselineYear))

	if j != nil {
		j.Append(journal.Record{
			Action:      "aggregation",
			Source:      "merged",
			Target:      "kpi",
			Description: "KPIs je Markt, Jahr und Genre aggregiert",
			RowsBefore:  journal.Rows(len(tracks)),
			RowsAfter:   journal.Rows(len(records)),
		})
	}

	return records
}

// shannonDiversity computes H = -sum(p*ln(p+eps)) over the slice's genre
// distribution, where p is the genre's share of the slice's track rows.
func shannonDiversity(genres map[string]*genreStats, totalTracks int) float64 {
	if totalTracks == 0 {
		return 0
	}
	h := 0.0
	for _, stats := range genres {
		p := float64(stats.trackCount) / float64(totalTracks)
		if p <= 0 {
			continue
		}
		h -= p * math.Log(p+shannonEpsilon)
	}
	return h
}

// growthMomentum is the ratio of the genre's streams to its streams in the
// baseline year within the same market, times 100. At the baseline year
// itself, and whenever no baseline figure exists, the index is exactly
// 100.0. The fallback is deliberate neutrality, not missing data.
func (a *Aggregator) growthMomentum(key sliceKey, genre string, streams float64, baseline map[domain.Market]map[string]float64) float64 {
	if key.Year == a.baselineYear {
		return 100.0
	}
	byGenre, ok := baseline[key.Market]
	if !ok {
		return 100.0
	}
	base, ok := byGenre[genre]
	if !ok || base <= 0 {
		return 100.0
	}
	return streams / base * 100.0
}

// marketPotential blends market share (0.4), success rate (0.3) and
// growth momentum (0.3). Growth is rescaled onto 0-100 by capping at
// growthCap so one outlier genre cannot dominate the composite.
func (a *Aggregator) marketPotential(share, successRate, growth float64) float64 {
	normalizedGrowth := math.Min(growth, a.growthCap) / a.growthCap * 100.0
	return 0.4*share + 0.3*successRate + 0.3*normalizedGrowth
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
