package kpi

import (
	"log/slog"
	"sort"

	"chartpulse/internal/journal"
	"chartpulse/pkg/contracts/domain"
)

// MarketTrends computes yearly total streams per market and each market's
// share of that year's streams across all markets in the input. Rows are
// sorted by year, then market.
func MarketTrends(tracks []domain.EnrichedTrack, logger *slog.Logger, j *journal.Journal) []domain.MarketTrend {
	if logger == nil {
		logger = slog.Default()
	}

	type trendKey struct {
		Year   int
		Market domain.Market
	}
	totals := make(map[trendKey]float64)
	yearly := make(map[int]float64)
	for i := range tracks {
		t := &tracks[i]
		if !t.Streams.Valid {
			continue
		}
		totals[trendKey{Year: t.Year, Market: t.Market}] += t.Streams.Value
		yearly[t.Year] += t.Streams.Value
	}

	trends := make([]domain.MarketTrend, 0, len(totals))
	for key, streams := range totals {
		share := 0.0
		if yearTotal := yearly[key.Year]; yearTotal > 0 {
			share = streams / yearTotal * 100.0
		}
		trends = append(trends, domain.MarketTrend{
			Year:               key.Year,
			Market:             key.Market,
			TotalStreams:       streams,
			MarketSharePercent: round2(share),
		})
	}

	sort.Slice(trends, func(i, k int) bool {
		if trends[i].Year != trends[k].Year {
			return trends[i].Year < trends[k].Year
		}
		return trends[i].Market < trends[k].Market
	})

	logger.Info("market trends computed", slog.Int("rows", len(trends)))

	if j != nil {
		j.Append(journal.Record{
			Action:      "aggregation",
			Source:      "merged",
			Target:      "market_trends",
			Description: "Jaehrliche Marktanteile je Markt berechnet",
			RowsBefore:  journal.Rows(len(tracks)),
			RowsAfter:   journal.Rows(len(trends)),
		})
	}

	return trends
}
