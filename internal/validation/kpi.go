package validation

import (
	"fmt"
	"log/slog"
	"sort"

	perrors "chartpulse/internal/errors"
	"chartpulse/pkg/contracts/domain"
)

// Share sums per (market, year) must land in this band. The tolerance
// absorbs per-genre rounding of the share column.
const (
	shareSumLow  = 99.8
	shareSumHigh = 100.2
)

// potentialCeiling is a plausibility bound, not a hard limit. Scores above
// it usually point at a growth normalization bug.
const potentialCeiling = 150.0

// KPIValidator checks the aggregated KPI table before export. Every check
// runs to completion so all violations surface together.
type KPIValidator struct {
	baselineYear int
	logger       *slog.Logger
}

// NewKPIValidator creates a validator. baselineYear is the year at which
// the growth momentum index is pinned to 100.
func NewKPIValidator(baselineYear int, logger *slog.Logger) *KPIValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &KPIValidator{
		baselineYear: baselineYear,
		logger:       logger,
	}
}

// Validate runs all checks over the KPI table. Hard violations (duplicate
// keys, broken share sums, a degenerate growth index) block export; the
// returned result still carries every warning found.
func (v *KPIValidator) Validate(records []domain.KPIRecord) *perrors.ValidationErrors {
	result := &perrors.ValidationErrors{}

	v.checkDuplicateKeys(records, result)
	v.checkShareSums(records, result)
	v.checkGrowthVariance(records, result)
	v.checkBaselineGrowth(records, result)
	v.checkPotentialCeiling(records, result)

	if result.HasErrors() {
		v.logger.Error("KPI validation failed",
			slog.Int("errors", len(result.Errors)),
			slog.Int("warnings", len(result.Warnings)))
	} else {
		v.logger.Info("KPI validation passed",
			slog.Int("records", len(records)),
			slog.Int("warnings", len(result.Warnings)))
	}

	return result
}

func (v *KPIValidator) checkDuplicateKeys(records []domain.KPIRecord, result *perrors.ValidationErrors) {
	seen := make(map[domain.KPIKey]int, len(records))
	for _, r := range records {
		seen[r.Key()]++
	}
	keys := make([]domain.KPIKey, 0)
	for key, count := range seen {
		if count > 1 {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, k int) bool {
		if keys[i].Market != keys[k].Market {
			return keys[i].Market < keys[k].Market
		}
		if keys[i].Year != keys[k].Year {
			return keys[i].Year < keys[k].Year
		}
		return keys[i].Genre < keys[k].Genre
	})
	for _, key := range keys {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"duplicate KPI key (%s, %d, %s): %d rows", key.Market, key.Year, key.Genre, seen[key]))
	}
}

func (v *KPIValidator) checkShareSums(records []domain.KPIRecord, result *perrors.ValidationErrors) {
	type sliceKey struct {
		Market domain.Market
		Year   int
	}
	sums := make(map[sliceKey]float64)
	for _, r := range records {
		sums[sliceKey{Market: r.Market, Year: r.Year}] += r.MarketSharePercent
	}
	keys := make([]sliceKey, 0, len(sums))
	for key := range sums {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, k int) bool {
		if keys[i].Market != keys[k].Market {
			return keys[i].Market < keys[k].Market
		}
		return keys[i].Year < keys[k].Year
	})
	for _, key := range keys {
		if sum := sums[key]; sum < shareSumLow || sum > shareSumHigh {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"market shares for (%s, %d) sum to %.2f%%, expected [%.1f, %.1f]",
				key.Market, key.Year, sum, shareSumLow, shareSumHigh))
		}
	}
}

// checkGrowthVariance guards against a systematic computation bug that
// collapses every growth index to the neutral fallback. A table covering
// only the baseline year is legitimately all 100, so it is exempt.
func (v *KPIValidator) checkGrowthVariance(records []domain.KPIRecord, result *perrors.ValidationErrors) {
	if len(records) <= 1 {
		return
	}
	beyondBaseline := false
	distinct := make(map[float64]bool)
	for _, r := range records {
		distinct[r.GrowthMomentum] = true
		if r.Year != v.baselineYear {
			beyondBaseline = true
		}
	}
	if beyondBaseline && len(distinct) <= 1 {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"growth momentum index is constant at %.2f across %d rows",
			records[0].GrowthMomentum, len(records)))
	}
}

func (v *KPIValidator) checkBaselineGrowth(records []domain.KPIRecord, result *perrors.ValidationErrors) {
	for _, r := range records {
		if r.Year == v.baselineYear && r.GrowthMomentum != 100.0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"baseline year row (%s, %d, %s) has growth momentum %.2f, expected 100.0",
				r.Market, r.Year, r.Genre, r.GrowthMomentum))
		}
	}
}

func (v *KPIValidator) checkPotentialCeiling(records []domain.KPIRecord, result *perrors.ValidationErrors) {
	for _, r := range records {
		if r.MarketPotential > potentialCeiling {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"market potential %.2f for (%s, %d, %s) exceeds plausibility ceiling %.0f",
				r.MarketPotential, r.Market, r.Year, r.Genre, potentialCeiling))
		}
	}
}
