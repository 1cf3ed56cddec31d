package scoring

import (
	"chartpulse/pkg/contracts/domain"
)

// Weights contains the weight of each success-score sub-metric.
type Weights struct {
	Rank         float64 `json:"rank"`
	Streams      float64 `json:"streams"`
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Followers    float64 `json:"followers"`
	Top10        float64 `json:"top10"`
}

// DefaultWeights returns the published score weights: rank 25%, streams
// 15%, danceability 15%, energy 15%, artist reach 20%, top-10 placement
// 10%.
func DefaultWeights() Weights {
	return Weights{
		Rank:         0.25,
		Streams:      0.15,
		Danceability: 0.15,
		Energy:       0.15,
		Followers:    0.20,
		Top10:        0.10,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Rank + w.Streams + w.Danceability + w.Energy + w.Followers + w.Top10
}

// IsValid checks that all weights are non-negative and sum to 1
func (w Weights) IsValid() bool {
	for _, v := range []float64{w.Rank, w.Streams, w.Danceability, w.Energy, w.Followers, w.Top10} {
		if v < 0 {
			return false
		}
	}
	sum := w.Sum()
	return sum > 0.99 && sum < 1.01
}

// term binds one sub-metric to its weight and normalizer. The normalizer
// maps the raw field onto a 0-100 scale; batch holds cross-row context for
// the relative terms.
type term struct {
	name      string
	weight    func(Weights) float64
	field     func(domain.EnrichedTrack) domain.Optional
	normalize func(value float64, batch *batchContext) float64
}

// batchContext carries the batch-level maxima the relative sub-metrics are
// normalized against. The streams and artist-reach terms are relative to
// the current batch, not absolute.
type batchContext struct {
	maxLogStreams   float64
	maxLogFollowers float64
}
