// Package scoring computes the per-track success score, a weighted
// composite of chart performance, stream volume, audio characteristics and
// artist reach on a 0-100 scale.
//
// The score is a comparative index, not a causal measure. Weights are not
// renormalized when a sub-metric is absent, so records missing sub-terms
// receive deflated scores; that behavior is part of the published score
// semantics and must not be changed.
package scoring
