package domain

// EnrichedTrack is the result of left-joining chart entries with audio
// features and genre assignments. Every chart entry survives the join;
// unmatched audio features stay absent and an unmatched genre falls back
// to GenreOther.
type EnrichedTrack struct {
	ChartEntry
	Audio        AudioFeatures `json:"audio"`
	AudioMatched bool          `json:"audio_matched"`
	Genre        string        `json:"genre_harmonized"`
	SuccessScore float64       `json:"success_score"`
}
