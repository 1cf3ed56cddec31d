package domain

// KPIRecord represents aggregated market metrics for one (market, year,
// genre) slice. The key is unique within a pipeline run and the record is
// immutable once validation has passed.
type KPIRecord struct {
	Market             Market  `json:"market" validate:"required"`
	Year               int     `json:"year" validate:"required,min=1900"`
	Genre              string  `json:"genre" validate:"required"`
	StreamsTotal       float64 `json:"streams_total" validate:"min=0"`
	TrackCount         int     `json:"track_count" validate:"min=0"`
	MarketSharePercent float64 `json:"market_share_percent" validate:"min=0,max=100"`
	GrowthMomentum     float64 `json:"growth_momentum_index" validate:"min=0"`
	ShannonDiversity   float64 `json:"shannon_diversity" validate:"min=0"`
	SuccessRatePercent float64 `json:"success_rate_percent" validate:"min=0,max=100"`
	MarketPotential    float64 `json:"market_potential_score" validate:"min=0"`
}

// Key returns the unique aggregation key for the record.
func (k KPIRecord) Key() KPIKey {
	return KPIKey{Market: k.Market, Year: k.Year, Genre: k.Genre}
}

// KPIKey identifies a (market, year, genre) slice.
type KPIKey struct {
	Market Market
	Year   int
	Genre  string
}

// MarketTrend represents yearly total streams and the market's share of
// that year's streams across all configured markets.
type MarketTrend struct {
	Year               int     `json:"year"`
	Market             Market  `json:"market"`
	TotalStreams       float64 `json:"total_streams"`
	MarketSharePercent float64 `json:"market_share_percent"`
}

// HighPotentialTrack is a track from the two most recent chart years that
// cleared the minimum stream floor, ranked by mean success score.
type HighPotentialTrack struct {
	TrackID      string   `json:"track_id"`
	Market       Market   `json:"market"`
	TrackName    string   `json:"track_name"`
	Artist       string   `json:"artist"`
	Genre        string   `json:"genre_harmonized"`
	Year         int      `json:"year"`
	TotalStreams float64  `json:"total_streams"`
	MeanRank     Optional `json:"rank"`
	SuccessScore float64  `json:"success_score"`
	Danceability Optional `json:"danceability"`
	Energy       Optional `json:"energy"`
	Valence      Optional `json:"valence"`
}
