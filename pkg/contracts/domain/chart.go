package domain

import (
	"time"
)

// Market represents a target chart market
type Market string

const (
	MarketGermany       Market = "DE"
	MarketUnitedKingdom Market = "UK"
	MarketBrazil        Market = "BR"
)

// MarketCodes maps raw region names from the chart export to market codes
var MarketCodes = map[string]Market{
	"Germany":        MarketGermany,
	"United Kingdom": MarketUnitedKingdom,
	"Brazil":         MarketBrazil,
}

// ChartEntry represents one chart placement: a track on a given day in a
// given market. The track ID is derived from the source URL and is not
// usable for joins until extraction has run.
type ChartEntry struct {
	TrackID string    `json:"track_id"`
	Title   string    `json:"title"`
	Artist  string    `json:"artist"`
	Date    time.Time `json:"date"`
	Year    int       `json:"year"`
	Region  string    `json:"region"`
	Market  Market    `json:"market"`
	Rank    Optional  `json:"rank"`
	Streams Optional  `json:"streams"`
	URL     string    `json:"url"`
}

// HasKey reports whether the entry carries the fields required for joining
// and aggregation.
func (e ChartEntry) HasKey() bool {
	return e.TrackID != "" && !e.Date.IsZero() && e.Market != ""
}
