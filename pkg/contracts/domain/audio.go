package domain

// AudioFeatures holds per-track audio attributes and artist metadata from
// the feature database. One row per track; duplicates are dropped keep-first
// before joining. All numeric fields are optional because the source data
// contains malformed values that are coerced to absent during cleaning.
type AudioFeatures struct {
	TrackID          string   `json:"track_id"`
	Danceability     Optional `json:"danceability"`
	Energy           Optional `json:"energy"`
	Valence          Optional `json:"valence"`
	Acousticness     Optional `json:"acousticness"`
	Instrumentalness Optional `json:"instrumentalness"`
	Speechiness      Optional `json:"speechiness"`
	Liveness         Optional `json:"liveness"`
	Tempo            Optional `json:"tempo"`
	Popularity       Optional `json:"popularity"`
	ArtistFollowers  Optional `json:"artist_followers"`
	Top10            Optional `json:"top10"`
	Top50            Optional `json:"top50"`
}

// GenreAssignment maps a track to its harmonized genre category.
type GenreAssignment struct {
	TrackID string `json:"track_id"`
	Genre   string `json:"genre_harmonized"`
}

// GenreOther is the fallback category for unmapped or missing genre labels.
const GenreOther = "Other"
