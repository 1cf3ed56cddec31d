package dataprocessing

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartpulse/internal/journal"
	"chartpulse/pkg/contracts/domain"
)

func featureTable() *Table {
	return &Table{
		Headers: []string{"Uri", "Genre", "danceability", "energy", "tempo", "Popularity", "Artist_followers", "Top10_dummy"},
		Rows: [][]string{
			{"https://open.spotify.com/track/AAA", "dance pop", "0.8", "0.9", "128", "75", "1000000", "1"},
			{"https://open.spotify.com/track/AAA", "dance pop", "0.1", "0.1", "90", "10", "5", "0"}, // duplicate
			{"https://open.spotify.com/track/BBB", "hardstyle techno", "corrupt", "0.7", "500", "120", "-10", "0"},
			{"https://open.spotify.com/album/xxx", "rock", "0.5", "0.5", "100", "50", "100", "0"}, // no track id
		},
	}
}

func TestFeaturePreparer_PrepareAudio(t *testing.T) {
	j := journal.New()
	features := NewFeaturePreparer(slog.Default()).PrepareAudio(featureTable(), j)

	require.Len(t, features, 2, "id-less rows dropped, duplicates keep-first")

	aaa := features[0]
	assert.Equal(t, "AAA", aaa.TrackID)
	assert.Equal(t, domain.Some(0.8), aaa.Danceability, "first occurrence wins")
	assert.Equal(t, domain.Some(128.0), aaa.Tempo)
	assert.Equal(t, domain.Some(1.0), aaa.Top10)

	bbb := features[1]
	assert.False(t, bbb.Danceability.Valid, "corrupt value coerced to missing")
	assert.Equal(t, domain.Some(250.0), bbb.Tempo, "tempo clipped to 250 BPM")
	assert.Equal(t, domain.Some(100.0), bbb.Popularity, "popularity clipped to 100")
	assert.Equal(t, domain.Some(0.0), bbb.ArtistFollowers, "followers clipped at zero")

	assert.Equal(t, 2, j.Len())
}

func TestFeaturePreparer_PrepareAudio_EmptyTable(t *testing.T) {
	j := journal.New()

	assert.Nil(t, NewFeaturePreparer(nil).PrepareAudio(nil, j))
	assert.Nil(t, NewFeaturePreparer(nil).PrepareAudio(&Table{}, j))
	assert.Equal(t, 0, j.Len(), "nothing to journal without input")
}

func TestFeaturePreparer_PrepareGenres(t *testing.T) {
	j := journal.New()
	h := NewHarmonizer(DefaultMapping())

	assignments := NewFeaturePreparer(slog.Default()).PrepareGenres(featureTable(), h, "genre_mapping.json", j)

	require.Len(t, assignments, 2)
	assert.Equal(t, domain.GenreAssignment{TrackID: "AAA", Genre: "Pop"}, assignments[0])
	assert.Equal(t, domain.GenreAssignment{TrackID: "BBB", Genre: "Electronic"}, assignments[1], "substring match on techno")

	require.Equal(t, 1, j.Len())
	entry := j.Entries()[0]
	assert.Equal(t, "harmonize", entry.Action)
	assert.Contains(t, entry.ExtraInfo, "Other-Rate: 0.0%")
}

func TestFeaturePreparer_PrepareGenres_NoGenreColumn(t *testing.T) {
	table := &Table{Headers: []string{"Uri"}, Rows: [][]string{{"https://open.spotify.com/track/AAA"}}}

	assignments := NewFeaturePreparer(slog.Default()).PrepareGenres(table, NewHarmonizer(DefaultMapping()), "mapping", journal.New())
	assert.Nil(t, assignments)
}
