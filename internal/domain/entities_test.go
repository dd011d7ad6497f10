package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemKeyNamespacesByKind(t *testing.T) {
	movie := Item{Kind: MediaKindMovie, ID: 550}
	person := Item{Kind: MediaKindPerson, ID: 550}

	assert.NotEqual(t, movie.Key(), person.Key())
	assert.Equal(t, "movie:550", movie.GetID())
	assert.Equal(t, "person:550", person.GetID())
}

func TestItemDisplayFallbacks(t *testing.T) {
	assert.Equal(t, "Untitled", Item{}.GetTitle())
	assert.Equal(t, "TBA", Item{Kind: MediaKindMovie}.GetDescription())
	assert.Equal(t, "1999", Item{Kind: MediaKindMovie, ReleaseDate: "1999-10-15"}.GetDescription())
	assert.Equal(t, "Person", Item{Kind: MediaKindPerson}.GetDescription())
	assert.Equal(t, "/p.jpg", Item{ProfilePath: "/p.jpg"}.ImagePath())
}

func TestStarRating(t *testing.T) {
	assert.InDelta(t, 4.2, StarRating(8.4), 0.0001)
	assert.Zero(t, StarRating(0))
}

func TestTrailerPrefersYouTubeTrailer(t *testing.T) {
	videos := []Video{
		{Key: "a", Site: "Vimeo", Type: "Trailer"},
		{Key: "b", Site: "YouTube", Type: "Featurette"},
		{Key: "c", Site: "YouTube", Type: "Trailer"},
	}
	v, ok := Trailer(videos)
	assert.True(t, ok)
	assert.Equal(t, "c", v.Key)
	assert.Equal(t, "https://www.youtube.com/watch?v=c", v.URL())

	_, ok = Trailer(nil)
	assert.False(t, ok)
}

func TestFormattedRuntime(t *testing.T) {
	assert.Equal(t, "2h 19m", MovieDetail{Runtime: 139}.FormattedRuntime())
	assert.Equal(t, "45m", MovieDetail{Runtime: 45}.FormattedRuntime())
	assert.Equal(t, "", MovieDetail{}.FormattedRuntime())
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/x.jpg", ImageURL("", SizeCard, "/x.jpg"))
	assert.Equal(t, "http://cdn/w92/x.jpg", ImageURL("http://cdn", SizeThumb, "/x.jpg"))
	assert.Equal(t, "", ImageURL("", SizeCard, ""))
}
