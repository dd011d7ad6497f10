package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MediaKind distinguishes the entity types returned by the catalog.
// It is resolved once when an upstream payload is mapped and never re-inferred.
type MediaKind int

const (
	MediaKindUnknown MediaKind = iota
	MediaKindMovie
	MediaKindPerson
	MediaKindTV
)

// String returns the upstream media_type spelling of the kind
func (k MediaKind) String() string {
	switch k {
	case MediaKindMovie:
		return "movie"
	case MediaKindPerson:
		return "person"
	case MediaKindTV:
		return "tv"
	default:
		return "unknown"
	}
}

// ParseMediaKind converts an upstream media_type value into a MediaKind
func ParseMediaKind(s string) MediaKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie":
		return MediaKindMovie
	case "person":
		return MediaKindPerson
	case "tv":
		return MediaKindTV
	default:
		return MediaKindUnknown
	}
}

// ItemKey is the identity of a catalog entity.
// Upstream ids collide across kinds (movie 550 and person 550 are different),
// so the kind is always part of the key.
type ItemKey struct {
	Kind MediaKind
	ID   int
}

// String renders the key as "kind:id"
func (k ItemKey) String() string {
	return k.Kind.String() + ":" + strconv.Itoa(k.ID)
}

// Item is a single entry in a listing: a movie, a person or a TV show.
type Item struct {
	Kind        MediaKind `json:"kind"`
	ID          int       `json:"id"`
	Title       string    `json:"title"`        // title for movies, name for people and shows
	PosterPath  string    `json:"poster_path"`  // movies and shows
	ProfilePath string    `json:"profile_path"` // people
	ReleaseDate string    `json:"release_date"` // YYYY-MM-DD, first_air_date for shows
	VoteAverage float64   `json:"vote_average"` // 0-10
	Overview    string    `json:"overview"`
	Character   string    `json:"character"` // set on person credits
}

// Key returns the kind-namespaced identity of the item
func (i Item) Key() ItemKey {
	return ItemKey{Kind: i.Kind, ID: i.ID}
}

// GetID returns the namespaced identifier
func (i Item) GetID() string { return i.Key().String() }

// GetTitle returns the display title, falling back to a placeholder
func (i Item) GetTitle() string {
	if i.Title == "" {
		return "Untitled"
	}
	return i.Title
}

// GetYear returns the release year (0 if unknown)
func (i Item) GetYear() int {
	return yearOf(i.ReleaseDate)
}

// GetItemType returns the kind spelled as the upstream does
func (i Item) GetItemType() string { return i.Kind.String() }

// GetDescription returns secondary info for display ("2019", "TBA", "Person")
func (i Item) GetDescription() string {
	switch i.Kind {
	case MediaKindPerson:
		return "Person"
	default:
		if y := i.GetYear(); y > 0 {
			return strconv.Itoa(y)
		}
		return "TBA"
	}
}

// ImagePath returns the poster path, or the profile path for people
func (i Item) ImagePath() string {
	if i.PosterPath != "" {
		return i.PosterPath
	}
	return i.ProfilePath
}

// Rating returns the rating on the five-star scale used by the grids
func (i Item) Rating() float64 {
	return StarRating(i.VoteAverage)
}

// HasRating reports whether the upstream provided any votes
func (i Item) HasRating() bool {
	return i.VoteAverage > 0
}

// StarRating converts a 0-10 vote average into a 0-5 star rating
func StarRating(voteAverage float64) float64 {
	if voteAverage <= 0 {
		return 0
	}
	return voteAverage / 2
}

// Genre is a movie genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetail is the full record for the movie page
type MovieDetail struct {
	Item
	Tagline      string  `json:"tagline"`
	Runtime      int     `json:"runtime"` // minutes
	BackdropPath string  `json:"backdrop_path"`
	VoteCount    int     `json:"vote_count"`
	Genres       []Genre `json:"genres"`
	Status       string  `json:"status"`
}

// FormattedRuntime returns the runtime as "2h 19m"
func (m MovieDetail) FormattedRuntime() string {
	if m.Runtime <= 0 {
		return ""
	}
	d := time.Duration(m.Runtime) * time.Minute
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// GenreNames returns the genre names joined with ", "
func (m MovieDetail) GenreNames() string {
	names := make([]string, len(m.Genres))
	for i, g := range m.Genres {
		names[i] = g.Name
	}
	return strings.Join(names, ", ")
}

// CastMember is a credited actor
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
}

// CrewMember is a credited crew member
type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	ProfilePath string `json:"profile_path"`
}

// Credits holds the cast and crew for a movie
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Directors returns the names of crew members credited as Director
func (c Credits) Directors() []string {
	var names []string
	for _, m := range c.Crew {
		if m.Job == "Director" {
			names = append(names, m.Name)
		}
	}
	return names
}

// TopCast returns at most n cast members in billing order
func (c Credits) TopCast(n int) []CastMember {
	if n < 0 || len(c.Cast) <= n {
		return c.Cast
	}
	return c.Cast[:n]
}

// Video is a clip attached to a movie (trailer, teaser, featurette)
type Video struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// URL returns a watch URL for YouTube and Vimeo hosted videos
func (v Video) URL() string {
	switch v.Site {
	case "YouTube":
		return "https://www.youtube.com/watch?v=" + v.Key
	case "Vimeo":
		return "https://vimeo.com/" + v.Key
	default:
		return ""
	}
}

// Trailer picks the first YouTube trailer, falling back to any YouTube video
func Trailer(videos []Video) (Video, bool) {
	for _, v := range videos {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			return v, true
		}
	}
	for _, v := range videos {
		if v.Site == "YouTube" {
			return v, true
		}
	}
	return Video{}, false
}

// Person is a cast or crew member resolved by name
type Person struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	ProfilePath        string `json:"profile_path"`
	KnownForDepartment string `json:"known_for_department"`
}

// PersonCredits is the person page payload.
// Person is nil (with empty Credits) when no person matched the name.
type PersonCredits struct {
	Person  *Person `json:"person"`
	Credits []Item  `json:"credits"`
}

// MoviePage bundles everything the movie detail page renders
type MoviePage struct {
	Detail  MovieDetail
	Credits Credits
	Videos  []Video
}

func itoa(n int) string { return strconv.Itoa(n) }

func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return y
}
