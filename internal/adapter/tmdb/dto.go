package tmdb

// PagedResponse is the envelope of every listing endpoint
type PagedResponse[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// Result is a listing row. Movies carry title/release_date, shows and people
// carry name (and first_air_date for shows). media_type is only present on
// multi-search and combined credit rows.
type Result struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type,omitempty"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	ProfilePath  string  `json:"profile_path,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	VoteAverage  float64 `json:"vote_average,omitempty"`
	Overview     string  `json:"overview,omitempty"`
	Character    string  `json:"character,omitempty"`
}

// MovieDetails is the /movie/{id} payload
type MovieDetails struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Tagline      string  `json:"tagline"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	Runtime      int     `json:"runtime"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Status       string  `json:"status"`
	Genres       []Genre `json:"genres"`
}

// Genre is a genre row
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenresResponse is the /genre/movie/list payload
type GenresResponse struct {
	Genres []Genre `json:"genres"`
}

// CreditsResponse is the /movie/{id}/credits payload
type CreditsResponse struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember is a cast row
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// CrewMember is a crew row
type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

// VideosResponse is the /movie/{id}/videos payload
type VideosResponse struct {
	ID      int     `json:"id"`
	Results []Video `json:"results"`
}

// Video is a video row
type Video struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// Person is a /search/person row
type Person struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	ProfilePath        string  `json:"profile_path"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
}

// PersonCreditsResponse is the /person/{id}/movie_credits payload
type PersonCreditsResponse struct {
	ID   int      `json:"id"`
	Cast []Result `json:"cast"`
}

// ErrorResponse is the body TMDB sends with non-2xx statuses
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
