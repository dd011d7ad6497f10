package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/facet"
)

const (
	// DefaultBaseURL is the TMDB v3 API root
	DefaultBaseURL = "https://api.themoviedb.org/3"

	// DefaultLanguage is sent with every request
	DefaultLanguage = "en-US"

	defaultTimeout = 15 * time.Second
)

// Client implements domain.CatalogRepository against the TMDB v3 API.
// Every method performs exactly one request; there are no retries.
type Client struct {
	baseURL    string
	token      string
	language   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new TMDB API client
func NewClient(baseURL, token, language string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if language == "" {
		language = DefaultLanguage
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		language: language,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated GET and returns the response body.
// Transport failures map to ErrUpstreamUnavailable, 401 to ErrUnauthorized,
// 404 to ErrNotFound and any other non-2xx status to *StatusError.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.token == "" {
		return nil, domain.ErrMissingToken
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("language", c.language)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	c.logger.Debug("tmdb request", "path", path, "query", query.Encode())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("tmdb request failed", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrUpstreamUnavailable, err)
	}

	c.logger.Debug("tmdb response", "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		var apiErr ErrorResponse
		_ = json.Unmarshal(body, &apiErr)
		c.logger.Error("tmdb request error",
			"status", resp.StatusCode,
			"path", path,
			"message", apiErr.StatusMessage,
		)
		return nil, &domain.StatusError{Status: resp.StatusCode, Path: path}
	}

	return body, nil
}

// get performs a request and decodes the JSON body into dest
func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func firstPage() url.Values {
	q := url.Values{}
	q.Set("page", "1")
	return q
}

func (c *Client) movieListing(ctx context.Context, path string) ([]domain.Item, error) {
	var resp PagedResponse[Result]
	if err := c.get(ctx, path, firstPage(), &resp); err != nil {
		return nil, err
	}
	return MapMovies(resp.Results), nil
}

// Popular returns the first page of popular movies
func (c *Client) Popular(ctx context.Context) ([]domain.Item, error) {
	return c.movieListing(ctx, "/movie/popular")
}

// TopRated returns the first page of top rated movies
func (c *Client) TopRated(ctx context.Context) ([]domain.Item, error) {
	return c.movieListing(ctx, "/movie/top_rated")
}

// Upcoming returns the first page of upcoming movies
func (c *Client) Upcoming(ctx context.Context) ([]domain.Item, error) {
	return c.movieListing(ctx, "/movie/upcoming")
}

// MovieDetails returns the full record for a movie
func (c *Client) MovieDetails(ctx context.Context, id int) (*domain.MovieDetail, error) {
	var resp MovieDetails
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id), nil, &resp); err != nil {
		return nil, err
	}
	return MapMovieDetails(resp), nil
}

// MovieCredits returns cast and crew for a movie
func (c *Client) MovieCredits(ctx context.Context, id int) (*domain.Credits, error) {
	var resp CreditsResponse
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id)+"/credits", nil, &resp); err != nil {
		return nil, err
	}
	return MapCredits(resp), nil
}

// MovieVideos returns trailers and clips for a movie
func (c *Client) MovieVideos(ctx context.Context, id int) ([]domain.Video, error) {
	var resp VideosResponse
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id)+"/videos", nil, &resp); err != nil {
		return nil, err
	}
	return MapVideos(resp.Results), nil
}

// Genres returns the movie genre list
func (c *Client) Genres(ctx context.Context) ([]domain.Genre, error) {
	var resp GenresResponse
	if err := c.get(ctx, "/genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}
	return MapGenres(resp.Genres), nil
}

// MoviesByGenre returns the first discover page for a single genre
func (c *Client) MoviesByGenre(ctx context.Context, genreID int) ([]domain.Item, error) {
	q := firstPage()
	q.Set("with_genres", strconv.Itoa(genreID))

	var resp PagedResponse[Result]
	if err := c.get(ctx, "/discover/movie", q, &resp); err != nil {
		return nil, err
	}
	return MapMovies(resp.Results), nil
}

// Discover returns the first discover page for arbitrary filters
func (c *Client) Discover(ctx context.Context, params domain.DiscoverParams) ([]domain.Item, error) {
	q := params.Values()
	q.Set("include_adult", "false")
	q.Set("page", "1")

	var resp PagedResponse[Result]
	if err := c.get(ctx, "/discover/movie", q, &resp); err != nil {
		return nil, err
	}
	return MapMovies(resp.Results), nil
}

// SearchMulti searches movies, people and shows
func (c *Client) SearchMulti(ctx context.Context, query string) ([]domain.Item, error) {
	q := firstPage()
	q.Set("query", query)

	var resp PagedResponse[Result]
	if err := c.get(ctx, "/search/multi", q, &resp); err != nil {
		return nil, err
	}
	return MapResults(resp.Results, facet.ContextSearch), nil
}

// SearchPerson searches people by name
func (c *Client) SearchPerson(ctx context.Context, name string) ([]domain.Person, error) {
	q := url.Values{}
	q.Set("query", name)

	var resp PagedResponse[Person]
	if err := c.get(ctx, "/search/person", q, &resp); err != nil {
		return nil, err
	}
	return MapPeople(resp.Results), nil
}

// PersonMovieCredits returns the cast credits of a person
func (c *Client) PersonMovieCredits(ctx context.Context, personID int) ([]domain.Item, error) {
	var resp PersonCreditsResponse
	if err := c.get(ctx, "/person/"+strconv.Itoa(personID)+"/movie_credits", nil, &resp); err != nil {
		return nil, err
	}
	return MapResults(resp.Cast, facet.ContextCredits), nil
}

var _ domain.CatalogRepository = (*Client)(nil)
