package domain

import (
	"context"
)

// CatalogRepository provides read access to the upstream movie metadata API.
// Implemented by the TMDB adapter; every method performs exactly one request.
type CatalogRepository interface {
	// Popular, TopRated and Upcoming return the first page of each listing
	Popular(ctx context.Context) ([]Item, error)
	TopRated(ctx context.Context) ([]Item, error)
	Upcoming(ctx context.Context) ([]Item, error)

	// MovieDetails returns the full record for a movie
	MovieDetails(ctx context.Context, id int) (*MovieDetail, error)

	// MovieCredits returns cast and crew for a movie
	MovieCredits(ctx context.Context, id int) (*Credits, error)

	// MovieVideos returns trailers and clips for a movie
	MovieVideos(ctx context.Context, id int) ([]Video, error)

	// Genres returns the movie genre list
	Genres(ctx context.Context) ([]Genre, error)

	// MoviesByGenre returns the first discover page filtered to one genre
	MoviesByGenre(ctx context.Context, genreID int) ([]Item, error)

	// Discover returns the first discover page for arbitrary filters
	Discover(ctx context.Context, params DiscoverParams) ([]Item, error)

	// SearchMulti searches movies, people and TV shows by free text
	SearchMulti(ctx context.Context, query string) ([]Item, error)

	// SearchPerson searches people by name
	SearchPerson(ctx context.Context, name string) ([]Person, error)

	// PersonMovieCredits returns the cast credits of a person
	PersonMovieCredits(ctx context.Context, personID int) ([]Item, error)
}
