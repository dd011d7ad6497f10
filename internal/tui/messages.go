package tui

import (
	"github.com/mmcdole/movied/internal/catalog"
	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/query"
	"github.com/mmcdole/movied/internal/route"
)

// Message types for the TUI. Every page message carries the route it was
// loaded for; the model drops messages for a route it already left.

// ErrMsg represents an error
type ErrMsg struct {
	Route   route.Route
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// HomeLoadedMsg signals that the landing page has been loaded
type HomeLoadedMsg struct {
	Route route.Route
	Home  *catalog.Home
}

// GenresLoadedMsg signals that the genre list has been loaded
type GenresLoadedMsg struct {
	Route  route.Route
	Genres []domain.Genre
}

// CategoryMsg carries the current view of a genre grid
type CategoryMsg struct {
	Route    route.Route
	GenreID  int
	Snapshot catalog.CategorySnapshot
}

// ListsLoadedMsg signals that the curated list catalog has been loaded
type ListsLoadedMsg struct {
	Route route.Route
	Lists []domain.CuratedList
}

// ListPreviewMsg carries the preview movies of a curated list
type ListPreviewMsg struct {
	Route  route.Route
	Slug   string
	Movies []domain.Item
	Err    error
}

// ListLoadedMsg signals that a curated list has been loaded
type ListLoadedMsg struct {
	Route route.Route
	Page  *catalog.ListPage
}

// MovieLoadedMsg signals that a movie page has been loaded
type MovieLoadedMsg struct {
	Route route.Route
	Page  *domain.MoviePage
}

// PersonLoadedMsg signals that a person page has been loaded
type PersonLoadedMsg struct {
	Route   route.Route
	Credits *domain.PersonCredits
}

// SearchLoadedMsg signals that full search results are ready
type SearchLoadedMsg struct {
	Route route.Route
	Items []domain.Item
}

// SuggestionsMsg carries autocomplete results for a debounced query
type SuggestionsMsg struct {
	Query string
	Items []domain.Item
	Err   error
}

// RandomMovieMsg carries a randomly picked popular movie
type RandomMovieMsg struct {
	Item domain.Item
}

// TrailerLaunchedMsg signals that the trailer player was started
type TrailerLaunchedMsg struct {
	Name string
}

// CacheRefreshedMsg signals that a cached lookup completed in the background
type CacheRefreshedMsg struct {
	Key query.Key
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
