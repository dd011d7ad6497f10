package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/movied/internal/adapter"
	"github.com/mmcdole/movied/internal/catalog"
	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/query"
	"github.com/mmcdole/movied/internal/route"
)

// Command factories for async operations

const loadTimeout = 30 * time.Second

// LoadHomeCmd loads the landing page
func LoadHomeCmd(svc *catalog.Service, r route.Route) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		home, err := svc.Home(ctx)
		if err != nil {
			return ErrMsg{Route: r, Err: err, Context: "loading home"}
		}
		return HomeLoadedMsg{Route: r, Home: home}
	}
}

// LoadGenresCmd loads the genre list for the categories page
func LoadGenresCmd(svc *catalog.Service, r route.Route) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		genres, err := svc.Genres(ctx)
		if err != nil {
			return ErrMsg{Route: r, Err: err, Context: "loading genres"}
		}
		return GenresLoadedMsg{Route: r, Genres: genres}
	}
}

// CategoryCmd reads the genre grid without blocking. Until genreID resolves
// the snapshot holds the previous genre's movies as a placeholder; the
// completed fetch arrives later as a CacheRefreshedMsg.
func CategoryCmd(svc *catalog.Service, r route.Route, genreID, previousGenreID int) tea.Cmd {
	return func() tea.Msg {
		snap := svc.CategoryPreview(context.Background(), genreID, previousGenreID)
		return CategoryMsg{Route: r, GenreID: genreID, Snapshot: snap}
	}
}

// LoadListsCmd loads the curated list catalog
func LoadListsCmd(svc *catalog.Service, r route.Route) tea.Cmd {
	return func() tea.Msg {
		lists, err := svc.Lists()
		if err != nil {
			return ErrMsg{Route: r, Err: err, Context: "loading lists"}
		}
		return ListsLoadedMsg{Route: r, Lists: lists}
	}
}

// LoadListPreviewCmd loads the first movies of a curated list
func LoadListPreviewCmd(svc *catalog.Service, r route.Route, slug string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		movies, err := svc.ListPreview(ctx, slug)
		return ListPreviewMsg{Route: r, Slug: slug, Movies: movies, Err: err}
	}
}

// LoadListCmd loads a curated list
func LoadListCmd(svc *catalog.Service, r route.Route) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		page, err := svc.List(ctx, r.Slug)
		if err != nil {
			return ErrMsg{Route: r, Err: err, Context: "loading list"}
		}
		return ListLoadedMsg{Route: r, Page: page}
	}
}

// LoadMovieCmd loads a movie page
func LoadMovieCmd(svc *catalog.Service, r route.Route) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		page, err := svc.MovieDetail(ctx, r.ID)
		if err != nil {
			return ErrMsg{Route: r, Err: err, Context: "loading movie"}
		}
		return MovieLoadedMsg{Route: r, Page: page}
	}
}

// LoadPersonCmd loads a person page
func LoadPersonCmd(svc *catalog.Service, r route.Route) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		credits, err := svc.Person(ctx, r.Name)
		if err != nil {
			return ErrMsg{Route: r, Err: err, Context: "loading person"}
		}
		return PersonLoadedMsg{Route: r, Credits: credits}
	}
}

// LoadSearchCmd runs the full search for the results page
func LoadSearchCmd(svc *catalog.Service, r route.Route) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		items, err := svc.Search(ctx, r.Query)
		if err != nil {
			return ErrMsg{Route: r, Err: err, Context: "searching"}
		}
		return SearchLoadedMsg{Route: r, Items: items}
	}
}

// SuggestCmd fetches autocomplete suggestions. Errors are delivered to the
// controller, which renders them as "no matches".
func SuggestCmd(svc *catalog.Service, q string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		items, err := svc.Suggest(ctx, q)
		return SuggestionsMsg{Query: q, Items: items, Err: err}
	}
}

// RandomMovieCmd picks a random popular movie
func RandomMovieCmd(svc *catalog.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		item, err := svc.RandomMovie(ctx)
		if err != nil {
			return StatusMsg{Message: "Couldn't pick a movie: " + err.Error(), IsError: true}
		}
		return RandomMovieMsg{Item: item}
	}
}

// LaunchTrailerCmd opens a trailer in an external player
func LaunchTrailerCmd(launcher *adapter.Launcher, video domain.Video) tea.Cmd {
	return func() tea.Msg {
		if err := launcher.Launch(video.URL()); err != nil {
			return StatusMsg{Message: "Couldn't open trailer: " + err.Error(), IsError: true}
		}
		return TrailerLaunchedMsg{Name: video.Name}
	}
}

// WaitForRefreshCmd blocks until the cache reports a completed lookup
func WaitForRefreshCmd(ch <-chan query.Key) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		k, ok := <-ch
		if !ok {
			return nil
		}
		return CacheRefreshedMsg{Key: k}
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// AwaitCategoryCmd blocks until the genre grid resolves. It joins the fetch
// CategoryCmd started, so a failure is reported instead of leaving the
// placeholder on screen.
func AwaitCategoryCmd(svc *catalog.Service, r route.Route, genreID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		items, err := svc.CategoryMovies(ctx, genreID)
		return CategoryMsg{
			Route:    r,
			GenreID:  genreID,
			Snapshot: catalog.CategorySnapshot{Items: items, Ready: err == nil, Err: err},
		}
	}
}
