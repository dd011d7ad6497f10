package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/query"
)

const (
	// SuggestionLimit caps autocomplete suggestions
	SuggestionLimit = 5

	// CastLimit caps the cast shown on a movie page
	CastLimit = 6

	minSuggestLength = 2
)

// Config controls freshness and persistence of catalog lookups
type Config struct {
	CatalogTTL time.Duration // popular, details, genres, lists
	SearchTTL  time.Duration // free-text search
	Persist    bool          // write catalog payloads to the warm tier
}

// DefaultConfig returns one hour for catalog data and one minute for search
func DefaultConfig() Config {
	return Config{
		CatalogTTL: query.DefaultStaleAfter,
		SearchTTL:  query.SearchStaleAfter,
	}
}

// Service serves every page of the application from the metadata API through
// the query cache. Both front ends share one Service.
type Service struct {
	repo   domain.CatalogRepository
	cache  *query.Cache
	cfg    Config
	logger *slog.Logger

	randMu sync.Mutex
	rand   *rand.Rand
}

// NewService creates a catalog service
func NewService(repo domain.CatalogRepository, cache *query.Cache, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CatalogTTL <= 0 {
		cfg.CatalogTTL = query.DefaultStaleAfter
	}
	if cfg.SearchTTL <= 0 {
		cfg.SearchTTL = query.SearchStaleAfter
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
		rand:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
}

// SetRandSource replaces the random source used by RandomMovie (tests)
func (s *Service) SetRandSource(src rand.Source) {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	s.rand = rand.New(src)
}

func (s *Service) catalogOpts() query.Options {
	return query.Options{StaleAfter: s.cfg.CatalogTTL, Persist: s.cfg.Persist}
}

func (s *Service) searchOpts() query.Options {
	return query.Options{StaleAfter: s.cfg.SearchTTL}
}

// Popular returns the popular movies listing
func (s *Service) Popular(ctx context.Context) ([]domain.Item, error) {
	return query.Load(ctx, s.cache, query.NewKey(query.KindPopular), s.repo.Popular, s.catalogOpts())
}

// TopRated returns the top rated movies listing
func (s *Service) TopRated(ctx context.Context) ([]domain.Item, error) {
	return query.Load(ctx, s.cache, query.NewKey(query.KindTopRated), s.repo.TopRated, s.catalogOpts())
}

// Upcoming returns the upcoming movies listing
func (s *Service) Upcoming(ctx context.Context) ([]domain.Item, error) {
	return query.Load(ctx, s.cache, query.NewKey(query.KindUpcoming), s.repo.Upcoming, s.catalogOpts())
}

// Genres returns the movie genre list
func (s *Service) Genres(ctx context.Context) ([]domain.Genre, error) {
	return query.Load(ctx, s.cache, query.NewKey(query.KindGenres), s.repo.Genres, s.catalogOpts())
}

func categoryKey(genreID int) query.Key {
	return query.NewKey(query.KindCategoryMovies, genreID)
}

func (s *Service) categoryFetcher(genreID int) func(context.Context) ([]domain.Item, error) {
	return func(ctx context.Context) ([]domain.Item, error) {
		return s.repo.MoviesByGenre(ctx, genreID)
	}
}

// CategoryMovies returns the first page of movies in a genre
func (s *Service) CategoryMovies(ctx context.Context, genreID int) ([]domain.Item, error) {
	return query.Load(ctx, s.cache, categoryKey(genreID), s.categoryFetcher(genreID), s.catalogOpts())
}

// CategorySnapshot is the immediate view of a genre grid while switching genres
type CategorySnapshot struct {
	Items         []domain.Item
	Ready         bool // Items belong to the requested genre
	IsPlaceholder bool // Items belong to the previous genre
	IsFetching    bool
	Err           error
}

// CategoryPreview returns what the genre grid should show right now without
// blocking. Until genreID resolves, the previous genre's movies are returned
// as a placeholder so the grid stays stable. A fetch is started if needed.
func (s *Service) CategoryPreview(ctx context.Context, genreID, previousGenreID int) CategorySnapshot {
	opts := s.catalogOpts()
	if previousGenreID != 0 {
		opts.Placeholder = categoryKey(previousGenreID)
	}
	fetch := s.categoryFetcher(genreID)
	r := s.cache.Get(ctx, categoryKey(genreID), func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}, opts)

	items, ok := query.Value[[]domain.Item](r)
	return CategorySnapshot{
		Items:         items,
		Ready:         ok && !r.IsPlaceholder,
		IsPlaceholder: r.IsPlaceholder,
		IsFetching:    r.IsFetching,
		Err:           r.Err,
	}
}

// Discover returns the first discover page for params
func (s *Service) Discover(ctx context.Context, params domain.DiscoverParams) ([]domain.Item, error) {
	key := query.NewKey(query.KindDiscover, params.Values().Encode())
	return query.Load(ctx, s.cache, key, func(ctx context.Context) ([]domain.Item, error) {
		return s.repo.Discover(ctx, params)
	}, s.catalogOpts())
}

// Search runs a free-text search across movies, people and shows.
// The text is the cache identity as typed; empty text returns nothing.
func (s *Service) Search(ctx context.Context, text string) ([]domain.Item, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return query.Load(ctx, s.cache, query.NewKey(query.KindSearch, text), func(ctx context.Context) ([]domain.Item, error) {
		return s.repo.SearchMulti(ctx, text)
	}, s.searchOpts())
}

// Suggest returns the top search matches for the autocomplete.
// Text shorter than two characters never reaches the network.
func (s *Service) Suggest(ctx context.Context, text string) ([]domain.Item, error) {
	if utf8.RuneCountInString(text) < minSuggestLength {
		return nil, nil
	}
	items, err := s.Search(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(items) > SuggestionLimit {
		items = items[:SuggestionLimit]
	}
	return items, nil
}

// RandomMovie picks a movie from the popular listing
func (s *Service) RandomMovie(ctx context.Context) (domain.Item, error) {
	popular, err := s.Popular(ctx)
	if err != nil {
		return domain.Item{}, err
	}
	if len(popular) == 0 {
		return domain.Item{}, fmt.Errorf("%w: no popular movies", domain.ErrNotFound)
	}

	s.randMu.Lock()
	i := s.rand.IntN(len(popular))
	s.randMu.Unlock()
	return popular[i], nil
}

// OnRefresh calls fn whenever any catalog lookup completes, including
// background revalidations. fn must not block.
func (s *Service) OnRefresh(fn func(query.Key)) *query.Subscription {
	return s.cache.SubscribeAll(func(k query.Key, r query.Result) {
		if r.Status == query.StatusSuccess {
			fn(k)
		}
	})
}

// Refresh drops every cached lookup so the next request refetches
func (s *Service) Refresh() {
	s.cache.Reset()
	s.logger.Info("catalog cache invalidated")
}
