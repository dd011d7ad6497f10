package catalog

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/movied/internal/adapter"
	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/query"
)

type fakeRepo struct {
	mu    sync.Mutex
	calls map[string]int

	popular  []domain.Item
	topRated []domain.Item
	upcoming []domain.Item
	search   []domain.Item
	people   []domain.Person
	credits  map[int][]domain.Item
	detail   *domain.MovieDetail
	cast     *domain.Credits
	videos   []domain.Video

	detailErr  error
	creditsErr error
	popularErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{calls: map[string]int{}, credits: map[int][]domain.Item{}}
}

func (f *fakeRepo) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeRepo) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeRepo) Popular(context.Context) ([]domain.Item, error) {
	f.hit("popular")
	return f.popular, f.popularErr
}

func (f *fakeRepo) TopRated(context.Context) ([]domain.Item, error) {
	f.hit("topRated")
	return f.topRated, nil
}

func (f *fakeRepo) Upcoming(context.Context) ([]domain.Item, error) {
	f.hit("upcoming")
	return f.upcoming, nil
}

func (f *fakeRepo) MovieDetails(_ context.Context, id int) (*domain.MovieDetail, error) {
	f.hit("details")
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.detail, nil
}

func (f *fakeRepo) MovieCredits(context.Context, int) (*domain.Credits, error) {
	f.hit("credits")
	if f.creditsErr != nil {
		return nil, f.creditsErr
	}
	return f.cast, nil
}

func (f *fakeRepo) MovieVideos(context.Context, int) ([]domain.Video, error) {
	f.hit("videos")
	return f.videos, nil
}

func (f *fakeRepo) Genres(context.Context) ([]domain.Genre, error) {
	f.hit("genres")
	return []domain.Genre{{ID: 28, Name: "Action"}}, nil
}

func (f *fakeRepo) MoviesByGenre(_ context.Context, genreID int) ([]domain.Item, error) {
	f.hit("genre")
	return []domain.Item{movie(genreID*10, "Genre movie")}, nil
}

func (f *fakeRepo) Discover(context.Context, domain.DiscoverParams) ([]domain.Item, error) {
	f.hit("discover")
	return movies(8), nil
}

func (f *fakeRepo) SearchMulti(context.Context, string) ([]domain.Item, error) {
	f.hit("search")
	return f.search, nil
}

func (f *fakeRepo) SearchPerson(context.Context, string) ([]domain.Person, error) {
	f.hit("searchPerson")
	return f.people, nil
}

func (f *fakeRepo) PersonMovieCredits(_ context.Context, id int) ([]domain.Item, error) {
	f.hit("personCredits")
	return f.credits[id], nil
}

func movie(id int, title string) domain.Item {
	return domain.Item{Kind: domain.MediaKindMovie, ID: id, Title: title}
}

func movies(n int) []domain.Item {
	items := make([]domain.Item, n)
	for i := range items {
		items[i] = movie(i+1, "Movie")
	}
	return items
}

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, query.New(query.WithLogger(adapter.NullLogger())), DefaultConfig(), adapter.NullLogger())
}

func TestHomeComposition(t *testing.T) {
	repo := newFakeRepo()
	repo.popular = movies(15)
	repo.topRated = movies(12)
	repo.upcoming = movies(9)
	s := newTestService(repo)

	home, err := s.Home(context.Background())
	require.NoError(t, err)

	require.NotNil(t, home.Featured)
	assert.Equal(t, 1, home.Featured.ID)
	assert.Len(t, home.Trending, 10)
	assert.Equal(t, 2, home.Trending[0].ID)
	assert.Len(t, home.Upcoming, 5)

	require.Len(t, home.Lists, 3)
	assert.Equal(t, 1, home.Lists[0].Movies[0].ID)
	assert.Equal(t, 4, home.Lists[1].Movies[0].ID)
	assert.Equal(t, 7, home.Lists[2].Movies[0].ID)
}

func TestHomeWithShortListings(t *testing.T) {
	repo := newFakeRepo()
	repo.topRated = movies(4)
	s := newTestService(repo)

	home, err := s.Home(context.Background())
	require.NoError(t, err)
	assert.Nil(t, home.Featured)
	assert.Empty(t, home.Trending)
	assert.Len(t, home.Lists[1].Movies, 1)
	assert.Empty(t, home.Lists[2].Movies)
}

func TestHomeFailsWhenAListingFails(t *testing.T) {
	repo := newFakeRepo()
	repo.popularErr = domain.ErrUpstreamUnavailable
	s := newTestService(repo)

	_, err := s.Home(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestListingsAreCached(t *testing.T) {
	repo := newFakeRepo()
	repo.popular = movies(3)
	s := newTestService(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Popular(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, repo.count("popular"))

	s.Refresh()
	_, err := s.Popular(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.count("popular"))
}

func TestUnknownListMakesNoRequest(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo)

	_, err := s.List(context.Background(), "no-such-list")
	assert.ErrorIs(t, err, domain.ErrListNotFound)
	_, err = s.ListPreview(context.Background(), "no-such-list")
	assert.ErrorIs(t, err, domain.ErrListNotFound)
	assert.Zero(t, repo.count("discover"))
}

func TestListAndPreview(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo)
	lists, err := s.Lists()
	require.NoError(t, err)
	require.NotEmpty(t, lists)
	slug := lists[0].Slug

	page, err := s.List(context.Background(), slug)
	require.NoError(t, err)
	assert.Equal(t, slug, page.List.Slug)
	assert.Len(t, page.Movies, 8)

	preview, err := s.ListPreview(context.Background(), slug)
	require.NoError(t, err)
	assert.Len(t, preview, 3)
	assert.Equal(t, 1, repo.count("discover"), "preview reuses the cached discover page")
}

func TestMovieDetailTrimsCast(t *testing.T) {
	repo := newFakeRepo()
	repo.detail = &domain.MovieDetail{Item: movie(438631, "Dune")}
	cast := &domain.Credits{Crew: []domain.CrewMember{{Name: "Denis Villeneuve", Job: "Director"}}}
	for i := 0; i < 10; i++ {
		cast.Cast = append(cast.Cast, domain.CastMember{ID: i})
	}
	repo.cast = cast
	repo.videos = []domain.Video{{Key: "abc", Site: "YouTube", Type: "Trailer"}}
	s := newTestService(repo)

	page, err := s.MovieDetail(context.Background(), 438631)
	require.NoError(t, err)
	assert.Equal(t, "Dune", page.Detail.Title)
	assert.Len(t, page.Credits.Cast, CastLimit)
	assert.Equal(t, []string{"Denis Villeneuve"}, page.Credits.Directors())
	assert.Len(t, page.Videos, 1)
}

func TestMovieDetailDegradesWithoutCredits(t *testing.T) {
	repo := newFakeRepo()
	repo.detail = &domain.MovieDetail{Item: movie(1, "Solo")}
	repo.creditsErr = domain.ErrUpstreamUnavailable
	s := newTestService(repo)

	page, err := s.MovieDetail(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, page.Credits.Cast)
}

func TestMovieDetailRequiresDetails(t *testing.T) {
	repo := newFakeRepo()
	repo.detailErr = domain.ErrNotFound
	s := newTestService(repo)

	_, err := s.MovieDetail(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearchAndSuggest(t *testing.T) {
	repo := newFakeRepo()
	repo.search = movies(9)
	s := newTestService(repo)
	ctx := context.Background()

	items, err := s.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Nil(t, items)

	items, err = s.Suggest(ctx, "d")
	require.NoError(t, err)
	assert.Nil(t, items)
	assert.Zero(t, repo.count("search"))

	items, err = s.Suggest(ctx, "dune")
	require.NoError(t, err)
	assert.Len(t, items, SuggestionLimit)

	items, err = s.Search(ctx, "dune")
	require.NoError(t, err)
	assert.Len(t, items, 9, "suggest must not truncate the cached search page")
	assert.Equal(t, 1, repo.count("search"))
}

func TestPersonPicksClosestName(t *testing.T) {
	repo := newFakeRepo()
	repo.people = []domain.Person{
		{ID: 1, Name: "Tom Hardy"},
		{ID: 2, Name: "Tom Hanks"},
		{ID: 3, Name: "Tom Hanks Jr"},
	}
	repo.credits[2] = movies(2)
	s := newTestService(repo)

	pc, err := s.Person(context.Background(), "tom hanks")
	require.NoError(t, err)
	require.NotNil(t, pc.Person)
	assert.Equal(t, 2, pc.Person.ID)
	assert.Len(t, pc.Credits, 2)
}

func TestPersonFallsBackToFirstResult(t *testing.T) {
	repo := newFakeRepo()
	repo.people = []domain.Person{{ID: 7, Name: "Zendaya"}}
	s := newTestService(repo)

	pc, err := s.Person(context.Background(), "zendaya coleman")
	require.NoError(t, err)
	require.NotNil(t, pc.Person)
	assert.Equal(t, 7, pc.Person.ID)
}

func TestPersonWithNoMatches(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo)

	pc, err := s.Person(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, pc.Person)
	assert.Empty(t, pc.Credits)
	assert.Zero(t, repo.count("personCredits"))
}

func TestRandomMovie(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo)

	_, err := s.RandomMovie(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	s.Refresh()
	repo.popular = movies(5)
	s.SetRandSource(rand.NewPCG(1, 2))
	m, err := s.RandomMovie(context.Background())
	require.NoError(t, err)
	assert.Contains(t, repo.popular, m)
}

func TestCategoryPreviewKeepsPreviousGenre(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo)
	ctx := context.Background()

	_, err := s.CategoryMovies(ctx, 28)
	require.NoError(t, err)

	refreshed := make(chan query.Key, 4)
	sub := s.OnRefresh(func(k query.Key) { refreshed <- k })
	defer sub.Unsubscribe()

	snap := s.CategoryPreview(ctx, 35, 28)
	if !snap.Ready {
		assert.True(t, snap.IsPlaceholder)
		assert.Equal(t, 280, snap.Items[0].ID)

		select {
		case <-refreshed:
		case <-time.After(time.Second):
			t.Fatal("genre fetch never completed")
		}
	}

	snap = s.CategoryPreview(ctx, 35, 28)
	assert.True(t, snap.Ready)
	assert.False(t, snap.IsPlaceholder)
	assert.Equal(t, 350, snap.Items[0].ID)
}

func TestGenres(t *testing.T) {
	s := newTestService(newFakeRepo())
	genres, err := s.Genres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Action", genres[0].Name)
}

func TestBestMatch(t *testing.T) {
	assert.Nil(t, bestMatch("x", nil))
	p := bestMatch("villeneuve", []domain.Person{{ID: 1, Name: "Someone"}, {ID: 2, Name: "Denis Villeneuve"}})
	require.NotNil(t, p)
	assert.Equal(t, 2, p.ID)
}
