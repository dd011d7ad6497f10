package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/movied/internal/domain"
)

const (
	trendingCount     = 10
	upcomingCount     = 5
	homeListCount     = 3
	homeListPreviewSz = 3
)

// ListPreview is a curated list with a few poster movies
type ListPreview struct {
	List   domain.CuratedList
	Movies []domain.Item
}

// Home is the landing page payload
type Home struct {
	Featured *domain.Item // nil when popular is empty
	Trending []domain.Item
	Upcoming []domain.Item
	Lists    []ListPreview
}

// Home loads popular, top rated and upcoming concurrently and composes the
// landing page. The featured movie is the most popular one; trending is the
// next ten. The first curated lists are previewed with top rated posters.
func (s *Service) Home(ctx context.Context) (*Home, error) {
	var popular, topRated, upcoming []domain.Item

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		popular, err = s.Popular(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		topRated, err = s.TopRated(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		upcoming, err = s.Upcoming(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	home := &Home{
		Trending: window(popular, 1, 1+trendingCount),
		Upcoming: window(upcoming, 0, upcomingCount),
	}
	if len(popular) > 0 {
		featured := popular[0]
		home.Featured = &featured
	}

	lists, err := domain.Lists()
	if err != nil {
		return nil, err
	}
	for i := 0; i < homeListCount && i < len(lists); i++ {
		home.Lists = append(home.Lists, ListPreview{
			List:   lists[i],
			Movies: window(topRated, i*homeListPreviewSz, (i+1)*homeListPreviewSz),
		})
	}
	return home, nil
}

// window returns items[from:to] clamped to the slice bounds
func window(items []domain.Item, from, to int) []domain.Item {
	if from >= len(items) {
		return nil
	}
	if to > len(items) {
		to = len(items)
	}
	return items[from:to]
}
