package catalog

import (
	"context"

	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/query"
)

const listPreviewSize = 3

// ListPage is a curated list with its movies
type ListPage struct {
	List   domain.CuratedList
	Movies []domain.Item
}

// Lists returns the curated list catalog
func (s *Service) Lists() ([]domain.CuratedList, error) {
	return domain.Lists()
}

// ListPreview returns the first three movies of a curated list
func (s *Service) ListPreview(ctx context.Context, slug string) ([]domain.Item, error) {
	list, err := domain.FindList(slug)
	if err != nil {
		return nil, err
	}
	key := query.NewKey(query.KindListPreview, slug)
	return query.Load(ctx, s.cache, key, func(ctx context.Context) ([]domain.Item, error) {
		movies, err := s.Discover(ctx, list.Params)
		if err != nil {
			return nil, err
		}
		return window(movies, 0, listPreviewSize), nil
	}, s.catalogOpts())
}

// List returns a curated list and its movies.
// Unknown slugs fail with domain.ErrListNotFound without any request.
func (s *Service) List(ctx context.Context, slug string) (*ListPage, error) {
	list, err := domain.FindList(slug)
	if err != nil {
		return nil, err
	}
	movies, err := s.Discover(ctx, list.Params)
	if err != nil {
		return nil, err
	}
	return &ListPage{List: list, Movies: movies}, nil
}
