package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/query"
)

// MovieDetail loads the movie page: details, top billed cast and videos.
// Details are required; credits and videos degrade to empty on failure.
func (s *Service) MovieDetail(ctx context.Context, id int) (*domain.MoviePage, error) {
	var (
		detail  *domain.MovieDetail
		credits *domain.Credits
		videos  []domain.Video
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = query.Load(gctx, s.cache, query.NewKey(query.KindMovieDetails, id),
			func(ctx context.Context) (*domain.MovieDetail, error) {
				return s.repo.MovieDetails(ctx, id)
			}, s.catalogOpts())
		return err
	})
	g.Go(func() error {
		var err error
		credits, err = query.Load(gctx, s.cache, query.NewKey(query.KindMovieCredits, id),
			func(ctx context.Context) (*domain.Credits, error) {
				return s.repo.MovieCredits(ctx, id)
			}, s.catalogOpts())
		if err != nil {
			s.logger.Warn("failed to load credits", "movie", id, "error", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		videos, err = query.Load(gctx, s.cache, query.NewKey(query.KindMovieVideos, id),
			func(ctx context.Context) ([]domain.Video, error) {
				return s.repo.MovieVideos(ctx, id)
			}, s.catalogOpts())
		if err != nil {
			s.logger.Warn("failed to load videos", "movie", id, "error", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	page := &domain.MoviePage{Detail: *detail, Videos: videos}
	if credits != nil {
		page.Credits = domain.Credits{
			Cast: credits.TopCast(CastLimit),
			Crew: credits.Crew,
		}
	}
	return page, nil
}
