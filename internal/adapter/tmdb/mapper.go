package tmdb

import (
	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/facet"
)

// MapResult converts a listing row, resolving its media kind once
func MapResult(r Result, ctx facet.Context) domain.Item {
	kind := facet.Classify(r.MediaType, r.Title != "", r.Name != "", ctx)

	title := r.Title
	if title == "" {
		title = r.Name
	}
	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}

	return domain.Item{
		Kind:        kind,
		ID:          r.ID,
		Title:       title,
		PosterPath:  r.PosterPath,
		ProfilePath: r.ProfilePath,
		ReleaseDate: date,
		VoteAverage: r.VoteAverage,
		Overview:    r.Overview,
		Character:   r.Character,
	}
}

// MapMovies converts rows from a movie-only listing.
// These endpoints never send media_type, so every row is a movie.
func MapMovies(rows []Result) []domain.Item {
	items := make([]domain.Item, 0, len(rows))
	for _, r := range rows {
		if r.MediaType == "" {
			r.MediaType = "movie"
		}
		items = append(items, MapResult(r, facet.ContextSearch))
	}
	return items
}

// MapResults converts mixed-kind rows
func MapResults(rows []Result, ctx facet.Context) []domain.Item {
	items := make([]domain.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, MapResult(r, ctx))
	}
	return items
}

// MapMovieDetails converts the detail payload
func MapMovieDetails(d MovieDetails) *domain.MovieDetail {
	return &domain.MovieDetail{
		Item: domain.Item{
			Kind:        domain.MediaKindMovie,
			ID:          d.ID,
			Title:       d.Title,
			PosterPath:  d.PosterPath,
			ReleaseDate: d.ReleaseDate,
			VoteAverage: d.VoteAverage,
			Overview:    d.Overview,
		},
		Tagline:      d.Tagline,
		Runtime:      d.Runtime,
		BackdropPath: d.BackdropPath,
		VoteCount:    d.VoteCount,
		Genres:       MapGenres(d.Genres),
		Status:       d.Status,
	}
}

// MapGenres converts genre rows
func MapGenres(rows []Genre) []domain.Genre {
	genres := make([]domain.Genre, len(rows))
	for i, g := range rows {
		genres[i] = domain.Genre{ID: g.ID, Name: g.Name}
	}
	return genres
}

// MapCredits converts the credits payload, keeping billing order
func MapCredits(c CreditsResponse) *domain.Credits {
	credits := &domain.Credits{
		Cast: make([]domain.CastMember, len(c.Cast)),
		Crew: make([]domain.CrewMember, len(c.Crew)),
	}
	for i, m := range c.Cast {
		credits.Cast[i] = domain.CastMember{
			ID:          m.ID,
			Name:        m.Name,
			Character:   m.Character,
			ProfilePath: m.ProfilePath,
		}
	}
	for i, m := range c.Crew {
		credits.Crew[i] = domain.CrewMember{
			ID:          m.ID,
			Name:        m.Name,
			Job:         m.Job,
			ProfilePath: m.ProfilePath,
		}
	}
	return credits
}

// MapVideos converts video rows
func MapVideos(rows []Video) []domain.Video {
	videos := make([]domain.Video, len(rows))
	for i, v := range rows {
		videos[i] = domain.Video{ID: v.ID, Key: v.Key, Name: v.Name, Site: v.Site, Type: v.Type}
	}
	return videos
}

// MapPeople converts person search rows
func MapPeople(rows []Person) []domain.Person {
	people := make([]domain.Person, len(rows))
	for i, p := range rows {
		people[i] = domain.Person{
			ID:                 p.ID,
			Name:               p.Name,
			ProfilePath:        p.ProfilePath,
			KnownForDepartment: p.KnownForDepartment,
		}
	}
	return people
}
