package catalog

import (
	"context"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/query"
)

// Person resolves a name to the best matching person and loads their credits.
// When nobody matches, the result has a nil Person and no credits.
func (s *Service) Person(ctx context.Context, name string) (*domain.PersonCredits, error) {
	key := query.NewKey(query.KindPersonCredits, name)
	return query.Load(ctx, s.cache, key, func(ctx context.Context) (*domain.PersonCredits, error) {
		people, err := s.repo.SearchPerson(ctx, name)
		if err != nil {
			return nil, err
		}

		person := bestMatch(name, people)
		if person == nil {
			s.logger.Debug("no person matched", "name", name)
			return &domain.PersonCredits{Credits: []domain.Item{}}, nil
		}

		credits, err := s.repo.PersonMovieCredits(ctx, person.ID)
		if err != nil {
			return nil, err
		}
		return &domain.PersonCredits{Person: person, Credits: credits}, nil
	}, s.catalogOpts())
}

// bestMatch ranks people by fuzzy distance to name, case-insensitively.
// Ties keep upstream (popularity) order; no match falls back to the first result.
func bestMatch(name string, people []domain.Person) *domain.Person {
	if len(people) == 0 {
		return nil
	}

	names := make([]string, len(people))
	for i, p := range people {
		names[i] = p.Name
	}

	matches := fuzzy.RankFindNormalizedFold(name, names)
	if len(matches) == 0 {
		p := people[0]
		return &p
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].OriginalIndex < matches[j].OriginalIndex
	})

	p := people[matches[0].OriginalIndex]
	return &p
}
