package facet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmcdole/movied/internal/domain"
)

// record is an upstream row with no media_type
type record struct {
	title, name string
}

func classifyAll(ctx Context, records ...record) []domain.Item {
	items := make([]domain.Item, len(records))
	for i, r := range records {
		title := r.title
		if title == "" {
			title = r.name
		}
		items[i] = domain.Item{
			ID:    i + 1,
			Title: title,
			Kind:  Classify("", r.title != "", r.name != "", ctx),
		}
	}
	return items
}

func TestCountForFallsBackToFieldPresence(t *testing.T) {
	items := classifyAll(ContextSearch, record{title: "A"}, record{name: "B"}, record{title: "C"})

	assert.Equal(t, 2, CountFor(Movie, items))
	assert.Equal(t, 1, CountFor(Person, items))
	assert.Equal(t, 0, CountFor(TV, items))
	assert.Equal(t, 3, CountFor(All, items))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, domain.MediaKindTV, Classify("tv", true, false, ContextSearch), "explicit type wins")
	assert.Equal(t, domain.MediaKindMovie, Classify("", true, true, ContextCredits))
	assert.Equal(t, domain.MediaKindPerson, Classify("", false, true, ContextSearch))
	assert.Equal(t, domain.MediaKindTV, Classify("", false, true, ContextCredits))
	assert.Equal(t, domain.MediaKindUnknown, Classify("", false, false, ContextSearch))
}

func TestFilterPreservesOrderAndInput(t *testing.T) {
	items := []domain.Item{
		{Kind: domain.MediaKindMovie, ID: 1},
		{Kind: domain.MediaKindPerson, ID: 1},
		{Kind: domain.MediaKindMovie, ID: 2},
		{Kind: domain.MediaKindTV, ID: 3},
	}
	before := append([]domain.Item(nil), items...)

	movies := Filter(Movie, items)
	assert.Equal(t, []domain.Item{items[0], items[2]}, movies)
	assert.Equal(t, items, Filter(All, items))
	assert.Empty(t, Filter(TV, items[:3]))
	assert.Equal(t, before, items)
}

func TestSameIDDifferentKindsCountSeparately(t *testing.T) {
	items := []domain.Item{
		{Kind: domain.MediaKindMovie, ID: 550},
		{Kind: domain.MediaKindPerson, ID: 550},
	}
	assert.Equal(t, 1, CountFor(Movie, items))
	assert.Equal(t, 1, CountFor(Person, items))
}

func TestTabs(t *testing.T) {
	items := classifyAll(ContextCredits, record{title: "Heat"}, record{name: "Friends"}, record{title: "Ronin"})

	assert.Equal(t, []Tab{
		{Facet: Movie, Label: "Films", Count: 2},
		{Facet: TV, Label: "TV Shows", Count: 1},
	}, Tabs(CreditFacets, items))

	tabs := Tabs(SearchFacets, nil)
	assert.Len(t, tabs, 4)
	for _, tab := range tabs {
		assert.Zero(t, tab.Count)
	}
}

func TestParse(t *testing.T) {
	assert.Equal(t, Person, Parse("Person", All))
	assert.Equal(t, All, Parse("bogus", All))
	assert.Equal(t, Movie, Parse("", DefaultCreditFacet))
}
