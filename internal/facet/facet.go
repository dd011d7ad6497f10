// Package facet counts and filters a fetched result set by media kind,
// client-side and without refetching.
package facet

import (
	"strings"

	"github.com/mmcdole/movied/internal/domain"
)

// Facet is a discrete classification used to slice a result set
type Facet string

const (
	All    Facet = "all"
	Movie  Facet = "movie"
	Person Facet = "person"
	TV     Facet = "tv"
)

// Tab sets shown by the search and person pages
var (
	SearchFacets = []Facet{All, Movie, Person, TV}
	CreditFacets = []Facet{Movie, TV}
)

// DefaultCreditFacet is selected when a person page opens
const DefaultCreditFacet = Movie

// EmptyMessage is rendered when a facet has no items
const EmptyMessage = "No matches found."

// Label returns the tab label for the facet
func (f Facet) Label() string {
	switch f {
	case All:
		return "All"
	case Movie:
		return "Films"
	case Person:
		return "People"
	case TV:
		return "TV Shows"
	default:
		return string(f)
	}
}

// Kind returns the media kind a facet selects (Unknown for All)
func (f Facet) Kind() domain.MediaKind {
	return domain.ParseMediaKind(string(f))
}

// Parse converts a tab identifier into a facet, falling back to def
func Parse(s string, def Facet) Facet {
	switch f := Facet(strings.ToLower(strings.TrimSpace(s))); f {
	case All, Movie, Person, TV:
		return f
	}
	return def
}

// Context tells Classify which listing an untagged record came from
type Context int

const (
	// ContextSearch is a multi-search listing: untitled records are people
	ContextSearch Context = iota

	// ContextCredits is a person's credit listing: untitled records are shows
	ContextCredits
)

// Classify resolves the media kind of an upstream record. An explicit
// media type wins; otherwise a title means a movie and a name means a person
// (search) or a show (credits).
func Classify(mediaType string, hasTitle, hasName bool, ctx Context) domain.MediaKind {
	if k := domain.ParseMediaKind(mediaType); k != domain.MediaKindUnknown {
		return k
	}
	switch {
	case hasTitle:
		return domain.MediaKindMovie
	case hasName && ctx == ContextCredits:
		return domain.MediaKindTV
	case hasName:
		return domain.MediaKindPerson
	case ctx == ContextCredits:
		return domain.MediaKindTV
	default:
		return domain.MediaKindUnknown
	}
}

// Matches reports whether item belongs to facet f
func Matches(f Facet, item domain.Item) bool {
	if f == All {
		return true
	}
	return item.Kind == f.Kind()
}

// CountFor returns how many items belong to facet f
func CountFor(f Facet, items []domain.Item) int {
	if f == All {
		return len(items)
	}
	n := 0
	for _, item := range items {
		if Matches(f, item) {
			n++
		}
	}
	return n
}

// Filter returns the items belonging to facet f in their original order.
// The input is never modified.
func Filter(f Facet, items []domain.Item) []domain.Item {
	if f == All {
		return items
	}
	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if Matches(f, item) {
			out = append(out, item)
		}
	}
	return out
}

// Tab is a facet with its label and count for rendering
type Tab struct {
	Facet Facet
	Label string
	Count int
}

// Tabs returns one tab per facet with counts over items
func Tabs(facets []Facet, items []domain.Item) []Tab {
	tabs := make([]Tab, len(facets))
	for i, f := range facets {
		tabs[i] = Tab{Facet: f, Label: f.Label(), Count: CountFor(f, items)}
	}
	return tabs
}
