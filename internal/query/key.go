package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind names a family of cached requests
type Kind string

const (
	KindSearch         Kind = "search"
	KindMovieDetails   Kind = "movieDetails"
	KindMovieCredits   Kind = "movieCredits"
	KindMovieVideos    Kind = "movieVideos"
	KindCategoryMovies Kind = "categoryMovies"
	KindGenres         Kind = "genres"
	KindDiscover       Kind = "discover"
	KindPersonCredits  Kind = "personCredits"
	KindPopular        Kind = "popular"
	KindTopRated       Kind = "topRated"
	KindUpcoming       Kind = "upcoming"
	KindListPreview    Kind = "listPreview"
)

// live kinds track user input and are never written to the warm tier
func (k Kind) live() bool {
	return k == KindSearch
}

// Key identifies a cache entry: a kind plus its ordered parameters.
// Keys are comparable and can be used directly as map keys.
type Key struct {
	Kind   Kind
	params string
}

// NewKey builds a key from a kind and ordered primitive parameters.
// Strings are kept verbatim (case-sensitive) and quoted so that
// NewKey(k, "a/b") and NewKey(k, "a", "b") never collide.
func NewKey(kind Kind, params ...any) Key {
	if len(params) == 0 {
		return Key{Kind: kind}
	}
	parts := make([]string, len(params))
	for i, p := range params {
		switch v := p.(type) {
		case string:
			parts[i] = strconv.Quote(v)
		case fmt.Stringer:
			parts[i] = strconv.Quote(v.String())
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return Key{Kind: kind, params: strings.Join(parts, "/")}
}

// String renders the key as "kind" or "kind/param/param"
func (k Key) String() string {
	if k.params == "" {
		return string(k.Kind)
	}
	return string(k.Kind) + "/" + k.params
}

// IsZero reports whether the key is unset
func (k Key) IsZero() bool {
	return k.Kind == "" && k.params == ""
}
