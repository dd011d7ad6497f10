package domain

import (
	"net/url"
	"strconv"
)

// DiscoverParams are the filters accepted by the discover endpoint.
// Zero values mean "not set". Field names follow the underscore spelling used in
// list definitions; Values translates them to the upstream dotted names.
type DiscoverParams struct {
	WithGenres            string  `yaml:"with_genres" json:"with_genres,omitempty"`
	WithoutGenres         string  `yaml:"without_genres" json:"without_genres,omitempty"`
	WithKeywords          string  `yaml:"with_keywords" json:"with_keywords,omitempty"`
	WithOriginalLanguage  string  `yaml:"with_original_language" json:"with_original_language,omitempty"`
	SortBy                string  `yaml:"sort_by" json:"sort_by,omitempty"`
	VoteAverageGTE        float64 `yaml:"vote_average_gte" json:"vote_average_gte,omitempty"`
	VoteCountGTE          int     `yaml:"vote_count_gte" json:"vote_count_gte,omitempty"`
	VoteCountLTE          int     `yaml:"vote_count_lte" json:"vote_count_lte,omitempty"`
	PrimaryReleaseDateGTE string  `yaml:"primary_release_date_gte" json:"primary_release_date_gte,omitempty"`
	PrimaryReleaseDateLTE string  `yaml:"primary_release_date_lte" json:"primary_release_date_lte,omitempty"`
}

// Param is a single named filter value
type Param struct {
	Name  string
	Value string
}

// Params returns the set filters in a fixed order, using the upstream names.
// The order is stable so the result can be used as part of a cache key.
func (p DiscoverParams) Params() []Param {
	var out []Param
	add := func(name, value string) {
		if value != "" {
			out = append(out, Param{Name: name, Value: value})
		}
	}
	addInt := func(name string, v int) {
		if v != 0 {
			add(name, strconv.Itoa(v))
		}
	}

	add("with_genres", p.WithGenres)
	add("without_genres", p.WithoutGenres)
	add("with_keywords", p.WithKeywords)
	add("with_original_language", p.WithOriginalLanguage)
	add("sort_by", p.SortBy)
	if p.VoteAverageGTE != 0 {
		add("vote_average.gte", strconv.FormatFloat(p.VoteAverageGTE, 'f', -1, 64))
	}
	addInt("vote_count.gte", p.VoteCountGTE)
	addInt("vote_count.lte", p.VoteCountLTE)
	add("primary_release_date.gte", p.PrimaryReleaseDateGTE)
	add("primary_release_date.lte", p.PrimaryReleaseDateLTE)
	return out
}

// Values returns the filters as upstream query parameters
func (p DiscoverParams) Values() url.Values {
	v := url.Values{}
	for _, param := range p.Params() {
		v.Set(param.Name, param.Value)
	}
	return v
}

// IsZero reports whether no filter is set
func (p DiscoverParams) IsZero() bool {
	return len(p.Params()) == 0
}
