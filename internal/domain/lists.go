package domain

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// CuratedList is a hand-picked collection backed by a discover query
type CuratedList struct {
	Slug        string         `yaml:"slug"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Color       string         `yaml:"color"` // hex accent color
	Params      DiscoverParams `yaml:"params"`
}

//go:embed lists.yaml
var listsYAML []byte

var (
	listsOnce sync.Once
	lists     []CuratedList
	listsErr  error
)

// ParseLists decodes a YAML list catalog and checks slugs are unique
func ParseLists(data []byte) ([]CuratedList, error) {
	var out []CuratedList
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse list catalog: %w", err)
	}
	seen := make(map[string]bool, len(out))
	for _, l := range out {
		if l.Slug == "" {
			return nil, fmt.Errorf("list %q has no slug", l.Title)
		}
		if seen[l.Slug] {
			return nil, fmt.Errorf("duplicate list slug %q", l.Slug)
		}
		seen[l.Slug] = true
	}
	return out, nil
}

// Lists returns the built-in curated list catalog
func Lists() ([]CuratedList, error) {
	listsOnce.Do(func() {
		lists, listsErr = ParseLists(listsYAML)
	})
	return lists, listsErr
}

// FindList returns the list with the given slug
func FindList(slug string) (CuratedList, error) {
	all, err := Lists()
	if err != nil {
		return CuratedList{}, err
	}
	for _, l := range all {
		if l.Slug == slug {
			return l, nil
		}
	}
	return CuratedList{}, fmt.Errorf("%w: %s", ErrListNotFound, slug)
}
