package components

import (
	"fmt"
	"strings"

	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/facet"
	"github.com/mmcdole/movied/internal/tui/styles"
)

// Tabs is the facet selector above search results and person credits
type Tabs struct {
	facets []facet.Facet
	active int
	tabs   []facet.Tab
}

// NewTabs creates tabs over facets with def selected
func NewTabs(facets []facet.Facet, def facet.Facet) *Tabs {
	t := &Tabs{facets: facets}
	t.SetActive(def)
	return t
}

// SetItems recomputes the per-facet counts
func (t *Tabs) SetItems(items []domain.Item) {
	t.tabs = facet.Tabs(t.facets, items)
}

// Active returns the selected facet
func (t *Tabs) Active() facet.Facet {
	if len(t.facets) == 0 {
		return facet.All
	}
	return t.facets[t.active]
}

// SetActive selects f when it is one of the tabs
func (t *Tabs) SetActive(f facet.Facet) {
	for i, candidate := range t.facets {
		if candidate == f {
			t.active = i
			return
		}
	}
}

// Next moves the selection by delta, wrapping around
func (t *Tabs) Next(delta int) {
	if n := len(t.facets); n > 0 {
		t.active = ((t.active+delta)%n + n) % n
	}
}

// View renders "All (12)  Films (8)  People (3)"
func (t *Tabs) View() string {
	parts := make([]string, 0, len(t.tabs))
	for i, tab := range t.tabs {
		label := fmt.Sprintf("%s (%d)", tab.Label, tab.Count)
		if i == t.active {
			parts = append(parts, styles.ActiveTabStyle.Render(label))
		} else {
			parts = append(parts, styles.TabStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}
