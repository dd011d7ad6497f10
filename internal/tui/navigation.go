package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/facet"
	"github.com/mmcdole/movied/internal/query"
	"github.com/mmcdole/movied/internal/route"
	"github.com/mmcdole/movied/internal/tui/components"
)

// maxHistory bounds the back stack
const maxHistory = 50

// pane is a focusable region of a page
type pane interface {
	SetFocused(bool)
	IsFocused() bool
	SetSize(width, height int)
	View() string
}

// page holds the components and data of the current screen
type page struct {
	route   route.Route
	loading bool
	loaded  bool
	err     *ErrMsg

	panes []pane
	focus int

	grid    *components.Grid    // primary list
	aside   *components.Grid    // upcoming, list preview, cast
	extra   *components.Grid    // curated lists on home
	sidebar *components.Sidebar // genres
	tabs    *components.Tabs    // facets over items
	detail  *components.Detail  // movie

	items    []domain.Item // unfiltered results behind the tabs
	featured *domain.Item
	subtitle string
	trailer  *domain.Video
	genreID  int    // genre requested for the grid
	shown    int    // genre whose movies are on screen
	preview  string // list slug shown in the preview
}

// newPage builds the empty components for r
func newPage(r route.Route) *page {
	p := &page{route: r, loading: true}

	switch r.Page {
	case route.PageHome:
		p.grid = components.NewGrid("Trending")
		p.aside = components.NewGrid("Upcoming")
		p.extra = components.NewGrid("Lists")
		p.panes = []pane{p.grid, p.aside, p.extra}
	case route.PageCategories:
		p.sidebar = components.NewSidebar()
		p.grid = components.NewGrid("Movies")
		p.panes = []pane{p.sidebar, p.grid}
	case route.PageLists:
		p.grid = components.NewGrid("Lists")
		p.aside = components.NewGrid("Preview")
		p.panes = []pane{p.grid, p.aside}
	case route.PageList:
		p.grid = components.NewGrid(r.Slug)
		p.panes = []pane{p.grid}
	case route.PageMovie:
		p.detail = components.NewDetail()
		p.aside = components.NewGrid("Cast")
		p.panes = []pane{p.detail, p.aside}
	case route.PagePerson:
		p.tabs = components.NewTabs(facet.CreditFacets, facet.DefaultCreditFacet)
		p.grid = components.NewGrid(r.Name)
		p.panes = []pane{p.grid}
	case route.PageSearch:
		p.tabs = components.NewTabs(facet.SearchFacets, facet.All)
		p.grid = components.NewGrid("Results")
		p.grid.SetBadges(true)
		p.panes = []pane{p.grid}
	}

	if len(p.panes) > 0 {
		p.panes[0].SetFocused(true)
	}
	return p
}

// focused returns the pane with keyboard focus
func (p *page) focused() pane {
	if len(p.panes) == 0 {
		return nil
	}
	return p.panes[p.focus]
}

// cycleFocus moves focus by delta, wrapping around
func (p *page) cycleFocus(delta int) {
	n := len(p.panes)
	if n < 2 {
		return
	}
	p.panes[p.focus].SetFocused(false)
	p.focus = ((p.focus+delta)%n + n) % n
	p.panes[p.focus].SetFocused(true)
}

// focusPane gives focus to target if it is on the page
func (p *page) focusPane(target pane) {
	for i, candidate := range p.panes {
		if candidate == target {
			p.panes[p.focus].SetFocused(false)
			p.focus = i
			candidate.SetFocused(true)
			return
		}
	}
}

// filterTyping reports whether a grid filter input owns the keyboard
func (p *page) filterTyping() bool {
	for _, g := range []*components.Grid{p.grid, p.aside, p.extra} {
		if g != nil && g.IsFilterTyping() {
			return true
		}
	}
	return false
}

// applyFacet shows the items matching the active tab
func (p *page) applyFacet() {
	if p.tabs == nil {
		return
	}
	p.tabs.SetItems(p.items)
	p.grid.SetMovieItems(facet.Filter(p.tabs.Active(), p.items))
}

// kinds returns the cache kinds a page renders. A background refresh of
// any of them reloads the page in place.
func kinds(pg route.Page) []query.Kind {
	switch pg {
	case route.PageHome:
		return []query.Kind{query.KindPopular, query.KindTopRated, query.KindUpcoming}
	case route.PageCategories:
		return []query.Kind{query.KindGenres, query.KindCategoryMovies}
	case route.PageLists:
		return []query.Kind{query.KindListPreview, query.KindDiscover}
	case route.PageList:
		return []query.Kind{query.KindDiscover}
	case route.PageMovie:
		return []query.Kind{query.KindMovieDetails, query.KindMovieCredits, query.KindMovieVideos}
	case route.PagePerson:
		return []query.Kind{query.KindPersonCredits}
	case route.PageSearch:
		return []query.Kind{query.KindSearch}
	}
	return nil
}

func (p *page) renders(k query.Kind) bool {
	for _, candidate := range kinds(p.route.Page) {
		if candidate == k {
			return true
		}
	}
	return false
}

// navigate opens r, pushing the current page onto the back stack
func (m *Model) navigate(r route.Route) tea.Cmd {
	if m.page != nil {
		if m.page.route == r {
			return m.reload()
		}
		m.history = append(m.history, m.page.route)
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
	}
	return m.open(r)
}

// back returns to the previous page. It reports false at the root.
func (m *Model) back() (tea.Cmd, bool) {
	if len(m.history) == 0 {
		return nil, false
	}
	r := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	return m.open(r), true
}

// open replaces the current page with a fresh one for r and loads it
func (m *Model) open(r route.Route) tea.Cmd {
	m.logger.Debug("navigate", "route", r.String())
	m.page = newPage(r)
	m.updateLayout()
	return tea.Batch(m.load(), m.Spinner.Tick)
}

// reload refetches the current page, keeping what is on screen
func (m *Model) reload() tea.Cmd {
	if m.page == nil {
		return nil
	}
	return m.load()
}

// load returns the command that fetches the current page
func (m *Model) load() tea.Cmd {
	p := m.page
	r := p.route

	switch r.Page {
	case route.PageHome:
		return LoadHomeCmd(m.svc, r)
	case route.PageCategories:
		if p.genreID != 0 {
			return CategoryCmd(m.svc, r, p.genreID, 0)
		}
		return LoadGenresCmd(m.svc, r)
	case route.PageLists:
		if p.preview != "" {
			return tea.Batch(LoadListsCmd(m.svc, r), LoadListPreviewCmd(m.svc, r, p.preview))
		}
		return LoadListsCmd(m.svc, r)
	case route.PageList:
		return LoadListCmd(m.svc, r)
	case route.PageMovie:
		return LoadMovieCmd(m.svc, r)
	case route.PagePerson:
		return LoadPersonCmd(m.svc, r)
	case route.PageSearch:
		return LoadSearchCmd(m.svc, r)
	}
	return nil
}

// activate opens the entry under the cursor of the focused pane
func (m *Model) activate() tea.Cmd {
	p := m.page
	switch focused := p.focused().(type) {
	case *components.Grid:
		switch entry := focused.Selected().(type) {
		case domain.Item:
			return m.navigate(route.ForItem(entry))
		case domain.CuratedList:
			return m.navigate(route.List(entry.Slug))
		}
	case *components.Sidebar:
		p.focusPane(p.grid)
	case *components.Detail:
		return m.playTrailer()
	}
	return nil
}

// playTrailer launches the trailer of the current movie
func (m *Model) playTrailer() tea.Cmd {
	if m.page == nil || m.page.trailer == nil {
		return nil
	}
	if m.launcher == nil {
		return m.setStatus("No trailer player configured", true)
	}
	return LaunchTrailerCmd(m.launcher, *m.page.trailer)
}

// selectGenre switches the category grid to the sidebar's selection.
// The previous genre's movies stay visible until the new ones arrive.
func (m *Model) selectGenre() tea.Cmd {
	p := m.page
	g, ok := p.sidebar.SelectedGenre()
	if !ok || g.ID == p.genreID {
		return nil
	}
	previous := p.genreID
	p.genreID = g.ID
	return CategoryCmd(m.svc, p.route, g.ID, previous)
}

// previewList loads the preview for the list under the cursor
func (m *Model) previewList() tea.Cmd {
	p := m.page
	list, ok := p.grid.Selected().(domain.CuratedList)
	if !ok || list.Slug == p.preview {
		return nil
	}
	p.preview = list.Slug
	p.aside.SetTitle(list.Title)
	return LoadListPreviewCmd(m.svc, p.route, list.Slug)
}
