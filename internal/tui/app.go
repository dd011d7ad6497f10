package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/movied/internal/adapter"
	"github.com/mmcdole/movied/internal/autocomplete"
	"github.com/mmcdole/movied/internal/catalog"
	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/facet"
	"github.com/mmcdole/movied/internal/query"
	"github.com/mmcdole/movied/internal/route"
	"github.com/mmcdole/movied/internal/tui/components"
	"github.com/mmcdole/movied/internal/tui/styles"
)

const (
	appName = "movied"

	// headerOffset is where the search input starts on the header line
	headerOffset = len(appName) + 2

	statusDuration = 3 * time.Second
)

// Deps wires the model to the rest of the application
type Deps struct {
	Catalog  *catalog.Service
	Launcher *adapter.Launcher        // nil disables trailers
	Hub      *autocomplete.Hub        // global input events
	Search   *autocomplete.Controller // search bar state machine
	Refresh  <-chan query.Key         // background cache refreshes
	Logger   *slog.Logger
	Start    route.Route
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Services
	svc      *catalog.Service
	launcher *adapter.Launcher
	hub      *autocomplete.Hub
	refresh  <-chan query.Key
	logger   *slog.Logger

	// UI Components
	SearchBar *components.SearchBar
	Spinner   spinner.Model
	Help      help.Model

	// Navigation
	page    *page
	history []route.Route

	// Dimensions
	Width  int
	Height int
	Ready  bool

	// UI state
	ShowHelp    bool
	StatusMsg   string
	StatusIsErr bool
}

// NewModel creates a new application model
func NewModel(d Deps) Model {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Hub == nil {
		d.Hub = autocomplete.NewHub()
	}
	if d.Search == nil {
		d.Search = autocomplete.New(autocomplete.DefaultConfig())
	}
	d.Search.Attach(d.Hub)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpDescStyle
	h.Styles.FullKey = styles.HelpKeyStyle
	h.Styles.FullDesc = styles.HelpDescStyle

	return Model{
		svc:       d.Catalog,
		launcher:  d.Launcher,
		hub:       d.Hub,
		refresh:   d.Refresh,
		logger:    d.Logger,
		SearchBar: components.NewSearchBar(d.Search),
		Spinner:   sp,
		Help:      h,
		page:      newPage(d.Start),
	}
}

// Init loads the start page and starts listening for cache refreshes
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.load(),
		m.Spinner.Tick,
		WaitForRefreshCmd(m.refresh),
	)
}

// Route returns the route of the current page
func (m Model) Route() route.Route {
	return m.page.route
}

// current reports whether r is the route on screen
func (m Model) current(r route.Route) bool {
	return m.page != nil && m.page.route == r
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case spinner.TickMsg:
		if !m.page.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case components.SettleMsg:
		q, ok := m.SearchBar.Settle(msg.Tag)
		if !ok {
			return m, nil
		}
		return m, SuggestCmd(m.svc, q)

	case SuggestionsMsg:
		if msg.Err != nil {
			m.logger.Warn("suggestions failed", "query", msg.Query, "error", msg.Err)
		}
		m.SearchBar.ApplyResults(msg.Query, msg.Items, msg.Err)
		return m, nil

	case components.SubmitMsg:
		return m, m.navigate(msg.Route)

	case CacheRefreshedMsg:
		cmds := []tea.Cmd{WaitForRefreshCmd(m.refresh)}
		if m.page.loaded && m.page.renders(msg.Key.Kind) {
			m.logger.Debug("reloading page after refresh", "key", msg.Key.String())
			cmds = append(cmds, m.reload())
		}
		return m, tea.Batch(cmds...)

	case HomeLoadedMsg:
		if !m.current(msg.Route) {
			return m, nil
		}
		p := m.page
		p.featured = msg.Home.Featured
		p.fill(p.grid, components.ListItems(msg.Home.Trending))
		p.fill(p.aside, components.ListItems(msg.Home.Upcoming))
		lists := make([]domain.ListItem, len(msg.Home.Lists))
		for i, lp := range msg.Home.Lists {
			lists[i] = lp.List
		}
		p.fill(p.extra, lists)
		p.done()
		return m, nil

	case GenresLoadedMsg:
		if !m.current(msg.Route) {
			return m, nil
		}
		p := m.page
		p.sidebar.SetGenres(msg.Genres)
		p.done()
		return m, m.selectGenre()

	case CategoryMsg:
		if !m.current(msg.Route) || msg.GenreID != m.page.genreID {
			return m, nil
		}
		return m, m.applyCategory(msg)

	case ListsLoadedMsg:
		if !m.current(msg.Route) {
			return m, nil
		}
		p := m.page
		items := make([]domain.ListItem, len(msg.Lists))
		for i, l := range msg.Lists {
			items[i] = l
		}
		p.fill(p.grid, items)
		p.done()
		return m, m.previewList()

	case ListPreviewMsg:
		if !m.current(msg.Route) || msg.Slug != m.page.preview {
			return m, nil
		}
		p := m.page
		if msg.Err != nil {
			m.logger.Warn("list preview failed", "slug", msg.Slug, "error", msg.Err)
			p.aside.SetItems(nil)
			p.aside.SetEmptyMessage("Couldn't load preview.")
			return m, nil
		}
		p.aside.SetMovieItems(msg.Movies)
		return m, nil

	case ListLoadedMsg:
		if !m.current(msg.Route) {
			return m, nil
		}
		p := m.page
		p.subtitle = msg.Page.List.Description
		p.grid.SetTitle(msg.Page.List.Title)
		p.fill(p.grid, components.ListItems(msg.Page.Movies))
		p.done()
		return m, nil

	case MovieLoadedMsg:
		if !m.current(msg.Route) {
			return m, nil
		}
		m.applyMovie(msg.Page)
		return m, nil

	case PersonLoadedMsg:
		if !m.current(msg.Route) {
			return m, nil
		}
		p := m.page
		p.items = msg.Credits.Credits
		p.subtitle = ""
		if person := msg.Credits.Person; person != nil {
			p.grid.SetTitle(person.Name)
			p.subtitle = person.KnownForDepartment
		}
		p.applyFacet()
		p.done()
		return m, nil

	case SearchLoadedMsg:
		if !m.current(msg.Route) {
			return m, nil
		}
		p := m.page
		p.items = msg.Items
		p.applyFacet()
		p.done()
		return m, nil

	case ErrMsg:
		if !m.current(msg.Route) {
			return m, nil
		}
		m.logger.Error("page load failed", "route", msg.Route.String(), "error", msg.Err)
		p := m.page
		p.loading = false
		if p.loaded {
			return m, m.setStatus(msg.Error(), true)
		}
		p.err = &msg
		return m, nil

	case RandomMovieMsg:
		return m, m.navigate(route.ForItem(msg.Item))

	case TrailerLaunchedMsg:
		return m, m.setStatus("Playing trailer: "+msg.Name, false)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

// applyCategory shows a genre snapshot. A placeholder keeps the previous
// genre's movies on screen and waits for the requested genre.
func (m *Model) applyCategory(msg CategoryMsg) tea.Cmd {
	p := m.page
	snap := msg.Snapshot
	name := "Movies"
	if g, ok := p.sidebar.SelectedGenre(); ok {
		name = g.Name
	}

	switch {
	case snap.Ready:
		p.grid.SetTitle(name)
		p.grid.SetEmptyMessage(facet.EmptyMessage)
		if p.shown == msg.GenreID {
			p.grid.ReplaceItems(components.ListItems(snap.Items))
		} else {
			p.grid.SetMovieItems(snap.Items)
		}
		p.shown = msg.GenreID
		return nil
	case snap.Err != nil:
		m.logger.Error("category load failed", "genre", msg.GenreID, "error", snap.Err)
		p.grid.SetTitle(name)
		p.grid.SetItems(nil)
		p.grid.SetEmptyMessage("Couldn't load movies.")
		return nil
	case snap.IsPlaceholder:
		p.grid.SetTitle(name + " · loading")
		p.grid.ReplaceItems(components.ListItems(snap.Items))
	default:
		p.grid.SetTitle(name + " · loading")
		p.grid.SetItems(nil)
		p.grid.SetEmptyMessage("Loading…")
	}
	return AwaitCategoryCmd(m.svc, p.route, msg.GenreID)
}

// applyMovie fills the detail pane and the cast list
func (m *Model) applyMovie(mp *domain.MoviePage) {
	p := m.page
	p.detail.SetPage(mp)
	p.subtitle = mp.Detail.GetTitle()

	cast := make([]domain.Item, len(mp.Credits.Cast))
	for i, c := range mp.Credits.Cast {
		cast[i] = domain.Item{
			Kind:        domain.MediaKindPerson,
			ID:          c.ID,
			Title:       c.Name,
			ProfilePath: c.ProfilePath,
			Character:   c.Character,
		}
	}
	p.fill(p.aside, components.ListItems(cast))

	p.trailer = nil
	if v, ok := domain.Trailer(mp.Videos); ok {
		p.trailer = &v
	}
	p.done()
}

// fill sets grid items; a reload keeps the cursor in place
func (p *page) fill(g *components.Grid, items []domain.ListItem) {
	if p.loaded {
		g.ReplaceItems(items)
		return
	}
	g.SetItems(items)
}

// done marks the page as loaded
func (p *page) done() {
	p.loading = false
	p.loaded = true
	p.err = nil
}

// setStatus shows a footer message for a few seconds
func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.StatusMsg = msg
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusDuration)
}

// handleKeyMsg routes keys to the search bar, the help overlay, a filter
// being typed, the application bindings, and finally the focused pane
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	p := m.page

	if key.Matches(msg, Keys.Search) {
		m.hub.Publish(autocomplete.Event{
			Kind:            autocomplete.EventShortcut,
			EditableFocused: p.filterTyping(),
		})
		if m.SearchBar.Focused() {
			m.ShowHelp = false
			return m, m.SearchBar.SyncFocus()
		}
	}

	if m.SearchBar.Focused() {
		return m, m.SearchBar.Update(msg)
	}

	if m.ShowHelp {
		if key.Matches(msg, Keys.Help, Keys.Back, Keys.Quit) {
			m.ShowHelp = false
		}
		return m, nil
	}

	if p.filterTyping() {
		return m, m.updateFocused(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.Back):
		if g, ok := p.focused().(*components.Grid); ok && g.IsFiltering() {
			g.ClearFilter()
			return m, nil
		}
		cmd, _ := m.back()
		return m, cmd

	case key.Matches(msg, Keys.NextPane):
		p.cycleFocus(1)
		return m, nil

	case key.Matches(msg, Keys.PrevPane):
		p.cycleFocus(-1)
		return m, nil

	case key.Matches(msg, Keys.Enter):
		return m, m.activate()

	case key.Matches(msg, Keys.Filter):
		if g, ok := p.focused().(*components.Grid); ok {
			return m, g.ToggleFilter()
		}
		return m, nil

	case key.Matches(msg, Keys.Home):
		return m, m.navigate(route.Home())

	case key.Matches(msg, Keys.Categories):
		return m, m.navigate(route.Categories())

	case key.Matches(msg, Keys.Lists):
		return m, m.navigate(route.Lists())

	case key.Matches(msg, Keys.Refresh):
		m.svc.Refresh()
		if !p.loaded {
			p.err = nil
			p.loading = true
		}
		return m, tea.Batch(m.reload(), m.Spinner.Tick, m.setStatus("Refreshing…", false))

	case key.Matches(msg, Keys.Random):
		return m, RandomMovieCmd(m.svc)

	case key.Matches(msg, Keys.Trailer):
		return m, m.playTrailer()

	case p.tabs != nil && key.Matches(msg, Keys.NextFacet):
		p.tabs.Next(1)
		p.applyFacet()
		return m, nil

	case p.tabs != nil && key.Matches(msg, Keys.PrevFacet):
		p.tabs.Next(-1)
		p.applyFacet()
		return m, nil
	}

	return m, m.updateFocused(msg)
}

// updateFocused forwards msg to the focused pane
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	p := m.page
	switch f := p.focused().(type) {
	case *components.Grid:
		cmd := f.Update(msg)
		if f == p.grid && p.route.Page == route.PageLists {
			return tea.Batch(cmd, m.previewList())
		}
		return cmd
	case *components.Sidebar:
		if f.Update(msg) {
			return m.selectGenre()
		}
	case *components.Detail:
		return f.Update(msg)
	}
	return nil
}

// handleMouseMsg handles clicks on the header and the suggestion dropdown.
// A click anywhere else closes the dropdown.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if msg.Y == 0 && msg.X >= headerOffset {
		m.hub.Publish(autocomplete.Event{Kind: autocomplete.EventPointerDown, Inside: true})
		m.ShowHelp = false
		return m, m.SearchBar.Focus()
	}

	if rows := m.SearchBar.DropdownRows(); rows > 0 {
		width := lipgloss.Width(m.SearchBar.DropdownView())
		row := msg.Y - DropdownTop
		if row >= 0 && row < rows && msg.X >= headerOffset && msg.X < headerOffset+width {
			return m, m.SearchBar.Select(row)
		}
	}

	m.hub.Publish(autocomplete.Event{Kind: autocomplete.EventPointerDown})
	return m, nil
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	content := lipgloss.JoinVertical(lipgloss.Left, m.renderPageLine(), m.renderBody())
	if dropdown := m.SearchBar.DropdownView(); dropdown != "" {
		content = overlay(content, dropdown, headerOffset)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderFooter(),
	)
}
