package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the application-level key bindings. Movement inside panes
// is handled by the components themselves.
type KeyMap struct {
	// Navigation
	Enter     key.Binding
	Back      key.Binding
	NextPane  key.Binding
	PrevPane  key.Binding
	NextFacet key.Binding
	PrevFacet key.Binding

	// Pages
	Home       key.Binding
	Categories key.Binding
	Lists      key.Binding

	// Actions
	Quit    key.Binding
	Help    key.Binding
	Search  key.Binding
	Filter  key.Binding
	Refresh key.Binding
	Random  key.Binding
	Trailer key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		PrevPane: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev pane"),
		),
		NextFacet: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next tab"),
		),
		PrevFacet: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "prev tab"),
		),

		// Pages
		Home: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "home"),
		),
		Categories: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "categories"),
		),
		Lists: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "lists"),
		),

		// Actions
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Search: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("C-k", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Random: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "surprise me"),
		),
		Trailer: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "trailer"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Enter, k.Back, k.NextPane, k.Filter, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the help overlay
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Enter, k.Back, k.NextPane, k.PrevPane, k.NextFacet, k.PrevFacet},
		{k.Home, k.Categories, k.Lists, k.Search, k.Filter},
		{k.Refresh, k.Random, k.Trailer, k.Help, k.Quit},
	}
}

// Keys is the global key map instance
var Keys = DefaultKeyMap()
