package components

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/tui/styles"
)

// GenreItem implements list.Item for genres
type GenreItem struct {
	Genre domain.Genre
}

func (i GenreItem) FilterValue() string { return i.Genre.Name }
func (i GenreItem) Title() string       { return i.Genre.Name }
func (i GenreItem) Description() string { return "" }

// Border overhead for the sidebar panel
const BorderSize = 2

// Sidebar is the genre selection sidebar on the categories page
type Sidebar struct {
	list    list.Model
	focused bool
	width   int
	height  int
}

// NewSidebar creates a new sidebar component
func NewSidebar() *Sidebar {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Foreground(styles.White).
		Background(styles.SlateLight).
		Padding(0, 1)
	delegate.Styles.NormalTitle = lipgloss.NewStyle().
		Foreground(styles.LightGray).
		Padding(0, 1)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Genres"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(styles.Amber).
		Bold(true).
		Padding(0, 1)

	return &Sidebar{list: l}
}

// SetGenres updates the genres in the sidebar
func (s *Sidebar) SetGenres(genres []domain.Genre) {
	items := make([]list.Item, len(genres))
	for i, g := range genres {
		items[i] = GenreItem{Genre: g}
	}
	s.list.SetItems(items)
}

// SetSize updates the component dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.list.SetSize(width-BorderSize, height-BorderSize)
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// SelectedGenre returns the currently selected genre
func (s *Sidebar) SelectedGenre() (domain.Genre, bool) {
	item, ok := s.list.SelectedItem().(GenreItem)
	if !ok {
		return domain.Genre{}, false
	}
	return item.Genre, true
}

// Select moves the selection to the genre with id
func (s *Sidebar) Select(id int) {
	for i, it := range s.list.Items() {
		if g, ok := it.(GenreItem); ok && g.Genre.ID == id {
			s.list.Select(i)
			return
		}
	}
}

// Update handles key messages while focused. It reports whether the
// selection moved to a different genre.
func (s *Sidebar) Update(msg tea.Msg) bool {
	if !s.focused {
		return false
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return false
	}

	before := s.list.Index()
	switch {
	case key.Matches(keyMsg, GridKeys.Down):
		s.list.CursorDown()
	case key.Matches(keyMsg, GridKeys.Up):
		s.list.CursorUp()
	case key.Matches(keyMsg, GridKeys.Home):
		s.list.Select(0)
	case key.Matches(keyMsg, GridKeys.End):
		s.list.Select(len(s.list.Items()) - 1)
	}
	return s.list.Index() != before
}

// View renders the component
func (s *Sidebar) View() string {
	style := styles.InactiveBorder
	if s.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(s.width - frameW).
		Height(s.height - frameH).
		Render(s.list.View())
}
