package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/movied/internal/autocomplete"
	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/facet"
	"github.com/mmcdole/movied/internal/route"
	"github.com/mmcdole/movied/internal/tui/styles"
)

// SettleMsg fires when the debounce window for Tag has elapsed
type SettleMsg struct {
	Tag uint64
}

// SubmitMsg carries the route the search bar resolved to
type SubmitMsg struct {
	Route route.Route
}

// SearchBar is the header search input with its suggestion dropdown.
// All state transitions go through the autocomplete controller; the
// component only mirrors text and focus into the text input.
type SearchBar struct {
	input textinput.Model
	ctrl  *autocomplete.Controller
	width int
}

// NewSearchBar creates a search bar driven by ctrl
func NewSearchBar(ctrl *autocomplete.Controller) *SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Search movies, people, shows  (ctrl+k)"
	ti.CharLimit = 100
	ti.Prompt = "⌕ "
	ti.PromptStyle = styles.SearchPromptStyle
	ti.PlaceholderStyle = styles.DimStyle

	return &SearchBar{input: ti, ctrl: ctrl}
}

// Controller returns the underlying state machine
func (s *SearchBar) Controller() *autocomplete.Controller {
	return s.ctrl
}

// SetWidth updates the component width
func (s *SearchBar) SetWidth(width int) {
	s.width = width
	s.input.Width = max(width-6, 10)
}

// Focused reports whether the search bar owns the keyboard
func (s *SearchBar) Focused() bool {
	return s.ctrl.IsFocused()
}

// Focus gives the search bar keyboard focus
func (s *SearchBar) Focus() tea.Cmd {
	s.ctrl.OnFocus()
	return s.input.Focus()
}

// SyncFocus aligns the text input with the controller after focus changed
// outside the component (the global shortcut)
func (s *SearchBar) SyncFocus() tea.Cmd {
	if s.ctrl.IsFocused() && !s.input.Focused() {
		return s.input.Focus()
	}
	if !s.ctrl.IsFocused() && s.input.Focused() {
		s.input.Blur()
	}
	return nil
}

// Settle completes a debounce window; see autocomplete.Controller.Settle
func (s *SearchBar) Settle(tag uint64) (string, bool) {
	return s.ctrl.Settle(tag)
}

// ApplyResults delivers suggestions for query
func (s *SearchBar) ApplyResults(query string, items []domain.Item, err error) {
	s.ctrl.ApplyResults(query, items, err)
}

// Update handles key messages while focused
func (s *SearchBar) Update(msg tea.Msg) tea.Cmd {
	if !s.ctrl.IsFocused() {
		return nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, SearchBarKeys.Escape):
			s.ctrl.OnEscape()
			s.input.Blur()
			return nil
		case key.Matches(msg, SearchBarKeys.Down):
			s.ctrl.OnKeyNavigate(autocomplete.Down)
			return nil
		case key.Matches(msg, SearchBarKeys.Up):
			s.ctrl.OnKeyNavigate(autocomplete.Up)
			return nil
		case key.Matches(msg, SearchBarKeys.Enter):
			r, ok := s.ctrl.OnCommit()
			if !ok {
				return nil
			}
			return s.submit(r)
		}
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if v := s.input.Value(); v != before {
		tag := s.ctrl.OnTextChanged(v)
		return tea.Batch(cmd, settleCmd(s.ctrl.Debounce(), tag))
	}
	return cmd
}

// Select commits dropdown row index (mouse)
func (s *SearchBar) Select(index int) tea.Cmd {
	r, ok := s.ctrl.OnMouseSelect(index)
	if !ok {
		return nil
	}
	return s.submit(r)
}

// submit mirrors the controller's text, drops focus and emits the route
func (s *SearchBar) submit(r route.Route) tea.Cmd {
	s.input.SetValue(s.ctrl.State().QueryText)
	s.ctrl.OnEscape()
	s.input.Blur()
	return func() tea.Msg { return SubmitMsg{Route: r} }
}

func settleCmd(d time.Duration, tag uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return SettleMsg{Tag: tag}
	})
}

// View renders the input line
func (s *SearchBar) View() string {
	return s.input.View()
}

// DropdownRows returns the number of selectable dropdown rows, including
// the "view all" row, or 0 when the dropdown is hidden
func (s *SearchBar) DropdownRows() int {
	if !s.ctrl.ShowResults() {
		return 0
	}
	return len(s.ctrl.State().VisibleResults) + 1
}

// DropdownView renders the suggestion surface, or "" when closed
func (s *SearchBar) DropdownView() string {
	st := s.ctrl.State()
	if !st.IsOpen {
		return ""
	}

	width := max(s.width-4, 20)
	var lines []string
	switch {
	case s.ctrl.IsLoading():
		lines = append(lines, styles.SpinnerStyle.Render("Searching…"))
	case s.ctrl.ShowNoMatches():
		lines = append(lines, styles.EmptyStyle.Render(facet.EmptyMessage))
	case s.ctrl.ShowResults():
		for i, it := range st.VisibleResults {
			lines = append(lines, suggestionRow(it, i == st.HighlightedIndex, width))
		}
		viewAll := fmt.Sprintf("View all results for “%s”", strings.TrimSpace(st.QueryText))
		lines = append(lines, styles.RenderListRow([]styles.RowPart{{Text: styles.Truncate(viewAll, width-4)}},
			st.HighlightedIndex == len(st.VisibleResults), width))
	default:
		return ""
	}

	return styles.DropdownStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func suggestionRow(it domain.Item, selected bool, width int) string {
	dimGray := styles.DimGray
	desc := it.GetDescription()
	title := styles.Truncate(it.GetTitle(), width-len(desc)-12)
	return styles.RenderListRow([]styles.RowPart{
		{Text: kindBadge(it.Kind) + " ", Foreground: &dimGray},
		{Text: title},
		{Text: "  " + desc, Foreground: &dimGray},
	}, selected, width)
}
