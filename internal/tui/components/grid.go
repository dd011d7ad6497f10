package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/facet"
	"github.com/mmcdole/movied/internal/tui/styles"
)

// Layout constants for grid
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2

	// Title line at top of content area
	TitleLines = 1
)

// Grid is a scrollable, filterable list of catalog entries
type Grid struct {
	items []domain.ListItem

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title string
	empty string // empty-state message

	// Show kind badges (mixed search results)
	badges bool

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into items
}

// NewGrid creates a new grid with a title
func NewGrid(title string) *Grid {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &Grid{
		title:       title,
		empty:       facet.EmptyMessage,
		filterInput: ti,
	}
}

// SetItems replaces the grid content and resets the cursor
func (g *Grid) SetItems(items []domain.ListItem) {
	g.items = items
	g.cursor = 0
	g.offset = 0
	g.clearFilter()
}

// ReplaceItems swaps the content keeping the cursor when possible.
// Used for background refreshes so the selection does not jump.
func (g *Grid) ReplaceItems(items []domain.ListItem) {
	g.items = items
	if g.filterActive {
		g.applyFilter()
	}
	if last := g.ItemCount() - 1; g.cursor > last {
		g.cursor = max(last, 0)
	}
	g.ensureVisible()
}

// SetMovieItems is a convenience wrapper for catalog items
func (g *Grid) SetMovieItems(items []domain.Item) {
	g.SetItems(ListItems(items))
}

// ListItems converts catalog items for the grid
func ListItems(items []domain.Item) []domain.ListItem {
	out := make([]domain.ListItem, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// SetTitle sets the title line
func (g *Grid) SetTitle(title string) {
	g.title = title
}

// SetEmptyMessage sets the message rendered when there are no items
func (g *Grid) SetEmptyMessage(msg string) {
	g.empty = msg
}

// SetBadges toggles kind badges on rows
func (g *Grid) SetBadges(on bool) {
	g.badges = on
}

// SetSize updates the component dimensions
func (g *Grid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.recalcMaxVisible()
}

// recalcMaxVisible calculates maxVisible accounting for title and filter bar
func (g *Grid) recalcMaxVisible() {
	interiorHeight := g.height - BorderHeight
	g.maxVisible = interiorHeight - ScrollIndicatorLines - TitleLines
	if g.filterActive {
		g.maxVisible--
	}
	if g.maxVisible < 1 {
		g.maxVisible = 1
	}
}

// SetFocused sets the focus state
func (g *Grid) SetFocused(focused bool) {
	g.focused = focused
}

// IsFocused returns the focus state
func (g *Grid) IsFocused() bool {
	return g.focused
}

// Cursor returns the current cursor position
func (g *Grid) Cursor() int {
	return g.cursor
}

// SetCursor sets the cursor position
func (g *Grid) SetCursor(pos int) {
	last := g.ItemCount() - 1
	if last < 0 {
		g.cursor = 0
		return
	}
	g.cursor = min(max(pos, 0), last)
	g.ensureVisible()
}

// ItemCount returns the number of visible items (accounting for filter)
func (g *Grid) ItemCount() int {
	if g.filteredIdx != nil {
		return len(g.filteredIdx)
	}
	return len(g.items)
}

// Selected returns the entry under the cursor
func (g *Grid) Selected() domain.ListItem {
	if g.ItemCount() == 0 || g.cursor >= g.ItemCount() {
		return nil
	}
	return g.items[g.mapIndex(g.cursor)]
}

// IsFiltering returns true if filter mode is active
func (g *Grid) IsFiltering() bool {
	return g.filterActive
}

// IsFilterTyping returns true if the filter input has focus
func (g *Grid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

// ToggleFilter activates the filter input
func (g *Grid) ToggleFilter() tea.Cmd {
	g.filterActive = true
	g.recalcMaxVisible()
	return g.filterInput.Focus()
}

// ClearFilter deactivates the filter and shows all items
func (g *Grid) ClearFilter() {
	g.clearFilter()
}

func (g *Grid) clearFilter() {
	g.filterActive = false
	g.filterQuery = ""
	g.filteredIdx = nil
	g.filterInput.SetValue("")
	g.filterInput.Blur()
	g.recalcMaxVisible()
}

// applyFilter narrows items to fuzzy title matches, best first
func (g *Grid) applyFilter() {
	query := g.filterInput.Value()
	g.filterQuery = query

	if query == "" {
		g.filteredIdx = nil
		return
	}

	titles := make([]string, len(g.items))
	for i, it := range g.items {
		titles[i] = strings.ToLower(it.GetTitle())
	}

	matches := fuzzy.Find(strings.ToLower(query), titles)
	g.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		g.filteredIdx[i] = match.Index
	}

	g.cursor = 0
	g.offset = 0
}

func (g *Grid) mapIndex(i int) int {
	if g.filteredIdx != nil && i < len(g.filteredIdx) {
		return g.filteredIdx[i]
	}
	return i
}

func (g *Grid) ensureVisible() {
	if g.cursor < g.offset {
		g.offset = g.cursor
	}
	if g.cursor >= g.offset+g.maxVisible {
		g.offset = g.cursor - g.maxVisible + 1
	}
}

// Update handles key messages while focused
func (g *Grid) Update(msg tea.Msg) tea.Cmd {
	if !g.focused {
		return nil
	}

	// Filter input has focus (typing mode)
	if g.IsFilterTyping() {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, GridKeys.Escape):
				g.clearFilter()
				return nil
			case key.Matches(msg, GridKeys.Enter):
				g.filterInput.Blur()
				return nil
			case msg.String() == "backspace" && g.filterInput.Value() == "":
				g.clearFilter()
				return nil
			}
		}

		var cmd tea.Cmd
		g.filterInput, cmd = g.filterInput.Update(msg)
		g.applyFilter()
		return cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	// Filter applied but blurred (navigating the matches)
	if g.filterActive {
		switch {
		case key.Matches(keyMsg, GridKeys.Escape):
			g.clearFilter()
			return nil
		case key.Matches(keyMsg, GridKeys.Filter):
			return g.filterInput.Focus()
		}
	}

	count := g.ItemCount()
	if count == 0 {
		return nil
	}

	switch {
	case key.Matches(keyMsg, GridKeys.Down):
		if g.cursor < count-1 {
			g.cursor++
		}
	case key.Matches(keyMsg, GridKeys.Up):
		if g.cursor > 0 {
			g.cursor--
		}
	case key.Matches(keyMsg, GridKeys.Home):
		g.cursor = 0
	case key.Matches(keyMsg, GridKeys.End):
		g.cursor = count - 1
	case key.Matches(keyMsg, GridKeys.HalfDown):
		g.cursor = min(g.cursor+g.maxVisible/2, count-1)
	case key.Matches(keyMsg, GridKeys.HalfUp):
		g.cursor = max(g.cursor-g.maxVisible/2, 0)
	}
	g.ensureVisible()
	return nil
}

// View renders the component
func (g *Grid) View() string {
	style := styles.InactiveBorder
	if g.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(g.width - frameW).
		Height(g.height - frameH).
		Render(g.renderList())
}

func (g *Grid) renderList() string {
	itemWidth := g.width - BorderWidth

	titleLine := styles.AccentStyle.Render(styles.Truncate(g.title, itemWidth))
	if g.title == "" {
		titleLine = " "
	}

	count := g.ItemCount()
	if count == 0 {
		msg := g.empty
		if g.filterActive && g.filterQuery != "" {
			msg = "No matches"
		}
		content := titleLine + "\n \n" + styles.EmptyStyle.Render(msg)
		if g.filterActive {
			content += "\n" + g.renderFilterBar()
		}
		return content
	}

	end := min(g.offset+g.maxVisible, count)
	lines := make([]string, 0, end-g.offset)
	for i := g.offset; i < end; i++ {
		lines = append(lines, g.renderRow(g.items[g.mapIndex(i)], i == g.cursor && g.focused, itemWidth))
	}

	// Always reserve the indicator lines so the layout does not shift
	header := " "
	if g.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if g.filterActive {
		content += "\n" + g.renderFilterBar()
	}
	return content
}

// renderRow renders one entry; movies and shows carry a rating and year
func (g *Grid) renderRow(entry domain.ListItem, selected bool, width int) string {
	dimGray := styles.DimGray
	amber := styles.Amber

	switch it := entry.(type) {
	case domain.Item:
		var parts []styles.RowPart
		if g.badges {
			parts = append(parts, styles.RowPart{Text: kindBadge(it.Kind) + " ", Foreground: &dimGray})
		}
		if it.Kind == domain.MediaKindPerson {
			parts = append(parts, styles.RowPart{Text: styles.Truncate(it.GetTitle(), width-12)})
			return styles.RenderListRow(parts, selected, width)
		}

		parts = append(parts, styles.RowPart{Text: styles.Pad(styles.Stars(it.Rating()), 6) + " ", Foreground: &amber})
		title := it.GetTitle()
		if y := it.GetYear(); y > 0 {
			title = fmt.Sprintf("%s (%d)", title, y)
		}
		extra := ""
		if it.Character != "" {
			extra = " as " + it.Character
		}
		avail := width - 14
		if g.badges {
			avail -= 7
		}
		parts = append(parts, styles.RowPart{Text: styles.Truncate(title, avail)})
		if extra != "" && lipgloss.Width(title)+len(extra) < avail {
			parts = append(parts, styles.RowPart{Text: extra, Foreground: &dimGray, Italic: true})
		}
		return styles.RenderListRow(parts, selected, width)

	default:
		parts := []styles.RowPart{{Text: styles.Truncate(entry.GetTitle(), width/2)}}
		if desc := entry.GetDescription(); desc != "" {
			parts = append(parts, styles.RowPart{
				Text:       "  " + styles.Truncate(desc, width-width/2-6),
				Foreground: &dimGray,
			})
		}
		return styles.RenderListRow(parts, selected, width)
	}
}

func kindBadge(k domain.MediaKind) string {
	switch k {
	case domain.MediaKindPerson:
		return "PERSON"
	case domain.MediaKindTV:
		return "TV    "
	default:
		return "FILM  "
	}
}

func (g *Grid) renderFilterBar() string {
	countStr := ""
	if g.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", g.ItemCount(), len(g.items)))
	}
	return g.filterInput.View() + countStr
}
