package tui

// Layout proportions per page
const (
	SidebarPercent = 25 // categories: genre sidebar
	ListsPercent   = 45 // lists: list column, preview takes the rest
	DetailPercent  = 60 // movie: detail, cast takes the rest

	MinColumnWidth = 18

	// Header line, page line and footer line
	ChromeHeight = 3

	// Screen row of the first suggestion, below the header line and the
	// dropdown's top border
	DropdownTop = 2
)

// paneWidths splits availableWidth for the current page, left to right
func (m Model) paneWidths(availableWidth int) []int {
	applyMin := func(width int) int {
		return max(width, MinColumnWidth)
	}
	split := func(percent int) []int {
		left := applyMin(availableWidth * percent / 100)
		return []int{left, max(availableWidth-left, 0)}
	}

	switch n := len(m.page.panes); {
	case n == 3:
		third := availableWidth / 3
		return []int{third, third, availableWidth - 2*third}
	case m.page.sidebar != nil:
		return split(SidebarPercent)
	case m.page.detail != nil:
		return split(DetailPercent)
	case n == 2:
		return split(ListsPercent)
	default:
		return []int{availableWidth}
	}
}

// bodyHeight is the height left for panes
func (m Model) bodyHeight() int {
	return max(m.Height-ChromeHeight, 3)
}

// updateLayout sizes the search bar and every pane of the current page
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	m.SearchBar.SetWidth(m.Width - len(appName) - 2)
	m.Help.Width = m.Width

	if m.page == nil {
		return
	}
	widths := m.paneWidths(m.Width)
	for i, p := range m.page.panes {
		p.SetSize(widths[i], m.bodyHeight())
	}
}
