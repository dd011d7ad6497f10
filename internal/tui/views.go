package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/movied/internal/route"
	"github.com/mmcdole/movied/internal/tui/styles"
)

// renderHeader renders the app name and the search input
func (m Model) renderHeader() string {
	return styles.TitleStyle.Render(appName) + "  " + m.SearchBar.View()
}

// renderPageLine renders the line between the header and the panes:
// the featured movie on home, facet tabs on search and person pages
func (m Model) renderPageLine() string {
	p := m.page
	width := m.Width

	switch p.route.Page {
	case route.PageHome:
		if p.featured == nil {
			return styles.DimStyle.Render("Home")
		}
		f := p.featured
		title := f.GetTitle()
		if y := f.GetYear(); y > 0 {
			title = fmt.Sprintf("%s (%d)", title, y)
		}
		line := styles.BadgeStyle.Render("FEATURED") + " " + styles.TitleStyle.Render(title)
		if f.HasRating() {
			line += "  " + styles.AccentStyle.Render(styles.Stars(f.Rating()))
		}
		if f.Overview != "" {
			rest := width - lipgloss.Width(line) - 3
			line += styles.DimStyle.Render(" · " + styles.Truncate(f.Overview, rest))
		}
		return line
	case route.PageCategories:
		line := styles.SubtitleStyle.Render("Categories")
		if g, ok := p.sidebar.SelectedGenre(); ok {
			line += styles.DimStyle.Render(" · " + g.Name)
		}
		return line
	case route.PageLists:
		return styles.SubtitleStyle.Render("Curated lists")
	case route.PageList:
		line := styles.SubtitleStyle.Render("List")
		if p.subtitle != "" {
			line += styles.DimStyle.Render(" · " + styles.Truncate(p.subtitle, width-8))
		}
		return line
	case route.PageMovie:
		line := styles.SubtitleStyle.Render("Movie")
		if p.subtitle != "" {
			line += styles.DimStyle.Render(" · " + styles.Truncate(p.subtitle, width-9))
		}
		return line
	case route.PagePerson:
		line := styles.SubtitleStyle.Render(p.route.Name)
		if p.subtitle != "" {
			line += styles.DimStyle.Render(" · " + p.subtitle)
		}
		return line + "  " + p.tabs.View()
	case route.PageSearch:
		label := fmt.Sprintf("Results for “%s”", styles.Truncate(p.route.Query, width/3))
		return styles.SubtitleStyle.Render(label) + "  " + p.tabs.View()
	}
	return ""
}

// renderBody renders the panes, or the loading and error states
func (m Model) renderBody() string {
	p := m.page
	height := m.bodyHeight()

	if m.ShowHelp {
		return lipgloss.Place(m.Width, height, lipgloss.Center, lipgloss.Center,
			m.Help.FullHelpView(Keys.FullHelp()))
	}

	switch {
	case p.err != nil && !p.loaded:
		return lipgloss.Place(m.Width, height, lipgloss.Center, lipgloss.Center,
			RenderError(*p.err, m.Width-4))
	case p.loading && !p.loaded:
		return lipgloss.Place(m.Width, height, lipgloss.Center, lipgloss.Center,
			m.Spinner.View()+" Loading…")
	}

	views := make([]string, len(p.panes))
	for i, pn := range p.panes {
		views[i] = pn.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

// renderFooter renders the status message or the key hints
func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return styles.ErrorStyle.Render(styles.Truncate(m.StatusMsg, m.Width))
		}
		return styles.SuccessStyle.Render(styles.Truncate(m.StatusMsg, m.Width))
	}
	return m.Help.ShortHelpView(Keys.ShortHelp())
}

// RenderError renders a failed page load
func RenderError(e ErrMsg, width int) string {
	msg := styles.ErrorStyle.Render("Couldn't finish " + e.Context)
	detail := lipgloss.NewStyle().Width(max(width, 20)).Render(styles.DimStyle.Render(e.Err.Error()))
	hint := styles.DimStyle.Render("r to retry · esc to go back")
	return lipgloss.JoinVertical(lipgloss.Center, msg, detail, "", hint)
}

// overlay draws top over base starting at row 0, indented by x cells.
// Covered base lines are replaced whole.
func overlay(base, top string, x int) string {
	lines := strings.Split(base, "\n")
	indent := strings.Repeat(" ", x)
	for i, l := range strings.Split(top, "\n") {
		if i >= len(lines) {
			lines = append(lines, indent+l)
			continue
		}
		lines[i] = indent + l
	}
	return strings.Join(lines, "\n")
}
