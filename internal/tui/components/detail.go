package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/tui/styles"
)

// Detail displays the metadata of a movie page in a scrollable panel
type Detail struct {
	page    *domain.MoviePage
	vp      viewport.Model
	width   int
	height  int
	focused bool
}

// NewDetail creates a new detail panel
func NewDetail() *Detail {
	return &Detail{vp: viewport.New(0, 0)}
}

// SetPage sets the movie to display
func (d *Detail) SetPage(page *domain.MoviePage) {
	d.page = page
	d.vp.SetContent(d.render())
	d.vp.GotoTop()
}

// SetSize updates the component dimensions
func (d *Detail) SetSize(width, height int) {
	d.width = width
	d.height = height
	frameW, frameH := styles.InactiveBorder.GetFrameSize()
	d.vp.Width = max(width-frameW-2, 10)
	d.vp.Height = max(height-frameH, 1)
	d.vp.SetContent(d.render())
}

// SetFocused sets the focus state
func (d *Detail) SetFocused(focused bool) {
	d.focused = focused
}

// IsFocused returns the focus state
func (d *Detail) IsFocused() bool {
	return d.focused
}

// Update scrolls the panel while focused
func (d *Detail) Update(msg tea.Msg) tea.Cmd {
	if !d.focused {
		return nil
	}
	var cmd tea.Cmd
	d.vp, cmd = d.vp.Update(msg)
	return cmd
}

// View renders the component
func (d *Detail) View() string {
	style := styles.InactiveBorder
	if d.focused {
		style = styles.ActiveBorder
	}
	frameW, frameH := style.GetFrameSize()
	return style.
		Width(d.width - frameW).
		Height(d.height - frameH).
		Padding(0, 1).
		Render(d.vp.View())
}

func (d *Detail) render() string {
	if d.page == nil {
		return ""
	}
	m := d.page.Detail
	width := max(d.vp.Width, 10)
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder

	title := m.GetTitle()
	if y := m.GetYear(); y > 0 {
		title = fmt.Sprintf("%s (%d)", title, y)
	}
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n")
	if m.Tagline != "" {
		b.WriteString(wrap.Render(styles.EmptyStyle.Render(m.Tagline)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	var facts []string
	if rt := m.FormattedRuntime(); rt != "" {
		facts = append(facts, rt)
	}
	if g := m.GenreNames(); g != "" {
		facts = append(facts, g)
	}
	if m.Status != "" && m.Status != "Released" {
		facts = append(facts, m.Status)
	}
	if len(facts) > 0 {
		b.WriteString(wrap.Render(styles.SubtitleStyle.Render(strings.Join(facts, " · "))))
		b.WriteString("\n")
	}

	if m.HasRating() {
		b.WriteString(styles.AccentStyle.Render(styles.Stars(m.Rating())))
		b.WriteString(styles.DimStyle.Render("  " + styles.Votes(m.VoteCount)))
		b.WriteString("\n")
	}

	if directors := d.page.Credits.Directors(); len(directors) > 0 {
		b.WriteString(styles.DimStyle.Render("Directed by "))
		b.WriteString(strings.Join(directors, ", "))
		b.WriteString("\n")
	}

	if trailer, ok := domain.Trailer(d.page.Videos); ok {
		b.WriteString(styles.DimStyle.Render("Trailer: "))
		b.WriteString(styles.AccentStyle.Render(trailer.Name))
		b.WriteString(styles.DimStyle.Render("  (t to play)"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.Overview != "" {
		b.WriteString(wrap.Render(m.Overview))
	} else {
		b.WriteString(styles.EmptyStyle.Render("No overview available."))
	}
	return b.String()
}
