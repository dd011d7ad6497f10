package autocomplete

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/route"
)

func movie(id int, title string) domain.Item {
	return domain.Item{Kind: domain.MediaKindMovie, ID: id, Title: title}
}

func duneResults() []domain.Item {
	return []domain.Item{
		movie(438631, "Dune"),
		movie(693134, "Dune: Part Two"),
		movie(841, "Dune (1984)"),
	}
}

// typeAndSettle types text and settles the debounce window, returning the fetched query
func typeAndSettle(t *testing.T, c *Controller, text string) (string, bool) {
	t.Helper()
	return c.Settle(c.OnTextChanged(text))
}

func TestOnlyFinalTextInWindowSettles(t *testing.T) {
	c := New(DefaultConfig())

	var tags []uint64
	for _, text := range []string{"d", "du", "dun", "dune"} {
		tags = append(tags, c.OnTextChanged(text))
	}

	var fetched []string
	for _, tag := range tags {
		if q, ok := c.Settle(tag); ok {
			fetched = append(fetched, q)
		}
	}

	assert.Equal(t, []string{"dune"}, fetched)
	assert.Equal(t, "dune", c.State().DebouncedQueryText)
}

func TestStaleTagDoesNotUpdateDebouncedText(t *testing.T) {
	c := New(DefaultConfig())
	first := c.OnTextChanged("du")
	c.OnTextChanged("dun")

	_, ok := c.Settle(first)
	assert.False(t, ok)
	assert.Empty(t, c.State().DebouncedQueryText)
}

func TestShortQueriesNeverFetch(t *testing.T) {
	for _, text := range []string{"", "d", "é"} {
		t.Run(text, func(t *testing.T) {
			c := New(DefaultConfig())

			// Populate first, then shorten
			q, ok := typeAndSettle(t, c, "dune")
			require.True(t, ok)
			c.ApplyResults(q, duneResults(), nil)
			require.Len(t, c.State().VisibleResults, 3)

			_, ok = typeAndSettle(t, c, text)
			assert.False(t, ok)
			assert.Empty(t, c.State().VisibleResults)
			assert.False(t, c.IsLoading())
			assert.False(t, c.ShowResults())
		})
	}
}

func TestTwoRunesIsSearchable(t *testing.T) {
	c := New(DefaultConfig())
	q, ok := typeAndSettle(t, c, "du")
	assert.True(t, ok)
	assert.Equal(t, "du", q)
	assert.True(t, c.IsLoading())
}

func TestResultsHiddenWhilePending(t *testing.T) {
	c := New(DefaultConfig())
	q, _ := typeAndSettle(t, c, "dune")
	c.ApplyResults(q, duneResults(), nil)

	_, ok := typeAndSettle(t, c, "alien")
	require.True(t, ok)

	s := c.State()
	assert.Empty(t, s.VisibleResults)
	assert.True(t, s.Loading)
	assert.False(t, c.ShowResults())
	assert.False(t, c.ShowNoMatches())
}

func TestApplyResultsDiscardsMismatchedKey(t *testing.T) {
	c := New(DefaultConfig())
	typeAndSettle(t, c, "dune")
	typeAndSettle(t, c, "alien")

	// Late response for the previous key
	applied := c.ApplyResults("dune", duneResults(), nil)
	assert.False(t, applied)
	assert.Empty(t, c.State().VisibleResults)
	assert.True(t, c.IsLoading())
}

func TestApplyResultsTruncatesToFive(t *testing.T) {
	c := New(DefaultConfig())
	q, _ := typeAndSettle(t, c, "star")

	var items []domain.Item
	for i := 1; i <= 8; i++ {
		items = append(items, movie(i, "Star"))
	}
	c.ApplyResults(q, items, nil)

	assert.Len(t, c.State().VisibleResults, MaxResults)
	assert.True(t, c.ShowResults())
}

func TestFetchErrorShowsNoMatches(t *testing.T) {
	c := New(DefaultConfig())
	q, _ := typeAndSettle(t, c, "dune")

	c.ApplyResults(q, nil, errors.New("upstream down"))

	s := c.State()
	assert.Empty(t, s.VisibleResults)
	assert.Error(t, s.Err)
	assert.False(t, c.IsLoading())
	assert.True(t, c.ShowNoMatches())
}

func TestNavigateClampsAtViewAllRow(t *testing.T) {
	c := New(DefaultConfig())
	q, _ := typeAndSettle(t, c, "dune")
	results := duneResults()
	c.ApplyResults(q, results, nil)

	for i := 0; i < len(results)+2; i++ {
		c.OnKeyNavigate(Down)
	}
	assert.Equal(t, len(results), c.State().HighlightedIndex)

	for i := 0; i < len(results)+5; i++ {
		c.OnKeyNavigate(Up)
	}
	assert.Equal(t, -1, c.State().HighlightedIndex)
}

func TestHighlightResetsWhenResultsChange(t *testing.T) {
	c := New(DefaultConfig())
	q, _ := typeAndSettle(t, c, "dune")
	c.ApplyResults(q, duneResults(), nil)
	c.OnKeyNavigate(Down)
	c.OnKeyNavigate(Down)
	require.Equal(t, 1, c.State().HighlightedIndex)

	// Same identities (background refresh) keep the highlight
	c.ApplyResults(q, duneResults(), nil)
	assert.Equal(t, 1, c.State().HighlightedIndex)

	c.ApplyResults(q, duneResults()[:2], nil)
	assert.Equal(t, -1, c.State().HighlightedIndex)
}

func TestTypingResetsHighlightAndOpens(t *testing.T) {
	c := New(DefaultConfig())
	q, _ := typeAndSettle(t, c, "dune")
	c.ApplyResults(q, duneResults(), nil)
	c.OnKeyNavigate(Down)
	c.OnEscape()

	c.OnTextChanged("dune ")
	s := c.State()
	assert.Equal(t, -1, s.HighlightedIndex)
	assert.True(t, s.IsOpen)
}

func TestCommitWithoutHighlightOpensSearch(t *testing.T) {
	c := New(DefaultConfig())
	c.OnTextChanged("dune")

	r, ok := c.OnCommit()
	require.True(t, ok)
	assert.Equal(t, route.Search("dune"), r)

	s := c.State()
	assert.False(t, s.IsOpen)
	assert.Equal(t, "dune", s.QueryText)
}

func TestCommitHighlightedResultOpensDetail(t *testing.T) {
	c := New(DefaultConfig())
	q, _ := typeAndSettle(t, c, "dune")
	results := []domain.Item{movie(1, "A"), movie(2, "B"), movie(438631, "Dune")}
	c.ApplyResults(q, results, nil)

	for i := 0; i < 3; i++ {
		c.OnKeyNavigate(Down)
	}
	require.Equal(t, 2, c.State().HighlightedIndex)

	r, ok := c.OnCommit()
	require.True(t, ok)
	assert.Equal(t, route.Movie(438631), r)

	s := c.State()
	assert.Empty(t, s.QueryText)
	assert.False(t, s.IsOpen)
	assert.Empty(t, s.VisibleResults)
}

func TestCommitViewAllRowOpensSearch(t *testing.T) {
	c := New(DefaultConfig())
	q, _ := typeAndSettle(t, c, "dune")
	c.ApplyResults(q, duneResults(), nil)
	for i := 0; i < 10; i++ {
		c.OnKeyNavigate(Down)
	}

	r, ok := c.OnCommit()
	require.True(t, ok)
	assert.Equal(t, route.Search("dune"), r)
}

func TestCommitWithEmptyTextIsNoop(t *testing.T) {
	c := New(DefaultConfig())
	c.OnFocus()
	c.OnTextChanged("")

	_, ok := c.OnCommit()
	assert.False(t, ok)
	assert.True(t, c.State().IsOpen)
}

func TestCommitWhitespaceOpensSearch(t *testing.T) {
	c := New(DefaultConfig())
	c.OnFocus()
	c.OnTextChanged("   ")

	r, ok := c.OnCommit()
	require.True(t, ok)
	assert.Equal(t, route.Search("   "), r)
	assert.False(t, c.State().IsOpen)
}

func TestCommitPersonResultOpensPersonPage(t *testing.T) {
	c := New(DefaultConfig())
	q, _ := typeAndSettle(t, c, "villeneuve")
	c.ApplyResults(q, []domain.Item{{Kind: domain.MediaKindPerson, ID: 137427, Title: "Denis Villeneuve"}}, nil)

	c.OnKeyNavigate(Down)
	r, ok := c.OnCommit()
	require.True(t, ok)
	assert.Equal(t, route.Person("Denis Villeneuve"), r)
}

func TestMouseSelect(t *testing.T) {
	c := New(DefaultConfig())
	q, _ := typeAndSettle(t, c, "dune")
	c.ApplyResults(q, duneResults(), nil)

	_, ok := c.OnMouseSelect(9)
	assert.False(t, ok)

	r, ok := c.OnMouseSelect(1)
	require.True(t, ok)
	assert.Equal(t, route.Movie(693134), r)
}

func TestEscapeKeepsText(t *testing.T) {
	c := New(DefaultConfig())
	c.OnFocus()
	c.OnTextChanged("dune")

	c.OnEscape()
	s := c.State()
	assert.False(t, s.IsOpen)
	assert.False(t, s.IsFocused)
	assert.Equal(t, "dune", s.QueryText)
}

func TestBlurOutsideKeepsFocusAndText(t *testing.T) {
	c := New(DefaultConfig())
	c.OnFocus()
	c.OnTextChanged("dune")

	c.OnBlurOutside()
	s := c.State()
	assert.False(t, s.IsOpen)
	assert.True(t, s.IsFocused)
	assert.Equal(t, "dune", s.QueryText)
}

func TestClearInvalidatesPendingSettle(t *testing.T) {
	c := New(DefaultConfig())
	tag := c.OnTextChanged("dune")
	c.Clear()

	_, ok := c.Settle(tag)
	assert.False(t, ok)
	s := c.State()
	assert.Empty(t, s.QueryText)
	assert.False(t, s.IsOpen)
}

func TestShortcutFocusesInput(t *testing.T) {
	c := New(DefaultConfig())
	assert.True(t, c.OnShortcut(false))
	assert.True(t, c.IsFocused())
	assert.True(t, c.State().IsOpen)
}

func TestShortcutGuardedWhileEditableFocused(t *testing.T) {
	c := New(DefaultConfig())
	assert.False(t, c.OnShortcut(true))
	assert.False(t, c.IsFocused())
}

// With the guard off the shortcut steals focus from whatever field has it
func TestShortcutStealsFocusFromEditableWhenUnguarded(t *testing.T) {
	c := New(Config{GuardShortcut: false})
	assert.True(t, c.OnShortcut(true))
	assert.True(t, c.IsFocused())
}

func TestAttachAndClose(t *testing.T) {
	hub := NewHub()
	c := New(DefaultConfig())
	c.Attach(hub)
	require.Equal(t, 2, hub.Len())

	hub.Publish(Event{Kind: EventShortcut})
	assert.True(t, c.IsFocused())

	c.OnTextChanged("dune")
	hub.Publish(Event{Kind: EventPointerDown, Inside: true})
	assert.True(t, c.State().IsOpen)

	hub.Publish(Event{Kind: EventPointerDown})
	assert.False(t, c.State().IsOpen)

	c.Close()
	assert.Zero(t, hub.Len())

	c.OnEscape()
	hub.Publish(Event{Kind: EventShortcut})
	assert.False(t, c.IsFocused(), "no delivery after Close")
}

func TestDefaultDebounce(t *testing.T) {
	assert.Equal(t, DefaultDebounce, New(Config{}).Debounce())
}
