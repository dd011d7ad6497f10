package autocomplete

import (
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/route"
)

const (
	// DefaultDebounce is the inactivity window before typed text is searched
	DefaultDebounce = 300 * time.Millisecond

	// MaxResults caps the suggestion list
	MaxResults = 5

	// MinQueryLength is the shortest debounced text that triggers a search
	MinQueryLength = 2
)

// Direction is a keyboard navigation step
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// Config holds controller settings
type Config struct {
	Debounce time.Duration

	// GuardShortcut stops the focus shortcut from firing while another
	// editable field has focus
	GuardShortcut bool
}

// DefaultConfig returns the default controller settings
func DefaultConfig() Config {
	return Config{Debounce: DefaultDebounce, GuardShortcut: true}
}

// State is a read-only snapshot of the controller
type State struct {
	QueryText          string
	DebouncedQueryText string
	IsOpen             bool
	IsFocused          bool
	HighlightedIndex   int
	VisibleResults     []domain.Item
	Loading            bool
	Err                error
}

// Controller is the search bar state machine. It owns the input text, the
// debounce window, the highlight cursor and visibility, and resolves every
// interaction to at most one navigation route.
//
// Debouncing is expressed as tagged settle events: OnTextChanged returns a
// tag and the host calls Settle with it once the window has elapsed. Only the
// newest tag settles, so the host never needs to cancel timers.
type Controller struct {
	mu  sync.Mutex
	cfg Config

	text        string
	debounced   string
	open        bool
	focused     bool
	highlighted int
	results     []domain.Item
	loading     bool
	err         error
	tag         uint64

	subs []*Subscription
}

// New creates a controller
func New(cfg Config) *Controller {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	return &Controller{cfg: cfg, highlighted: -1}
}

// Debounce returns the configured debounce window
func (c *Controller) Debounce() time.Duration {
	return c.cfg.Debounce
}

// OnTextChanged records new input and restarts the debounce window.
// The returned tag must be passed to Settle when the window elapses.
func (c *Controller) OnTextChanged(text string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.text = text
	c.highlighted = -1
	c.open = true
	c.tag++
	return c.tag
}

// Settle completes the debounce window for tag. It reports the query the
// host should fetch, or false when the tag is stale or the text is too short.
// Short text clears the visible results; cached entries are left alone.
func (c *Controller) Settle(tag uint64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tag != c.tag {
		return "", false
	}

	changed := c.debounced != c.text
	c.debounced = c.text
	if !searchable(c.debounced) {
		c.setResultsLocked(nil)
		c.loading = false
		c.err = nil
		return "", false
	}

	if changed {
		c.setResultsLocked(nil)
		c.err = nil
		c.loading = true
	}
	return c.debounced, true
}

// ApplyResults delivers the fetch outcome for query. Results for any text
// other than the current debounced text are discarded and false is returned.
func (c *Controller) ApplyResults(query string, items []domain.Item, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if query != c.debounced || !searchable(query) {
		return false
	}

	c.loading = false
	c.err = err
	if err != nil {
		c.setResultsLocked(nil)
		return true
	}
	if len(items) > MaxResults {
		items = items[:MaxResults]
	}
	c.setResultsLocked(items)
	return true
}

// setResultsLocked replaces the visible list, resetting the highlight when
// the list identity changes
func (c *Controller) setResultsLocked(items []domain.Item) {
	if !sameKeys(c.results, items) {
		c.highlighted = -1
	}
	c.results = append([]domain.Item(nil), items...)
}

// OnFocus opens the suggestion surface
func (c *Controller) OnFocus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.focused = true
	c.open = true
}

// OnKeyNavigate moves the highlight one step, clamped to [-1, len(results)].
// Index len(results) is the "view all results" row. There is no wrap-around.
func (c *Controller) OnKeyNavigate(dir Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.highlighted + int(dir)
	if next < -1 {
		next = -1
	}
	if next > len(c.results) {
		next = len(c.results)
	}
	c.highlighted = next
}

// OnCommit resolves the current highlight into a route.
// A highlighted result opens its detail page and clears the input; the view-all
// row, or no highlight, opens the full search whenever the text is non-empty,
// whitespace included. Any resolution closes the surface.
func (c *Controller) OnCommit() (route.Route, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commitLocked()
}

func (c *Controller) commitLocked() (route.Route, bool) {
	switch {
	case c.highlighted >= 0 && c.highlighted < len(c.results):
		r := route.ForItem(c.results[c.highlighted])
		c.resetLocked()
		return r, true
	case c.text != "":
		r := route.Search(c.text)
		c.open = false
		c.highlighted = -1
		return r, true
	default:
		return route.Route{}, false
	}
}

// OnMouseSelect highlights row index and commits it
func (c *Controller) OnMouseSelect(index int) (route.Route, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index > len(c.results) {
		return route.Route{}, false
	}
	c.highlighted = index
	return c.commitLocked()
}

// OnEscape closes the surface and drops focus. The text is kept.
func (c *Controller) OnEscape() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	c.focused = false
}

// OnBlurOutside closes the surface. Text and focus are untouched.
func (c *Controller) OnBlurOutside() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
}

// OnShortcut handles the global focus shortcut. When the guard is on and
// another editable field has focus the shortcut is ignored and false is returned.
func (c *Controller) OnShortcut(editableFocused bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfg.GuardShortcut && editableFocused {
		return false
	}
	c.focused = true
	c.open = true
	return true
}

// Clear empties the input and closes the surface
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// resetLocked empties the input; pending settles become stale
func (c *Controller) resetLocked() {
	c.text = ""
	c.debounced = ""
	c.open = false
	c.highlighted = -1
	c.results = nil
	c.loading = false
	c.err = nil
	c.tag++
}

// IsLoading reports whether a fetch for the debounced text is pending
// with nothing to show yet
func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// ShowResults reports whether the suggestion list should be drawn
func (c *Controller) ShowResults() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open && searchable(c.debounced) && len(c.results) > 0
}

// ShowNoMatches reports whether the "no matches" affordance should be drawn
func (c *Controller) ShowNoMatches() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open && searchable(c.debounced) && !c.loading && len(c.results) == 0
}

// IsFocused reports whether the input has focus
func (c *Controller) IsFocused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focused
}

// State returns a snapshot for rendering
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		QueryText:          c.text,
		DebouncedQueryText: c.debounced,
		IsOpen:             c.open,
		IsFocused:          c.focused,
		HighlightedIndex:   c.highlighted,
		VisibleResults:     append([]domain.Item(nil), c.results...),
		Loading:            c.loading,
		Err:                c.err,
	}
}

// Attach registers the controller's global listeners on hub.
// The subscriptions are released by Close.
func (c *Controller) Attach(hub *Hub) {
	shortcut := hub.Subscribe(EventShortcut, func(e Event) {
		c.OnShortcut(e.EditableFocused)
	})
	pointer := hub.Subscribe(EventPointerDown, func(e Event) {
		if !e.Inside {
			c.OnBlurOutside()
		}
	})

	c.mu.Lock()
	c.subs = append(c.subs, shortcut, pointer)
	c.mu.Unlock()
}

// Close releases every listener registered by Attach
func (c *Controller) Close() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}

func searchable(text string) bool {
	return utf8.RuneCountInString(text) >= MinQueryLength
}

func sameKeys(a, b []domain.Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key() != b[i].Key() {
			return false
		}
	}
	return true
}
