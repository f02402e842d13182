// Package search implements the live-search input: debounced queries, a
// ranked dropdown with highlighted matches and keyboard navigation.
package search

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atomicstack/storefront-tui/internal/i18n"
	"github.com/atomicstack/storefront-tui/internal/logging"
	"github.com/atomicstack/storefront-tui/internal/logging/events"
	"github.com/atomicstack/storefront-tui/internal/overlay"
	"github.com/atomicstack/storefront-tui/internal/route"
	"github.com/atomicstack/storefront-tui/internal/shop"
	"github.com/atomicstack/storefront-tui/internal/ui/command"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	InputID         = "search:input"
	DropdownID      = "search:dropdown"
	MinQueryLength  = 2
	DefaultDebounce = 300 * time.Millisecond
	defaultVisible  = 6
)

// Backend runs the search query.
type Backend interface {
	Search(ctx context.Context, query string) ([]shop.SearchResult, error)
}

type Deps struct {
	Backend  Backend
	Bus      *command.Bus
	Printer  *i18n.Printer
	Currency string
	Focus    *overlay.Focus
	Debounce time.Duration
	// After schedules msg after d. It defaults to tea.Tick.
	After func(d time.Duration, msg tea.Msg) tea.Cmd
	// MaxVisible caps the dropdown rows shown at once.
	MaxVisible int
}

// DebounceMsg fires when the input has been idle for the debounce delay.
type DebounceMsg struct {
	keystroke int
	query     string
}

// ResultsMsg carries a search response tagged with its request token.
type ResultsMsg struct {
	seq     int
	query   string
	results []shop.SearchResult
	err     error
}

type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Activate key.Binding
	Dismiss  key.Binding
}

var DefaultKeyMap = KeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous result")),
	Down:     key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next result")),
	Activate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Dismiss:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
}

// Controller owns the search input and its dropdown.
type Controller struct {
	deps      Deps
	keys      KeyMap
	input     textinput.Model
	dropdown  *overlay.Controller
	keystroke int
	seq       int
	query     string
	results   []shop.SearchResult
	cursor    int
	offset    int
	visible   int
}

func New(deps Deps) *Controller {
	if deps.Debounce <= 0 {
		deps.Debounce = DefaultDebounce
	}
	if deps.After == nil {
		deps.After = func(d time.Duration, msg tea.Msg) tea.Cmd {
			return tea.Tick(d, func(time.Time) tea.Msg { return msg })
		}
	}
	if deps.Focus == nil {
		deps.Focus = overlay.NewFocus("")
	}
	visible := deps.MaxVisible
	if visible <= 0 {
		visible = defaultVisible
	}
	ti := textinput.New()
	ti.Prompt = "» "
	ti.Placeholder = deps.Printer.T(i18n.SearchPlaceholder)
	ti.CharLimit = 100
	c := &Controller{deps: deps, keys: DefaultKeyMap, input: ti, cursor: -1, visible: visible}
	c.dropdown = overlay.New(overlay.Options{
		ID:               DropdownID,
		Trigger:          InputID,
		KeepFocus:        true,
		DismissOnOutside: true,
	}, deps.Focus, nil)
	return c
}

func (c *Controller) Dropdown() *overlay.Controller { return c.dropdown }

func (c *Controller) Value() string { return c.input.Value() }

// Query is the query of the results currently shown.
func (c *Controller) Query() string { return c.query }

func (c *Controller) Results() []shop.SearchResult { return c.results }

func (c *Controller) Cursor() int { return c.cursor }

func (c *Controller) Offset() int { return c.offset }

func (c *Controller) Focused() bool { return c.deps.Focus.Is(InputID) }

func (c *Controller) Keys() KeyMap { return c.keys }

// SetCursorMode switches the input cursor between blinking and static.
func (c *Controller) SetCursorMode(mode cursor.Mode) tea.Cmd {
	return c.input.Cursor.SetMode(mode)
}

// SeeAllHref links the full search page for the shown query.
func (c *Controller) SeeAllHref() string {
	return route.SearchPage(c.query)
}

func trimmed(s string) (string, bool) {
	q := strings.TrimSpace(s)
	return q, utf8.RuneCountInString(q) >= MinQueryLength
}

// Focus moves focus into the input. An existing query of two or more runes
// is searched again.
func (c *Controller) Focus() tea.Cmd {
	c.deps.Focus.Set(InputID)
	cmds := []tea.Cmd{c.input.Focus()}
	if q, ok := trimmed(c.input.Value()); ok {
		c.keystroke++
		cmds = append(cmds, c.search(q))
	}
	return tea.Batch(cmds...)
}

// Blur releases the input and hides the dropdown. Focus moves elsewhere by
// the caller.
func (c *Controller) Blur() {
	c.input.Blur()
	c.hide("blur")
}

func (c *Controller) hide(reason string) {
	if c.dropdown.IsOpen() {
		events.Search.Hide(reason)
	}
	c.dropdown.Close()
	c.cursor = -1
	c.offset = 0
}

// HandleKey routes a key while the input is focused.
func (c *Controller) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, c.keys.Dismiss):
		c.Blur()
		c.deps.Focus.Blur()
		return nil
	case key.Matches(msg, c.keys.Down):
		c.Move(1)
		return nil
	case key.Matches(msg, c.keys.Up):
		c.Move(-1)
		return nil
	case key.Matches(msg, c.keys.Activate):
		return c.Activate()
	}
	before := c.input.Value()
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	if c.input.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, c.changed())
}

// changed schedules a debounced search, or hides the dropdown at once when
// the query is too short.
func (c *Controller) changed() tea.Cmd {
	c.keystroke++
	q, ok := trimmed(c.input.Value())
	events.Search.Input(q, c.keystroke)
	if !ok {
		c.seq++
		c.hide("short")
		return nil
	}
	return c.deps.After(c.deps.Debounce, DebounceMsg{keystroke: c.keystroke, query: q})
}

func (c *Controller) search(q string) tea.Cmd {
	c.seq++
	seq := c.seq
	events.Search.Query(q, seq)
	backend := c.deps.Backend
	return c.deps.Bus.Execute(command.Request{
		Label: "search.query",
		Run: func(ctx context.Context) tea.Msg {
			results, err := backend.Search(ctx, q)
			return ResultsMsg{seq: seq, query: q, results: results, err: err}
		},
	})
}

// Update applies search messages. It reports whether msg belonged to the
// controller.
func (c *Controller) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case DebounceMsg:
		if msg.keystroke != c.keystroke {
			events.Search.Debounced(msg.keystroke, c.keystroke)
			return true, nil
		}
		return true, c.search(msg.query)
	case ResultsMsg:
		c.applyResults(msg)
		return true, nil
	}
	if c.Focused() {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return false, cmd
	}
	return false, nil
}

func (c *Controller) applyResults(msg ResultsMsg) {
	if msg.seq != c.seq {
		events.Search.Stale(msg.seq, c.seq)
		return
	}
	if msg.err != nil {
		logging.Errorf("search", msg.err)
		c.hide("error")
		return
	}
	c.query = msg.query
	c.results = msg.results
	c.cursor = -1
	c.offset = 0
	events.Search.Results(msg.query, msg.seq, len(msg.results))
	if c.Focused() {
		c.dropdown.Open()
	}
}

// Move shifts the selection cursor within [-1, last] and scrolls it into
// view.
func (c *Controller) Move(delta int) {
	if !c.dropdown.IsOpen() {
		return
	}
	next := c.cursor + delta
	if next < -1 {
		next = -1
	}
	if last := len(c.results) - 1; next > last {
		next = last
	}
	c.cursor = next
	c.scrollIntoView()
	events.Search.Cursor(c.cursor)
}

func (c *Controller) scrollIntoView() {
	if c.cursor < 0 {
		c.offset = 0
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.visible {
		c.offset = c.cursor - c.visible + 1
	}
}

// Activate opens the selected result, or the full search page when nothing
// is selected.
func (c *Controller) Activate() tea.Cmd {
	var href string
	switch {
	case c.dropdown.IsOpen() && c.cursor >= 0 && c.cursor < len(c.results):
		href = c.results[c.cursor].Href()
	default:
		q, ok := trimmed(c.input.Value())
		if !ok {
			return nil
		}
		href = route.SearchPage(q)
	}
	c.hide("navigate")
	events.App.Navigate(href)
	return route.To(href)
}

// ClickRow activates the dropdown line at row, counted from the first line
// inside the border. Result rows open their product and the trailing link
// opens the full search page. Other rows are ignored.
func (c *Controller) ClickRow(row int) tea.Cmd {
	if !c.dropdown.IsOpen() || row < 0 {
		return nil
	}
	shown := min(c.offset+c.visible, len(c.results)) - c.offset
	switch {
	case len(c.results) > 0 && row < shown:
		c.cursor = c.offset + row
		return c.Activate()
	case len(c.results) > 0 && row == shown, len(c.results) == 0 && row == 1:
		href := route.SearchPage(c.query)
		c.hide("navigate")
		events.App.Navigate(href)
		return route.To(href)
	}
	return nil
}

// HandleMouse hides the dropdown on a click outside the input and dropdown.
func (c *Controller) HandleMouse(msg tea.MouseMsg) bool {
	if c.dropdown.HandleMouse(msg) {
		c.cursor = -1
		c.offset = 0
		events.Search.Hide("outside")
		return true
	}
	return false
}
