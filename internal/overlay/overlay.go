// Package overlay implements the open/close lifecycle shared by every
// modal-like surface: visibility, scroll lock, escape and outside-click
// dismissal, a cyclic focus trap and focus restoration.
package overlay

import (
	"github.com/atomicstack/storefront-tui/internal/logging/events"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap holds the bindings a controller reacts to while open.
type KeyMap struct {
	Close key.Binding
	Next  key.Binding
	Prev  key.Binding
}

var DefaultKeyMap = KeyMap{
	Close: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	Next:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
	Prev:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous")),
}

// Options parameterize a controller for its hosting surface.
type Options struct {
	// ID names the surface. It doubles as the focus target when the surface
	// has no focusable controls.
	ID string
	// Trigger receives focus on close when nothing was focused at open.
	Trigger          string
	TrapFocus        bool
	LockScroll       bool
	CloseOnEscape    bool
	DismissOnOutside bool
	// KeepFocus leaves focus where it was on open.
	KeepFocus bool
	// Focusables lists the live focusable controls in tab order. It is
	// queried on every trap so content rendered after open is honoured.
	Focusables func() []string
	OnClose    func()
}

// FocusFirstMsg is delivered after the surface has painted and moves focus
// into it.
type FocusFirstMsg struct {
	Surface string
	gen     int
}

// Controller drives one surface.
type Controller struct {
	opts        Options
	keys        KeyMap
	focus       *Focus
	scroll      *ScrollLock
	open        bool
	lastFocused string
	bounds      []Rect
	gen         int
}

func New(opts Options, focus *Focus, scroll *ScrollLock) *Controller {
	if focus == nil {
		focus = NewFocus("")
	}
	if scroll == nil {
		scroll = NewScrollLock()
	}
	return &Controller{opts: opts, keys: DefaultKeyMap, focus: focus, scroll: scroll}
}

func (c *Controller) ID() string { return c.opts.ID }

func (c *Controller) IsOpen() bool { return c.open }

// Hidden mirrors aria-hidden on the surface.
func (c *Controller) Hidden() bool { return !c.open }

// Expanded mirrors aria-expanded on the trigger.
func (c *Controller) Expanded() bool { return c.open }

// LastFocused is the control focus returns to on close.
func (c *Controller) LastFocused() string { return c.lastFocused }

func (c *Controller) Keys() KeyMap { return c.keys }

// Open shows the surface. The returned command delivers FocusFirstMsg. It is
// a no-op while already open.
func (c *Controller) Open() tea.Cmd {
	if c.open {
		return nil
	}
	c.open = true
	c.gen++
	c.lastFocused = c.focus.Current()
	c.bounds = nil
	if c.opts.LockScroll {
		c.scroll.Lock(c.opts.ID)
	}
	events.Overlay.Open(c.opts.ID, c.lastFocused)
	if c.opts.KeepFocus {
		return nil
	}
	msg := FocusFirstMsg{Surface: c.opts.ID, gen: c.gen}
	return func() tea.Msg { return msg }
}

// Close hides the surface and restores focus. It is a no-op while closed.
func (c *Controller) Close() {
	c.close(events.OverlayReasonCode)
}

func (c *Controller) close(reason string) {
	if !c.open {
		return
	}
	c.open = false
	c.bounds = nil
	if c.opts.LockScroll {
		c.scroll.Unlock(c.opts.ID)
	}
	restore := c.lastFocused
	if restore == "" {
		restore = c.opts.Trigger
	}
	c.lastFocused = ""
	if !c.opts.KeepFocus || restore != "" {
		c.focus.Set(restore)
	}
	events.Overlay.Close(c.opts.ID, restore, reason)
	if c.opts.OnClose != nil {
		c.opts.OnClose()
	}
}

// HandleFocusFirst applies a FocusFirstMsg addressed to this surface. Messages
// from an earlier open are ignored.
func (c *Controller) HandleFocusFirst(msg FocusFirstMsg) bool {
	if msg.Surface != c.opts.ID {
		return false
	}
	if !c.open || msg.gen != c.gen {
		return true
	}
	c.FocusFirst()
	return true
}

// FocusFirst moves focus to the first live focusable, or to the surface.
func (c *Controller) FocusFirst() {
	target := c.opts.ID
	if list := c.focusables(); len(list) > 0 {
		target = list[0]
	}
	c.focus.Set(target)
	events.Overlay.Focus(c.opts.ID, target)
}

// Contains reports whether id is one of the surface's live focusables or the
// surface itself.
func (c *Controller) Contains(id string) bool {
	if id == c.opts.ID {
		return true
	}
	return indexOf(c.focusables(), id) >= 0
}

// HandleKey applies escape and the focus trap. It reports whether the key was
// consumed.
func (c *Controller) HandleKey(msg tea.KeyMsg) bool {
	if !c.open {
		return false
	}
	switch {
	case c.opts.CloseOnEscape && key.Matches(msg, c.keys.Close):
		c.close(events.OverlayReasonEscape)
		return true
	case c.opts.TrapFocus && key.Matches(msg, c.keys.Next):
		c.cycle(1, msg.String())
		return true
	case c.opts.TrapFocus && key.Matches(msg, c.keys.Prev):
		c.cycle(-1, msg.String())
		return true
	}
	return false
}

func (c *Controller) cycle(dir int, keyName string) {
	list := c.focusables()
	if len(list) == 0 {
		events.Overlay.Swallow(c.opts.ID, keyName)
		return
	}
	idx := indexOf(list, c.focus.Current())
	var next int
	switch {
	case idx < 0 && dir > 0:
		next = 0
	case idx < 0:
		next = len(list) - 1
	default:
		next = (idx + dir + len(list)) % len(list)
	}
	c.focus.Set(list[next])
	events.Overlay.Focus(c.opts.ID, list[next])
}

// SetBounds records the screen regions that count as inside the surface.
// The view calls it each frame.
func (c *Controller) SetBounds(rects ...Rect) {
	c.bounds = append(c.bounds[:0], rects...)
}

func (c *Controller) Bounds() []Rect { return c.bounds }

// Inside reports whether a point falls within any recorded bound.
func (c *Controller) Inside(x, y int) bool {
	for _, r := range c.bounds {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}

// HandleMouse closes the surface on a left press outside its bounds and
// reports whether it did.
func (c *Controller) HandleMouse(msg tea.MouseMsg) bool {
	if !c.open || !c.opts.DismissOnOutside || len(c.bounds) == 0 {
		return false
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return false
	}
	if c.Inside(msg.X, msg.Y) {
		return false
	}
	c.close(events.OverlayReasonOutside)
	return true
}

func (c *Controller) focusables() []string {
	if c.opts.Focusables == nil {
		return nil
	}
	return c.opts.Focusables()
}

func indexOf(list []string, id string) int {
	if id == "" {
		return -1
	}
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}
