package ui

import (
	"github.com/atomicstack/storefront-tui/internal/cart"
	"github.com/atomicstack/storefront-tui/internal/i18n"
	"github.com/atomicstack/storefront-tui/internal/logging/events"
	"github.com/atomicstack/storefront-tui/internal/notice"
	"github.com/atomicstack/storefront-tui/internal/route"
	"github.com/atomicstack/storefront-tui/internal/search"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap holds the page-level bindings. Overlays consume keys first.
type KeyMap struct {
	Quit     key.Binding
	Search   key.Binding
	Cart     key.Binding
	QuickAdd key.Binding
	Open     key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Next     key.Binding
	Prev     key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", i18n.HelpQuit)),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", i18n.HelpSearch)),
	Cart:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", i18n.HelpCart)),
	QuickAdd: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", i18n.QuickAdd)),
	Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", i18n.HelpOpen)),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", i18n.HelpMove)),
	Down:     key.NewBinding(key.WithKeys("down", "j")),
	PageUp:   key.NewBinding(key.WithKeys("pgup")),
	PageDown: key.NewBinding(key.WithKeys("pgdown")),
	Home:     key.NewBinding(key.WithKeys("home")),
	End:      key.NewBinding(key.WithKeys("end")),
	Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", i18n.HelpNext)),
	Prev:     key.NewBinding(key.WithKeys("shift+tab")),
}

// pageFocusOrder is the tab order of the page behind the overlays.
var pageFocusOrder = []string{cart.TriggerID, search.InputID, PageListID}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if keyMsg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	switch {
	case m.panel.IsOpen():
		return m.panel.HandleKey(keyMsg)
	case m.drawer.IsOpen():
		return m.drawer.HandleKey(keyMsg)
	case m.search.Focused():
		if key.Matches(keyMsg, m.keys.Next) {
			return m.cycleFocus(1)
		}
		if key.Matches(keyMsg, m.keys.Prev) {
			return m.cycleFocus(-1)
		}
		return m.search.HandleKey(keyMsg)
	}
	return m.handlePageKey(keyMsg)
}

func (m *Model) handlePageKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Next):
		return m.cycleFocus(1)
	case key.Matches(msg, m.keys.Prev):
		return m.cycleFocus(-1)
	case key.Matches(msg, m.keys.Search):
		return m.focusControl(search.InputID)
	case key.Matches(msg, m.keys.Cart):
		return m.drawer.Open()
	case key.Matches(msg, m.keys.Open):
		return m.activatePage()
	case key.Matches(msg, m.keys.QuickAdd):
		return m.quickAdd()
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.list.MoveCursorPageUp(m.maxVisibleItems())
		m.syncViewport()
	case key.Matches(msg, m.keys.PageDown):
		m.list.MoveCursorPageDown(m.maxVisibleItems())
		m.syncViewport()
	case key.Matches(msg, m.keys.Home):
		m.list.MoveCursorHome()
		m.syncViewport()
	case key.Matches(msg, m.keys.End):
		m.list.MoveCursorEnd()
		m.syncViewport()
	}
	return nil
}

// cycleFocus moves page focus along pageFocusOrder.
func (m *Model) cycleFocus(dir int) tea.Cmd {
	idx := -1
	for i, id := range pageFocusOrder {
		if m.focus.Is(id) {
			idx = i
			break
		}
	}
	var next int
	switch {
	case idx < 0 && dir > 0:
		next = 0
	case idx < 0:
		next = len(pageFocusOrder) - 1
	default:
		next = (idx + dir + len(pageFocusOrder)) % len(pageFocusOrder)
	}
	return m.focusControl(pageFocusOrder[next])
}

// focusControl moves page focus to id, taking care of the search input.
func (m *Model) focusControl(id string) tea.Cmd {
	if id == search.InputID {
		if m.search.Focused() {
			return nil
		}
		return m.search.Focus()
	}
	if m.search.Focused() {
		m.search.Blur()
	}
	m.focus.Set(id)
	return nil
}

func (m *Model) activatePage() tea.Cmd {
	switch m.focus.Current() {
	case cart.TriggerID:
		return m.drawer.Open()
	case PageListID, "":
		item, ok := m.list.Selected()
		if !ok {
			return nil
		}
		href := item.Href()
		events.App.Navigate(href)
		return route.To(href)
	}
	return nil
}

func (m *Model) quickAdd() tea.Cmd {
	item, ok := m.list.Selected()
	if !ok {
		return nil
	}
	if item.ID <= 0 {
		m.info.Set(notice.Warning, m.printer.T(i18n.Unavailable))
		return nil
	}
	m.focus.Set(PageListID)
	return m.panel.Open(item.ID)
}

func (m *Model) moveCursor(delta int) {
	if !m.focus.Is(PageListID) && m.focus.Current() != "" {
		return
	}
	m.list.MoveCursorBy(delta)
	m.syncViewport()
}

func (m *Model) syncViewport() {
	m.list.EnsureCursorVisible(m.maxVisibleItems())
}
