package ui

import (
	"context"
	"reflect"
	"time"

	"github.com/atomicstack/storefront-tui/internal/backend"
	"github.com/atomicstack/storefront-tui/internal/cart"
	"github.com/atomicstack/storefront-tui/internal/data/dispatcher"
	"github.com/atomicstack/storefront-tui/internal/i18n"
	"github.com/atomicstack/storefront-tui/internal/money"
	"github.com/atomicstack/storefront-tui/internal/notice"
	"github.com/atomicstack/storefront-tui/internal/overlay"
	"github.com/atomicstack/storefront-tui/internal/route"
	"github.com/atomicstack/storefront-tui/internal/search"
	"github.com/atomicstack/storefront-tui/internal/state"
	"github.com/atomicstack/storefront-tui/internal/theme"
	"github.com/atomicstack/storefront-tui/internal/ui/command"
	uistate "github.com/atomicstack/storefront-tui/internal/ui/state"
	"github.com/atomicstack/storefront-tui/internal/variant"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// PageListID is the focus id of the product list on the page.
const PageListID = "page:list"

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Backend is everything the screen needs from the storefront.
type Backend interface {
	cart.Backend
	variant.Backend
	search.Backend
}

// Options configure a Model.
type Options struct {
	Backend    Backend
	Context    context.Context
	Printer    *i18n.Printer
	Currency   string
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	Debounce   time.Duration
	Watcher    *backend.Watcher
	// Animate enables the spinner and the blinking input cursor.
	Animate bool
	// After schedules delayed messages. It defaults to tea.Tick.
	After func(d time.Duration, msg tea.Msg) tea.Cmd
	Now   func() time.Time
}

// Model implements the Bubble Tea model for the storefront screen.
type Model struct {
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool
	animate     bool

	backend        Backend
	watcher        *backend.Watcher
	backendState   map[backend.Kind]error
	backendLastErr string

	printer  *i18n.Printer
	currency string
	keys     KeyMap

	focus  *overlay.Focus
	scroll *overlay.ScrollLock
	drawer *cart.Drawer
	panel  *variant.Panel
	search *search.Controller

	badge      state.BadgeStore
	page       state.PageStore
	list       *uistate.List
	dispatcher *dispatcher.Dispatcher

	pageSeq     int
	pageLoading bool
	spinner     spinner.Model
	spinning    bool
	info        notice.Notice
	errMsg      string
	layout      layout

	handlers map[reflect.Type]msgHandler
	bus      *command.Bus
}

// NewModel wires the overlays, stores and handlers around opts.Backend.
func NewModel(opts Options) *Model {
	if opts.Currency == "" {
		opts.Currency = money.DefaultCurrency
	}
	if opts.Printer == nil {
		opts.Printer = i18n.New("")
	}
	focus := overlay.NewFocus(PageListID)
	scroll := overlay.NewScrollLock()
	bus := command.New(opts.Context)
	badge := state.NewBadgeStore()
	m := &Model{
		showFooter:   opts.ShowFooter,
		verbose:      opts.Verbose,
		animate:      opts.Animate,
		backend:      opts.Backend,
		watcher:      opts.Watcher,
		backendState: map[backend.Kind]error{},
		printer:      opts.Printer,
		currency:     opts.Currency,
		keys:         DefaultKeyMap,
		focus:        focus,
		scroll:       scroll,
		badge:        badge,
		page:         state.NewPageStore(),
		list:         uistate.NewList(nil),
		dispatcher:   dispatcher.New(badge),
		info:         notice.New(opts.Now),
		bus:          bus,
	}
	m.drawer = cart.New(cart.Deps{
		Backend:  opts.Backend,
		Bus:      bus,
		Printer:  opts.Printer,
		Currency: opts.Currency,
		Focus:    focus,
		Scroll:   scroll,
		Badge:    m,
		Now:      opts.Now,
	})
	m.panel = variant.New(variant.Deps{
		Backend:  opts.Backend,
		Bus:      bus,
		Printer:  opts.Printer,
		Currency: opts.Currency,
		Focus:    focus,
		Scroll:   scroll,
		Trigger:  PageListID,
		Now:      opts.Now,
	})
	m.search = search.New(search.Deps{
		Backend:  opts.Backend,
		Bus:      bus,
		Printer:  opts.Printer,
		Currency: opts.Currency,
		Focus:    focus,
		Debounce: opts.Debounce,
		After:    opts.After,
	})
	if !opts.Animate {
		m.search.SetCursorMode(cursor.CursorStatic)
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	if styles.Loading != nil {
		sp.Style = styles.Loading.Copy()
	}
	m.spinner = sp
	m.registerHandlers()
	return m
}

// SetCount mirrors the cart count into the header badge.
func (m *Model) SetCount(n int) {
	m.badge.SetCount(n)
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadBadgeCmd()}
	if m.watcher != nil {
		cmds = append(cmds, waitForBackendEvent(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, m.finishUpdate(cmds)
	}
	// Input-internal messages (cursor blink) belong to the search field.
	if _, cmd := m.search.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):            m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):          m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):     m.handleWindowSizeMsg,
		reflect.TypeOf(spinner.TickMsg{}):       m.handleSpinnerTickMsg,
		reflect.TypeOf(overlay.FocusFirstMsg{}): m.handleFocusFirstMsg,
		reflect.TypeOf(cart.SnapshotMsg{}):      m.handleCartMsg,
		reflect.TypeOf(cart.MutationMsg{}):      m.handleCartMsg,
		reflect.TypeOf(variant.CatalogMsg{}):    m.handleVariantMsg,
		reflect.TypeOf(variant.SubmitMsg{}):     m.handleVariantMsg,
		reflect.TypeOf(variant.AddedMsg{}):      m.handleAddedMsg,
		reflect.TypeOf(search.DebounceMsg{}):    m.handleSearchMsg,
		reflect.TypeOf(search.ResultsMsg{}):     m.handleSearchMsg,
		reflect.TypeOf(route.Msg{}):             m.handleRouteMsg,
		reflect.TypeOf(pageLoadedMsg{}):         m.handlePageLoadedMsg,
		reflect.TypeOf(badgeLoadedMsg{}):        m.handleBadgeLoadedMsg,
		reflect.TypeOf(backendEventMsg{}):       m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):        m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.busy() && !m.spinning && m.animate {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// busy reports whether any surface is waiting on the storefront.
func (m *Model) busy() bool {
	if m.pageLoading {
		return true
	}
	if m.drawer.IsOpen() && m.drawer.Loading() && !m.drawer.Loaded() {
		return true
	}
	if m.panel.IsOpen() && (m.panel.Selector().State() == variant.Loading || m.panel.Submitting()) {
		return true
	}
	return false
}

func (m *Model) handleSpinnerTickMsg(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok {
		return nil
	}
	if !m.busy() {
		m.spinning = false
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(tick)
	return cmd
}

func (m *Model) handleFocusFirstMsg(msg tea.Msg) tea.Cmd {
	if handled, _ := m.panel.Update(msg); handled {
		return nil
	}
	m.drawer.Update(msg)
	return nil
}

func (m *Model) handleCartMsg(msg tea.Msg) tea.Cmd {
	_, cmd := m.drawer.Update(msg)
	return cmd
}

func (m *Model) handleVariantMsg(msg tea.Msg) tea.Cmd {
	_, cmd := m.panel.Update(msg)
	return cmd
}

func (m *Model) handleSearchMsg(msg tea.Msg) tea.Cmd {
	_, cmd := m.search.Update(msg)
	return cmd
}

// Drawer exposes the cart drawer.
func (m *Model) Drawer() *cart.Drawer { return m.drawer }

// Panel exposes the quick-add panel.
func (m *Model) Panel() *variant.Panel { return m.panel }

// Search exposes the search controller.
func (m *Model) Search() *search.Controller { return m.search }

// Focused returns the focused control id.
func (m *Model) Focused() string { return m.focus.Current() }

// Badge returns the header cart count.
func (m *Model) Badge() int { return m.badge.Count() }

// Location returns the page the screen currently shows.
func (m *Model) Location() string { return m.page.Location() }

// List exposes the page product list.
func (m *Model) List() *uistate.List { return m.list }

// ScrollLocked reports whether an overlay holds the page scroll lock.
func (m *Model) ScrollLocked() bool { return m.scroll.Locked() }
