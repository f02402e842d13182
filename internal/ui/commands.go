package ui

import (
	"context"

	"github.com/atomicstack/storefront-tui/internal/i18n"
	"github.com/atomicstack/storefront-tui/internal/logging"
	"github.com/atomicstack/storefront-tui/internal/logging/events"
	"github.com/atomicstack/storefront-tui/internal/notice"
	"github.com/atomicstack/storefront-tui/internal/route"
	"github.com/atomicstack/storefront-tui/internal/shop"
	"github.com/atomicstack/storefront-tui/internal/ui/command"
	"github.com/atomicstack/storefront-tui/internal/variant"
	tea "github.com/charmbracelet/bubbletea"
)

// pageLoadedMsg carries the results of a full search page.
type pageLoadedMsg struct {
	seq     int
	query   string
	results []shop.SearchResult
	err     error
}

// badgeLoadedMsg carries a one-off cart count fetch.
type badgeLoadedMsg struct {
	count int
	err   error
}

func (m *Model) loadBadgeCmd() tea.Cmd {
	if m.backend == nil {
		return nil
	}
	backend := m.backend
	return m.bus.Execute(command.Request{
		Label: "badge.load",
		Run: func(ctx context.Context) tea.Msg {
			snap, err := backend.CartData(ctx)
			return badgeLoadedMsg{count: snap.TotalItems, err: err}
		},
	})
}

func (m *Model) handleBadgeLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(badgeLoadedMsg)
	if !ok {
		return nil
	}
	if loaded.err != nil {
		logging.Errorf("badge", loaded.err)
		return nil
	}
	m.badge.SetCount(loaded.count)
	events.App.Badge(loaded.count)
	return nil
}

// handleAddedMsg reacts to a successful quick add: the badge takes the
// server count and the cart opens when the panel asked for it.
func (m *Model) handleAddedMsg(msg tea.Msg) tea.Cmd {
	added, ok := msg.(variant.AddedMsg)
	if !ok {
		return nil
	}
	if added.HasCount {
		m.badge.SetCount(added.CartCount)
		events.App.Badge(added.CartCount)
	}
	if !added.OpenCart {
		return nil
	}
	return m.drawer.Open()
}

func (m *Model) handleRouteMsg(msg tea.Msg) tea.Cmd {
	nav, ok := msg.(route.Msg)
	if !ok {
		return nil
	}
	m.page.SetLocation(nav.Href)
	if q, ok := route.Query(nav.Href); ok {
		return m.loadPage(q)
	}
	m.info.Set(notice.Info, m.printer.T(i18n.Navigated, nav.Href))
	return nil
}

// loadPage runs a full search and fills the page list with its results.
func (m *Model) loadPage(query string) tea.Cmd {
	m.pageSeq++
	seq := m.pageSeq
	m.pageLoading = true
	m.focusControl(PageListID)
	backend := m.backend
	return m.bus.Execute(command.Request{
		Label: "page.search",
		Run: func(ctx context.Context) tea.Msg {
			results, err := backend.Search(ctx, query)
			return pageLoadedMsg{seq: seq, query: query, results: results, err: err}
		},
	})
}

func (m *Model) handlePageLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(pageLoadedMsg)
	if !ok {
		return nil
	}
	if loaded.seq != m.pageSeq {
		return nil
	}
	m.pageLoading = false
	if loaded.err != nil {
		logging.Errorf("page", loaded.err)
		m.page.SetErr(loaded.err)
		m.info.Set(notice.Error, m.printer.T(i18n.GenericError))
		return nil
	}
	m.page.SetProducts(loaded.query, loaded.results)
	m.list.UpdateItems(loaded.results)
	m.syncViewport()
	return nil
}
