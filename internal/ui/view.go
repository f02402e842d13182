package ui

import (
	"strings"

	"github.com/atomicstack/storefront-tui/internal/cart"
	"github.com/atomicstack/storefront-tui/internal/format/table"
	"github.com/atomicstack/storefront-tui/internal/i18n"
	"github.com/atomicstack/storefront-tui/internal/money"
	"github.com/atomicstack/storefront-tui/internal/notice"
	"github.com/atomicstack/storefront-tui/internal/overlay"
	"github.com/atomicstack/storefront-tui/internal/search"
	"github.com/atomicstack/storefront-tui/internal/theme"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	overlayMaxWidth = 48
	headerRows      = 2 // header + search line
	searchMaxWidth  = 60
)

type styledLine struct {
	text  string
	style *lipgloss.Style
	raw   bool // text already carries ANSI styling
}

// layout records where interactive regions were drawn in the last frame.
type layout struct {
	trigger  overlay.Rect
	input    overlay.Rect
	dropdown overlay.Rect
	listTop  int
}

func (m *Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m *Model) overlayWidth() int {
	w, _ := m.size()
	if w < overlayMaxWidth+20 {
		return w
	}
	return overlayMaxWidth
}

func (m *Model) bottomRows() int {
	rows := 1
	if m.showFooter {
		rows++
	}
	return rows
}

func (m *Model) bodyHeight() int {
	_, h := m.size()
	body := h - headerRows - m.bottomRows()
	if body < 1 {
		body = 1
	}
	return body
}

func (m *Model) maxVisibleItems() int {
	n := m.bodyHeight() - 1 // page title
	if n < 1 {
		n = 1
	}
	return n
}

// View implements tea.Model.
func (m *Model) View() string {
	width, _ := m.size()
	lines := []styledLine{
		{text: m.headerLine(width), raw: true},
		{text: m.searchLine(width), raw: true},
	}
	body := m.bodyLines(width)
	for _, line := range body {
		lines = append(lines, styledLine{text: line, raw: true})
	}
	lines = append(lines, m.statusLine())
	if m.showFooter {
		lines = append(lines, styledLine{text: m.footerText(), style: styles.Footer})
	}
	lines = applyWidth(lines, width)
	return renderLines(lines)
}

func (m *Model) headerLine(width int) string {
	title := theme.Render(styles.Header, m.printer.T(i18n.StoreTitle))
	if loc := m.page.Location(); loc != "" {
		title += theme.Render(styles.Muted, " · "+loc)
	}
	if m.busy() {
		title += " " + m.spinner.View()
	}
	label := "[" + m.printer.T(i18n.CartCount, m.badge.Count()) + "]"
	if m.drawer.Overlay().Expanded() {
		label = "[" + m.printer.T(i18n.CartCount, m.badge.Count()) + " ▾]"
	}
	trigger := theme.Render(styles.Badge, label)
	if m.focus.Is(cart.TriggerID) {
		trigger = theme.Render(styles.ButtonFocused, label)
	}
	tw := lipgloss.Width(trigger)
	m.layout.trigger = overlay.Rect{X: width - tw, Y: 0, W: tw, H: 1}
	return table.Fill([][]string{{title, trigger}}, []table.Alignment{table.AlignLeft, table.AlignRight}, width)[0]
}

func (m *Model) searchLine(width int) string {
	w := width
	if w > searchMaxWidth {
		w = searchMaxWidth
	}
	m.layout.input = overlay.Rect{X: 0, Y: 1, W: w, H: 1}
	return m.search.InputView(w)
}

// bodyLines renders the page with the dropdown and any open panel drawn
// over it, and records the overlay bounds for outside-click dismissal.
func (m *Model) bodyLines(width int) []string {
	height := m.bodyHeight()
	pageWidth := width
	var side string
	switch {
	case m.panel.IsOpen():
		side = m.panel.View(m.overlayWidth())
	case m.drawer.IsOpen():
		side = m.drawer.View(m.overlayWidth(), height)
	}
	if side != "" {
		pageWidth = width - lipgloss.Width(side)
	}

	page := m.pageLines(pageWidth, height)
	if drop := m.search.DropdownView(m.layout.input.W); drop != "" {
		dropLines := strings.Split(drop, "\n")
		for i, line := range dropLines {
			if i < len(page) {
				page[i] = line
			}
		}
		m.layout.dropdown = overlay.Rect{X: 0, Y: headerRows, W: lipgloss.Width(drop), H: len(dropLines)}
		m.search.Dropdown().SetBounds(m.layout.input, m.layout.dropdown)
	}
	if side == "" {
		return page
	}

	rect := overlay.Rect{X: pageWidth, Y: headerRows, W: lipgloss.Width(side), H: lipgloss.Height(side)}
	if m.panel.IsOpen() {
		m.panel.Overlay().SetBounds(rect)
	} else {
		m.drawer.Overlay().SetBounds(rect)
	}
	for i, line := range page {
		page[i] = theme.Clip(line, pageWidth)
	}
	left := lipgloss.NewStyle().Width(max(pageWidth, 0)).Render(strings.Join(page, "\n"))
	joined := lipgloss.JoinHorizontal(lipgloss.Top, left, side)
	out := strings.Split(joined, "\n")
	if len(out) > height {
		out = out[:height]
	}
	return out
}

func (m *Model) pageLines(width, height int) []string {
	lines := make([]string, 0, height)
	query := m.page.Query()
	m.layout.listTop = headerRows + 1
	switch {
	case m.pageLoading:
		lines = append(lines, theme.Render(styles.Loading, m.spinner.View()+" "+m.printer.T(i18n.Loading)))
	case len(m.list.Items) == 0 && query != "":
		lines = append(lines, theme.Render(styles.Info, m.printer.T(i18n.NoResults, query)))
	case len(m.list.Items) == 0:
		lines = append(lines, theme.Render(styles.Muted, m.printer.T(i18n.PageEmpty)))
	default:
		lines = append(lines, theme.Render(styles.PanelTitle, m.printer.T(i18n.SearchResultsFor, query)))
		m.syncViewport()
		start := m.list.ViewportOffset
		end := start + m.maxVisibleItems()
		if end > len(m.list.Items) {
			end = len(m.list.Items)
		}
		rows := make([][]string, 0, end-start)
		for i := start; i < end; i++ {
			rows = append(rows, m.productRow(i))
		}
		lines = append(lines, table.Fill(rows, []table.Alignment{table.AlignLeft, table.AlignRight}, width)...)
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines[:height]
}

func (m *Model) productRow(idx int) []string {
	item := m.list.Items[idx]
	selected := idx == m.list.Cursor
	listFocused := m.focus.Is(PageListID)
	label := item.Name
	if item.Subtitle != "" {
		label += " · " + item.Subtitle
	}
	marker := theme.Render(styles.ItemIndicator, "  ")
	text := theme.Render(styles.Item, label)
	if selected {
		marker = theme.Render(styles.SelectedItemIndicator, "▌ ")
		if listFocused {
			text = theme.Render(styles.SelectedItem, label)
		}
	}
	return []string{marker + text, theme.Render(styles.Price, money.Format(item.Price.Float(), m.currency))}
}

func (m *Model) statusLine() styledLine {
	if text, kind := m.info.Current(); text != "" {
		return styledLine{text: text, style: noticeStyle(kind)}
	}
	if m.errMsg != "" {
		return styledLine{text: m.errMsg, style: styles.Error}
	}
	if warn, msg := m.hasBackendIssue(); warn && m.verbose {
		return styledLine{text: msg, style: styles.Warning}
	}
	return styledLine{}
}

func noticeStyle(kind notice.Kind) *lipgloss.Style {
	switch kind {
	case notice.Success:
		return styles.Success
	case notice.Warning:
		return styles.Warning
	case notice.Error:
		return styles.Error
	default:
		return styles.Info
	}
}

func (m *Model) footerText() string {
	var bindings []key.Binding
	switch {
	case m.panel.IsOpen() || m.drawer.IsOpen():
		keys := overlay.DefaultKeyMap
		bindings = []key.Binding{keys.Close, keys.Next, m.keys.Open}
	case m.search.Focused():
		keys := search.DefaultKeyMap
		bindings = []key.Binding{keys.Down, keys.Activate, keys.Dismiss}
	default:
		bindings = []key.Binding{m.keys.Search, m.keys.Cart, m.keys.QuickAdd, m.keys.Open, m.keys.Up, m.keys.Next, m.keys.Quit}
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		help := b.Help()
		if help.Key == "" {
			continue
		}
		parts = append(parts, help.Key+" "+m.printer.Text(help.Desc))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.syncViewport()
	return nil
}

// handleMouseMsg routes clicks to the topmost surface. A click outside an
// open panel or drawer only dismisses it.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	switch ev.Button {
	case tea.MouseButtonWheelUp:
		if !m.scroll.Locked() {
			m.moveCursor(-1)
		}
		return nil
	case tea.MouseButtonWheelDown:
		if !m.scroll.Locked() {
			m.moveCursor(1)
		}
		return nil
	}
	if ev.Action != tea.MouseActionPress || ev.Button != tea.MouseButtonLeft {
		return nil
	}
	switch {
	case m.panel.IsOpen():
		m.panel.HandleMouse(ev)
		return nil
	case m.drawer.IsOpen():
		m.drawer.HandleMouse(ev)
		return nil
	}
	if m.search.Dropdown().IsOpen() && m.layout.dropdown.Contains(ev.X, ev.Y) {
		// first row inside the top border
		return m.search.ClickRow(ev.Y - m.layout.dropdown.Y - 1)
	}
	if m.search.Dropdown().IsOpen() && m.search.Dropdown().Inside(ev.X, ev.Y) {
		return nil
	}
	m.search.HandleMouse(ev)
	switch {
	case m.layout.trigger.Contains(ev.X, ev.Y):
		m.focusControl(cart.TriggerID)
		return m.drawer.Open()
	case m.layout.input.Contains(ev.X, ev.Y):
		return m.focusControl(search.InputID)
	}
	row := ev.Y - m.layout.listTop
	if row >= 0 && row < m.maxVisibleItems() {
		idx := m.list.ViewportOffset + row
		if idx < len(m.list.Items) {
			m.focusControl(PageListID)
			m.list.Cursor = idx
		}
	}
	return nil
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			text = theme.Clip(text, width)
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{text: text, style: line.style, raw: line.raw}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if !line.raw && line.style != nil && text != "" {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
