package variant

import (
	"strconv"
	"strings"

	"github.com/atomicstack/storefront-tui/internal/i18n"
	"github.com/atomicstack/storefront-tui/internal/money"
	"github.com/atomicstack/storefront-tui/internal/notice"
	"github.com/atomicstack/storefront-tui/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

var styles = theme.Default()

// View renders the panel into a box of the given outer width. It returns an
// empty string while closed.
func (p *Panel) View(width int) string {
	if !p.overlay.IsOpen() {
		return ""
	}
	if width < 24 {
		width = 24
	}
	inner := width - 4
	lines := p.body()
	for i, line := range lines {
		lines[i] = theme.Clip(line, inner)
	}
	panel := lipgloss.NewStyle()
	if styles.Panel != nil {
		panel = *styles.Panel
	}
	return panel.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (p *Panel) body() []string {
	s := p.selector
	lines := []string{p.button(closeID, "×", false, true)}
	switch {
	case s.State() == Loading && p.loadErr:
		lines = append(lines, theme.Render(styles.Error, p.t(i18n.GenericError)))
		return p.withNotice(lines)
	case s.State() == Loading:
		return append(lines, theme.Render(styles.Loading, p.t(i18n.Loading)))
	}

	product := s.Catalog().Product
	lines = append(lines, theme.Render(styles.PanelTitle, product.Name))
	if product.Subtitle != "" {
		lines = append(lines, theme.Render(styles.Muted, product.Subtitle))
	}
	lines = append(lines, theme.Render(styles.Price, money.Format(s.DisplayPrice(), p.deps.Currency)), "")

	if fabrics := s.Fabrics(); len(fabrics) > 0 {
		row := make([]string, 0, len(fabrics))
		for _, f := range fabrics {
			row = append(row, p.button(fabricControl(f.ID), f.Name, f.ID == s.FabricID(), true))
		}
		lines = append(lines, strings.Join(row, " "))
	}
	if s.ShowSizes() {
		if msg := s.SizeMessage(); msg != "" {
			lines = append(lines, theme.Render(styles.Muted, p.deps.Printer.Text(msg)))
		} else {
			row := make([]string, 0, len(s.Sizes()))
			for _, size := range s.Sizes() {
				row = append(row, p.button(sizeControl(size.ID), size.Display(), size.ID == s.VariantID(), true))
			}
			lines = append(lines, strings.Join(row, " "))
		}
	}

	lines = append(lines, "",
		p.t(i18n.Quantity)+" "+
			p.button(qtyDecID, "-", false, true)+" "+
			strconv.Itoa(s.Quantity())+" "+
			p.button(qtyIncID, "+", false, true),
		"",
	)
	label := p.deps.Printer.Text(s.AddLabel())
	if p.submitting {
		label = p.t(i18n.Adding)
	}
	lines = append(lines, p.button(addID, label, false, s.CanAdd() && !p.submitting))
	return p.withNotice(lines)
}

func (p *Panel) withNotice(lines []string) []string {
	text, kind := p.notice.Current()
	if text == "" {
		return lines
	}
	style := styles.Info
	switch kind {
	case notice.Error:
		style = styles.Error
	case notice.Warning:
		style = styles.Warning
	}
	return append(lines, "", theme.Render(style, text))
}

func (p *Panel) button(id, label string, selected, enabled bool) string {
	text := "[" + label + "]"
	if selected {
		text = "[• " + label + "]"
	}
	switch {
	case !enabled:
		return theme.Render(styles.ButtonDisabled, text)
	case p.deps.Focus.Is(id):
		return theme.Render(styles.ButtonFocused, text)
	case selected:
		return theme.Render(styles.SelectedItem, text)
	default:
		return theme.Render(styles.Button, text)
	}
}
