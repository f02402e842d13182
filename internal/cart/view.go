package cart

import (
	"strconv"
	"strings"

	"github.com/atomicstack/storefront-tui/internal/format/table"
	"github.com/atomicstack/storefront-tui/internal/i18n"
	"github.com/atomicstack/storefront-tui/internal/money"
	"github.com/atomicstack/storefront-tui/internal/notice"
	"github.com/atomicstack/storefront-tui/internal/shop"
	"github.com/atomicstack/storefront-tui/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

var styles = theme.Default()

// View renders the drawer into a box of the given outer size. It returns an
// empty string while closed.
func (d *Drawer) View(width, height int) string {
	if !d.overlay.IsOpen() {
		return ""
	}
	if width < 24 {
		width = 24
	}
	inner := width - 4
	lines, focusLine := d.body(inner)
	if height > 2 {
		lines = window(lines, focusLine, height-2)
	}
	for i, line := range lines {
		lines[i] = theme.Clip(line, inner)
	}
	panel := lipgloss.NewStyle()
	if styles.Panel != nil {
		panel = *styles.Panel
	}
	return panel.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (d *Drawer) body(width int) ([]string, int) {
	var lines []string
	focusLine := 0
	mark := func(id string) {
		if d.deps.Focus.Is(id) {
			focusLine = len(lines)
		}
	}

	title := d.t(i18n.CartTitle)
	if d.loaded {
		title += " (" + strconv.Itoa(d.snap.TotalItems) + ")"
	}
	mark(closeID)
	lines = append(lines, table.Fill([][]string{{
		theme.Render(styles.PanelTitle, title),
		d.button(closeID, "×", true),
	}}, []table.Alignment{table.AlignLeft, table.AlignRight}, width)[0], "")

	switch {
	case !d.loaded && d.loadErr:
		lines = append(lines, theme.Render(styles.Error, d.t(i18n.LoadFailed)))
	case !d.loaded:
		lines = append(lines, theme.Render(styles.Loading, d.t(i18n.Loading)))
	case len(d.snap.Items) == 0:
		lines = append(lines, theme.Render(styles.Muted, d.t(i18n.CartEmpty)), "")
		mark(continueID)
		lines = append(lines, d.button(continueID, d.t(i18n.ContinueShopping), true))
	default:
		for _, item := range d.snap.Items {
			block := d.itemLines(item)
			if d.confirm == item.ID {
				focusLine = len(lines) + len(block) - 1
			}
			if id, _, ok := parseItemControl(d.deps.Focus.Current()); ok && id == item.ID {
				focusLine = len(lines) + 2
			}
			lines = append(lines, block...)
			lines = append(lines, "")
		}
		lines = append(lines, d.summaryLines(width)...)
		lines = append(lines, "")
		mark(checkoutID)
		mark(continueID)
		lines = append(lines, d.button(checkoutID, d.t(i18n.Checkout), true)+" "+d.button(continueID, d.t(i18n.ContinueShopping), true))
	}

	if text, kind := d.notice.Current(); text != "" {
		lines = append(lines, "", renderNotice(kind, text))
	}
	return lines, focusLine
}

func (d *Drawer) itemLines(item shop.CartItem) []string {
	name := theme.Render(styles.Item, item.ProductName)
	if item.Subtitle != "" {
		name += " " + theme.Render(styles.Muted, item.Subtitle)
	}
	detail := theme.Render(styles.Price, money.Format(item.UnitPrice.Float(), d.deps.Currency))
	if v := item.Variant(); v != "" {
		detail = theme.Render(styles.Muted, v) + " · " + detail
	}
	pending := d.Pending(item.ID)
	stepper := d.button(itemControl(item.ID, "dec"), "-", !pending) +
		" " + strconv.Itoa(item.Quantity) + " " +
		d.button(itemControl(item.ID, "inc"), "+", !pending) +
		"  " + d.button(itemControl(item.ID, "remove"), "✕", !pending)
	out := []string{name, detail, stepper}
	if d.confirm == item.ID {
		out = append(out,
			theme.Render(styles.Warning, d.t(i18n.RemoveConfirm)),
			d.button(confirmYes, d.t(i18n.Yes), true)+" "+d.button(confirmNo, d.t(i18n.No), true),
		)
	}
	return out
}

func (d *Drawer) summaryLines(width int) []string {
	sum := SummaryFor(d.snap)
	shipping := theme.Render(styles.Free, d.t(i18n.Free))
	if !sum.Free {
		shipping = money.Format(sum.Fee, d.deps.Currency)
	}
	rows := [][]string{
		{d.t(i18n.Subtotal), money.Format(sum.Subtotal, d.deps.Currency)},
		{d.t(i18n.Shipping), shipping},
	}
	out := table.Fill(rows, []table.Alignment{table.AlignLeft, table.AlignRight}, width)
	if sum.ShowNotice {
		out = append(out, theme.Render(styles.Info, d.t(i18n.RemainingForFree, money.Format(sum.Remaining, d.deps.Currency))))
	}
	return out
}

func (d *Drawer) button(id, label string, enabled bool) string {
	text := "[" + label + "]"
	switch {
	case !enabled:
		return theme.Render(styles.ButtonDisabled, text)
	case d.deps.Focus.Is(id):
		return theme.Render(styles.ButtonFocused, text)
	default:
		return theme.Render(styles.Button, text)
	}
}

func renderNotice(kind notice.Kind, text string) string {
	switch kind {
	case notice.Error:
		return theme.Render(styles.Error, text)
	case notice.Warning:
		return theme.Render(styles.Warning, text)
	case notice.Success:
		return theme.Render(styles.Success, text)
	}
	return theme.Render(styles.Info, text)
}

// window keeps at most height lines with focus visible.
func window(lines []string, focus, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := 0
	if focus >= height {
		start = focus - height + 1
	}
	if start+height > len(lines) {
		start = len(lines) - height
	}
	return append([]string(nil), lines[start:start+height]...)
}
