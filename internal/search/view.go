package search

import (
	"regexp"
	"strings"

	"github.com/atomicstack/storefront-tui/internal/format/table"
	"github.com/atomicstack/storefront-tui/internal/i18n"
	"github.com/atomicstack/storefront-tui/internal/money"
	"github.com/atomicstack/storefront-tui/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

var styles = theme.Default()

// Highlight wraps every case-insensitive occurrence of query in text with
// mark. The query is matched literally.
func Highlight(text, query string, mark func(string) string) string {
	q := strings.TrimSpace(query)
	if q == "" || mark == nil {
		return text
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(q))
	if err != nil {
		return text
	}
	return re.ReplaceAllStringFunc(text, mark)
}

func emphasize(s string) string {
	return theme.Render(styles.Highlight, s)
}

// InputView renders the search line.
func (c *Controller) InputView(width int) string {
	if width > 4 {
		c.input.Width = width - 4
	}
	return c.input.View()
}

// DropdownView renders the open dropdown, or "" when hidden.
func (c *Controller) DropdownView(width int) string {
	if !c.dropdown.IsOpen() {
		return ""
	}
	if width < 20 {
		width = 20
	}
	inner := width - 4
	t := c.deps.Printer.T
	var lines []string
	if len(c.results) == 0 {
		lines = append(lines,
			theme.Render(styles.Muted, t(i18n.NoResults, c.query)),
			theme.Render(styles.Link, t(i18n.SearchSite)),
		)
	} else {
		end := c.offset + c.visible
		if end > len(c.results) {
			end = len(c.results)
		}
		rows := make([][]string, 0, end-c.offset)
		for i := c.offset; i < end; i++ {
			r := c.results[i]
			label := Highlight(r.Name, c.query, emphasize)
			if r.Subtitle != "" {
				label += " " + theme.Render(styles.Muted, Highlight(r.Subtitle, c.query, emphasize))
			}
			marker := theme.Render(styles.ItemIndicator, "  ")
			if i == c.cursor {
				marker = theme.Render(styles.SelectedItemIndicator, "▌ ")
			}
			rows = append(rows, []string{marker + label, theme.Render(styles.Price, money.Format(r.Price.Float(), c.deps.Currency))})
		}
		lines = append(lines, table.Fill(rows, []table.Alignment{table.AlignLeft, table.AlignRight}, inner)...)
		lines = append(lines, theme.Render(styles.Link, t(i18n.SeeAll, c.query)))
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
