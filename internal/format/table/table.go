// Package table lays out label/value rows for the overlay views.
package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

const gap = "  "

// Format returns the rows padded according to the widest entry in each column.
// Widths are measured in terminal cells so styled and wide text lines up.
func Format(rows [][]string, alignments []Alignment) []string {
	return Fill(rows, alignments, 0)
}

// Fill is Format with the first column widened so every line spans width
// cells. A width narrower than the natural layout is ignored.
func Fill(rows [][]string, alignments []Alignment, width int) []string {
	if len(rows) == 0 {
		return nil
	}
	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	widths := make([]int, colCount)
	for _, row := range rows {
		for c, cell := range row {
			if w := lipgloss.Width(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}
	natural := (colCount - 1) * len(gap)
	for _, w := range widths {
		natural += w
	}
	if width > natural {
		widths[0] += width - natural
	}
	out := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		for c := 0; c < colCount; c++ {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			if c > 0 {
				b.WriteString(gap)
			}
			pad := widths[c] - lipgloss.Width(cell)
			if c < len(alignments) && alignments[c] == AlignRight {
				writeSpaces(&b, pad)
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				if c < colCount-1 {
					writeSpaces(&b, pad)
				}
			}
		}
		out[i] = b.String()
	}
	return out
}

func writeSpaces(b *strings.Builder, count int) {
	if count <= 0 {
		return
	}
	b.WriteString(strings.Repeat(" ", count))
}
