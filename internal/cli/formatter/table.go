package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// Table is an aligned plain-text table. Widths are measured on visible
// characters so styled cells line up.
type Table struct {
	Headers []string
	// Right marks columns whose cells are right-aligned, typically money.
	Right map[int]bool
}

// NewTable returns a table with the given headers, all left-aligned.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers, Right: map[int]bool{}}
}

// AlignRight right-aligns the given column indexes.
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		t.Right[c] = true
	}
	return t
}

// Render draws the header, a separator line and rows.
func (t *Table) Render(rows [][]string) string {
	cols := len(t.Headers)
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	styled := make([]string, cols)
	for i, h := range t.Headers {
		styled[i] = StyleHeader.Render(h)
	}
	t.writeRow(&b, styled, widths)

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		t.writeRow(&b, row, widths)
	}
	return b.String()
}

func (t *Table) writeRow(b *strings.Builder, row []string, widths []int) {
	cols := len(widths)
	for i := 0; i < cols; i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		pad := widths[i] - lipgloss.Width(cell)
		if pad < 0 {
			pad = 0
		}
		if t.Right[i] {
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(cell)
		} else {
			b.WriteString(cell)
			if i < cols-1 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
}

// RenderTable renders a left-aligned table.
func RenderTable(headers []string, rows [][]string) string {
	return NewTable(headers...).Render(rows)
}
