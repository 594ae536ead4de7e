package render

import (
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table is a titled, columnar view over string rows.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
	// SortIndex is the column rows are ordered by; negative keeps input order.
	SortIndex int
	Indent    int
}

// NewTable creates a table that keeps rows in insertion order.
func NewTable(title string, columns ...string) *Table {
	return &Table{
		Title:     title,
		Columns:   columns,
		SortIndex: -1,
	}
}

// AddRow appends a row. Short rows are padded, long rows truncated.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Empty reports whether there is nothing to render.
func (t *Table) Empty() bool {
	return t == nil || len(t.Columns) == 0 || len(t.Rows) == 0
}

// String renders the table. An empty table renders as "".
func (t *Table) String() string {
	if t.Empty() {
		return ""
	}

	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]string, len(t.Columns))
		for j := range row {
			if j < len(r) {
				row[j] = Escape(r[j])
			}
		}
		rows[i] = row
	}
	if t.SortIndex >= 0 && t.SortIndex < len(t.Columns) {
		k := t.SortIndex
		sort.SliceStable(rows, func(a, b int) bool { return rows[a][k] < rows[b][k] })
	}

	widths := make([]int, len(t.Columns))
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = Escape(c)
		widths[i] = runewidth.StringWidth(headers[i])
	}
	for _, r := range rows {
		for i, cell := range r {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	pad := strings.Repeat(" ", t.Indent)
	var sb strings.Builder

	if t.Title != "" {
		title := Escape(t.Title)
		sb.WriteString(pad + title + "\n")
		sb.WriteString(pad + strings.Repeat("=", runewidth.StringWidth(title)) + "\n\n")
	}

	rules := make([]string, len(t.Columns))
	for i, h := range headers {
		rules[i] = strings.Repeat("-", runewidth.StringWidth(h))
	}
	writeRow(&sb, pad, headers, widths)
	writeRow(&sb, pad, rules, widths)
	for _, r := range rows {
		writeRow(&sb, pad, r, widths)
	}
	return sb.String()
}

func writeRow(sb *strings.Builder, pad string, cells []string, widths []int) {
	sb.WriteString(pad)
	for i, cell := range cells {
		if i == len(cells)-1 {
			sb.WriteString(cell)
			break
		}
		sb.WriteString(runewidth.FillRight(cell, widths[i]))
		sb.WriteString("  ")
	}
	sb.WriteString("\n")
}
