// Package table renders fixed-width text tables.
package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Column describes one table column. Width is the display width reserved
// for the column, separator spaces included. The last column is never padded.
type Column struct {
	Title string
	Width int
}

// Table writes rows under a header and a dashed rule.
type Table struct {
	Columns []Column
	// Styled renders the header in bold when the writer supports it.
	Styled bool
}

// New creates a table with the given columns.
func New(columns ...Column) *Table {
	return &Table{Columns: columns}
}

// Render writes the header, the rule, and every row to w.
// Rows shorter than the column list are padded with empty cells.
func (t *Table) Render(w io.Writer, rows [][]string) error {
	titles := make([]string, len(t.Columns))
	rule := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		titles[i] = c.Title
		rule[i] = strings.Repeat("-", runewidth.StringWidth(c.Title))
	}

	header := t.Line(titles)
	if t.Styled {
		style := lipgloss.NewRenderer(w).NewStyle().Bold(true)
		header = style.Render(header)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, t.Line(rule)); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, t.Line(row)); err != nil {
			return err
		}
	}
	return nil
}

// Line formats a single row. Cells that reach or overflow their column keep
// their full text followed by one space so neighbouring cells never touch.
func (t *Table) Line(cells []string) string {
	var b strings.Builder
	for i, c := range t.Columns {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i == len(t.Columns)-1 {
			b.WriteString(cell)
			break
		}
		if runewidth.StringWidth(cell) >= c.Width {
			b.WriteString(cell)
			b.WriteByte(' ')
			continue
		}
		b.WriteString(runewidth.FillRight(cell, c.Width))
	}
	return b.String()
}
