package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/sqlquest/internal/resultset"
)

const maxColumnWidth = 40

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	if noColor {
		styles.Selected = lipgloss.NewStyle()
		return styles
	}
	styles.Header = styles.Header.Foreground(lipgloss.Color("252")).Bold(true)
	styles.Selected = lipgloss.NewStyle()
	return styles
}

// newTable returns an unfocused, empty table.
func newTable(noColor bool) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{}),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(8),
	)
	t.SetStyles(tableStyles(noColor))
	return t
}

// setResult replaces a table's contents. Rows are cleared before the
// columns change so the table never renders rows against the wrong
// column count.
func setResult(t *table.Model, r resultset.QueryResult) {
	t.SetRows(nil)
	t.SetColumns(columnsFor(r))
	t.SetRows(rowsFor(r))
}

// columnsFor sizes each column to its widest cell, up to maxColumnWidth.
func columnsFor(r resultset.QueryResult) []table.Column {
	cells := r.Strings()
	cols := make([]table.Column, len(r.Columns))
	for i, name := range r.Columns {
		width := lipgloss.Width(name)
		for _, row := range cells {
			width = max(width, lipgloss.Width(row[i]))
		}
		cols[i] = table.Column{Title: name, Width: min(width, maxColumnWidth)}
	}
	return cols
}

func rowsFor(r resultset.QueryResult) []table.Row {
	cells := r.Strings()
	rows := make([]table.Row, len(cells))
	for i, c := range cells {
		rows[i] = table.Row(c)
	}
	return rows
}
