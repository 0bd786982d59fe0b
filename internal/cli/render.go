package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/roach88/sqlquest/internal/resultset"
)

// renderResult draws a result as a bordered table followed by a row count.
// A result without a result set renders as "(no result set)".
func renderResult(w io.Writer, r resultset.QueryResult, noColor bool) {
	if !r.HasResultSet() {
		fmt.Fprintln(w, "(no result set)")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(r.Columns...).
		Rows(r.Strings()...)
	if !noColor {
		header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		cell := lipgloss.NewStyle().Padding(0, 1)
		t = t.BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return header
				}
				return cell
			})
	} else {
		cell := lipgloss.NewStyle().Padding(0, 1)
		t = t.StyleFunc(func(row, col int) lipgloss.Style { return cell })
	}

	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%d %s\n", r.Len(), plural(r.Len(), "row", "rows"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
