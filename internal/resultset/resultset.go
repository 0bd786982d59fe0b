// Package resultset holds the tabular shape of an executed query.
package resultset

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/sqlquest/internal/scalar"
)

// Row maps a column name to its cell value.
// When a query names the same column twice, the later value wins.
type Row map[string]scalar.Value

// QueryResult is an ordered sequence of rows produced by one statement.
//
// Columns keeps the engine's column order for display. A QueryResult with
// no columns means the statement produced no result set at all (for example
// an INSERT), which is different from a SELECT that matched zero rows.
type QueryResult struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// HasResultSet reports whether the statement produced a result set.
func (r QueryResult) HasResultSet() bool {
	return len(r.Columns) > 0
}

// Len returns the number of rows.
func (r QueryResult) Len() int {
	return len(r.Rows)
}

// Zip builds a QueryResult by pairing each column name with the value at the
// same position in every row.
func Zip(columns []string, values [][]scalar.Value) (QueryResult, error) {
	result := QueryResult{
		Columns: append([]string(nil), columns...),
		Rows:    make([]Row, 0, len(values)),
	}
	for i, vals := range values {
		if len(vals) != len(columns) {
			return QueryResult{}, fmt.Errorf("row %d has %d values for %d columns", i, len(vals), len(columns))
		}
		row := make(Row, len(columns))
		for j, col := range columns {
			row[col] = vals[j]
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}

// Cells returns the row's values in column order, for display.
func (r QueryResult) Cells(i int) []scalar.Value {
	row := r.Rows[i]
	cells := make([]scalar.Value, len(r.Columns))
	for j, col := range r.Columns {
		v, ok := row[col]
		if !ok {
			v = scalar.Null{}
		}
		cells[j] = v
	}
	return cells
}

// Strings renders every row as display strings in column order.
func (r QueryResult) Strings() [][]string {
	out := make([][]string, len(r.Rows))
	for i := range r.Rows {
		cells := r.Cells(i)
		line := make([]string, len(cells))
		for j, c := range cells {
			line[j] = c.String()
		}
		out[i] = line
	}
	return out
}

// Native returns the rows as positional native values, for JSON output and
// golden snapshots.
func (r QueryResult) Native() [][]any {
	out := make([][]any, len(r.Rows))
	for i := range r.Rows {
		cells := r.Cells(i)
		line := make([]any, len(cells))
		for j, c := range cells {
			line[j] = scalar.Native(c)
		}
		out[i] = line
	}
	return out
}

// MarshalJSON encodes the result as {"columns": [...], "rows": [[...], ...]}
// so that column order survives encoding.
func (r QueryResult) MarshalJSON() ([]byte, error) {
	columns := r.Columns
	if columns == nil {
		columns = []string{}
	}
	return json.Marshal(struct {
		Columns []string `json:"columns"`
		Rows    [][]any  `json:"rows"`
	}{columns, r.Native()})
}

// Empty returns a result that has no result set.
func Empty() QueryResult {
	return QueryResult{Rows: []Row{}}
}
