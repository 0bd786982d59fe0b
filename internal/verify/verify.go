// Package verify decides whether a submitted query's result matches the
// result of a question's reference solution.
package verify

import (
	"fmt"

	"github.com/roach88/sqlquest/internal/resultset"
	"github.com/roach88/sqlquest/internal/scalar"
)

// Mode selects how rows are paired before they are compared.
type Mode string

const (
	// Positional pairs row i with row i. Row order matters.
	Positional Mode = "positional"
	// Unordered pairs rows as a multiset. Row order is ignored but
	// duplicate counts must agree.
	Unordered Mode = "unordered"
)

// ValidModes lists the accepted Mode values.
var ValidModes = []Mode{Positional, Unordered}

// ParseMode converts a flag or config value into a Mode.
// An empty string selects Positional.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", Positional:
		return Positional, nil
	case Unordered:
		return Unordered, nil
	default:
		return "", fmt.Errorf("invalid verify mode %q: must be one of %v", s, ValidModes)
	}
}

// Verify reports whether user matches reference under positional
// comparison: same row count and every positional row pair equal.
func Verify(user, reference resultset.QueryResult) bool {
	return Positional.Verify(user, reference)
}

// Verify applies the mode's comparison. It is a pure function of its inputs.
func (m Mode) Verify(user, reference resultset.QueryResult) bool {
	if len(user.Rows) != len(reference.Rows) {
		return false
	}
	if m == Unordered {
		return multisetEqual(user.Rows, reference.Rows)
	}
	for i := range user.Rows {
		if !RowsEqual(user.Rows[i], reference.Rows[i]) {
			return false
		}
	}
	return true
}

// RowsEqual reports whether two rows have the same column keys and loosely
// equal values at every key.
func RowsEqual(a, b resultset.Row) bool {
	if len(a) != len(b) {
		return false
	}
	for key, av := range a {
		bv, ok := b[key]
		if !ok || !scalar.Equal(av, bv) {
			return false
		}
	}
	return true
}

// multisetEqual pairs each row of a with a distinct, not yet used row of b.
// Pairing is first-fit; rows of equal length are assumed.
func multisetEqual(a, b []resultset.Row) bool {
	used := make([]bool, len(b))
	for _, row := range a {
		found := false
		for j, candidate := range b {
			if used[j] || !RowsEqual(row, candidate) {
				continue
			}
			used[j] = true
			found = true
			break
		}
		if !found {
			return false
		}
	}
	return true
}
