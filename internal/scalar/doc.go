// Package scalar provides the tagged value type carried by query result cells.
//
// Every cell returned by the engine is one of Null, Text, Integer or Real.
// The package owns the single equality rule used when two result sets are
// compared, so no comparison anywhere else relies on implicit coercion.
//
// Equality rules:
//   - Null equals only Null
//   - Integer and Real compare numerically
//   - Text compares byte-for-byte with Text (case-sensitive, no trimming)
//   - Text compares with Integer or Real only when the text is a plain
//     decimal numeral, in which case both sides compare numerically
package scalar
