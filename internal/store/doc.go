// Package store is the boundary to the embedded relational engine.
//
// A Store owns one in-memory SQLite database that holds the fixture dataset.
// Its lifecycle is explicit:
//
//	construct engine -> load fixtures -> ready -> Close
//
// Open performs the first two steps and only returns a ready Store; a
// failure at either step is returned to the caller and leaves nothing open.
//
// # Query execution
//
// Query runs arbitrary SQL text inside a transaction that is always rolled
// back. Statements that modify data or schema therefore execute normally
// but never change the fixture dataset, and every query observes the same
// pristine data.
//
// While user text runs, an authorizer denies transaction control
// (BEGIN, COMMIT, ROLLBACK, SAVEPOINT, RELEASE) and ATTACH/DETACH, so the
// text cannot end the enclosing transaction or reach another database.
//
// Engine failures (syntax errors, unknown tables or columns, constraint
// violations) are reported as *QueryError carrying the engine's message
// verbatim. Any other error, such as context cancellation, is returned
// as-is.
//
// # Database Configuration
//
//   - Single connection: every connection to ":memory:" is a distinct
//     database, so the pool is pinned to one connection that never expires
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
