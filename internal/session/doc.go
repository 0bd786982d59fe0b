// Package session holds the state of one practice session: the selected
// tier and question, the editor text, the last result or error, the
// feedback verdict, and hint and answer visibility.
//
// A Session owns (or borrows) a relational engine loaded with the fixture
// dataset. Run executes the editor text, executes the question's reference
// solution, and compares the two results. Runs never overlap: the session
// serializes every operation behind one mutex.
//
// Every Run is recorded as an Attempt in an in-memory history. Nothing is
// persisted; closing the session discards it.
package session
