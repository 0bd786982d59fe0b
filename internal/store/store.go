package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/roach88/sqlquest/internal/fixture"
	"github.com/roach88/sqlquest/internal/resultset"
	"github.com/roach88/sqlquest/internal/scalar"
)

// memoryDSN is a private in-memory database. The store never touches disk.
const memoryDSN = ":memory:"

// Store provides query execution against the fixture dataset.
// It is not safe for concurrent use; callers run one query at a time.
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger

	// guard is set while user text is being prepared and executed.
	guard *atomic.Bool
}

// Options configures Open.
type Options struct {
	// Logger receives load and rollback diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// QueryError is an engine-reported failure of a submitted query.
type QueryError struct {
	Query string
	Err   error
}

// Error returns the engine's message verbatim.
func (e *QueryError) Error() string {
	return e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Code returns the description of the SQLite result code when the driver
// reported one, for example "SQL logic error".
func (e *QueryError) Code() string {
	var sqliteErr sqlite3.Error
	if errors.As(e.Err, &sqliteErr) {
		return sqliteErr.Code.Error()
	}
	return ""
}

// Open constructs the engine, loads the fixture dataset and returns a ready
// Store. The context bounds fixture loading only.
func Open(ctx context.Context, opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	guard := new(atomic.Bool)
	db := sqlx.NewDb(sql.OpenDB(connector{
		driver: &sqlite3.SQLiteDriver{ConnectHook: func(c *sqlite3.SQLiteConn) error {
			c.RegisterAuthorizer(authorizer(guard))
			return nil
		}},
		dsn: memoryDSN,
	}), "sqlite3")

	// One connection for the lifetime of the store: a second connection
	// would see a different, empty in-memory database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := loadFixtures(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}

	logger.Debug("engine ready",
		"stations", len(fixture.Stations()),
		"transactions", len(fixture.Transactions()),
	)

	return &Store{db: db, logger: logger, guard: guard}, nil
}

// Close releases the engine. Safe to call more than once.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Query executes query text and returns the first result set it
// produces. The text may hold several statements; all of them run, in
// order, inside one transaction that is always rolled back. A failure in
// any statement fails the whole query.
//
// Text without a statement that yields a result set returns a
// QueryResult with no columns.
func (s *Store) Query(ctx context.Context, query string) (resultset.QueryResult, error) {
	if s.db == nil {
		return resultset.QueryResult{}, errors.New("store is closed")
	}
	stmts := splitStatements(query)
	if len(stmts) == 0 {
		return resultset.Empty(), nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return resultset.QueryResult{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Warn("rollback failed", "error", rbErr)
		}
	}()

	s.guard.Store(true)
	defer s.guard.Store(false)

	result := resultset.Empty()
	found := false
	for _, stmt := range stmts {
		r, err := capture(ctx, tx, stmt)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return resultset.QueryResult{}, ctxErr
			}
			return resultset.QueryResult{}, &QueryError{Query: query, Err: err}
		}
		if !found && r.HasResultSet() {
			result, found = r, true
		}
	}
	return result, nil
}

// Table returns the contents of a fixture table in load order.
func (s *Store) Table(ctx context.Context, name string) (resultset.QueryResult, error) {
	query, err := fixture.SelectAll(name)
	if err != nil {
		return resultset.QueryResult{}, err
	}
	return s.Query(ctx, query)
}

// connector opens go-sqlite3 connections with a per-store connect hook.
type connector struct {
	driver *sqlite3.SQLiteDriver
	dsn    string
}

func (c connector) Connect(context.Context) (driver.Conn, error) {
	return c.driver.Open(c.dsn)
}

func (c connector) Driver() driver.Driver {
	return c.driver
}

// authorizer denies statements that would escape the rolled-back
// transaction (COMMIT, SAVEPOINT/RELEASE) or reach outside the in-memory
// database (ATTACH, DETACH) while guard is set. SQLite then fails the
// statement with "not authorized".
func authorizer(guard *atomic.Bool) func(int, string, string, string) int {
	return func(action int, _, _, _ string) int {
		if !guard.Load() {
			return sqlite3.SQLITE_OK
		}
		switch action {
		case sqlite3.SQLITE_TRANSACTION, sqlite3.SQLITE_SAVEPOINT,
			sqlite3.SQLITE_ATTACH, sqlite3.SQLITE_DETACH:
			return sqlite3.SQLITE_DENY
		}
		return sqlite3.SQLITE_OK
	}
}

// capture runs query on tx and converts every row.
func capture(ctx context.Context, tx *sqlx.Tx, query string) (resultset.QueryResult, error) {
	rows, err := tx.QueryxContext(ctx, query)
	if err != nil {
		return resultset.QueryResult{}, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return resultset.QueryResult{}, err
	}

	var values [][]scalar.Value
	for rows.Next() {
		raw, err := rows.SliceScan()
		if err != nil {
			return resultset.QueryResult{}, err
		}
		vals := make([]scalar.Value, len(raw))
		for i, r := range raw {
			v, err := scalar.FromDriver(r)
			if err != nil {
				return resultset.QueryResult{}, fmt.Errorf("column %q: %w", columns[i], err)
			}
			vals[i] = v
		}
		values = append(values, vals)
	}
	if err := rows.Err(); err != nil {
		return resultset.QueryResult{}, err
	}

	if len(columns) == 0 {
		return resultset.Empty(), nil
	}
	return resultset.Zip(columns, values)
}

// isBlank reports whether query contains nothing but whitespace, statement
// separators and SQL comments. go-sqlite3 cannot prepare such text: alone
// it is rejected, and as the tail of a longer query it is retried forever.
func isBlank(query string) bool {
	for i := 0; i < len(query); i++ {
		switch c := query[i]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v' || c == ';':
		case strings.HasPrefix(query[i:], "--"):
			end := strings.IndexByte(query[i:], '\n')
			if end < 0 {
				return true
			}
			i += end
		case strings.HasPrefix(query[i:], "/*"):
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				return true
			}
			i += end + 3
		default:
			return false
		}
	}
	return true
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// loadFixtures creates the fixture tables and inserts every row in a single
// transaction.
func loadFixtures(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err := tx.ExecContext(ctx, fixture.Schema()); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	for _, st := range fixture.Stations() {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO stations (id, name, borough) VALUES (:id, :name, :borough)`, st); err != nil {
			return fmt.Errorf("insert station %d: %w", st.ID, err)
		}
	}

	for _, t := range fixture.Transactions() {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO transactions (station_id, date, revenue) VALUES (:station_id, :date, :revenue)`, t); err != nil {
			return fmt.Errorf("insert transaction %d/%s: %w", t.StationID, t.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit fixtures: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRowx(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
