// Package sqlite provides the SQLite-backed tally.Store.
//
// The snapshot table balance_all and the change table changes_all carry one
// TEXT column per account, in account definition order. Dates are ISO-8601
// TEXT and compared as text, so month bounds like "2022-02-31" select the whole
// month.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // driver registration

	"github.com/etnz/tally"
)

const (
	driverName     = "sqlite"
	dialectSQLite  = "sqlite3"
	colID          = "id_num"
	colDate        = "date"
	colDetails     = "details"
	colAccountRef  = "account_ref"
	colAmount      = "amount"
	colType        = "type"
	logMsgSQL      = "executed sql"
	logAttrQuery   = "query"
	logAttrArgs    = "args"
	logAttrError   = "error"
	logMsgSQLError = "sql failed"
)

// Store persists a ledger in a SQLite database.
type Store struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
	logger  tally.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger receiving every executed query at Debug level.
func WithLogger(logger tally.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open opens (or creates) the SQLite database at path.
// The schema is not created, see Bootstrap.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)"
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Join(tally.ErrConnectivity, fmt.Errorf("open sqlite db: %w", err))
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Join(tally.ErrConnectivity, fmt.Errorf("ping sqlite db: %w", err))
	}
	// a single connection: the ledger has exactly one writer.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dialect: goqu.Dialect(dialectSQLite)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) logSQL(query string, args []any, err error) {
	if s.logger == nil {
		return
	}
	if err != nil {
		s.logger.Error(logMsgSQLError, logAttrQuery, query, logAttrArgs, args, logAttrError, err.Error())
		return
	}
	s.logger.Debug(logMsgSQL, logAttrQuery, query, logAttrArgs, args)
}

// failed wraps a driver error as a connectivity failure.
func failed(what string, err error) error {
	return errors.Join(tally.ErrConnectivity, fmt.Errorf("%s: %w", what, err))
}

// columns returns the identifier expressions of names. goqu.C does not split on dots.
func columns(names []string) []any {
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = goqu.C(n)
	}
	return out
}

// Columns implements tally.Store.
func (s *Store) Columns(ctx context.Context) ([]string, error) {
	query, _, err := s.dialect.From(string(tally.SnapshotTable)).Limit(1).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build columns query: %w", err)
	}
	rows, err := s.db.QueryxContext(ctx, query)
	s.logSQL(query, nil, err)
	if err != nil {
		return nil, failed("read snapshot columns", err)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, failed("read snapshot columns", err)
	}
	return cols, nil
}

// Snapshot implements tally.Store.
func (s *Store) Snapshot(ctx context.Context, id int, accounts []string) ([]string, error) {
	ds := s.dialect.From(string(tally.SnapshotTable)).
		Select(columns(accounts)...).
		Where(goqu.C(colID).Eq(id))
	row, err := s.queryRow(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("snapshot %d: %w", id, err)
	}
	return row, nil
}

// LatestSnapshot implements tally.Store.
func (s *Store) LatestSnapshot(ctx context.Context, accounts []string) ([]string, error) {
	ds := s.dialect.From(string(tally.SnapshotTable)).
		Select(columns(accounts)...).
		Order(goqu.C(colID).Desc()).
		Limit(1)
	row, err := s.queryRow(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return row, nil
}

// queryRow runs ds and returns its first row as text, ErrNotFound if there is none.
func (s *Store) queryRow(ctx context.Context, ds *goqu.SelectDataset) ([]string, error) {
	rows, err := s.queryRows(ctx, ds)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, tally.ErrNotFound
	}
	return rows[0], nil
}

// queryRows runs ds and returns every row as text.
func (s *Store) queryRows(ctx context.Context, ds *goqu.SelectDataset) ([][]string, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := s.db.QueryxContext(ctx, query, args...)
	s.logSQL(query, args, err)
	if err != nil {
		return nil, failed("query", err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, failed("scan row", err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = text(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, failed("iterate rows", err)
	}
	return out, nil
}

// text converts a scanned SQLite value to its decimal text.
// NULL becomes "", which the ledger rejects as malformed.
func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// WriteSnapshot implements tally.Store.
func (s *Store) WriteSnapshot(ctx context.Context, id int, accounts []string, values []string) error {
	if len(accounts) != len(values) {
		return fmt.Errorf("%d values for %d accounts", len(values), len(accounts))
	}
	record := goqu.Record{}
	for i, a := range accounts {
		record[a] = values[i]
	}

	update := s.dialect.Update(string(tally.SnapshotTable)).
		Set(record).
		Where(goqu.C(colID).Eq(id)).
		Prepared(true)
	affected, err := s.exec(ctx, s.db, update)
	if err != nil {
		return fmt.Errorf("update snapshot %d: %w", id, err)
	}
	if affected > 0 {
		return nil
	}

	record[colID] = id
	insert := s.dialect.Insert(string(tally.SnapshotTable)).Rows(record).Prepared(true)
	if _, err := s.exec(ctx, s.db, insert); err != nil {
		return fmt.Errorf("insert snapshot %d: %w", id, err)
	}
	return nil
}

// execer is satisfied by *sqlx.DB and *sqlx.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// statement is a goqu insert or update dataset.
type statement interface {
	ToSQL() (string, []any, error)
}

// exec runs a goqu statement and returns the number of affected rows.
func (s *Store) exec(ctx context.Context, db execer, stmt statement) (int64, error) {
	query, args, err := stmt.ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build statement: %w", err)
	}
	res, err := db.ExecContext(ctx, query, args...)
	s.logSQL(query, args, err)
	if err != nil {
		return 0, failed("exec", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, failed("rows affected", err)
	}
	return n, nil
}

// MaxID implements tally.Store.
func (s *Store) MaxID(ctx context.Context, table tally.Table) (int, error) {
	return s.maxID(ctx, s.db, table)
}

type getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

func (s *Store) maxID(ctx context.Context, db getter, table tally.Table) (int, error) {
	query, args, err := s.dialect.From(string(table)).
		Select(goqu.C(colID)).
		Order(goqu.C(colID).Desc()).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build max id query: %w", err)
	}
	var id int
	err = db.GetContext(ctx, &id, query, args...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logSQL(query, args, nil)
		return 0, fmt.Errorf("max id_num of %s: %w", table, tally.ErrNotFound)
	case err != nil:
		s.logSQL(query, args, err)
		return 0, failed("max id_num of "+string(table), err)
	}
	s.logSQL(query, args, nil)
	return id, nil
}

type transactionRow struct {
	Date       string `db:"date"`
	Details    string `db:"details"`
	AccountRef string `db:"account_ref"`
	Amount     string `db:"amount"`
	Type       string `db:"type"`
	ID         int    `db:"id_num"`
}

// Transactions implements tally.Store.
func (s *Store) Transactions(ctx context.Context, from, to string) ([]tally.TransactionRecord, error) {
	query, args, err := s.dialect.From(string(tally.TransactionTable)).
		Select(goqu.C(colDate), goqu.C(colDetails), goqu.C(colAccountRef), goqu.C(colAmount), goqu.C(colType), goqu.C(colID)).
		Where(goqu.C(colDate).Between(goqu.Range(from, to))).
		Order(goqu.C(colDate).Asc(), goqu.C(colID).Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build transactions query: %w", err)
	}
	var rows []transactionRow
	err = s.db.SelectContext(ctx, &rows, query, args...)
	s.logSQL(query, args, err)
	if err != nil {
		return nil, failed("read transactions", err)
	}
	out := make([]tally.TransactionRecord, len(rows))
	for i, r := range rows {
		out[i] = tally.TransactionRecord{
			ID:         r.ID,
			Date:       r.Date,
			Details:    r.Details,
			AccountRef: r.AccountRef,
			Amount:     r.Amount,
			Type:       r.Type,
		}
	}
	return out, nil
}

// Changes implements tally.Store.
func (s *Store) Changes(ctx context.Context, from, to string, accounts []string) ([][]string, error) {
	if len(accounts) == 0 {
		return nil, nil
	}
	ds := s.dialect.From(string(tally.ChangeTable)).
		Select(columns(accounts)...).
		Where(goqu.C(colDate).Between(goqu.Range(from, to))).
		Order(goqu.C(colDate).Asc(), goqu.C(colID).Asc())
	rows, err := s.queryRows(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("read changes: %w", err)
	}
	return rows, nil
}

// AppendTransaction implements tally.Store.
func (s *Store) AppendTransaction(ctx context.Context, rec tally.TransactionRecord, accounts []string, deltas []string) (id int, err error) {
	if len(accounts) != len(deltas) {
		return 0, fmt.Errorf("%d deltas for %d accounts", len(deltas), len(accounts))
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, failed("begin", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	last, err := s.maxID(ctx, tx, tally.TransactionTable)
	switch {
	case errors.Is(err, tally.ErrNotFound):
		id = 1
	case err != nil:
		return 0, err
	default:
		id = last + 1
	}

	insertTx := s.dialect.Insert(string(tally.TransactionTable)).Rows(goqu.Record{
		colDate:       rec.Date,
		colDetails:    rec.Details,
		colAccountRef: rec.AccountRef,
		colAmount:     rec.Amount,
		colType:       rec.Type,
		colID:         id,
	}).Prepared(true)
	if _, err = s.exec(ctx, tx, insertTx); err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	change := goqu.Record{colDate: rec.Date, colID: id}
	for i, a := range accounts {
		change[a] = deltas[i]
	}
	insertChange := s.dialect.Insert(string(tally.ChangeTable)).Rows(change).Prepared(true)
	if _, err = s.exec(ctx, tx, insertChange); err != nil {
		return 0, fmt.Errorf("insert change record: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, failed("commit", err)
	}
	return id, nil
}

// Compile-time check: ensure Store implements tally.Store
var _ tally.Store = (*Store)(nil)
