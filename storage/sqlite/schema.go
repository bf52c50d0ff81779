package sqlite

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/tally"
)

// quote returns name as a double-quoted SQLite identifier.
func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// fixedColumns are the non-account columns of the ledger tables.
var fixedColumns = []string{"date", "details", "account_ref", "amount", "type"}

// validateName checks an account name for use as a column.
// Dots are refused because goqu splits record keys on them.
func validateName(name string) error {
	if err := tally.ValidateAccountName(name); err != nil {
		return err
	}
	if slices.Contains(fixedColumns, name) {
		return fmt.Errorf("%w: account name %q is a reserved column", tally.ErrSchema, name)
	}
	if strings.ContainsAny(name, ".`") {
		return fmt.Errorf("account name %q must not contain '.' or '`'", name)
	}
	return nil
}

func accountColumns(accounts []string) string {
	var b strings.Builder
	for _, a := range accounts {
		fmt.Fprintf(&b, ",\n  %s TEXT NOT NULL DEFAULT '0.00'", quote(a))
	}
	return b.String()
}

// Bootstrap creates the ledger tables with one column per account.
// It fails if the ledger already exists.
func (s *Store) Bootstrap(ctx context.Context, accounts []string) error {
	if err := tally.Accounts(accounts).Validate(); err != nil {
		return err
	}
	for _, a := range accounts {
		if err := validateName(a); err != nil {
			return err
		}
	}
	exists, err := s.initialized(ctx)
	if err != nil {
		return err
	}
	if exists {
		return errors.New("ledger already initialized")
	}

	statements := []string{
		fmt.Sprintf("CREATE TABLE %s (\n  id_num INTEGER PRIMARY KEY%s\n)",
			tally.SnapshotTable, accountColumns(accounts)),
		fmt.Sprintf("CREATE TABLE %s (\n  date TEXT NOT NULL,\n  details TEXT NOT NULL,\n  account_ref TEXT NOT NULL,\n  amount TEXT NOT NULL,\n  type TEXT NOT NULL,\n  id_num INTEGER PRIMARY KEY\n)",
			tally.TransactionTable),
		fmt.Sprintf("CREATE TABLE %s (\n  date TEXT NOT NULL,\n  id_num INTEGER PRIMARY KEY%s\n)",
			tally.ChangeTable, accountColumns(accounts)),
		fmt.Sprintf("CREATE INDEX %s_date ON %s (date, id_num)", tally.TransactionTable, tally.TransactionTable),
		fmt.Sprintf("CREATE INDEX %s_date ON %s (date, id_num)", tally.ChangeTable, tally.ChangeTable),
	}
	return s.ddl(ctx, statements)
}

// AddAccounts appends accounts as the last columns of the snapshot and change tables.
// Existing columns keep their position.
func (s *Store) AddAccounts(ctx context.Context, names []string) error {
	cols, err := s.Columns(ctx)
	if err != nil {
		return err
	}
	var statements []string
	for i, name := range names {
		if err := validateName(name); err != nil {
			return err
		}
		if slices.Contains(cols, name) || slices.Contains(names[:i], name) {
			return fmt.Errorf("account %q already exists", name)
		}
		for _, table := range []tally.Table{tally.SnapshotTable, tally.ChangeTable} {
			statements = append(statements,
				fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT NOT NULL DEFAULT '0.00'", table, quote(name)))
		}
	}
	return s.ddl(ctx, statements)
}

func (s *Store) initialized(ctx context.Context) (bool, error) {
	var n int
	query := "SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?"
	err := s.db.GetContext(ctx, &n, query, string(tally.SnapshotTable))
	s.logSQL(query, []any{tally.SnapshotTable}, err)
	if err != nil {
		return false, failed("inspect schema", err)
	}
	return n > 0, nil
}

// ddl runs statements in a single transaction.
func (s *Store) ddl(ctx context.Context, statements []string) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return failed("begin", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for _, stmt := range statements {
		_, err = tx.ExecContext(ctx, stmt)
		s.logSQL(stmt, nil, err)
		if err != nil {
			return failed("schema change", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return failed("commit", err)
	}
	return nil
}
