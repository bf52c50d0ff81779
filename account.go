package tally

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Accounts is the ordered set of account names (transaction methods).
//
// The position of an account is structural: it is the column order of the
// snapshot table and of every balance row produced by the ledger. New accounts
// are only ever appended.
type Accounts []string

// Contains reports whether name is a known account.
func (a Accounts) Contains(name string) bool { return slices.Contains(a, name) }

// Validate checks that the set is not empty and holds no duplicate nor empty names.
func (a Accounts) Validate() error {
	if len(a) == 0 {
		return fmt.Errorf("%w: no account defined", ErrSchema)
	}
	seen := make(map[string]bool, len(a))
	for _, name := range a {
		if name == "" {
			return fmt.Errorf("%w: empty account name", ErrSchema)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate account %q", ErrSchema, name)
		}
		seen[name] = true
	}
	return nil
}

// ValidateAccountName checks that name can be used as a new account.
// Names containing the transfer separator would make transfer references ambiguous.
func ValidateAccountName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.New("account name is empty")
	case strings.Contains(name, TransferSeparator):
		return fmt.Errorf("account name %q contains the transfer separator %q", name, TransferSeparator)
	case name == idColumn:
		return fmt.Errorf("account name %q is reserved", name)
	}
	return nil
}

// idColumn is the key column of the snapshot table, never an account.
const idColumn = "id_num"

// Accounts returns the ordered list of accounts as currently defined by the
// snapshot store column layout.
func (l *Ledger) Accounts(ctx context.Context) (Accounts, error) {
	columns, err := l.store.Columns(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not read account columns: %w", err)
	}
	accounts := make(Accounts, 0, len(columns))
	for _, c := range columns {
		if c == idColumn {
			continue
		}
		accounts = append(accounts, c)
	}
	return accounts, nil
}

// schema returns the accounts and fails with ErrSchema if none is defined.
func (l *Ledger) schema(ctx context.Context) (Accounts, error) {
	accounts, err := l.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	if err := accounts.Validate(); err != nil {
		return nil, err
	}
	return accounts, nil
}
