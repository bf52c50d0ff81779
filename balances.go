package tally

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Balances holds the running balance of every account.
//
// Values are keyed by account name; the account order is kept separately and
// drives every formatted output.
type Balances struct {
	accounts Accounts
	values   map[string]decimal.Decimal
}

// NewBalances returns all-zero balances for accounts.
func NewBalances(accounts Accounts) *Balances {
	b := &Balances{accounts: accounts, values: make(map[string]decimal.Decimal, len(accounts))}
	for _, a := range accounts {
		b.values[a] = decimal.Zero
	}
	return b
}

// Accounts returns the accounts in column order.
func (b *Balances) Accounts() Accounts { return b.accounts }

// Get returns the balance of account, zero if unknown.
func (b *Balances) Get(account string) decimal.Decimal { return b.values[account] }

// set overwrites the balance of a known account.
func (b *Balances) set(account string, v decimal.Decimal) { b.values[account] = v }

// Apply adds every change to its account balance.
// Changes on unknown accounts are rejected with ErrSchema before any balance is modified.
func (b *Balances) Apply(changes map[string]decimal.Decimal) error {
	for account := range changes {
		if _, ok := b.values[account]; !ok {
			return fmt.Errorf("%w: unknown account %q", ErrSchema, account)
		}
	}
	for account, delta := range changes {
		b.values[account] = b.values[account].Add(delta)
	}
	return nil
}

// Fixed returns every balance with exactly two decimals, in account order.
func (b *Balances) Fixed() []string {
	row := make([]string, len(b.accounts))
	for i, a := range b.accounts {
		row[i] = b.values[a].StringFixed(2)
	}
	return row
}

// Deltas returns changes as one two-decimal value per account, "0.00" for
// untouched accounts.
func Deltas(accounts Accounts, changes map[string]decimal.Decimal) []string {
	row := make([]string, len(accounts))
	for i, a := range accounts {
		row[i] = changes[a].StringFixed(2)
	}
	return row
}
