package tally

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Baseline returns the balances carried into p.
//
// For every account it is the most recent non-zero value found walking the
// snapshot rows backward from the end of the month before p, or zero if no
// such value exists back to the epoch. An account is thus carried forward
// through months without activity. Missing rows resolve nothing.
//
// Baseline reads at most p.Slot() rows and writes nothing.
func (l *Ledger) Baseline(ctx context.Context, p Period, accounts Accounts) (*Balances, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	balances := NewBalances(accounts)

	id := p.Slot()
	if id <= 0 {
		return balances, nil
	}

	resolved := make(map[string]bool, len(accounts))
	for id > 0 && len(resolved) < len(accounts) {
		values, err := l.store.Snapshot(ctx, id, accounts)
		switch {
		case errors.Is(err, ErrNotFound):
			id--
			continue
		case err != nil:
			return nil, fmt.Errorf("could not read snapshot %d: %w", id, err)
		}
		if len(values) != len(accounts) {
			return nil, fmt.Errorf("%w: snapshot %d has %d values for %d accounts", ErrSchema, id, len(values), len(accounts))
		}
		for i, account := range accounts {
			if resolved[account] {
				continue
			}
			v, err := decimal.NewFromString(values[i])
			if err != nil {
				return nil, integrity(id, "snapshot "+account, values[i], err)
			}
			if !v.IsZero() {
				balances.set(account, v)
				resolved[account] = true
			}
		}
		id--
	}
	l.debug("baseline located", "period", p, "resolved", len(resolved), "accounts", len(accounts))
	return balances, nil
}
