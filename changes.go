package tally

import (
	"context"
	"fmt"
)

// ChangesLabel heads the placeholder row of a month without change.
const ChangesLabel = "Changes"

// Changes returns the recorded per-account deltas of the transactions of p,
// ordered by date then id. Values are returned as stored.
func (l *Ledger) Changes(ctx context.Context, p Period) ([][]string, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	accounts, err := l.schema(ctx)
	if err != nil {
		return nil, err
	}
	from, to := p.Bounds()
	rows, err := l.store.Changes(ctx, from, to, accounts)
	if err != nil {
		return nil, fmt.Errorf("could not read changes of %v: %w", p, err)
	}
	return rows, nil
}

// EmptyChanges returns the change row shown for a month without transaction:
// the ChangesLabel followed by "0.00" for every account.
func (l *Ledger) EmptyChanges(ctx context.Context) ([]string, error) {
	accounts, err := l.schema(ctx)
	if err != nil {
		return nil, err
	}
	row := make([]string, 0, len(accounts)+1)
	row = append(row, ChangesLabel)
	for range accounts {
		row = append(row, "0.00")
	}
	return row, nil
}
