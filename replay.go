package tally

import (
	"context"
	"fmt"
)

// Row is a transaction formatted for display: the date is day-month-year and
// every other field is the persisted text.
type Row struct {
	Date    string `json:"date"`
	Details string `json:"details"`
	Account string `json:"account"`
	Amount  string `json:"amount"`
	Type    string `json:"type"`
}

// Strings returns the row cells in display order.
func (r Row) Strings() []string {
	return []string{r.Date, r.Details, r.Account, r.Amount, r.Type}
}

// MonthReplay is the result of replaying a month.
//
// Rows, Balances and IDs are parallel: Balances[i] holds every account balance
// (two decimals, account order) right after the transaction Rows[i] whose id
// is IDs[i]. They are ordered by date, then id.
type MonthReplay struct {
	Accounts Accounts   `json:"accounts"`
	Rows     []Row      `json:"rows"`
	Balances [][]string `json:"balances"`
	IDs      []int      `json:"ids"`
}

// Len returns the number of transactions replayed.
func (m *MonthReplay) Len() int { return len(m.IDs) }

// Final returns the balances at the end of the month, or nil if the month had no transaction.
func (m *MonthReplay) Final() []string {
	if len(m.Balances) == 0 {
		return nil
	}
	return m.Balances[len(m.Balances)-1]
}

// Replay recomputes the balance of every account after every transaction of p.
//
// Balances start from the Baseline of p and the transactions of p are applied
// in (date, id) order. When p has at least one transaction, the end-of-month
// balances overwrite the snapshot row p.Slot()+1: the transactions are the
// source of truth and that row is only a cache of them. A month without
// transaction writes nothing.
//
// Malformed persisted data aborts the replay with an *IntegrityError, and a
// transaction on an unknown account with ErrSchema. Nothing is written then.
func (l *Ledger) Replay(ctx context.Context, p Period) (*MonthReplay, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	accounts, err := l.schema(ctx)
	if err != nil {
		return nil, err
	}
	balances, err := l.Baseline(ctx, p, accounts)
	if err != nil {
		return nil, err
	}

	from, to := p.Bounds()
	records, err := l.store.Transactions(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("could not read transactions of %v: %w", p, err)
	}

	m := &MonthReplay{
		Accounts: accounts,
		Rows:     make([]Row, 0, len(records)),
		Balances: make([][]string, 0, len(records)),
		IDs:      make([]int, 0, len(records)),
	}
	for _, rec := range records {
		tx, err := rec.Decode()
		if err != nil {
			return nil, err
		}
		if err := balances.Apply(tx.Ref.Apply(tx.Amount)); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", rec.ID, err)
		}
		m.Rows = append(m.Rows, Row{
			Date:    tx.Date.Display(),
			Details: rec.Details,
			Account: rec.AccountRef,
			Amount:  rec.Amount,
			Type:    rec.Type,
		})
		m.Balances = append(m.Balances, balances.Fixed())
		m.IDs = append(m.IDs, rec.ID)
	}

	if final := m.Final(); final != nil {
		id := p.Slot() + 1
		if err := l.store.WriteSnapshot(ctx, id, accounts, final); err != nil {
			return nil, fmt.Errorf("could not heal snapshot %d: %w", id, err)
		}
	}
	l.info("month replayed", "period", p, "transactions", m.Len(), "healed", m.Len() > 0)
	return m, nil
}
