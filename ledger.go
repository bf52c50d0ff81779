package tally

import (
	"context"
	"errors"
	"fmt"
)

// Logger receives operational messages. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Ledger computes account balances from the transactions of a Store and keeps
// the store's monthly snapshots in sync with them.
//
// A Ledger assumes it is the only writer of its store. Reads and the snapshot
// write of a replay are not atomic: a failure in between leaves a stale
// snapshot, healed by the next replay of that month. Concurrent use from
// several processes is not supported.
type Ledger struct {
	store  Store
	logger Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger of the Ledger.
func WithLogger(logger Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// New returns a Ledger reading and writing store.
func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{store: store}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) info(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Info(msg, args...)
	}
}

func (l *Ledger) debug(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Debug(msg, args...)
	}
}

// LatestTransactionID returns the id of the last recorded transaction.
// It fails with ErrNotFound if no transaction was ever recorded.
func (l *Ledger) LatestTransactionID(ctx context.Context) (int, error) {
	return l.store.MaxID(ctx, TransactionTable)
}

// LatestSnapshotID returns the id of the most recent snapshot row.
// It fails with ErrNotFound if the snapshot table is empty.
func (l *Ledger) LatestSnapshotID(ctx context.Context) (int, error) {
	return l.store.MaxID(ctx, SnapshotTable)
}

// LatestBalances returns the values of accounts in the most recent snapshot row.
// It fails with ErrSchema if accounts is empty or names an unknown account, and
// with ErrNotFound if the snapshot table is empty.
func (l *Ledger) LatestBalances(ctx context.Context, accounts Accounts) ([]string, error) {
	known, err := l.schema(ctx)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: no account requested", ErrSchema)
	}
	for _, a := range accounts {
		if !known.Contains(a) {
			return nil, fmt.Errorf("%w: unknown account %q", ErrSchema, a)
		}
	}
	return l.store.LatestSnapshot(ctx, accounts)
}

// Add records tx and its change record, then replays every cached month from
// the month of tx on so that later snapshots account for it.
// It returns the id assigned to tx.
func (l *Ledger) Add(ctx context.Context, tx Transaction) (int, error) {
	accounts, err := l.schema(ctx)
	if err != nil {
		return 0, err
	}
	if err := tx.Validate(accounts); err != nil {
		return 0, fmt.Errorf("invalid transaction: %w", err)
	}
	if err := PeriodOf(tx.Date).Validate(); err != nil {
		return 0, fmt.Errorf("transaction dated %v is before %d: %w", tx.Date, EpochYear, err)
	}
	if !selects(tx.Date) {
		return 0, fmt.Errorf("%w: transaction dated %v is out of the month ranges of the ledger", ErrInvalidPeriod, tx.Date)
	}
	deltas := Deltas(accounts, tx.Ref.Apply(tx.Amount))
	id, err := l.store.AppendTransaction(ctx, tx.Record(), accounts, deltas)
	if err != nil {
		return 0, fmt.Errorf("could not record transaction: %w", err)
	}
	l.info("transaction recorded", "id_num", id, "type", tx.Ref.Kind(), "date", tx.Date)

	// heal from the transaction month up to the last cached month.
	from := PeriodOf(tx.Date)
	last := from
	latest, err := l.LatestSnapshotID(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return id, err
	case latest-1 > last.Slot():
		last = PeriodOfSlot(latest - 1)
	}
	if err := l.Heal(ctx, from, last); err != nil {
		return id, err
	}
	return id, nil
}

// Heal replays every month from first to last included, rewriting their snapshots.
func (l *Ledger) Heal(ctx context.Context, first, last Period) error {
	for p := first; p.Slot() <= last.Slot(); p = p.Next() {
		if _, err := l.Replay(ctx, p); err != nil {
			return fmt.Errorf("could not replay %v: %w", p, err)
		}
	}
	return nil
}
