package tally

import "context"

// Table names a persisted table.
type Table string

// Persisted tables.
const (
	SnapshotTable    Table = "balance_all"
	TransactionTable Table = "tx_all"
	ChangeTable      Table = "changes_all"
)

// Store is the persistence layer of a Ledger.
//
// Transactions are the source of truth; snapshot rows are a cache that the
// ledger rewrites while replaying months. Balance and delta values are kept as
// decimal text and returned verbatim, decoding is the ledger's business.
//
// Implementations report an unreachable or failing backend with an error
// matching ErrConnectivity, and an absent row with an error matching ErrNotFound.
type Store interface {
	// Columns returns the snapshot table columns in definition order.
	Columns(ctx context.Context) ([]string, error)

	// Snapshot returns the values of accounts in the snapshot row id.
	Snapshot(ctx context.Context, id int, accounts []string) ([]string, error)

	// LatestSnapshot returns the values of accounts in the snapshot row with the greatest id.
	LatestSnapshot(ctx context.Context, accounts []string) ([]string, error)

	// WriteSnapshot overwrites the values of accounts in the snapshot row id,
	// creating the row if needed.
	WriteSnapshot(ctx context.Context, id int, accounts []string, values []string) error

	// MaxID returns the greatest id_num of table.
	MaxID(ctx context.Context, table Table) (int, error)

	// Transactions returns the transactions dated between from and to (inclusive,
	// compared as ISO text), ordered by date then id_num.
	Transactions(ctx context.Context, from, to string) ([]TransactionRecord, error)

	// Changes returns the delta columns of accounts of the change records dated
	// between from and to, ordered by date then id_num.
	Changes(ctx context.Context, from, to string, accounts []string) ([][]string, error)

	// AppendTransaction stores rec under the next transaction id along with its
	// change record, and returns the id.
	AppendTransaction(ctx context.Context, rec TransactionRecord, accounts []string, deltas []string) (int, error)
}
