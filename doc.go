// Package tally provides the balance engine of a personal multi-account
// expense and income ledger.
//
// Money lives in accounts (cash, bank, wallet...) whose set is defined by the
// user and can grow over time. Every transaction is an income, an expense or a
// transfer between two accounts, and is recorded once in an append-only
// transaction log.
//
// The core functionalities include:
//   - Account discovery: the ordered account set is read from the snapshot
//     table layout, one column per account.
//   - Month bounds: a (month, year offset) pair is turned into ISO date bounds
//     selecting the month's transactions.
//   - Baseline location: the balances carried into a month are found walking
//     the monthly snapshots backward.
//   - Replay: a month's transactions are applied in order on top of its
//     baseline, yielding every account balance after every transaction.
//   - Self-heal: each replay rewrites the month's end snapshot, so the snapshot
//     table is a cache that always converges to the transaction log.
//
// Persistence is abstracted by Store; see the storage/sqlite and
// storage/memory packages. This package serves as the foundational logic for
// the `tly` command-line tool.
package tally
