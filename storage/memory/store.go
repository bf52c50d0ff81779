// Package memory provides an in-memory tally.Store, for tests and embedding.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/etnz/tally"
)

type change struct {
	id     int
	date   string
	deltas map[string]string
}

// Store is an in-memory implementation of tally.Store.
type Store struct {
	mu           sync.Mutex
	accounts     []string
	snapshots    map[int]map[string]string
	transactions []tally.TransactionRecord
	changes      []change

	// SnapshotWrites counts the calls to WriteSnapshot.
	SnapshotWrites int
}

// New returns an empty store with the given accounts.
func New(accounts ...string) *Store {
	return &Store{
		accounts:  slices.Clone(accounts),
		snapshots: make(map[int]map[string]string),
	}
}

// AddAccounts appends accounts to the store.
func (s *Store) AddAccounts(names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		if err := tally.ValidateAccountName(name); err != nil {
			return err
		}
		if slices.Contains(s.accounts, name) {
			return fmt.Errorf("account %q already exists", name)
		}
		s.accounts = append(s.accounts, name)
	}
	return nil
}

// PutSnapshot stores a snapshot row as is, bypassing the ledger.
func (s *Store) PutSnapshot(id int, values map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[id] = values
}

// PutTransaction stores a transaction record as is, bypassing the ledger.
func (s *Store) PutTransaction(rec tally.TransactionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, rec)
}

// Columns implements tally.Store.
func (s *Store) Columns(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{"id_num"}, s.accounts...), nil
}

// Snapshot implements tally.Store.
func (s *Store) Snapshot(ctx context.Context, id int, accounts []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.snapshots[id]
	if !ok {
		return nil, fmt.Errorf("snapshot %d: %w", id, tally.ErrNotFound)
	}
	return project(row, accounts), nil
}

// LatestSnapshot implements tally.Store.
func (s *Store) LatestSnapshot(ctx context.Context, accounts []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.snapshots) == 0 {
		return nil, fmt.Errorf("latest snapshot: %w", tally.ErrNotFound)
	}
	latest := 0
	for id := range s.snapshots {
		latest = max(latest, id)
	}
	return project(s.snapshots[latest], accounts), nil
}

// WriteSnapshot implements tally.Store.
func (s *Store) WriteSnapshot(ctx context.Context, id int, accounts []string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(accounts) != len(values) {
		return fmt.Errorf("%d values for %d accounts", len(values), len(accounts))
	}
	row, ok := s.snapshots[id]
	if !ok {
		row = make(map[string]string, len(accounts))
		s.snapshots[id] = row
	}
	for i, a := range accounts {
		row[a] = values[i]
	}
	s.SnapshotWrites++
	return nil
}

// MaxID implements tally.Store.
func (s *Store) MaxID(ctx context.Context, table tally.Table) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	latest, found := 0, false
	switch table {
	case tally.SnapshotTable:
		for id := range s.snapshots {
			latest, found = max(latest, id), true
		}
	case tally.TransactionTable:
		for _, rec := range s.transactions {
			latest, found = max(latest, rec.ID), true
		}
	case tally.ChangeTable:
		for _, c := range s.changes {
			latest, found = max(latest, c.id), true
		}
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
	if !found {
		return 0, fmt.Errorf("max id_num of %s: %w", table, tally.ErrNotFound)
	}
	return latest, nil
}

// Transactions implements tally.Store.
func (s *Store) Transactions(ctx context.Context, from, to string) ([]tally.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []tally.TransactionRecord
	for _, rec := range s.transactions {
		if rec.Date >= from && rec.Date <= to {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Changes implements tally.Store.
func (s *Store) Changes(ctx context.Context, from, to string, accounts []string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var selected []change
	for _, c := range s.changes {
		if c.date >= from && c.date <= to {
			selected = append(selected, c)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].date != selected[j].date {
			return selected[i].date < selected[j].date
		}
		return selected[i].id < selected[j].id
	})
	out := make([][]string, 0, len(selected))
	for _, c := range selected {
		out = append(out, project(c.deltas, accounts))
	}
	return out, nil
}

// AppendTransaction implements tally.Store.
func (s *Store) AppendTransaction(ctx context.Context, rec tally.TransactionRecord, accounts []string, deltas []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(accounts) != len(deltas) {
		return 0, fmt.Errorf("%d deltas for %d accounts", len(deltas), len(accounts))
	}
	id := 1
	for _, r := range s.transactions {
		id = max(id, r.ID+1)
	}
	rec.ID = id
	s.transactions = append(s.transactions, rec)

	c := change{id: id, date: rec.Date, deltas: make(map[string]string, len(accounts))}
	for i, a := range accounts {
		c.deltas[a] = deltas[i]
	}
	s.changes = append(s.changes, c)
	return id, nil
}

// project returns the values of accounts in row, "0.00" for missing ones.
func project(row map[string]string, accounts []string) []string {
	out := make([]string, len(accounts))
	for i, a := range accounts {
		v, ok := row[a]
		if !ok {
			v = "0.00"
		}
		out[i] = v
	}
	return out
}

// Compile-time check: ensure Store implements tally.Store
var _ tally.Store = (*Store)(nil)
