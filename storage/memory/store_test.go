package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etnz/tally"
	"github.com/etnz/tally/storage/memory"
)

func Test_MaxID_Per_Table(t *testing.T) {
	// setup
	ctx := context.Background()
	s := memory.New("Bank", "Cash")

	// assert empty tables
	for _, table := range []tally.Table{tally.SnapshotTable, tally.TransactionTable, tally.ChangeTable} {
		_, err := s.MaxID(ctx, table)
		assert.ErrorIs(t, err, tally.ErrNotFound, "table %s", table)
	}

	// act
	id, err := s.AppendTransaction(ctx, tally.TransactionRecord{Date: "2022-07-01", AccountRef: "Bank", Amount: "1.00", Type: "Income"},
		[]string{"Bank", "Cash"}, []string{"1.00", "0.00"})
	require.NoError(t, err)
	require.NoError(t, s.WriteSnapshot(ctx, 7, []string{"Bank", "Cash"}, []string{"1.00", "0.00"}))

	// assert
	assert.Equal(t, 1, id)
	for table, want := range map[tally.Table]int{tally.SnapshotTable: 7, tally.TransactionTable: 1, tally.ChangeTable: 1} {
		got, err := s.MaxID(ctx, table)
		require.NoError(t, err)
		assert.Equal(t, want, got, "table %s", table)
	}
}

func Test_Transactions_Are_Ordered_By_Date_Then_ID(t *testing.T) {
	// setup
	ctx := context.Background()
	s := memory.New("Bank")
	s.PutTransaction(tally.TransactionRecord{ID: 3, Date: "2022-07-02"})
	s.PutTransaction(tally.TransactionRecord{ID: 1, Date: "2022-07-02"})
	s.PutTransaction(tally.TransactionRecord{ID: 2, Date: "2022-07-01"})
	s.PutTransaction(tally.TransactionRecord{ID: 4, Date: "2022-08-01"})

	// act
	records, err := s.Transactions(ctx, "2022-07-01", "2022-07-31")

	// assert
	require.NoError(t, err)
	var ids []int
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int{2, 1, 3}, ids)
}

func Test_WriteSnapshot_Updates_Existing_Row(t *testing.T) {
	// setup
	ctx := context.Background()
	s := memory.New("Bank", "Cash")
	s.PutSnapshot(2, map[string]string{"Bank": "abc"})

	// act
	err := s.WriteSnapshot(ctx, 2, []string{"Bank", "Cash"}, []string{"5.00", "6.00"})

	// assert
	require.NoError(t, err)
	values, err := s.Snapshot(ctx, 2, []string{"Bank", "Cash"})
	require.NoError(t, err)
	assert.Equal(t, []string{"5.00", "6.00"}, values)
	assert.Equal(t, 1, s.SnapshotWrites)
	assert.Error(t, s.WriteSnapshot(ctx, 3, []string{"Bank"}, []string{"1.00", "2.00"}), "length mismatch")
}

func Test_Missing_Snapshot_Is_Not_Found(t *testing.T) {
	ctx := context.Background()
	s := memory.New("Bank")

	_, err := s.Snapshot(ctx, 1, []string{"Bank"})
	assert.ErrorIs(t, err, tally.ErrNotFound)
	_, err = s.LatestSnapshot(ctx, []string{"Bank"})
	assert.ErrorIs(t, err, tally.ErrNotFound)
}

func Test_AddAccounts_Defaults_To_Zero(t *testing.T) {
	// setup
	ctx := context.Background()
	s := memory.New("Bank")
	require.NoError(t, s.WriteSnapshot(ctx, 1, []string{"Bank"}, []string{"3.00"}))

	// act
	require.NoError(t, s.AddAccounts("Cash"))

	// assert
	cols, err := s.Columns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id_num", "Bank", "Cash"}, cols)
	values, err := s.LatestSnapshot(ctx, []string{"Bank", "Cash"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3.00", "0.00"}, values)
	assert.Error(t, s.AddAccounts("Bank"), "duplicate")
	assert.Error(t, s.AddAccounts("Bank to Cash"), "transfer separator")
}
