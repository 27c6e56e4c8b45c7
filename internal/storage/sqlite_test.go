package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmorriss/ledgerscope/internal/model"
)

// createTestStorage creates a migrated storage instance backed by a temp file.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testTransaction(id string, date time.Time, payee string, amount float64) model.Transaction {
	txn := model.Transaction{
		ID:        id,
		Date:      date,
		Name:      payee,
		Payee:     payee,
		AccountID: "checking",
		Amount:    amount,
		Category:  "Utilities",
	}
	txn.Hash = txn.GenerateHash()
	return txn
}

func TestNewSQLiteStorageValidation(t *testing.T) {
	_, err := NewSQLiteStorage("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := createTestStorage(t)

	// A second run must be a no-op, not a failure.
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSaveAndQueryTransactions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		testTransaction("t3", base.AddDate(0, 0, 20), "City Power", -85),
		testTransaction("t1", base, "City Power", -82),
		testTransaction("t2", base.AddDate(0, 0, 10), "City Power", -90),
	}
	require.NoError(t, store.SaveTransactions(ctx, txns))

	got, err := store.GetTransactionsByDateRange(ctx, base, base.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ordered ascending by date regardless of insert order.
	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, "t2", got[1].ID)
	assert.Equal(t, "t3", got[2].ID)
	assert.Equal(t, -82.0, got[0].Amount)
	assert.Equal(t, "Utilities", got[0].Category)
}

func TestSaveTransactionsDeduplicatesByHash(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	txn := testTransaction("t1", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), "City Power", -85)
	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{txn}))

	// Same content under a new id: the hash collision drops it.
	dup := txn
	dup.ID = "t1-again"
	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{dup}))

	got, err := store.GetTransactionsByDateRange(ctx,
		txn.Date.AddDate(0, 0, -1), txn.Date.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSaveTransactionsValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	err := store.SaveTransactions(ctx, nil)
	assert.ErrorIs(t, err, ErrNilParameter)

	err = store.SaveTransactions(ctx, []model.Transaction{})
	assert.ErrorIs(t, err, ErrEmptySlice)

	missing := model.Transaction{ID: "x", Name: "no date", AccountID: "checking"}
	err = store.SaveTransactions(ctx, []model.Transaction{missing})
	assert.ErrorIs(t, err, ErrInvalidTransaction)
}

func TestGetTransactionsByDateRangeRejectsInvertedRange(t *testing.T) {
	store := createTestStorage(t)

	now := time.Now()
	_, err := store.GetTransactionsByDateRange(context.Background(), now, now.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestGetMonthlyCategoryTotals(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	var txns []model.Transaction
	for m := 0; m < 3; m++ {
		date := time.Date(2024, time.Month(1+m), 5, 12, 0, 0, 0, time.UTC)
		txns = append(txns,
			testTransaction(fmt.Sprintf("a%d", m), date, "City Power", -60),
			testTransaction(fmt.Sprintf("b%d", m), date.AddDate(0, 0, 10), "City Power", -25),
		)
	}
	require.NoError(t, store.SaveTransactions(ctx, txns))

	totals, err := store.GetMonthlyCategoryTotals(ctx, "Utilities", "", 12)
	require.NoError(t, err)
	require.Len(t, totals, 3)

	// Ascending months, summed per month.
	assert.Equal(t, time.January, totals[0].Month.Month())
	assert.Equal(t, time.March, totals[2].Month.Month())
	for _, total := range totals {
		assert.InDelta(t, -85.0, total.Total, 1e-9)
	}
}

func TestGetMonthlyCategoryTotalsHonorsLimit(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	var txns []model.Transaction
	for m := 0; m < 6; m++ {
		date := time.Date(2024, time.Month(1+m), 5, 12, 0, 0, 0, time.UTC)
		txns = append(txns, testTransaction(fmt.Sprintf("t%d", m), date, "City Power", -50))
	}
	require.NoError(t, store.SaveTransactions(ctx, txns))

	totals, err := store.GetMonthlyCategoryTotals(ctx, "Utilities", "", 3)
	require.NoError(t, err)
	require.Len(t, totals, 3)

	// The most recent three months, still ascending.
	assert.Equal(t, time.April, totals[0].Month.Month())
	assert.Equal(t, time.June, totals[2].Month.Month())
}

func TestGetMonthlyCategoryTotalsUnknownCategory(t *testing.T) {
	store := createTestStorage(t)

	totals, err := store.GetMonthlyCategoryTotals(context.Background(), "Nonexistent", "", 12)
	require.NoError(t, err)
	assert.Empty(t, totals)
}
