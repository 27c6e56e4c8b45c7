package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tmorriss/ledgerscope/internal/model"
	"github.com/tmorriss/ledgerscope/internal/service"
)

// SaveTransactions saves multiple transactions to the database. The core
// pipeline only reads transactions; this write path serves seeding and tests.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, hash, date, name, payee, amount, account_id, category, subcategory
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}

		_, err = stmt.ExecContext(ctx,
			txn.ID,
			txn.Hash,
			txn.Date,
			txn.Name,
			txn.Payee,
			txn.Amount,
			txn.AccountID,
			txn.Category,
			txn.Subcategory,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	return tx.Commit()
}

// GetTransactionsByDateRange retrieves transactions in [start, end] ordered
// ascending by date.
func (s *SQLiteStorage) GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %v is before start %v", ErrInvalidDateRange, end, start)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hash, date, name, payee, amount, account_id, category, subcategory
		FROM transactions
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC, id ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var payee, accountID, category, subcategory sql.NullString

		if err := rows.Scan(&txn.ID, &txn.Hash, &txn.Date, &txn.Name,
			&payee, &txn.Amount, &accountID, &category, &subcategory); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		txn.Payee = payee.String
		txn.AccountID = accountID.String
		txn.Category = category.String
		txn.Subcategory = subcategory.String
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}

// GetMonthlyCategoryTotals returns signed month-by-month totals for one
// budget line item, ascending by month, limited to the most recent `months`
// calendar months that have any activity. An empty subcategory matches all
// subcategories of the category.
func (s *SQLiteStorage) GetMonthlyCategoryTotals(ctx context.Context, category, subcategory string, months int) ([]service.MonthlyTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}
	if months <= 0 {
		months = 12
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m', date) AS month, SUM(amount) AS total
		FROM transactions
		WHERE category = ?
		  AND (? = '' OR subcategory = ?)
		GROUP BY month
		ORDER BY month DESC
		LIMIT ?
	`, category, subcategory, subcategory, months)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var totals []service.MonthlyTotal
	for rows.Next() {
		var month string
		var total float64
		if err := rows.Scan(&month, &total); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total: %w", err)
		}

		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			return nil, fmt.Errorf("failed to parse month %q: %w", month, err)
		}
		totals = append(totals, service.MonthlyTotal{Month: parsed, Total: total})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query is newest-first for the LIMIT; callers expect ascending months.
	for i, j := 0, len(totals)-1; i < j; i, j = i+1, j-1 {
		totals[i], totals[j] = totals[j], totals[i]
	}

	return totals, nil
}
