// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/tmorriss/ledgerscope/internal/model"
)

// MonthlyTotal is the summed signed amount for one calendar month of a
// budget line item.
type MonthlyTotal struct {
	Month time.Time
	Total float64
}

// TransactionReader is the read-only view of the transaction store consumed
// by pattern detection and budget estimation. Records are ordered ascending
// by date.
type TransactionReader interface {
	GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error)
	GetMonthlyCategoryTotals(ctx context.Context, category, subcategory string, months int) ([]MonthlyTotal, error)
}

// PatternStore persists user-approved recurring patterns. Patterns follow an
// append-only lifecycle: they are deactivated, never deleted.
type PatternStore interface {
	// SavePattern persists the pattern and assigns its id.
	SavePattern(ctx context.Context, pattern *model.RecurringPattern) error
	// ListPatterns returns saved patterns, optionally restricted to active ones.
	ListPatterns(ctx context.Context, activeOnly bool) ([]model.RecurringPattern, error)
	// GetPattern returns the pattern with the given id or common.ErrNotFound.
	GetPattern(ctx context.Context, id int64) (*model.RecurringPattern, error)
	// DeactivatePattern marks the pattern inactive or returns common.ErrNotFound.
	DeactivatePattern(ctx context.Context, id int64) error
	// CountActivePatterns reports how many active patterns share the given
	// (account, payee, frequency) key, so callers can warn about duplicates.
	CountActivePatterns(ctx context.Context, accountID, payee string, frequency model.FrequencyType) (int, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	TransactionReader
	PatternStore

	// SaveTransactions writes transaction records. The application core only
	// reads transactions; this write path exists for seeding and tests.
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error

	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents an atomic set of pattern store writes.
type Transaction interface {
	PatternStore

	Commit() error
	Rollback() error
}
