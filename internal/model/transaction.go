// Package model defines the core domain types shared across the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single financial transaction as recorded by the
// external transaction store. Amounts are signed: negative for expenses,
// positive for income. Records are read-only to this application.
type Transaction struct {
	Date        time.Time
	ID          string
	Name        string // Raw transaction description
	Payee       string // Normalized payee supplied by the categorization subsystem
	AccountID   string
	Category    string
	Subcategory string
	Hash        string
	Amount      float64
}

// IsExpense reports whether the transaction is money leaving the account.
func (t *Transaction) IsExpense() bool {
	return t.Amount < 0
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Payee,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
