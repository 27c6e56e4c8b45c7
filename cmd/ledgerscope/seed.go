package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tmorriss/ledgerscope/internal/cli"
	"github.com/tmorriss/ledgerscope/internal/model"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert deterministic sample transactions",
		Long: `Populate the local database with a year of deterministic sample
transactions: a biweekly salary, monthly rent and subscriptions, a varying
utility bill, and scattered one-off purchases. Useful for trying the
detection and projection pipeline without a transaction feed; existing rows
are untouched (inserts are deduplicated by hash).`,
		RunE: runSeed,
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	transactions := sampleTransactions(time.Now())
	if err := store.SaveTransactions(ctx, transactions); err != nil {
		return fmt.Errorf("failed to save sample transactions: %w", err)
	}

	fmt.Println(cli.SuccessStyle.Render(
		fmt.Sprintf("Seeded %d sample transactions", len(transactions))))
	return nil
}

// sampleTransactions builds about a year of history ending near `now`. The
// set is deterministic apart from its anchor date.
func sampleTransactions(now time.Time) []model.Transaction {
	anchor := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, time.UTC).AddDate(0, -12, 0)
	var txns []model.Transaction
	n := 0

	add := func(date time.Time, payee, category, subcategory string, amount float64) {
		n++
		txn := model.Transaction{
			ID:          fmt.Sprintf("seed-%04d", n),
			Date:        date,
			Name:        payee,
			Payee:       payee,
			AccountID:   "checking",
			Amount:      amount,
			Category:    category,
			Subcategory: subcategory,
		}
		txn.Hash = txn.GenerateHash()
		txns = append(txns, txn)
	}

	// Biweekly salary
	for d := anchor.AddDate(0, 0, 4); d.Before(now); d = d.AddDate(0, 0, 14) {
		add(d, "ACME Payroll", "Income", "Salary", 2150.00)
	}

	// Monthly fixed obligations
	for m := 0; m < 12; m++ {
		base := anchor.AddDate(0, m, 0)
		add(base, "Oakwood Property Mgmt", "Housing", "Rent", -1450.00)
		add(base.AddDate(0, 0, 9), "Netflix.com", "Entertainment", "Streaming", -15.49)
		add(base.AddDate(0, 0, 14), "City Power & Light", "Utilities", "Electric",
			-80.00-float64((m*13)%40)) // seasonal-ish variation
	}

	// Quarterly insurance
	for q := 0; q < 4; q++ {
		add(anchor.AddDate(0, q*3, 19), "Granite Auto Insurance", "Insurance", "Auto", -310.00)
	}

	// One-off purchases that should not form patterns
	add(anchor.AddDate(0, 1, 7), "Al's Appliance Barn", "Household", "", -899.00)
	add(anchor.AddDate(0, 5, 2), "Cascade Airlines", "Travel", "", -412.50)
	add(anchor.AddDate(0, 8, 21), "Pine Street Books", "Entertainment", "", -34.20)

	return txns
}
