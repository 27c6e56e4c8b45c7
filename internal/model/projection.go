package model

import "time"

// ProjectedTransaction is one pattern occurrence predicted for a future day.
type ProjectedTransaction struct {
	PatternName string  `json:"pattern_name"`
	Payee       string  `json:"payee"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Amount      float64 `json:"amount"`
	Confidence  float64 `json:"confidence"`
}

// DailyProjection is the simulated ledger state for one future day.
type DailyProjection struct {
	Date         time.Time              `json:"date"`
	Transactions []ProjectedTransaction `json:"transactions"`
	Balance      float64                `json:"balance"`
	Change       float64                `json:"change"`
}

// BalanceProjection is the result of simulating an account balance forward
// from a starting point using the active recurring patterns.
type BalanceProjection struct {
	Daily             []DailyProjection `json:"daily"`
	StartingBalance   float64           `json:"starting_balance"`
	FinalBalance      float64           `json:"final_balance"`
	TotalChange       float64           `json:"total_change"`
	ProjectedIncome   float64           `json:"projected_income"`
	ProjectedExpenses float64           `json:"projected_expenses"`
	Days              int               `json:"days"`
	PatternsUsed      int               `json:"patterns_used"`
}
