// Package forecast simulates a forward daily account-balance trajectory
// from a set of active recurring patterns.
package forecast

import (
	"math"
	"time"

	"github.com/tmorriss/ledgerscope/internal/common"
	"github.com/tmorriss/ledgerscope/internal/model"
	"github.com/tmorriss/ledgerscope/internal/recur"
)

// Projection window bounds. Out-of-range requests are rejected, not clamped:
// a caller asking for 5000 days has a bug we should surface.
const (
	MaxProjectionDays = 365
)

// Project simulates the balance day by day from the day after `from`.
// Each active non-irregular pattern contributes its typical amount on every
// day its extrapolated schedule lands inside the window; multiple patterns
// landing on the same day are summed, since distinct obligations can share a
// billing date. Amounts are deterministic point estimates. days == 0 is a
// valid identity projection: the starting balance with no daily sequence.
func Project(startingBalance float64, days int, from time.Time, patterns []model.RecurringPattern) (*model.BalanceProjection, error) {
	if days < 0 || days > MaxProjectionDays {
		return nil, common.NewValidationError(
			"projection days must be between 0 and %d, got %d", MaxProjectionDays, days)
	}

	from = truncateToDay(from)

	projection := &model.BalanceProjection{
		StartingBalance: startingBalance,
		FinalBalance:    startingBalance,
		Days:            days,
	}
	if days == 0 {
		return projection, nil
	}

	windowEnd := from.AddDate(0, 0, days)
	matchesByDay := make(map[int][]model.ProjectedTransaction, days)
	matched := make(map[int64]bool)

	for _, pattern := range patterns {
		if !pattern.Active || pattern.Frequency == model.FrequencyIrregular {
			continue
		}

		for _, date := range scheduleDates(pattern, from, windowEnd) {
			day := dayIndex(from, date)
			matchesByDay[day] = append(matchesByDay[day], model.ProjectedTransaction{
				PatternName: pattern.Name,
				Payee:       pattern.Payee,
				Amount:      pattern.TypicalAmount,
				Confidence:  pattern.Confidence,
				Category:    pattern.Category,
				Subcategory: pattern.Subcategory,
			})
			matched[pattern.ID] = true

			if pattern.TypicalAmount >= 0 {
				projection.ProjectedIncome += pattern.TypicalAmount
			} else {
				projection.ProjectedExpenses += pattern.TypicalAmount
			}
		}
	}

	balance := startingBalance
	projection.Daily = make([]model.DailyProjection, 0, days)
	for d := 1; d <= days; d++ {
		var change float64
		for _, txn := range matchesByDay[d] {
			change += txn.Amount
		}
		balance += change

		projection.Daily = append(projection.Daily, model.DailyProjection{
			Date:         from.AddDate(0, 0, d),
			Transactions: matchesByDay[d],
			Change:       change,
			Balance:      balance,
		})
	}

	projection.FinalBalance = balance
	projection.TotalChange = balance - startingBalance
	projection.PatternsUsed = len(matched)

	return projection, nil
}

// scheduleDates extrapolates a pattern's schedule into (from, end]. The
// schedule anchors on NextExpected when the detector provided one, falling
// back to stepping forward from the last observed occurrence. Dates already
// in the past are stepped over, not backfilled: a missed bill is the
// reconciliation system's problem, not the projection's.
func scheduleDates(pattern model.RecurringPattern, from, end time.Time) []time.Time {
	next := truncateToDay(pattern.NextExpected)
	if next.IsZero() {
		next = recur.StepSchedule(truncateToDay(pattern.LastSeen), pattern.Frequency, pattern.Interval)
	}

	var dates []time.Time
	for !next.After(end) {
		if next.After(from) {
			dates = append(dates, next)
		}
		next = recur.StepSchedule(next, pattern.Frequency, pattern.Interval)
	}
	return dates
}

// dayIndex returns the 1-based day offset of date from the window start.
// Rounded, not truncated, so a DST-shortened day still lands on its
// calendar date.
func dayIndex(from, date time.Time) int {
	return int(math.Round(date.Sub(from).Hours() / 24))
}

func truncateToDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
