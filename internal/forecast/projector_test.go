package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmorriss/ledgerscope/internal/common"
	"github.com/tmorriss/ledgerscope/internal/model"
)

var projectionStart = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func monthlyPattern(id int64, payee string, amount float64, nextExpected time.Time) model.RecurringPattern {
	return model.RecurringPattern{
		ID:            id,
		Name:          payee + " (monthly)",
		AccountID:     "checking",
		Payee:         payee,
		TypicalAmount: amount,
		Frequency:     model.FrequencyMonthly,
		Interval:      1,
		Confidence:    90,
		Level:         model.ConfidenceHigh,
		Type:          model.PatternTypeBill,
		NextExpected:  nextExpected,
		LastSeen:      nextExpected.AddDate(0, -1, 0),
		Active:        true,
	}
}

func TestProjectMonthlyPatternMatchesExactDays(t *testing.T) {
	// Next charge on June 6th (day 5 of the window); the following one lands
	// July 6th, which is day 35 because June has 30 days. Both fall inside a
	// 40-day window.
	pattern := monthlyPattern(1, "Oakwood Property", -50,
		time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC))

	projection, err := Project(1000, 40, projectionStart, []model.RecurringPattern{pattern})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, projection.StartingBalance)
	assert.Equal(t, 900.0, projection.FinalBalance)
	assert.Equal(t, -100.0, projection.TotalChange)
	assert.Equal(t, 1, projection.PatternsUsed)
	assert.Equal(t, -100.0, projection.ProjectedExpenses)
	assert.Equal(t, 0.0, projection.ProjectedIncome)
	require.Len(t, projection.Daily, 40)

	for i, day := range projection.Daily {
		switch i {
		case 4: // day 5, 2024-06-06
			assert.Equal(t, time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC), day.Date)
			assert.Equal(t, -50.0, day.Change)
			assert.Equal(t, 950.0, day.Balance)
			require.Len(t, day.Transactions, 1)
			assert.Equal(t, "Oakwood Property", day.Transactions[0].Payee)
		case 34: // day 35, 2024-07-06
			assert.Equal(t, time.Date(2024, 7, 6, 0, 0, 0, 0, time.UTC), day.Date)
			assert.Equal(t, -50.0, day.Change)
			assert.Equal(t, 900.0, day.Balance)
		default:
			assert.Equal(t, 0.0, day.Change, "unexpected change on day %d", i+1)
		}
	}
}

func TestProjectBalanceIsCumulative(t *testing.T) {
	pattern := monthlyPattern(1, "Rent", -100, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))

	projection, err := Project(500, 90, projectionStart, []model.RecurringPattern{pattern})
	require.NoError(t, err)

	previous := projection.StartingBalance
	for _, day := range projection.Daily {
		assert.InDelta(t, previous+day.Change, day.Balance, 1e-9)
		previous = day.Balance
	}
	assert.InDelta(t, previous, projection.FinalBalance, 1e-9)
}

func TestProjectZeroDaysIsIdentity(t *testing.T) {
	pattern := monthlyPattern(1, "Rent", -100, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))

	projection, err := Project(1234.56, 0, projectionStart, []model.RecurringPattern{pattern})
	require.NoError(t, err)

	assert.Equal(t, 1234.56, projection.FinalBalance)
	assert.Equal(t, 0.0, projection.TotalChange)
	assert.Empty(t, projection.Daily)
}

func TestProjectRejectsOutOfBoundsDays(t *testing.T) {
	for _, days := range []int{-1, MaxProjectionDays + 1} {
		_, err := Project(100, days, projectionStart, nil)
		require.Error(t, err, "days %d", days)
		assert.ErrorIs(t, err, common.ErrValidation)
	}
}

func TestProjectExcludesIrregularAndInactivePatterns(t *testing.T) {
	irregular := monthlyPattern(1, "Groceries", -80, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	irregular.Frequency = model.FrequencyIrregular

	inactive := monthlyPattern(2, "Old Gym", -40, time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC))
	inactive.Active = false

	projection, err := Project(100, 60, projectionStart,
		[]model.RecurringPattern{irregular, inactive})
	require.NoError(t, err)

	assert.Equal(t, 100.0, projection.FinalBalance)
	assert.Equal(t, 0, projection.PatternsUsed)
}

func TestProjectSumsSameDayMatches(t *testing.T) {
	// Two distinct obligations sharing a billing date are both applied.
	sameDay := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	first := monthlyPattern(1, "Netflix.com", -15.49, sameDay)
	second := monthlyPattern(2, "Hulu", -12.99, sameDay)

	projection, err := Project(200, 14, projectionStart,
		[]model.RecurringPattern{first, second})
	require.NoError(t, err)

	assert.Equal(t, 2, projection.PatternsUsed)
	require.Len(t, projection.Daily, 14)

	day := projection.Daily[8] // day 9, 2024-06-10
	assert.Equal(t, sameDay, day.Date)
	assert.InDelta(t, -28.48, day.Change, 1e-9)
	assert.Len(t, day.Transactions, 2)
}

func TestProjectIncomeAndExpenseSums(t *testing.T) {
	salary := monthlyPattern(1, "ACME Payroll", 2150, time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC))
	salary.Frequency = model.FrequencyBiweekly
	salary.Type = model.PatternTypeIncome
	rent := monthlyPattern(2, "Oakwood Property", -1450, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	projection, err := Project(0, 30, projectionStart,
		[]model.RecurringPattern{salary, rent})
	require.NoError(t, err)

	// Salary on Jun 5 and Jun 19; rent's NextExpected of Jun 1 equals the
	// window start, so the first in-window charge is Jul 1.
	assert.Equal(t, 2150.0*2, projection.ProjectedIncome)
	assert.Equal(t, -1450.0, projection.ProjectedExpenses)
	assert.Equal(t, 2150.0*2-1450.0, projection.FinalBalance)
	assert.Equal(t, 2, projection.PatternsUsed)
}

func TestProjectStepsOverPastDueDates(t *testing.T) {
	// NextExpected far in the past: missed occurrences are not backfilled,
	// the schedule just advances into the window.
	pattern := monthlyPattern(1, "Rent", -100, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	projection, err := Project(1000, 30, projectionStart, []model.RecurringPattern{pattern})
	require.NoError(t, err)

	// Only June 15th lands in the 30-day window.
	assert.Equal(t, 900.0, projection.FinalBalance)
	assert.Equal(t, -100.0, projection.Daily[13].Change)
}
