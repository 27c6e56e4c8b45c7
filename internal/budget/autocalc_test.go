package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmorriss/ledgerscope/internal/common"
	"github.com/tmorriss/ledgerscope/internal/service"
)

func monthlyTotals(amounts ...float64) []service.MonthlyTotal {
	totals := make([]service.MonthlyTotal, len(amounts))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, amount := range amounts {
		totals[i] = service.MonthlyTotal{Month: start.AddDate(0, i, 0), Total: amount}
	}
	return totals
}

func TestCalculateRemovesOutlierMonth(t *testing.T) {
	result, err := Calculate(monthlyTotals(100, 100, 100, 100, 1000))
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.SuggestedAmount)
	assert.Equal(t, 1, result.Analysis.OutliersRemoved)
	assert.Equal(t, 4, result.Analysis.MonthsUsed)
	assert.Equal(t, 100.0, result.Analysis.Median)
}

func TestCalculateUsesSignedExpenseTotals(t *testing.T) {
	// Expense categories arrive as negative monthly sums; the suggestion is
	// still a positive budget figure.
	result, err := Calculate(monthlyTotals(-320.50, -298.10, -305.00, -312.40))
	require.NoError(t, err)

	assert.InDelta(t, 308.70, result.SuggestedAmount, 0.01)
	assert.Equal(t, 0, result.Analysis.OutliersRemoved)
}

func TestCalculateInsufficientData(t *testing.T) {
	_, err := Calculate(monthlyTotals(250))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInsufficientData)

	_, err = Calculate(nil)
	assert.ErrorIs(t, err, common.ErrInsufficientData)
}

func TestCalculateConfidenceGrowsWithHistory(t *testing.T) {
	short, err := Calculate(monthlyTotals(100, 100))
	require.NoError(t, err)

	long, err := Calculate(monthlyTotals(100, 100, 100, 100, 100, 100))
	require.NoError(t, err)

	assert.Greater(t, long.Confidence, short.Confidence)
	// Six identical months saturate the depth component with no dispersion.
	assert.Equal(t, 1.0, long.Confidence)
}

func TestCalculateConfidenceShrinksWithDispersion(t *testing.T) {
	steady, err := Calculate(monthlyTotals(200, 205, 195, 202, 198, 200))
	require.NoError(t, err)

	// Spread wide enough to survive outlier removal but raise the
	// coefficient of variation.
	volatile, err := Calculate(monthlyTotals(120, 260, 150, 240, 130, 250))
	require.NoError(t, err)

	assert.Greater(t, steady.Confidence, volatile.Confidence)
}

func TestCalculateMADCatchesModerateOutlier(t *testing.T) {
	// 90 is under the 2x ratio but far outside the MAD band of a tight series.
	result, err := Calculate(monthlyTotals(50, 52, 48, 51, 49, 90))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Analysis.OutliersRemoved)
	assert.Equal(t, 50.0, result.SuggestedAmount)
}

func TestCalculateDescriptionMatchesConfidence(t *testing.T) {
	result, err := Calculate(monthlyTotals(100, 100, 100, 100, 100, 100))
	require.NoError(t, err)

	assert.Contains(t, result.Analysis.Description, "High confidence")
	assert.Contains(t, result.Analysis.Description, "6 consistent months of history")
}
