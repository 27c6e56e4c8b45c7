// Package budget implements outlier-robust budget amount suggestions from
// historical monthly spending totals.
package budget

import (
	"fmt"
	"math"

	"github.com/tmorriss/ledgerscope/internal/common"
	"github.com/tmorriss/ledgerscope/internal/model"
	"github.com/tmorriss/ledgerscope/internal/recur"
	"github.com/tmorriss/ledgerscope/internal/service"
	"github.com/tmorriss/ledgerscope/internal/stats"
)

// Estimation constants. Named so boundary tests can assert against them.
const (
	// MinMonths is the least history required for a suggestion.
	MinMonths = 2
	// OutlierRatio removes months more than this multiple away from the
	// median (in either direction).
	OutlierRatio = 2.0
	// MADThreshold removes months whose deviation from the median exceeds
	// this many median absolute deviations.
	MADThreshold = 3.5
	// saturationMonths is the history depth at which the months component
	// of confidence stops growing.
	saturationMonths = 6.0
)

// Analysis explains how a suggestion was derived.
type Analysis struct {
	Description     string  `json:"confidence_description"`
	Median          float64 `json:"median"`
	MonthsUsed      int     `json:"months_used"`
	OutliersRemoved int     `json:"outliers_removed"`
}

// Result is an advisory budget suggestion. It is never applied
// automatically; the caller decides whether to write it to the budget.
type Result struct {
	Analysis        Analysis `json:"analysis"`
	SuggestedAmount float64  `json:"suggested_amount"`
	Confidence      float64  `json:"confidence"` // 0-1
}

// Calculate suggests a budget amount for one line item from its monthly
// totals. The estimate is a median recomputed after outlier removal: the
// median (not the mean) so a single one-off large purchase cannot drag the
// suggestion, and outliers dropped first so the reported dispersion reflects
// the months that actually look like each other. Fewer than MinMonths months
// returns common.ErrInsufficientData.
func Calculate(totals []service.MonthlyTotal) (*Result, error) {
	if len(totals) < MinMonths {
		return nil, fmt.Errorf("%w: need at least %d months of history, got %d",
			common.ErrInsufficientData, MinMonths, len(totals))
	}

	// Work on magnitudes: expense totals arrive negative, and a budget
	// amount is always a positive figure.
	amounts := make([]float64, len(totals))
	for i, t := range totals {
		amounts[i] = math.Abs(t.Total)
	}

	median := stats.Median(amounts)
	filtered, removed := removeOutliers(amounts, median)

	// Every month an outlier can only happen with a degenerate spread
	// estimate; fall back to the unfiltered series.
	if len(filtered) == 0 {
		filtered = amounts
		removed = 0
	}

	suggested := stats.Median(filtered)
	confidence := confidenceFor(filtered)
	level := recur.LevelForScore(confidence * 100)

	return &Result{
		SuggestedAmount: round2(suggested),
		Confidence:      confidence,
		Analysis: Analysis{
			MonthsUsed:      len(filtered),
			Median:          round2(suggested),
			OutliersRemoved: removed,
			Description:     recur.DescribeConfidence(level, len(filtered), "months of history"),
		},
	}, nil
}

// removeOutliers drops months that deviate from the median by more than
// OutlierRatio as a multiple, or by more than MADThreshold median absolute
// deviations. The MAD rule only applies when the MAD is nonzero: a run of
// identical months has MAD 0, which would flag every other value.
func removeOutliers(amounts []float64, median float64) ([]float64, int) {
	mad := stats.MedianAbsoluteDeviation(amounts)

	filtered := make([]float64, 0, len(amounts))
	removed := 0
	for _, a := range amounts {
		if isOutlier(a, median, mad) {
			removed++
			continue
		}
		filtered = append(filtered, a)
	}
	return filtered, removed
}

func isOutlier(amount, median, mad float64) bool {
	if median > 0 && (amount > median*OutlierRatio || amount < median/OutlierRatio) {
		return true
	}
	if mad > 0 && math.Abs(amount-median)/mad > MADThreshold {
		return true
	}
	return false
}

// confidenceFor grows with history depth (saturating at saturationMonths)
// and shrinks with the residual dispersion of the filtered months.
func confidenceFor(filtered []float64) float64 {
	depth := math.Min(float64(len(filtered))/saturationMonths, 1.0)
	regularity := 1 - stats.Clamp(stats.CoefficientOfVariation(filtered), 0, 1)
	return math.Round(depth*regularity*100) / 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LevelFor exposes the qualitative bucket for a 0-1 budget confidence so
// callers can render it consistently with pattern confidence levels.
func LevelFor(confidence float64) model.ConfidenceLevel {
	return recur.LevelForScore(confidence * 100)
}
