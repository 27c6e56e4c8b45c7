package recur

import (
	"fmt"
	"math"

	"github.com/tmorriss/ledgerscope/internal/model"
	"github.com/tmorriss/ledgerscope/internal/stats"
)

// Confidence scoring constants. Tests assert exact boundaries, so these are
// named rather than inlined.
const (
	// HighConfidenceMin is the lowest score bucketed as high confidence.
	HighConfidenceMin = 80.0
	// MediumConfidenceMin is the lowest score bucketed as medium confidence.
	MediumConfidenceMin = 50.0
	// SparseOccurrenceCap caps the score when fewer than
	// minScoredOccurrences occurrences exist, however regular they look.
	SparseOccurrenceCap = 50.0

	// minScoredOccurrences is the occurrence count below which the sparse
	// cap applies.
	minScoredOccurrences = 3

	timingWeight = 0.6
	amountWeight = 0.4
)

// Score combines timing and amount regularity into a 0-100 confidence score.
// Each sub-score is 1 - clamp(coefficient of variation, 0, 1): a perfectly
// even series scores 1, a series whose spread rivals its mean scores 0.
// Timing regularity is weighted over amount regularity because billing dates
// drift less than amounts (usage-based bills vary in amount yet are still
// firmly recurring).
func Score(occurrences []model.Occurrence) (float64, model.ConfidenceLevel) {
	gaps := interOccurrenceGaps(occurrences)

	amounts := make([]float64, len(occurrences))
	for i, o := range occurrences {
		amounts[i] = math.Abs(o.Amount)
	}

	timingScore := 1 - stats.Clamp(stats.CoefficientOfVariation(gaps), 0, 1)
	amountScore := 1 - stats.Clamp(stats.CoefficientOfVariation(amounts), 0, 1)

	score := (timingWeight*timingScore + amountWeight*amountScore) * 100

	// Two data points can look perfectly regular by construction. Cap the
	// score until enough history exists to trust the regularity.
	if len(occurrences) < minScoredOccurrences && score > SparseOccurrenceCap {
		score = SparseOccurrenceCap
	}

	return math.Round(score*10) / 10, LevelForScore(score)
}

// LevelForScore buckets a 0-100 score into a qualitative level.
func LevelForScore(score float64) model.ConfidenceLevel {
	switch {
	case score >= HighConfidenceMin:
		return model.ConfidenceHigh
	case score >= MediumConfidenceMin:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// DescribeConfidence renders a short human-readable sentence for a
// confidence level backed by n samples. The budget estimator reuses this for
// its own confidence description.
func DescribeConfidence(level model.ConfidenceLevel, n int, sampleNoun string) string {
	switch level {
	case model.ConfidenceHigh:
		return fmt.Sprintf("High confidence based on %d consistent %s.", n, sampleNoun)
	case model.ConfidenceMedium:
		return fmt.Sprintf("Moderate confidence based on %d %s; amounts or timing vary somewhat.", n, sampleNoun)
	default:
		return fmt.Sprintf("Low confidence: only %d %s, or the history is noisy.", n, sampleNoun)
	}
}
