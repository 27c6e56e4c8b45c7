package recur

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tmorriss/ledgerscope/internal/model"
)

func TestScorePerfectRegularityHitsCeiling(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	occurrences := occurrencesAt(start, -15.49, 30, 30, 30, 30)

	score, level := Score(occurrences)

	assert.Equal(t, 100.0, score)
	assert.Equal(t, model.ConfidenceHigh, level)
}

func TestScoreSparseOccurrencesAreCapped(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Two occurrences always look perfectly regular; the cap keeps the
	// score conservative until more history accumulates.
	score, level := Score(occurrencesAt(start, -50, 30))

	assert.Equal(t, SparseOccurrenceCap, score)
	assert.Equal(t, model.ConfidenceMedium, level)
}

func TestScoreNoisyAmountsLowerTheScore(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	regular := occurrencesAt(start, -100, 30, 30, 30)

	noisy := make([]model.Occurrence, len(regular))
	copy(noisy, regular)
	noisy[1].Amount = -400
	noisy[2].Amount = -20

	regularScore, _ := Score(regular)
	noisyScore, _ := Score(noisy)

	assert.Less(t, noisyScore, regularScore)
	// Timing is still perfect, so the timing weight holds the floor.
	assert.GreaterOrEqual(t, noisyScore, timingWeight*100-1)
}

func TestLevelForScoreBoundaries(t *testing.T) {
	tests := []struct {
		want  model.ConfidenceLevel
		score float64
	}{
		{model.ConfidenceHigh, 100},
		{model.ConfidenceHigh, HighConfidenceMin},
		{model.ConfidenceMedium, HighConfidenceMin - 0.1},
		{model.ConfidenceMedium, MediumConfidenceMin},
		{model.ConfidenceLow, MediumConfidenceMin - 0.1},
		{model.ConfidenceLow, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForScore(tt.score), "score %.1f", tt.score)
	}
}

func TestDescribeConfidence(t *testing.T) {
	high := DescribeConfidence(model.ConfidenceHigh, 8, "occurrences")
	assert.Contains(t, high, "High confidence")
	assert.Contains(t, high, "8 consistent occurrences")

	low := DescribeConfidence(model.ConfidenceLow, 2, "months of history")
	assert.Contains(t, low, "Low confidence")
}
