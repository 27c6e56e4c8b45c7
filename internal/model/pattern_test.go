package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPattern() RecurringPattern {
	return RecurringPattern{
		Name:       "Netflix.com (monthly)",
		AccountID:  "checking",
		Payee:      "Netflix.com",
		Frequency:  FrequencyMonthly,
		Interval:   1,
		Confidence: 90,
	}
}

func TestPatternCandidateKeyIsStable(t *testing.T) {
	candidate := PatternCandidate{
		AccountID: "checking",
		Payee:     "Netflix.com",
		Frequency: FrequencyMonthly,
	}

	assert.Equal(t, "checking|netflix.com|monthly", candidate.Key())

	// Payee casing does not change the key.
	upper := candidate
	upper.Payee = "NETFLIX.COM"
	assert.Equal(t, candidate.Key(), upper.Key())

	// Frequency does.
	weekly := candidate
	weekly.Frequency = FrequencyWeekly
	assert.NotEqual(t, candidate.Key(), weekly.Key())
}

func TestRecurringPatternValidate(t *testing.T) {
	tests := []struct {
		mutate  func(*RecurringPattern)
		name    string
		wantErr string
	}{
		{name: "valid", mutate: func(*RecurringPattern) {}},
		{
			name:    "missing name",
			mutate:  func(p *RecurringPattern) { p.Name = " " },
			wantErr: "pattern name",
		},
		{
			name:    "missing account",
			mutate:  func(p *RecurringPattern) { p.AccountID = "" },
			wantErr: "account id",
		},
		{
			name:    "unknown frequency",
			mutate:  func(p *RecurringPattern) { p.Frequency = "fortnightly" },
			wantErr: "invalid frequency",
		},
		{
			name:    "zero interval",
			mutate:  func(p *RecurringPattern) { p.Interval = 0 },
			wantErr: "interval",
		},
		{
			name:    "negative variance",
			mutate:  func(p *RecurringPattern) { p.AmountVariance = -1 },
			wantErr: "variance",
		},
		{
			name:    "confidence out of range",
			mutate:  func(p *RecurringPattern) { p.Confidence = 101 },
			wantErr: "confidence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern := validPattern()
			tt.mutate(&pattern)

			err := pattern.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRecurringPatternCandidateRoundTrip(t *testing.T) {
	pattern := validPattern()
	pattern.Occurrences = []Occurrence{
		{Date: time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), Amount: -15.49},
		{Date: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), Amount: -15.49},
	}
	pattern.LastSeen = pattern.Occurrences[1].Date

	candidate := pattern.Candidate()

	assert.Equal(t, pattern.Payee, candidate.Payee)
	assert.Equal(t, pattern.Frequency, candidate.Frequency)
	assert.Equal(t, pattern.Occurrences, candidate.Occurrences)
	assert.Equal(t, pattern.LastSeen, candidate.LastSeen)
}

func TestTransactionIsExpense(t *testing.T) {
	expense := Transaction{Amount: -12.5}
	income := Transaction{Amount: 2150}

	assert.True(t, expense.IsExpense())
	assert.False(t, income.IsExpense())
}
