package model

import (
	"fmt"
	"strings"
	"time"
)

// FrequencyType classifies how often a recurring pattern repeats.
type FrequencyType string

const (
	// FrequencyWeekly repeats every 7 days.
	FrequencyWeekly FrequencyType = "weekly"
	// FrequencyBiweekly repeats every 14 days.
	FrequencyBiweekly FrequencyType = "biweekly"
	// FrequencyMonthly repeats every calendar month.
	FrequencyMonthly FrequencyType = "monthly"
	// FrequencyQuarterly repeats every three calendar months.
	FrequencyQuarterly FrequencyType = "quarterly"
	// FrequencyAnnual repeats every year.
	FrequencyAnnual FrequencyType = "annual"
	// FrequencyIrregular marks groups with no extrapolatable schedule.
	FrequencyIrregular FrequencyType = "irregular"
)

// ConfidenceLevel is a qualitative bucket for a confidence score.
type ConfidenceLevel string

const (
	// ConfidenceLow means the pattern's regularity is weak.
	ConfidenceLow ConfidenceLevel = "low"
	// ConfidenceMedium means the pattern is plausible but noisy.
	ConfidenceMedium ConfidenceLevel = "medium"
	// ConfidenceHigh means timing and amounts are both highly regular.
	ConfidenceHigh ConfidenceLevel = "high"
)

// PatternType indicates what kind of recurring obligation a pattern represents.
type PatternType string

const (
	// PatternTypeBill covers recurring expenses like rent and utilities.
	PatternTypeBill PatternType = "bill"
	// PatternTypeIncome covers recurring deposits like salary.
	PatternTypeIncome PatternType = "income"
	// PatternTypeSubscription covers recurring service charges.
	PatternTypeSubscription PatternType = "subscription"
)

// Occurrence is one observed instance of a recurring transaction.
type Occurrence struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// PatternCandidate is an unsaved, computed hypothesis of a recurring
// transaction. Candidates exist only for the duration of one detection run
// and carry no id until the user approves and saves them.
type PatternCandidate struct {
	NextExpected   time.Time
	LastSeen       time.Time
	Name           string
	AccountID      string
	Payee          string
	Frequency      FrequencyType
	Level          ConfidenceLevel
	Type           PatternType
	Category       string
	Subcategory    string
	Occurrences    []Occurrence
	TypicalAmount  float64
	AmountVariance float64
	Confidence     float64 // 0-100
	Interval       int     // multiples of the base frequency unit, e.g. 2 = every other month
}

// Key returns a stable content-derived identifier for the candidate.
// Consumers track selection by this key rather than by slice position, so
// re-sorting or filtering a candidate list cannot silently change which
// pattern is selected.
func (c *PatternCandidate) Key() string {
	return fmt.Sprintf("%s|%s|%s", c.AccountID, strings.ToLower(c.Payee), c.Frequency)
}

// RecurringPattern is a user-approved candidate persisted by the pattern
// store. Patterns are deactivated rather than deleted because historical
// projections may reference them.
type RecurringPattern struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	NextExpected   time.Time
	LastSeen       time.Time
	Name           string
	AccountID      string
	Payee          string
	Frequency      FrequencyType
	Level          ConfidenceLevel
	Type           PatternType
	Category       string
	Subcategory    string
	CreatedBy      string
	Occurrences    []Occurrence
	TypicalAmount  float64
	AmountVariance float64
	Confidence     float64
	ID             int64
	Interval       int
	Active         bool
}

// Candidate converts the saved pattern back to its transient form.
func (p *RecurringPattern) Candidate() PatternCandidate {
	return PatternCandidate{
		Name:           p.Name,
		AccountID:      p.AccountID,
		Payee:          p.Payee,
		TypicalAmount:  p.TypicalAmount,
		AmountVariance: p.AmountVariance,
		Frequency:      p.Frequency,
		Interval:       p.Interval,
		Occurrences:    p.Occurrences,
		Confidence:     p.Confidence,
		Level:          p.Level,
		Type:           p.Type,
		Category:       p.Category,
		Subcategory:    p.Subcategory,
		NextExpected:   p.NextExpected,
		LastSeen:       p.LastSeen,
	}
}

// Validate ensures the pattern has the fields persistence requires.
func (p *RecurringPattern) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("pattern name is required")
	}
	if strings.TrimSpace(p.AccountID) == "" {
		return fmt.Errorf("account id is required")
	}
	if strings.TrimSpace(p.Payee) == "" {
		return fmt.Errorf("payee is required")
	}
	switch p.Frequency {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly,
		FrequencyQuarterly, FrequencyAnnual, FrequencyIrregular:
	default:
		return fmt.Errorf("invalid frequency: %s", p.Frequency)
	}
	if p.Interval < 1 {
		return fmt.Errorf("interval must be at least 1")
	}
	if p.AmountVariance < 0 {
		return fmt.Errorf("amount variance cannot be negative")
	}
	if p.Confidence < 0 || p.Confidence > 100 {
		return fmt.Errorf("confidence must be between 0 and 100")
	}
	return nil
}
