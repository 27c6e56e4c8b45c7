// Package recur implements recurring-transaction inference: periodicity
// classification, confidence scoring, and pattern detection over historical
// transaction records.
package recur

import (
	"fmt"
	"time"

	"github.com/tmorriss/ledgerscope/internal/common"
	"github.com/tmorriss/ledgerscope/internal/model"
	"github.com/tmorriss/ledgerscope/internal/stats"
)

// MinOccurrences is the smallest group size that can be classified.
const MinOccurrences = 2

// maxIntervalMultiplier bounds the search for every-Nth-period schedules.
const maxIntervalMultiplier = 12

// frequencyWindow is a tolerant day-gap range for one base frequency.
type frequencyWindow struct {
	frequency model.FrequencyType
	minDays   float64
	maxDays   float64
}

// Windows are ordered smallest unit first. With the multiplier searched in
// the outer loop, an ambiguous gap that fits both "every 4th biweek" and
// "every 2nd month" resolves to the smaller multiplier.
var frequencyWindows = []frequencyWindow{
	{model.FrequencyWeekly, 6, 8},
	{model.FrequencyBiweekly, 13, 15},
	{model.FrequencyMonthly, 28, 31},
	{model.FrequencyQuarterly, 89, 92},
	{model.FrequencyAnnual, 360, 370},
}

// Classification is the inferred schedule for one occurrence group.
type Classification struct {
	NextExpected time.Time
	Frequency    model.FrequencyType
	MedianGap    float64
	Interval     int
}

// Classify infers the repeat frequency of a date-ordered occurrence
// sequence from the median inter-occurrence gap. The median resists the
// occasional late payment or double charge that would drag a mean. Groups
// whose gap fits no tolerant window classify as irregular rather than
// failing. Fewer than MinOccurrences occurrences returns
// common.ErrInsufficientData.
func Classify(occurrences []model.Occurrence) (*Classification, error) {
	if len(occurrences) < MinOccurrences {
		return nil, fmt.Errorf("%w: need at least %d occurrences, got %d",
			common.ErrInsufficientData, MinOccurrences, len(occurrences))
	}

	gaps := interOccurrenceGaps(occurrences)
	medianGap := stats.Median(gaps)
	last := occurrences[len(occurrences)-1].Date

	for multiplier := 1; multiplier <= maxIntervalMultiplier; multiplier++ {
		for _, w := range frequencyWindows {
			m := float64(multiplier)
			if medianGap >= w.minDays*m && medianGap <= w.maxDays*m {
				return &Classification{
					Frequency:    w.frequency,
					Interval:     multiplier,
					MedianGap:    medianGap,
					NextExpected: StepSchedule(last, w.frequency, multiplier),
				}, nil
			}
		}
	}

	// No window matched: the gaps are either too dispersed or sit on a
	// cadence we do not model. Irregular groups still surface as candidates
	// but are excluded from balance projection.
	return &Classification{
		Frequency:    model.FrequencyIrregular,
		Interval:     1,
		MedianGap:    medianGap,
		NextExpected: last.AddDate(0, 0, int(medianGap)),
	}, nil
}

// StepSchedule advances a date by one frequency interval. Month-based
// frequencies step by calendar months so a bill due on the 6th stays on the
// 6th across 30- and 31-day months.
func StepSchedule(from time.Time, frequency model.FrequencyType, interval int) time.Time {
	switch frequency {
	case model.FrequencyWeekly:
		return from.AddDate(0, 0, 7*interval)
	case model.FrequencyBiweekly:
		return from.AddDate(0, 0, 14*interval)
	case model.FrequencyMonthly:
		return from.AddDate(0, interval, 0)
	case model.FrequencyQuarterly:
		return from.AddDate(0, 3*interval, 0)
	case model.FrequencyAnnual:
		return from.AddDate(interval, 0, 0)
	default:
		return from
	}
}

// interOccurrenceGaps returns the day counts between consecutive occurrences.
func interOccurrenceGaps(occurrences []model.Occurrence) []float64 {
	gaps := make([]float64, 0, len(occurrences)-1)
	for i := 1; i < len(occurrences); i++ {
		days := occurrences[i].Date.Sub(occurrences[i-1].Date).Hours() / 24
		gaps = append(gaps, days)
	}
	return gaps
}
