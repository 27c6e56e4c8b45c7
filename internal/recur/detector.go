package recur

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/tmorriss/ledgerscope/internal/common"
	"github.com/tmorriss/ledgerscope/internal/model"
	"github.com/tmorriss/ledgerscope/internal/service"
	"github.com/tmorriss/ledgerscope/internal/stats"
)

// DefaultLookbackDays is the detection window used when the caller does not
// specify one.
const DefaultLookbackDays = 365

// GroupKey identifies one candidate group. An explicit struct key rather
// than a concatenated string: payees containing the separator character can
// never collide into the wrong group.
type GroupKey struct {
	AccountID string
	Payee     string
}

// Result is the outcome of one detection run.
type Result struct {
	Candidates   []model.PatternCandidate
	LookbackDays int
	GroupCount   int
	Skipped      int
}

// Detector finds recurring transaction patterns in historical records.
// It is read-only: detection never mutates the store.
type Detector struct {
	reader service.TransactionReader
	now    func() time.Time

	// Progress, if set, is called after each group is processed.
	Progress func(done, total int)
}

// NewDetector creates a detector over the given transaction reader.
func NewDetector(reader service.TransactionReader) *Detector {
	return &Detector{
		reader: reader,
		now:    time.Now,
	}
}

// Detect scans the lookback window, groups transactions by
// (account, normalized payee), and emits candidates ranked by confidence.
// Malformed records are skipped with a warning; an empty window yields an
// empty candidate list, not an error.
func (d *Detector) Detect(ctx context.Context, lookbackDays int) (*Result, error) {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}

	end := d.now()
	start := end.AddDate(0, 0, -lookbackDays)

	transactions, err := d.reader.GetTransactionsByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	groups, skipped := groupTransactions(transactions)

	// Sort group keys so identical input always yields identical output.
	keys := make([]GroupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].AccountID != keys[j].AccountID {
			return keys[i].AccountID < keys[j].AccountID
		}
		return keys[i].Payee < keys[j].Payee
	})

	result := &Result{
		LookbackDays: lookbackDays,
		GroupCount:   len(keys),
		Skipped:      skipped,
	}

	for i, key := range keys {
		group := groups[key]
		if candidate := d.buildCandidate(key, group); candidate != nil {
			result.Candidates = append(result.Candidates, *candidate)
		}
		if d.Progress != nil {
			d.Progress(i+1, len(keys))
		}
	}

	sort.SliceStable(result.Candidates, func(i, j int) bool {
		if result.Candidates[i].Confidence != result.Candidates[j].Confidence {
			return result.Candidates[i].Confidence > result.Candidates[j].Confidence
		}
		return result.Candidates[i].Key() < result.Candidates[j].Key()
	})

	return result, nil
}

// buildCandidate classifies and scores one group. Groups too small to
// classify return nil and are dropped silently: a single charge is not a
// pattern.
func (d *Detector) buildCandidate(key GroupKey, group []model.Transaction) *model.PatternCandidate {
	if len(group) < MinOccurrences {
		return nil
	}

	sort.Slice(group, func(i, j int) bool {
		return group[i].Date.Before(group[j].Date)
	})

	occurrences := make([]model.Occurrence, len(group))
	amounts := make([]float64, len(group))
	for i, txn := range group {
		occurrences[i] = model.Occurrence{Date: txn.Date, Amount: txn.Amount}
		amounts[i] = txn.Amount
	}

	classification, err := Classify(occurrences)
	if err != nil {
		common.LogWarn("dropping unclassifiable group", common.Fields{
			"account": key.AccountID, "payee": key.Payee, "error": err,
		})
		return nil
	}

	score, level := Score(occurrences)
	typical := stats.Median(amounts)
	category, subcategory := dominantCategory(group)
	payee := displayPayee(group)

	return &model.PatternCandidate{
		Name:           fmt.Sprintf("%s (%s)", payee, classification.Frequency),
		AccountID:      key.AccountID,
		Payee:          payee,
		TypicalAmount:  typical,
		AmountVariance: stats.StdDev(amounts),
		Frequency:      classification.Frequency,
		Interval:       classification.Interval,
		Occurrences:    occurrences,
		Confidence:     score,
		Level:          level,
		Type:           inferPatternType(typical, category),
		Category:       category,
		Subcategory:    subcategory,
		NextExpected:   classification.NextExpected,
		LastSeen:       occurrences[len(occurrences)-1].Date,
	}
}

// groupTransactions buckets valid records by (account, normalized payee) and
// counts the malformed ones it skipped.
func groupTransactions(transactions []model.Transaction) (map[GroupKey][]model.Transaction, int) {
	groups := make(map[GroupKey][]model.Transaction)
	skipped := 0

	for _, txn := range transactions {
		if !validRecord(txn) {
			skipped++
			common.LogWarn("skipping malformed transaction record", common.Fields{
				"id": txn.ID, "date": txn.Date, "amount": txn.Amount,
			})
			continue
		}

		key := GroupKey{
			AccountID: txn.AccountID,
			Payee:     NormalizePayee(payeeOrName(txn)),
		}
		if key.Payee == "" {
			skipped++
			continue
		}
		groups[key] = append(groups[key], txn)
	}

	return groups, skipped
}

func validRecord(txn model.Transaction) bool {
	if txn.Date.IsZero() {
		return false
	}
	if math.IsNaN(txn.Amount) || math.IsInf(txn.Amount, 0) {
		return false
	}
	return txn.AccountID != ""
}

func payeeOrName(txn model.Transaction) string {
	if txn.Payee != "" {
		return txn.Payee
	}
	return txn.Name
}

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9 ]+`)
	trailingDigits  = regexp.MustCompile(`\s+#?\d{3,}$`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// NormalizePayee reduces a raw payee string to a grouping key: lowercase,
// punctuation stripped, trailing store/reference numbers removed, whitespace
// collapsed. "NETFLIX.COM" and "Netflix .com 88123" group together.
func NormalizePayee(payee string) string {
	s := strings.ToLower(strings.TrimSpace(payee))
	s = nonAlphanumeric.ReplaceAllString(s, " ")
	s = trailingDigits.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// displayPayee picks the most common raw payee spelling in the group so the
// candidate reads like the statement does.
func displayPayee(group []model.Transaction) string {
	counts := make(map[string]int)
	for _, txn := range group {
		counts[payeeOrName(txn)]++
	}

	best := ""
	bestCount := 0
	for payee, count := range counts {
		if count > bestCount || (count == bestCount && payee < best) {
			best = payee
			bestCount = count
		}
	}
	return best
}

// dominantCategory returns the most common (category, subcategory) pair.
func dominantCategory(group []model.Transaction) (string, string) {
	type pair struct{ category, subcategory string }
	counts := make(map[pair]int)
	for _, txn := range group {
		counts[pair{txn.Category, txn.Subcategory}]++
	}

	var best pair
	bestCount := 0
	for p, count := range counts {
		if count > bestCount || (count == bestCount && p.category < best.category) {
			best = p
			bestCount = count
		}
	}
	return best.category, best.subcategory
}

var subscriptionHints = []string{
	"subscription", "streaming", "software", "membership", "entertainment", "digital",
}

// inferPatternType tags a candidate from its amount sign and category.
// Deposits are income; expense categories that smell like services are
// subscriptions; everything else is a bill.
func inferPatternType(typicalAmount float64, category string) model.PatternType {
	if typicalAmount > 0 {
		return model.PatternTypeIncome
	}

	lower := strings.ToLower(category)
	for _, hint := range subscriptionHints {
		if strings.Contains(lower, hint) {
			return model.PatternTypeSubscription
		}
	}
	return model.PatternTypeBill
}
