package service

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jask/homeledger/internal/database/repository"
)

// RecurringCandidate is a detected recurring pattern, not yet saved.
type RecurringCandidate struct {
	Key            string    `json:"key"`
	Name           string    `json:"name"`
	MerchantName   *string   `json:"merchant_name,omitempty"`
	AmountCents    int64     `json:"amount_cents"`
	Frequency      string    `json:"frequency"`
	Occurrences    int       `json:"occurrences"`
	LastDate       time.Time `json:"last_date"`
	NextExpected   time.Time `json:"next_expected"`
	Confidence     float64   `json:"confidence"`
	TransactionIDs []string  `json:"transaction_ids"`
}

// frequencyRange is the inclusive window of median day-gaps classified as a
// given cadence. Gaps falling outside every window are not recurring.
type frequencyRange struct {
	frequency string
	lo, hi    float64
}

var frequencyRanges = []frequencyRange{
	{repository.FreqWeekly, 5, 10},
	{repository.FreqBiweekly, 11, 18},
	{repository.FreqMonthly, 25, 35},
	{repository.FreqQuarterly, 80, 100},
	{repository.FreqAnnual, 350, 380},
}

// advanceDays projects the next expected occurrence per cadence.
var advanceDays = map[string]int{
	repository.FreqWeekly:    7,
	repository.FreqBiweekly:  14,
	repository.FreqMonthly:   30,
	repository.FreqQuarterly: 91,
	repository.FreqAnnual:    365,
}

const minOccurrences = 3

var (
	trailingStoreNum = regexp.MustCompile(`\s*#\s*\d+\s*$`)
	trailingDigits   = regexp.MustCompile(`\s+\d{4,}\s*$`)
	punctuation      = regexp.MustCompile(`[^\w\s]`)
	whitespace       = regexp.MustCompile(`\s+`)
)

// normalizeName folds a raw payee string into a grouping key: lowercase,
// trailing store numbers and long digit runs stripped, punctuation collapsed
// to single spaces.
func normalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = trailingStoreNum.ReplaceAllString(s, "")
	s = trailingDigits.ReplaceAllString(s, "")
	s = punctuation.ReplaceAllString(s, " ")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CandidateKey is the dedup identity of a recurring pattern. The same scheme
// is used for freshly detected candidates and for saved recurring records so
// confirmed patterns never resurface.
func CandidateKey(name, frequency string) string {
	return normalizeName(name) + "|" + frequency
}

// DetectRecurring mines transaction history for repeating payee/amount
// patterns. It is read-only: safe to call repeatedly, mutates nothing.
// now anchors the recency part of the confidence score.
func DetectRecurring(txns []repository.Transaction, now time.Time) []RecurringCandidate {
	type groupKey struct {
		name   string
		bucket int64
	}
	groups := map[groupKey][]repository.Transaction{}

	for _, t := range txns {
		// Debits only; ignored rows and rows without a usable date or payee
		// are excluded rather than failing the whole run.
		if t.IsIgnored || t.AmountCents <= 0 || t.Date.IsZero() {
			continue
		}
		raw := t.Name
		if t.MerchantName != nil && strings.TrimSpace(*t.MerchantName) != "" {
			raw = *t.MerchantName
		}
		norm := normalizeName(raw)
		if norm == "" {
			continue
		}
		// Whole-dollar bucket absorbs minor fee variation ($14.99 vs $15.00).
		bucket := int64(math.Round(float64(t.AmountCents) / 100))
		k := groupKey{name: norm, bucket: bucket}
		groups[k] = append(groups[k], t)
	}

	var out []RecurringCandidate
	for k, members := range groups {
		if len(members) < minOccurrences {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i].Date.Before(members[j].Date) })

		gaps := make([]float64, 0, len(members)-1)
		for i := 1; i < len(members); i++ {
			days := members[i].Date.Sub(members[i-1].Date).Hours() / 24
			gaps = append(gaps, math.Round(days))
		}

		med := median(gaps)
		frequency := classifyGap(med)
		if frequency == "" {
			continue
		}

		confidence := scoreConfidence(gaps, med, len(members), members[len(members)-1].Date, now)

		last := members[len(members)-1]
		out = append(out, RecurringCandidate{
			Key:            k.name + "|" + frequency,
			Name:           displayName(last),
			MerchantName:   last.MerchantName,
			AmountCents:    last.AmountCents,
			Frequency:      frequency,
			Occurrences:    len(members),
			LastDate:       last.Date,
			NextExpected:   last.Date.AddDate(0, 0, advanceDays[frequency]),
			Confidence:     confidence,
			TransactionIDs: transactionIDs(members),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		if out[i].Occurrences != out[j].Occurrences {
			return out[i].Occurrences > out[j].Occurrences
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func classifyGap(medianDays float64) string {
	for _, fr := range frequencyRanges {
		if medianDays >= fr.lo && medianDays <= fr.hi {
			return fr.frequency
		}
	}
	return ""
}

// scoreConfidence blends gap regularity, occurrence count and recency into a
// [0,1] score. Regularity dominates; occurrences saturate so a year of
// history is not required to reach full weight.
func scoreConfidence(gaps []float64, med float64, occurrences int, lastDate, now time.Time) float64 {
	consistency := 0.6
	if len(gaps) > 1 {
		sd := sampleStdev(gaps)
		tolerance := math.Max(3, med*0.10)
		consistency = math.Max(0, 1-sd/tolerance)
	}

	occScore := math.Min(1, float64(occurrences)/6)

	daysSince := now.Sub(lastDate).Hours() / 24
	recency := math.Max(0, 1-daysSince/180)

	confidence := consistency*0.5 + occScore*0.3 + recency*0.2
	confidence = math.Min(1, math.Max(0, confidence))
	return math.Round(confidence*1000) / 1000
}

func displayName(t repository.Transaction) string {
	if t.MerchantName != nil && strings.TrimSpace(*t.MerchantName) != "" {
		return *t.MerchantName
	}
	return t.Name
}

func transactionIDs(txns []repository.Transaction) []string {
	ids := make([]string, 0, len(txns))
	for _, t := range txns {
		ids = append(ids, t.ID)
	}
	return ids
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}
	return s[mid]
}

func sampleStdev(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	var sq float64
	for _, v := range vals {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(vals)-1))
}
