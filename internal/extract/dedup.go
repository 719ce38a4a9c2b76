package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Deduplicator merges candidate pools from all strategies, removes
// near-duplicate questions and applies the final structural validation
// gate. Strategies are deliberately permissive; this is where the pool
// gets strict.
type Deduplicator struct {
	whitespace     *regexp.Regexp
	leakedQuestion *regexp.Regexp
	leakedArtifact *regexp.Regexp
	leakedDate     *regexp.Regexp
}

// NewDeduplicator creates a deduplicator with compiled artifact checks
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{
		whitespace:     regexp.MustCompile(`\s+`),
		leakedQuestion: regexp.MustCompile(`Q\d+\.`),
		leakedArtifact: regexp.MustCompile(`\d+(?:\.\d+)?%\s*Attempted`),
		leakedDate:     regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
	}
}

// Merge deduplicates candidates, validates the survivors and reports
// diagnostics into stats. Survivors are ordered by ascending question
// number with unnumbered candidates last, stable otherwise.
func (d *Deduplicator) Merge(candidates []CandidateQuestion, stats *Stats) []*ValidatedQuestion {
	seen := make(map[string]bool, len(candidates))
	var unique []CandidateQuestion
	for _, c := range candidates {
		key := d.dedupKey(c.Text)
		if seen[key] {
			stats.DuplicatesRemoved++
			continue
		}
		seen[key] = true
		unique = append(unique, c)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		a, b := unique[i].Number, unique[j].Number
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})

	var out []*ValidatedQuestion
	for _, c := range unique {
		if reason := d.validate(c); reason != "" {
			if stats.ValidationRejections == nil {
				stats.ValidationRejections = make(map[string]int)
			}
			stats.ValidationRejections[reason]++
			continue
		}
		out = append(out, d.toValidated(c))
	}
	return out
}

// dedupKey normalizes question text into a case- and
// whitespace-insensitive identity
func (d *Deduplicator) dedupKey(text string) string {
	return d.whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), " ")
}

// validate applies the pool-wide final gate; an empty return means the
// candidate passed, anything else is the rejection reason code
func (d *Deduplicator) validate(c CandidateQuestion) string {
	stem := strings.TrimSpace(c.Text)
	switch {
	case len(stem) < MinStemLen:
		return RejectStemTooShort
	case len(stem) > MaxStemLen:
		return RejectStemTooLong
	case len(c.Options) != OptionCount:
		return RejectOptionCount
	}
	for _, opt := range c.Options {
		if strings.TrimSpace(opt) == "" {
			return RejectEmptyOption
		}
		if len(opt) > MaxOptionLen {
			return RejectOptionTooLong
		}
	}
	// Embedded markers mean the stem absorbed a neighbouring question
	// or a page artifact.
	switch {
	case d.leakedQuestion.MatchString(stem):
		return RejectLeakedQuestion
	case d.leakedArtifact.MatchString(stem):
		return RejectLeakedArtifact
	case d.leakedDate.MatchString(stem):
		return RejectLeakedDate
	}
	return ""
}

// questionNamespace seeds deterministic question IDs so repeated runs
// over identical input produce identical results
var questionNamespace = uuid.MustParse("8f3c1d3e-54a0-4a87-9d30-6f2f7c5f1b42")

func (d *Deduplicator) toValidated(c CandidateQuestion) *ValidatedQuestion {
	opts := make([]string, OptionCount)
	for i := range opts {
		opts[i] = strings.TrimSpace(c.Options[i])
	}
	return &ValidatedQuestion{
		ID:               uuid.NewSHA1(questionNamespace, []byte(d.dedupKey(c.Text))).String(),
		QuestionNumber:   c.Number,
		Text:             strings.TrimSpace(c.Text),
		Options:          opts,
		ExtractionSource: string(c.Source),
	}
}
