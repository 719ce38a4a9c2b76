package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// PatternStrategy applies a small family of whole-question regexes to
// the normalized text. Each pattern captures a `?`-terminated stem and
// all four options in one match; every pattern is applied independently
// and all non-overlapping matches are pooled.
type PatternStrategy struct {
	patterns []*regexp.Regexp
}

// NewPatternStrategy creates the pattern matcher. Quantifiers are
// bounded so a malformed document cannot trigger runaway backtracking.
func NewPatternStrategy() *PatternStrategy {
	// Stems must end in "?"; options run until the next option letter.
	// The D option stops at the next question marker or end of input.
	return &PatternStrategy{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(
				`(?s)Q(\d{1,3})\.\s*([^?]{1,500}\?)\s*` +
					`A\)\s*([^\n]{1,200})\s*B\)\s*([^\n]{1,200})\s*` +
					`C\)\s*([^\n]{1,200})\s*D\)\s*([^\n]{1,200})`),
			regexp.MustCompile(
				`(?s)\b(\d{1,3})\.\s*([^?]{1,500}\?)\s*` +
					`A\)\s*([^\n]{1,200})\s*B\)\s*([^\n]{1,200})\s*` +
					`C\)\s*([^\n]{1,200})\s*D\)\s*([^\n]{1,200})`),
		},
	}
}

// Name implements Strategy
func (s *PatternStrategy) Name() string { return string(SourcePattern) }

// Extract implements Strategy
func (s *PatternStrategy) Extract(text string) []CandidateQuestion {
	var out []CandidateQuestion
	for _, re := range s.patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			num, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			stem := strings.TrimSpace(truncateStem(m[2]))
			opts := []string{
				trimOption(m[3]),
				trimOption(m[4]),
				trimOption(m[5]),
				trimOption(m[6]),
			}
			if anyEmpty(opts) {
				continue
			}
			n := num
			out = append(out, CandidateQuestion{
				Number:     &n,
				Text:       stem,
				Options:    opts,
				Source:     SourcePattern,
				Confidence: 0.85,
			})
		}
	}
	return out
}

// trimOption cleans an option capture and strips any trailing question
// marker that bled into the last option
func trimOption(s string) string {
	s = strings.TrimSpace(s)
	if i := trailingQuestion.FindStringIndex(s); i != nil {
		s = strings.TrimSpace(s[:i[0]])
	}
	return s
}

var trailingQuestion = regexp.MustCompile(`\s*Q\d{1,3}\.\s.*$`)

func anyEmpty(opts []string) bool {
	for _, o := range opts {
		if o == "" {
			return true
		}
	}
	return false
}
