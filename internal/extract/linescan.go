package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// lineScanState is the tagged state of the line scanner. The scanner is
// either idle or building one question; building tracks the stem, the
// options collected so far and the next option letter it will accept.
type lineScanState struct {
	building   bool
	number     int
	stem       strings.Builder
	options    []string
	nextLetter byte
}

func (st *lineScanState) reset() {
	st.building = false
	st.number = 0
	st.stem.Reset()
	st.options = nil
	st.nextLetter = 'A'
}

// LineScanStrategy walks normalized text line by line, opening a
// question on each `Qn.` marker and appending options only while they
// arrive in strict A..D sequence. Lines between the stem and the first
// option extend the stem, which handles question text broken across
// lines by the PDF text layer.
type LineScanStrategy struct {
	questionLine *regexp.Regexp
	optionLine   *regexp.Regexp
}

// NewLineScanStrategy creates the line scanner with compiled patterns
func NewLineScanStrategy() *LineScanStrategy {
	return &LineScanStrategy{
		questionLine: regexp.MustCompile(`^Q(\d+)\.\s*(.+)$`),
		optionLine:   regexp.MustCompile(`^([A-D])\)\s*(.+)$`),
	}
}

// Name implements Strategy
func (s *LineScanStrategy) Name() string { return string(SourceLine) }

// Extract implements Strategy
func (s *LineScanStrategy) Extract(text string) []CandidateQuestion {
	var out []CandidateQuestion
	var st lineScanState
	st.reset()

	flush := func() {
		if st.building && len(st.options) == OptionCount {
			num := st.number
			out = append(out, CandidateQuestion{
				Number:     &num,
				Text:       strings.TrimSpace(st.stem.String()),
				Options:    st.options,
				Source:     SourceLine,
				Confidence: 0.9,
			})
		}
		st.reset()
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := s.questionLine.FindStringSubmatch(line); m != nil {
			flush()
			num, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			st.building = true
			st.number = num
			st.stem.WriteString(m[2])
			continue
		}

		if !st.building {
			continue
		}

		if m := s.optionLine.FindStringSubmatch(line); m != nil {
			// Accept only the expected next letter; anything else is
			// a stray marker from a neighbouring question.
			if m[1][0] == st.nextLetter && len(st.options) < OptionCount {
				st.options = append(st.options, strings.TrimSpace(m[2]))
				st.nextLetter++
			}
			continue
		}

		// No options yet: the stem continues onto this line.
		if len(st.options) == 0 && st.stem.Len() < MaxStemLenLocal {
			st.stem.WriteString(" ")
			st.stem.WriteString(line)
		}
	}

	flush()
	return out
}
