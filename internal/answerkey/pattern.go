package answerkey

import (
	"regexp"
	"strconv"
)

// patternDetector finds textual answer markers: a dedicated answer-key
// section ("Answer Key: 1.b, 2.a, ...") or per-question forms ("7. c",
// "7) c", "7: c", "7 - c").
type patternDetector struct {
	section *regexp.Regexp
	pair    *regexp.Regexp
	inline  []*regexp.Regexp
}

const (
	sectionConfidence = 0.95
	inlineConfidence  = 0.8
)

func newPatternDetector() *patternDetector {
	return &patternDetector{
		section: regexp.MustCompile(`(?is)Answer\s*Key\s*[:\-]?\s*((?:\d{1,3}\s*[.):\-]\s*[a-dA-D][\s,;]*)+)`),
		pair:    regexp.MustCompile(`(\d{1,3})\s*[.):\-]\s*([a-dA-D])\b`),
		inline: []*regexp.Regexp{
			regexp.MustCompile(`(?m)\b(\d{1,3})\.\s*([a-dA-D])\b\s*$`),
			regexp.MustCompile(`(?m)\b(\d{1,3})\)\s*([a-dA-D])\b\s*$`),
			regexp.MustCompile(`\b(\d{1,3}):\s*([a-dA-D])\b`),
			regexp.MustCompile(`\b(\d{1,3})\s*-\s*([a-dA-D])\b`),
		},
	}
}

// detect returns every answer the text yields, keyed by question
// number. Section-level matches take a higher confidence than the
// looser per-question forms.
func (p *patternDetector) detect(text string) map[int][]Entry {
	entries := make(map[int][]Entry)

	if m := p.section.FindStringSubmatch(text); m != nil {
		for _, pair := range p.pair.FindAllStringSubmatch(m[1], -1) {
			num, err := strconv.Atoi(pair[1])
			if err != nil {
				continue
			}
			entries[num] = append(entries[num], Entry{
				QuestionNumber: num,
				AnswerLetter:   lower(pair[2]),
				Confidence:     sectionConfidence,
				Method:         MethodPattern,
			})
		}
	}

	for _, re := range p.inline {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			num, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			entries[num] = append(entries[num], Entry{
				QuestionNumber: num,
				AnswerLetter:   lower(m[2]),
				Confidence:     inlineConfidence,
				Method:         MethodPattern,
			})
		}
	}

	return entries
}

func lower(s string) string {
	if len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z' {
		return string(s[0] | 0x20)
	}
	return s
}
