package answerkey

import (
	"fmt"
	"regexp"
)

// boldDetector finds markup-style emphasis on an option letter, the
// convention some exporters use to mark the correct option:
// "**a) text**" or "<b>a) text</b>".
type boldDetector struct {
	markers []*regexp.Regexp
}

const (
	boldConfidence = 0.7
	// How far past a question's number marker the detector looks for
	// an emphasised option before giving up
	boldSearchWindow = 600
)

func newBoldDetector() *boldDetector {
	return &boldDetector{
		markers: []*regexp.Regexp{
			regexp.MustCompile(`\*\*\s*([a-dA-D])\)`),
			regexp.MustCompile(`(?i)<b>\s*([a-dA-D])\)`),
		},
	}
}

// detect looks for an emphasised option adjacent to the given question
// number and returns the answer entry, if any
func (b *boldDetector) detect(text string, questionNumber int) (Entry, bool) {
	anchor := regexp.MustCompile(fmt.Sprintf(`\bQ?%d[.:)]\s`, questionNumber))
	loc := anchor.FindStringIndex(text)
	if loc == nil {
		return Entry{}, false
	}

	end := min(loc[1]+boldSearchWindow, len(text))
	window := text[loc[1]:end]

	for _, re := range b.markers {
		if m := re.FindStringSubmatch(window); m != nil {
			return Entry{
				QuestionNumber: questionNumber,
				AnswerLetter:   lower(m[1]),
				Confidence:     boldConfidence,
				Method:         MethodBold,
			}, true
		}
	}
	return Entry{}, false
}
