package answerkey

import (
	"context"

	"github.com/examforge/mcp-exam-extractor/internal/extract"
)

// Correlator assigns correct answers to extracted questions by running
// every available detection method and keeping, per question, the
// result with the highest confidence. Manual overrides carry
// confidence 1.0 and therefore always win.
type Correlator struct {
	pattern *patternDetector
	bold    *boldDetector
	visual  *visualDetector
}

// Option configures a Correlator
type Option func(*Correlator)

// WithRasterSampler enables visual highlight detection backed by the
// given sampler. Without a sampler the correlator runs on text
// evidence alone.
func WithRasterSampler(sampler RasterSampler) Option {
	return func(c *Correlator) {
		c.visual = newVisualDetector(sampler)
	}
}

func NewCorrelator(opts ...Option) *Correlator {
	c := &Correlator{
		pattern: newPatternDetector(),
		bold:    newBoldDetector(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Annotate sets CorrectAnswer, DetectionConfidence and DetectionMethod
// on each question that any method can resolve. Questions without a
// detected answer are left untouched. Returns the number of questions
// annotated.
func (c *Correlator) Annotate(ctx context.Context, pages []extract.PageText, questions []*extract.ValidatedQuestion, overrides []ManualOverride) (int, error) {
	text := extract.JoinPages(pages)
	patternEntries := c.pattern.detect(text)
	overrideByID := indexOverrides(overrides)

	annotated := 0
	for _, q := range questions {
		select {
		case <-ctx.Done():
			return annotated, ctx.Err()
		default:
		}

		best, ok := c.bestEntry(text, pages, patternEntries, q)

		if ov, found := overrideByID[q.ID]; found {
			if idx := letterIndex(ov.Answer); idx >= 0 {
				best = Entry{
					AnswerLetter: ov.Answer,
					Confidence:   1.0,
					Method:       MethodManual,
				}
				ok = true
			}
		}

		if !ok {
			continue
		}
		idx := letterIndex(best.AnswerLetter)
		if idx < 0 || idx >= len(q.Options) {
			continue
		}
		conf := best.Confidence
		method := string(best.Method)
		q.CorrectAnswer = &idx
		q.DetectionConfidence = &conf
		q.DetectionMethod = method
		annotated++
	}
	return annotated, nil
}

// bestEntry runs the detection methods for one question and returns
// the winner
func (c *Correlator) bestEntry(text string, pages []extract.PageText, patternEntries map[int][]Entry, q *extract.ValidatedQuestion) (Entry, bool) {
	var best Entry
	found := false

	consider := func(e Entry) {
		if !found || e.Confidence > best.Confidence {
			best = e
			found = true
		}
	}

	if q.QuestionNumber != nil {
		for _, e := range patternEntries[*q.QuestionNumber] {
			consider(e)
		}
		if e, ok := c.bold.detect(text, *q.QuestionNumber); ok {
			consider(e)
		}
	}
	if c.visual != nil {
		if e, ok := c.visual.detect(pages, q); ok {
			consider(e)
		}
	}
	return best, found
}

func indexOverrides(overrides []ManualOverride) map[string]ManualOverride {
	if len(overrides) == 0 {
		return nil
	}
	m := make(map[string]ManualOverride, len(overrides))
	for _, ov := range overrides {
		m[ov.QuestionID] = ov
	}
	return m
}
