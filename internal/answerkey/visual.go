package answerkey

import (
	"log"
	"strings"

	"github.com/examforge/mcp-exam-extractor/internal/extract"
)

// Highlight colour bands. A sampled pixel belongs to a band when its
// RGB components fall inside the band's ranges; the bands cover the
// highlighter colours seen in annotated exam papers.
type bandRange struct {
	band                   Band
	rMin, rMax             uint8
	gMin, gMax             uint8
	bMin, bMax             uint8
}

var highlightBands = []bandRange{
	{BandYellow, 200, 255, 190, 255, 0, 160},
	{BandGreen, 0, 180, 180, 255, 0, 180},
	{BandBlue, 0, 160, 0, 200, 180, 255},
	{BandRed, 200, 255, 0, 120, 0, 120},
	{BandPink, 220, 255, 120, 200, 180, 255},
}

// ClassifyPixel maps an RGB pixel onto a highlight band. The second
// return is false for pixels that match no band (plain text, white
// background).
func ClassifyPixel(r, g, b uint8) (Band, bool) {
	for _, br := range highlightBands {
		if r >= br.rMin && r <= br.rMax &&
			g >= br.gMin && g <= br.gMax &&
			b >= br.bMin && b <= br.bMax {
			return br.band, true
		}
	}
	return "", false
}

const (
	// Minimum fraction of highlighted pixels for an option to count
	// as marked
	highlightThreshold = 0.30
	// Visual confidence is derived from the highlight ratio and never
	// exceeds this cap
	visualConfidenceCap = 0.9
	// Vertical span below a question's anchor fragment searched for
	// option fragments, in page units
	optionSearchSpan = 220.0
)

// visualDetector locates a question's option fragments on the page and
// samples their bounding boxes for highlighter colour
type visualDetector struct {
	sampler RasterSampler
}

func newVisualDetector(sampler RasterSampler) *visualDetector {
	return &visualDetector{sampler: sampler}
}

// detect returns the highlighted option for q, if the page raster and
// positioned text items reveal one
func (v *visualDetector) detect(pages []extract.PageText, q *extract.ValidatedQuestion) (Entry, bool) {
	if v.sampler == nil {
		return Entry{}, false
	}

	pageIdx, anchor, ok := findQuestionAnchor(pages, q.Text)
	if !ok {
		return Entry{}, false
	}

	bestRatio := 0.0
	bestOption := -1
	for i, opt := range q.Options {
		item, ok := findOptionItem(pages[pageIdx].Items, anchor, opt)
		if !ok {
			continue
		}
		hist, err := v.sampler.Sample(pageIdx, Rect{
			X: item.X, Y: item.Y, Width: item.Width, Height: item.Height,
		})
		if err != nil {
			// Raster sampling is best-effort; an undecodable page just
			// means the visual method yields nothing here.
			log.Printf("raster sample failed on page %d: %v", pageIdx+1, err)
			return Entry{}, false
		}
		if ratio := hist.HighlightRatio(); ratio >= highlightThreshold && ratio > bestRatio {
			bestRatio = ratio
			bestOption = i
		}
	}

	if bestOption < 0 {
		return Entry{}, false
	}

	conf := 0.6 + 0.3*bestRatio
	if conf > visualConfidenceCap {
		conf = visualConfidenceCap
	}
	return Entry{
		AnswerLetter: string(rune('a' + bestOption)),
		Confidence:   conf,
		Method:       MethodVisual,
	}, true
}

// findQuestionAnchor locates the text fragment that starts the
// question's stem and returns its page and item
func findQuestionAnchor(pages []extract.PageText, stem string) (int, extract.TextItem, bool) {
	needle := matchPrefix(stem, 30)
	if needle == "" {
		return 0, extract.TextItem{}, false
	}
	for pi, page := range pages {
		for _, item := range page.Items {
			if strings.Contains(foldSpace(item.Text), needle) {
				return pi, item, true
			}
		}
	}
	return 0, extract.TextItem{}, false
}

// findOptionItem locates the fragment holding an option's text in the
// region below the question anchor. Page coordinates grow upward, so
// "below" means smaller Y.
func findOptionItem(items []extract.TextItem, anchor extract.TextItem, option string) (extract.TextItem, bool) {
	needle := matchPrefix(option, 20)
	if needle == "" {
		return extract.TextItem{}, false
	}
	for _, item := range items {
		if item.Y > anchor.Y+item.Height || item.Y < anchor.Y-optionSearchSpan {
			continue
		}
		if strings.Contains(foldSpace(item.Text), needle) {
			return item, true
		}
	}
	return extract.TextItem{}, false
}

// matchPrefix lowers and whitespace-folds the first n bytes of s for
// tolerant substring matching
func matchPrefix(s string, n int) string {
	s = foldSpace(s)
	if len(s) > n {
		s = s[:n]
	}
	return strings.TrimSpace(s)
}

func foldSpace(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
