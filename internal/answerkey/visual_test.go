package answerkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examforge/mcp-exam-extractor/internal/extract"
)

func TestClassifyPixel(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		band    Band
		matched bool
	}{
		{"yellow highlighter", 250, 240, 80, BandYellow, true},
		{"green highlighter", 120, 230, 120, BandGreen, true},
		{"blue highlighter", 100, 160, 240, BandBlue, true},
		{"red marker", 230, 60, 60, BandRed, true},
		{"pink marker", 245, 150, 210, BandPink, true},
		{"white background", 255, 255, 255, "", false},
		{"black text", 10, 10, 10, "", false},
		{"mid grey", 128, 128, 128, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band, ok := ClassifyPixel(tt.r, tt.g, tt.b)
			assert.Equal(t, tt.matched, ok)
			if tt.matched {
				assert.Equal(t, tt.band, band)
			}
		})
	}
}

func TestHighlightRatio(t *testing.T) {
	h := Histogram{Total: 100, Bands: map[Band]int{BandYellow: 30, BandGreen: 10}}
	assert.InDelta(t, 0.4, h.HighlightRatio(), 1e-9)

	empty := Histogram{}
	assert.Zero(t, empty.HighlightRatio())
}

// fakeSampler returns a canned histogram per option row, keyed by the
// sampled Y coordinate
type fakeSampler struct {
	byY map[float64]Histogram
}

func (f *fakeSampler) Sample(pageIndex int, box Rect) (Histogram, error) {
	if h, ok := f.byY[box.Y]; ok {
		return h, nil
	}
	return Histogram{Total: 100, Bands: nil}, nil
}

func visualTestPage() extract.PageText {
	return extract.PageText{
		PageNumber: 1,
		Text:       "Q1. Which gas do plants absorb?\nA) Oxygen\nB) Carbon dioxide\nC) Nitrogen\nD) Helium\n",
		Items: []extract.TextItem{
			{Text: "Q1. Which gas do plants absorb?", X: 50, Y: 700, Width: 300, Height: 12},
			{Text: "A) Oxygen", X: 60, Y: 680, Width: 120, Height: 12},
			{Text: "B) Carbon dioxide", X: 60, Y: 660, Width: 160, Height: 12},
			{Text: "C) Nitrogen", X: 60, Y: 640, Width: 120, Height: 12},
			{Text: "D) Helium", X: 60, Y: 620, Width: 110, Height: 12},
		},
	}
}

func TestVisualDetectorFindsHighlightedOption(t *testing.T) {
	sampler := &fakeSampler{byY: map[float64]Histogram{
		660: {Total: 100, Bands: map[Band]int{BandYellow: 55}},
	}}
	v := newVisualDetector(sampler)

	q := &extract.ValidatedQuestion{
		Text:    "Which gas do plants absorb?",
		Options: []string{"Oxygen", "Carbon dioxide", "Nitrogen", "Helium"},
	}

	entry, ok := v.detect([]extract.PageText{visualTestPage()}, q)
	require.True(t, ok)
	assert.Equal(t, "b", entry.AnswerLetter)
	assert.Equal(t, MethodVisual, entry.Method)
	assert.LessOrEqual(t, entry.Confidence, visualConfidenceCap)
	assert.Greater(t, entry.Confidence, 0.6)
}

func TestVisualDetectorBelowThreshold(t *testing.T) {
	// 20% highlighted pixels is under the 30% floor
	sampler := &fakeSampler{byY: map[float64]Histogram{
		660: {Total: 100, Bands: map[Band]int{BandYellow: 20}},
	}}
	v := newVisualDetector(sampler)

	q := &extract.ValidatedQuestion{
		Text:    "Which gas do plants absorb?",
		Options: []string{"Oxygen", "Carbon dioxide", "Nitrogen", "Helium"},
	}

	_, ok := v.detect([]extract.PageText{visualTestPage()}, q)
	assert.False(t, ok)
}

func TestVisualDetectorNoAnchor(t *testing.T) {
	v := newVisualDetector(&fakeSampler{})
	q := &extract.ValidatedQuestion{
		Text:    "A question that appears nowhere in the page items",
		Options: []string{"a", "b", "c", "d"},
	}
	_, ok := v.detect([]extract.PageText{visualTestPage()}, q)
	assert.False(t, ok)
}
