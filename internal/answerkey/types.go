package answerkey

// Method identifies how an answer was detected
type Method string

const (
	MethodPattern Method = "pattern"
	MethodVisual  Method = "visual"
	MethodBold    Method = "bold"
	MethodManual  Method = "manual"
)

// Entry is one detected answer for one question. Entries from all
// methods compete; the highest confidence wins.
type Entry struct {
	QuestionNumber int     `json:"question_number"`
	AnswerLetter   string  `json:"answer_letter"` // "a".."d"
	Confidence     float64 `json:"confidence"`
	Method         Method  `json:"method"`
}

// ManualOverride is a caller-supplied answer assignment. Overrides
// carry confidence 1.0 and trivially win over every detection method.
type ManualOverride struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"` // "a".."d"
	Method     string `json:"method"` // always "manual"
}

// Rect is an axis-aligned sampling region in page coordinates
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Band names one highlight colour family
type Band string

const (
	BandYellow Band = "yellow"
	BandGreen  Band = "green"
	BandBlue   Band = "blue"
	BandRed    Band = "red"
	BandPink   Band = "pink"
)

// Histogram is the result of sampling a page region: how many pixels
// were inspected and how many fell into each highlight band
type Histogram struct {
	Total int          `json:"total"`
	Bands map[Band]int `json:"bands"`
}

// HighlightRatio returns the fraction of sampled pixels that matched
// any highlight band
func (h Histogram) HighlightRatio() float64 {
	if h.Total == 0 {
		return 0
	}
	sum := 0
	for _, n := range h.Bands {
		sum += n
	}
	return float64(sum) / float64(h.Total)
}

// RasterSampler samples pixel colours from a rendered page region.
// The PDF layer provides a renderer-backed implementation; the
// correlator only sees histograms, which keeps visual detection
// testable without any rendering surface.
type RasterSampler interface {
	Sample(pageIndex int, box Rect) (Histogram, error)
}

// letterIndex maps an answer letter to its option index, or -1
func letterIndex(letter string) int {
	if len(letter) != 1 {
		return -1
	}
	c := letter[0] | 0x20
	if c < 'a' || c > 'd' {
		return -1
	}
	return int(c - 'a')
}
