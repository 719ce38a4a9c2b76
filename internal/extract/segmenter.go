package extract

import (
	"regexp"
	"sort"
	"strconv"
)

// setHeader is one detected practice-set heading and its position
type setHeader struct {
	number int
	start  int
	end    int
}

// Segmenter partitions a document into practice-set segments before
// per-segment extraction runs. Documents without set headers fall back
// to whole-document extraction; that path is not an error.
type Segmenter struct {
	header *regexp.Regexp
	// Headers claiming set numbers above this are treated as false
	// positives; real exam papers don't ship hundreds of sets.
	maxSetNumber int
}

// Duplicate-header collapse window in bytes. Headings printed twice
// (title plus running header) land within this distance of each other.
const headerDupWindow = 200

// NewSegmenter creates a segmenter with the default set-number bound
func NewSegmenter() *Segmenter {
	return NewSegmenterWithLimit(20)
}

// NewSegmenterWithLimit creates a segmenter with a custom upper bound
// on accepted set numbers
func NewSegmenterWithLimit(maxSetNumber int) *Segmenter {
	return &Segmenter{
		header: regexp.MustCompile(
			`(?i)\b(?:Practice\s+Set|Mock\s+Test|Set|Test|Paper)\s+(\d{1,3})\b`),
		maxSetNumber: maxSetNumber,
	}
}

// Segment detects set headers and returns each set's content span as
// [thisHeader.end, nextHeader.start). A nil return means no sets were
// detected and the caller should extract over the whole document.
func (s *Segmenter) Segment(text string) []PracticeSet {
	headers := s.findHeaders(text)
	if len(headers) == 0 {
		return nil
	}

	sets := make([]PracticeSet, 0, len(headers))
	for i, h := range headers {
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1].start
		}
		sets = append(sets, PracticeSet{
			SetNumber:   h.number,
			StartOffset: h.end,
			EndOffset:   end,
		})
	}
	return sets
}

// findHeaders locates plausible set headers, drops out-of-range numbers
// and collapses duplicated headings
func (s *Segmenter) findHeaders(text string) []setHeader {
	var headers []setHeader
	for _, m := range s.header.FindAllStringSubmatchIndex(text, -1) {
		num, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || num < 1 || num > s.maxSetNumber {
			continue
		}
		headers = append(headers, setHeader{number: num, start: m[0], end: m[1]})
	}

	sort.Slice(headers, func(i, j int) bool { return headers[i].start < headers[j].start })

	// A heading printed twice shows up as two nearby matches with the
	// same or adjacent set number; keep the first occurrence only.
	var out []setHeader
	for _, h := range headers {
		if len(out) > 0 {
			prev := out[len(out)-1]
			if h.start-prev.start < headerDupWindow && abs(h.number-prev.number) <= 1 {
				continue
			}
		}
		out = append(out, h)
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
