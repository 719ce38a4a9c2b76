package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// BlockStrategy splits the text on question-number boundaries and parses
// each block as a single question with one anchored regex. It recovers
// questions the scanners miss when option lines were merged into one
// run of text by the PDF extractor.
type BlockStrategy struct {
	boundary *regexp.Regexp
	block    *regexp.Regexp
	trailer  *regexp.Regexp
	parser   *OptionParser
}

// NewBlockStrategy creates the block splitter
func NewBlockStrategy() *BlockStrategy {
	return &BlockStrategy{
		// Lookahead-free split: find boundaries, slice between them.
		boundary: regexp.MustCompile(`Q\d{1,3}\.\s`),
		block:    regexp.MustCompile(`(?s)^Q(\d{1,3})\.\s*(.*)$`),
		// Spillover past the last option back into a stem
		trailer: regexp.MustCompile(`\s*(?:Total|Marks|Time|Page \d+).*$`),
		parser:  NewOptionParser(),
	}
}

// Name implements Strategy
func (s *BlockStrategy) Name() string { return string(SourceBlock) }

// Extract implements Strategy
func (s *BlockStrategy) Extract(text string) []CandidateQuestion {
	bounds := s.boundary.FindAllStringIndex(text, -1)
	if len(bounds) == 0 {
		return nil
	}

	var out []CandidateQuestion
	for i, b := range bounds {
		end := len(text)
		if i+1 < len(bounds) {
			end = bounds[i+1][0]
		}
		if c, ok := s.parseBlock(text[b[0]:end]); ok {
			out = append(out, c)
		}
	}
	return out
}

// parseBlock parses one `Qn. stem A) .. D) ..` block
func (s *BlockStrategy) parseBlock(block string) (CandidateQuestion, bool) {
	m := s.block.FindStringSubmatch(strings.TrimSpace(block))
	if m == nil {
		return CandidateQuestion{}, false
	}
	num, err := strconv.Atoi(m[1])
	if err != nil {
		return CandidateQuestion{}, false
	}

	body := m[2]
	firstOpt := s.parser.FirstMarkerIndex(body)
	if firstOpt < 0 {
		return CandidateQuestion{}, false
	}

	stem := strings.TrimSpace(truncateStem(body[:firstOpt]))
	stem = s.trailer.ReplaceAllString(stem, "")
	opts := s.parser.Parse(body[firstOpt:])
	if len(opts) != OptionCount {
		return CandidateQuestion{}, false
	}

	n := num
	return CandidateQuestion{
		Number:     &n,
		Text:       stem,
		Options:    opts,
		Source:     SourceBlock,
		Confidence: 0.8,
	}, true
}
