package extract

import (
	"regexp"
	"strings"
)

// OptionParser extracts labelled options from the text that trails a
// question stem. Two marker shapes occur in the wild, `X) text` and
// `(X) text`; the parser runs both and keeps whichever shape yields
// more options rather than preferring one.
type OptionParser struct {
	plain   *regexp.Regexp
	wrapped *regexp.Regexp
	any     *regexp.Regexp
}

// NewOptionParser creates an option parser with compiled patterns
func NewOptionParser() *OptionParser {
	return &OptionParser{
		plain:   regexp.MustCompile(`([A-D])\)\s*`),
		wrapped: regexp.MustCompile(`\(([A-D])\)\s*`),
		any:     regexp.MustCompile(`(?:\(?[A-D]\))\s*`),
	}
}

// FirstMarkerIndex returns the byte offset of the first option marker
// in s, or -1 when none is present
func (p *OptionParser) FirstMarkerIndex(s string) int {
	loc := p.any.FindStringIndex(s)
	if loc == nil {
		return -1
	}
	return loc[0]
}

// Parse returns up to four trimmed option texts from span. An option is
// dropped when empty or implausibly long, which usually means the match
// bled into the next question.
func (p *OptionParser) Parse(span string) []string {
	plain := p.split(span, p.plain)
	wrapped := p.split(span, p.wrapped)
	// On a tie the wrapped shape wins: plain markers also fire inside
	// "(A)" and leave the opening paren glued to the previous option.
	if len(wrapped) >= len(plain) && len(wrapped) > 0 {
		return wrapped
	}
	return plain
}

// split slices span at each marker of one shape and cleans the pieces
func (p *OptionParser) split(span string, re *regexp.Regexp) []string {
	marks := re.FindAllStringSubmatchIndex(span, -1)
	if len(marks) == 0 {
		return nil
	}

	var opts []string
	for i, m := range marks {
		if len(opts) == OptionCount {
			break
		}
		start := m[1] // end of the marker
		end := len(span)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}
		text := strings.TrimSpace(span[start:end])
		text = strings.TrimRight(text, "\n ")
		if text == "" || len(text) > MaxOptionLenLocal {
			continue
		}
		opts = append(opts, text)
	}
	return opts
}
