package extract

import (
	"regexp"
	"strings"
)

// PageBreakMarker separates pages when a document's page texts are
// joined into one stream for extraction.
const PageBreakMarker = "\n\n--- Page Break ---\n\n"

// Normalizer cleans raw page text into the canonical form the
// extraction strategies expect: collapsed whitespace, `Qn. ` question
// markers and `X) ` option markers. Transform order matters; each step
// assumes the previous one ran.
type Normalizer struct {
	pageBreaks     *regexp.Regexp
	controlChars   *regexp.Regexp
	spaceRuns      *regexp.Regexp
	blankLines     *regexp.Regexp
	dateStamps     *regexp.Regexp
	attemptMarkers *regexp.Regexp
	questionForms  []*regexp.Regexp
	leadingNumber  *regexp.Regexp
	optionForms    *regexp.Regexp
	inlineOption   *regexp.Regexp
	lineSpace      *regexp.Regexp
}

// NewNormalizer creates a normalizer with all patterns precompiled
func NewNormalizer() *Normalizer {
	return &Normalizer{
		pageBreaks:   regexp.MustCompile(`\n*--- Page Break ---\n*`),
		controlChars: regexp.MustCompile(`[\f\r]`),
		spaceRuns:    regexp.MustCompile(`[ \t]+`),
		blankLines:   regexp.MustCompile(`\n\s*\n+`),
		// e.g. "21/03/2024 --> 10:00 AM - 11:30 AM"
		dateStamps: regexp.MustCompile(
			`\d{1,2}/\d{1,2}/\d{4}\s*-->\s*\d{1,2}:\d{2}\s*[AP]M\s*-\s*\d{1,2}:\d{2}\s*[AP]M`),
		// e.g. "12.5% Attempted"
		attemptMarkers: regexp.MustCompile(`\d+(?:\.\d+)?%\s*Attempted`),
		questionForms: []*regexp.Regexp{
			regexp.MustCompile(`(?mi)^Question\s+(\d+)[.:)]\s*`),
			regexp.MustCompile(`(?m)^Q\s*(\d+)[.:)]\s*`),
			regexp.MustCompile(`(?m)^(\d+)\)\s+`),
		},
		// A bare "3." at line start is a question marker only when
		// followed by text; anchoring keeps dates and decimals intact.
		leadingNumber: regexp.MustCompile(`(?m)^(\d{1,3})\.\s+(\S)`),
		optionForms:   regexp.MustCompile(`(?m)^[ \t]*(?:\(([a-dA-D])\)|([a-dA-D])[.)])[ \t]*`),
		inlineOption:  regexp.MustCompile(`[ \t]\(?([a-dA-D])[.)][ \t]`),
		lineSpace:     regexp.MustCompile(`(?m)[ \t]+$`),
	}
}

// Normalize runs the full transform ordering over raw document text
func (n *Normalizer) Normalize(raw string) string {
	text := n.pageBreaks.ReplaceAllString(raw, "\n")
	text = n.controlChars.ReplaceAllString(text, "")

	text = n.spaceRuns.ReplaceAllString(text, " ")
	text = n.blankLines.ReplaceAllString(text, "\n")

	text = n.dateStamps.ReplaceAllString(text, " ")
	text = n.attemptMarkers.ReplaceAllString(text, " ")

	text = n.normalizeQuestionMarkers(text)
	text = n.normalizeOptionMarkers(text)
	text = n.normalizeInlineOptionMarkers(text)

	text = n.lineSpace.ReplaceAllString(text, "")
	text = n.spaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// normalizeQuestionMarkers rewrites every accepted numbering convention
// ("Question 3:", "Q3)", "3)", leading "3.") to the canonical "Q3. "
func (n *Normalizer) normalizeQuestionMarkers(text string) string {
	for _, re := range n.questionForms {
		text = re.ReplaceAllString(text, "Q$1. ")
	}
	return n.leadingNumber.ReplaceAllString(text, "Q$1. $2")
}

// normalizeOptionMarkers rewrites "a)", "A.", "(a)" to canonical "A) "
func (n *Normalizer) normalizeOptionMarkers(text string) string {
	return n.optionForms.ReplaceAllStringFunc(text, func(m string) string {
		sub := n.optionForms.FindStringSubmatch(m)
		letter := sub[1]
		if letter == "" {
			letter = sub[2]
		}
		return strings.ToUpper(letter) + ") "
	})
}

// normalizeInlineOptionMarkers handles text layers that merge a question
// and its options onto one line. Markers sitting mid-line are rewritten
// onto their own lines, but only when the line carries the full a-d
// sequence in order, which keeps prose like "a. m." intact.
func (n *Normalizer) normalizeInlineOptionMarkers(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = n.breakInlineRun(line)
	}
	return strings.Join(lines, "\n")
}

// breakInlineRun moves an in-order a-d marker run onto separate lines
func (n *Normalizer) breakInlineRun(line string) string {
	marks := n.inlineOption.FindAllStringSubmatchIndex(line, -1)
	if len(marks) < OptionCount {
		return line
	}

	// The run is the subsequence of markers reading a, b, c, d; stray
	// letter matches between them are left alone.
	run := make([][]int, 0, OptionCount)
	next := byte('a')
	for _, m := range marks {
		if line[m[2]]|0x20 != next {
			continue
		}
		run = append(run, m)
		if next++; next > 'd' {
			break
		}
	}
	if len(run) < OptionCount {
		return line
	}

	var b strings.Builder
	prev := 0
	for _, m := range run {
		b.WriteString(line[prev:m[0]])
		b.WriteString("\n")
		b.WriteString(strings.ToUpper(string(line[m[2]])))
		b.WriteString(") ")
		prev = m[1]
	}
	b.WriteString(line[prev:])
	return b.String()
}

// JoinPages concatenates page texts with the explicit page-break marker
// so extraction always runs over one contiguous stream, regardless of
// how pages were fetched.
func JoinPages(pages []PageText) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, PageBreakMarker)
}
