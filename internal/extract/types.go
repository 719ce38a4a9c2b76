package extract

// Source identifies which extraction strategy produced a candidate question
type Source string

const (
	SourceLine    Source = "line"
	SourcePattern Source = "pattern"
	SourceBlock   Source = "block"
)

// Status represents the overall outcome of an extraction run
type Status string

const (
	// StatusOK means the run completed and produced at least one question
	StatusOK Status = "ok"
	// StatusNoQuestions means the run completed but found nothing extractable.
	// This is a valid empty outcome, not an error.
	StatusNoQuestions Status = "no_questions"
	// StatusCancelled means the caller cancelled the run before it finished.
	// A cancelled run never carries a partial question list.
	StatusCancelled Status = "cancelled"
)

// TextItem is a positioned text fragment from a PDF page text layer
type TextItem struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PageText holds one page's reconstructed text plus the positioned
// fragments it was derived from. Owned by the caller; the pipeline
// treats it as read-only.
type PageText struct {
	PageNumber int        `json:"page_number"`
	Text       string     `json:"text"`
	Items      []TextItem `json:"items,omitempty"`
}

// CandidateQuestion is a raw question record produced by a single
// extraction strategy, before deduplication and validation. Options and
// text are copies; a candidate never references raw page text.
type CandidateQuestion struct {
	Number     *int     `json:"number,omitempty"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Source     Source   `json:"source"`
	Confidence float64  `json:"confidence"`
}

// ValidatedQuestion is a candidate that passed structural validation.
// Invariant: len(Options) == 4, all non-empty. CorrectAnswer is nil
// until the answer-key correlator runs; afterwards it is an index in
// [0,3] or remains nil if no method detected an answer.
type ValidatedQuestion struct {
	ID                  string   `json:"id"`
	QuestionNumber      *int     `json:"question_number,omitempty"`
	Text                string   `json:"text"`
	Options             []string `json:"options"`
	CorrectAnswer       *int     `json:"correct_answer"`
	DetectionConfidence *float64 `json:"detection_confidence"`
	DetectionMethod     string   `json:"detection_method,omitempty"`
	ExtractionSource    string   `json:"extraction_source"`
}

// PracticeSet is one detected "Practice Set N" segment of a document.
// It exists only for the duration of an extraction run and is flattened
// into the final question list before the result is returned.
type PracticeSet struct {
	SetNumber   int                  `json:"set_number"`
	StartOffset int                  `json:"start_offset"`
	EndOffset   int                  `json:"end_offset"`
	Questions   []*ValidatedQuestion `json:"questions"`
}

// Stats carries extraction diagnostics for the review UI
type Stats struct {
	StrategyCounts       map[string]int `json:"strategy_counts"`
	DuplicatesRemoved    int            `json:"duplicates_removed"`
	ValidationRejections map[string]int `json:"validation_rejections"`
	PagesProcessed       int            `json:"pages_processed"`
}

// Result is the final output of an extraction run
type Result struct {
	RunID        string               `json:"run_id"`
	Status       Status               `json:"status"`
	Questions    []*ValidatedQuestion `json:"questions"`
	PracticeSets []PracticeSet        `json:"practice_sets,omitempty"`
	Stats        Stats                `json:"stats"`
}

// Rejection reason codes reported in Stats.ValidationRejections
const (
	RejectStemTooShort   = "stem_too_short"
	RejectStemTooLong    = "stem_too_long"
	RejectOptionCount    = "wrong_option_count"
	RejectEmptyOption    = "empty_option"
	RejectOptionTooLong  = "option_too_long"
	RejectLeakedQuestion = "leaked_question_marker"
	RejectLeakedArtifact = "leaked_artifact"
	RejectLeakedDate     = "leaked_date"
)

// Limits used by strategies and the final validation gate
const (
	// Strategy-local stem cap; permissive so strategies favour recall
	MaxStemLenLocal = 500
	// Final-gate stem bounds applied pool-wide after deduplication
	MinStemLen = 10
	MaxStemLen = 300
	// Final-gate per-option length cap
	MaxOptionLen = 100
	// Strategy-local per-option cap; parsing past this usually means the
	// option bled into the next question
	MaxOptionLenLocal = 200
	// Number of options every validated question must carry
	OptionCount = 4
)
