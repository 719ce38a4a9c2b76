package extract

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
)

// PageSource supplies page text to the pipeline. The PDF layer
// implements it; tests supply fixtures.
type PageSource interface {
	PageCount() int
	PageText(pageIndex int) (PageText, error)
}

// DefaultChunkSize is how many pages are fetched between cancellation
// checks. Chunking only yields control back to the caller; extraction
// itself always runs over the fully reconstructed text stream so a
// question can never be sliced at a chunk boundary.
const DefaultChunkSize = 5

// Pipeline runs the full extraction flow: fetch, normalize, segment,
// per-strategy extraction, dedup/validate. All state lives in the run,
// so one Pipeline value is safe to share across documents.
type Pipeline struct {
	normalizer *Normalizer
	segmenter  *Segmenter
	dedup      *Deduplicator
	strategies []Strategy
	chunkSize  int
}

// PipelineOption customizes pipeline construction
type PipelineOption func(*Pipeline)

// WithStrategies replaces the default strategy set
func WithStrategies(strategies ...Strategy) PipelineOption {
	return func(p *Pipeline) { p.strategies = strategies }
}

// WithChunkSize sets the page-fetch chunk size
func WithChunkSize(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.chunkSize = n
		}
	}
}

// WithMaxSetNumber bounds accepted practice-set numbers
func WithMaxSetNumber(n int) PipelineOption {
	return func(p *Pipeline) { p.segmenter = NewSegmenterWithLimit(n) }
}

// NewPipeline creates a pipeline with default components
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		normalizer: NewNormalizer(),
		segmenter:  NewSegmenter(),
		dedup:      NewDeduplicator(),
		strategies: DefaultStrategies(),
		chunkSize:  DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run fetches every page from source in chunks and extracts questions
// from the reconstructed document text. A cancelled run reports
// StatusCancelled and never a truncated question list.
func (p *Pipeline) Run(ctx context.Context, source PageSource) (*Result, error) {
	count := source.PageCount()
	if count == 0 {
		return p.emptyResult(StatusNoQuestions, 0), nil
	}

	pages := make([]PageText, 0, count)
	for start := 0; start < count; start += p.chunkSize {
		if err := ctx.Err(); err != nil {
			return p.emptyResult(StatusCancelled, len(pages)), nil
		}
		end := min(start+p.chunkSize, count)
		for i := start; i < end; i++ {
			page, err := source.PageText(i)
			if err != nil {
				// A single unreadable page is recoverable; the rest of
				// the document may still carry questions.
				log.Printf("failed to read page %d: %v", i+1, err)
				continue
			}
			pages = append(pages, page)
		}
	}

	return p.RunPages(ctx, pages)
}

// RunPages extracts questions from already-fetched pages
func (p *Pipeline) RunPages(ctx context.Context, pages []PageText) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return p.emptyResult(StatusCancelled, 0), nil
	}

	text := p.normalizer.Normalize(JoinPages(pages))
	if strings.TrimSpace(text) == "" {
		return p.emptyResult(StatusNoQuestions, len(pages)), nil
	}

	result := &Result{
		RunID: uuid.NewString(),
		Stats: Stats{
			StrategyCounts:       make(map[string]int),
			ValidationRejections: make(map[string]int),
			PagesProcessed:       len(pages),
		},
	}

	sets := p.segmenter.Segment(text)
	if len(sets) == 0 {
		result.Questions = p.extractSpan(text, &result.Stats)
	} else {
		for i := range sets {
			if err := ctx.Err(); err != nil {
				return p.emptyResult(StatusCancelled, len(pages)), nil
			}
			span := text[sets[i].StartOffset:sets[i].EndOffset]
			sets[i].Questions = p.extractSpan(span, &result.Stats)
		}
		result.PracticeSets = sets
		result.Questions = p.flattenSets(sets)
	}

	if len(result.Questions) == 0 {
		result.Status = StatusNoQuestions
		return result, nil
	}
	result.Status = StatusOK
	return result, nil
}

// extractSpan pools every strategy's candidates over one text span and
// runs the dedup/validation gate
func (p *Pipeline) extractSpan(text string, stats *Stats) []*ValidatedQuestion {
	var pool []CandidateQuestion
	for _, s := range p.strategies {
		candidates := runStrategy(s, text)
		stats.StrategyCounts[s.Name()] += len(candidates)
		pool = append(pool, candidates...)
	}
	return p.dedup.Merge(pool, stats)
}

// flattenSets joins per-set question lists, dropping questions whose
// text already appeared in an earlier set. Cross-set identity is the
// same dedup key used within a set.
func (p *Pipeline) flattenSets(sets []PracticeSet) []*ValidatedQuestion {
	seen := make(map[string]bool)
	var out []*ValidatedQuestion
	for _, set := range sets {
		for _, q := range set.Questions {
			key := p.dedup.dedupKey(q.Text)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, q)
		}
	}
	return out
}

func (p *Pipeline) emptyResult(status Status, pages int) *Result {
	return &Result{
		RunID:  uuid.NewString(),
		Status: status,
		Stats: Stats{
			StrategyCounts:       make(map[string]int),
			ValidationRejections: make(map[string]int),
			PagesProcessed:       pages,
		},
	}
}

// Describe summarizes a result for logs and tool output
func Describe(r *Result) string {
	return fmt.Sprintf("status=%s questions=%d sets=%d duplicates_removed=%d",
		r.Status, len(r.Questions), len(r.PracticeSets), r.Stats.DuplicatesRemoved)
}
