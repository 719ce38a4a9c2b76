package extract

import "log"

// Strategy is a pure extraction pass over normalized document text.
// Strategies run independently and their candidate pools are merged;
// cross-strategy agreement is the deduplicator's job, not theirs.
type Strategy interface {
	// Name identifies the strategy in stats and question sources
	Name() string
	// Extract returns every candidate the strategy can find. Finding
	// nothing is not an error; the strategy simply contributes an
	// empty slice.
	Extract(text string) []CandidateQuestion
}

// DefaultStrategies returns the standard strategy set in a fixed order
// so repeated runs over identical text stay deterministic.
func DefaultStrategies() []Strategy {
	return []Strategy{
		NewLineScanStrategy(),
		NewPatternStrategy(),
		NewBlockStrategy(),
	}
}

// runStrategy executes one strategy, recovering from panics so a
// pathological document can never take down the whole run.
func runStrategy(s Strategy, text string) (candidates []CandidateQuestion) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("extraction strategy %s failed: %v", s.Name(), r)
			candidates = nil
		}
	}()
	return s.Extract(text)
}

// truncateStem bounds a stem before regex matching to avoid
// catastrophic backtracking on pathological input
func truncateStem(s string) string {
	if len(s) > MaxStemLenLocal {
		return s[:MaxStemLenLocal]
	}
	return s
}
