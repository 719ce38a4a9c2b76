package answerkey

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examforge/mcp-exam-extractor/internal/extract"
)

func intPtr(n int) *int { return &n }

func correlatorTestPages() []extract.PageText {
	return []extract.PageText{{
		PageNumber: 1,
		Text: "Q1. What is the capital of France?\nA) Berlin\nB) Paris\nC) Madrid\nD) Rome\n\n" +
			"Q2. How many legs does a spider have?\nA) Six\nB) Four\nC) Eight\nD) Ten\n\n" +
			"Answer Key: 1.b, 2.c\n",
	}}
}

func correlatorTestQuestions() []*extract.ValidatedQuestion {
	return []*extract.ValidatedQuestion{
		{
			ID:             "q-one",
			QuestionNumber: intPtr(1),
			Text:           "What is the capital of France?",
			Options:        []string{"Berlin", "Paris", "Madrid", "Rome"},
		},
		{
			ID:             "q-two",
			QuestionNumber: intPtr(2),
			Text:           "How many legs does a spider have?",
			Options:        []string{"Six", "Four", "Eight", "Ten"},
		},
	}
}

func TestCorrelatorPatternAnswers(t *testing.T) {
	c := NewCorrelator()
	questions := correlatorTestQuestions()

	n, err := c.Annotate(context.Background(), correlatorTestPages(), questions, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NotNil(t, questions[0].CorrectAnswer)
	assert.Equal(t, 1, *questions[0].CorrectAnswer)
	assert.Equal(t, string(MethodPattern), questions[0].DetectionMethod)
	require.NotNil(t, questions[0].DetectionConfidence)
	assert.Equal(t, sectionConfidence, *questions[0].DetectionConfidence)

	require.NotNil(t, questions[1].CorrectAnswer)
	assert.Equal(t, 2, *questions[1].CorrectAnswer)
}

func TestCorrelatorManualOverrideWins(t *testing.T) {
	c := NewCorrelator()
	questions := correlatorTestQuestions()
	overrides := []ManualOverride{{QuestionID: "q-one", Answer: "d", Method: "manual"}}

	n, err := c.Annotate(context.Background(), correlatorTestPages(), questions, overrides)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NotNil(t, questions[0].CorrectAnswer)
	assert.Equal(t, 3, *questions[0].CorrectAnswer)
	assert.Equal(t, string(MethodManual), questions[0].DetectionMethod)
	assert.Equal(t, 1.0, *questions[0].DetectionConfidence)

	// The untouched question keeps its pattern answer
	assert.Equal(t, string(MethodPattern), questions[1].DetectionMethod)
}

func TestCorrelatorNoEvidence(t *testing.T) {
	c := NewCorrelator()
	questions := []*extract.ValidatedQuestion{{
		ID:             "q-lonely",
		QuestionNumber: intPtr(9),
		Text:           "A question with no key anywhere?",
		Options:        []string{"w", "x", "y", "z"},
	}}
	pages := []extract.PageText{{PageNumber: 1, Text: "Nothing useful here."}}

	n, err := c.Annotate(context.Background(), pages, questions, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Nil(t, questions[0].CorrectAnswer)
	assert.Empty(t, questions[0].DetectionMethod)
}

func TestCorrelatorHighestConfidenceWins(t *testing.T) {
	// An inline pattern (0.8) and a bold marker (0.7) both exist for
	// question 3; the pattern answer must win.
	pages := []extract.PageText{{
		PageNumber: 1,
		Text:       "Q3. Pick the best option.\n**a) first**\nB) second\nC) third\nD) fourth\n3: d\n",
	}}
	questions := []*extract.ValidatedQuestion{{
		ID:             "q-three",
		QuestionNumber: intPtr(3),
		Text:           "Pick the best option.",
		Options:        []string{"first", "second", "third", "fourth"},
	}}

	c := NewCorrelator()
	n, err := c.Annotate(context.Background(), pages, questions, nil)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	assert.Equal(t, 3, *questions[0].CorrectAnswer)
	assert.Equal(t, string(MethodPattern), questions[0].DetectionMethod)
}

func TestCorrelatorInvalidLetterIgnored(t *testing.T) {
	c := NewCorrelator()
	questions := correlatorTestQuestions()
	overrides := []ManualOverride{{QuestionID: "q-one", Answer: "z"}}

	_, err := c.Annotate(context.Background(), correlatorTestPages(), questions, overrides)
	require.NoError(t, err)

	// The bogus override is dropped and the pattern answer survives
	assert.Equal(t, string(MethodPattern), questions[0].DetectionMethod)
	assert.Equal(t, 1, *questions[0].CorrectAnswer)
}

func TestCorrelatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCorrelator()
	n, err := c.Annotate(ctx, correlatorTestPages(), correlatorTestQuestions(), nil)
	assert.Error(t, err)
	assert.Zero(t, n)
}
