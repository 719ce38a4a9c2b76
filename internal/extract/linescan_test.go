package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineScanExtractsSequentialOptions(t *testing.T) {
	text := "Q1. What is the capital of France?\n" +
		"A) Berlin\nB) Paris\nC) Madrid\nD) Rome\n" +
		"Q2. Which planet is known as the red planet?\n" +
		"A) Venus\nB) Mars\nC) Jupiter\nD) Saturn\n"

	got := NewLineScanStrategy().Extract(text)
	require.Len(t, got, 2)

	assert.Equal(t, 1, *got[0].Number)
	assert.Equal(t, "What is the capital of France?", got[0].Text)
	assert.Equal(t, []string{"Berlin", "Paris", "Madrid", "Rome"}, got[0].Options)
	assert.Equal(t, SourceLine, got[0].Source)

	assert.Equal(t, 2, *got[1].Number)
	assert.Equal(t, []string{"Venus", "Mars", "Jupiter", "Saturn"}, got[1].Options)
}

func TestLineScanMultiLineStem(t *testing.T) {
	text := "Q5. A question whose stem\n" +
		"continues over two lines before any option appears?\n" +
		"A) one\nB) two\nC) three\nD) four\n"

	got := NewLineScanStrategy().Extract(text)
	require.Len(t, got, 1)
	assert.Equal(t,
		"A question whose stem continues over two lines before any option appears?",
		got[0].Text)
}

func TestLineScanRejectsOutOfOrderOptions(t *testing.T) {
	// B before A: the scanner never completes the A..D sequence.
	text := "Q1. Broken option ordering here?\n" +
		"B) two\nA) one\nC) three\nD) four\n"

	got := NewLineScanStrategy().Extract(text)
	assert.Empty(t, got)
}

func TestLineScanRequiresFourOptions(t *testing.T) {
	text := "Q1. Only three options given?\nA) one\nB) two\nC) three\n"
	got := NewLineScanStrategy().Extract(text)
	assert.Empty(t, got)
}

func TestLineScanIgnoresStrayOptionLines(t *testing.T) {
	// Option lines with no open question are table-of-contents noise.
	text := "A) floating option\nB) another\nC) more\nD) last\n"
	got := NewLineScanStrategy().Extract(text)
	assert.Empty(t, got)
}

func TestLineScanFlushesAtNextQuestion(t *testing.T) {
	// Q1 is incomplete; its partial state must not bleed into Q2.
	text := "Q1. Incomplete question?\nA) only one\n" +
		"Q2. Complete question follows here?\n" +
		"A) one\nB) two\nC) three\nD) four\n"

	got := NewLineScanStrategy().Extract(text)
	require.Len(t, got, 1)
	assert.Equal(t, 2, *got[0].Number)
}
