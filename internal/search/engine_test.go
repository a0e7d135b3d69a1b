package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "simple words",
			input:    "machine learning basics",
			expected: []string{"machine", "learning", "basics"},
		},
		{
			name:     "lowercases and drops short tokens",
			input:    "The AI of Go",
			expected: []string{"the"},
		},
		{
			name:     "splits on punctuation",
			input:    "vector-store, search/rank!",
			expected: []string{"vector", "store", "search", "rank"},
		},
		{
			name:     "keeps digits",
			input:    "error 404 not found",
			expected: []string{"error", "404", "not", "found"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

func TestScoreDocumentExactMatch(t *testing.T) {
	content := "Machine learning models require training data."

	// All three tokens present: full weight, no dampening.
	score, anchor := scoreDocument([]string{"machine", "learning", "models"}, content)
	assert.InDelta(t, 1.0, score, 1e-9)
	assert.Equal(t, 0, anchor)

	// Single token: full base, dampened.
	score, _ = scoreDocument([]string{"machine"}, content)
	assert.InDelta(t, 0.6+0.4/3, score, 1e-9)

	// Two tokens.
	score, _ = scoreDocument([]string{"machine", "learning"}, content)
	assert.InDelta(t, 0.6+0.8/3, score, 1e-9)
}

func TestScoreDocumentPartialMatch(t *testing.T) {
	content := "Machine learning models require training data."

	// One of two tokens matches.
	score, _ := scoreDocument([]string{"machine", "quantum"}, content)
	assert.InDelta(t, 0.5*(0.6+0.8/3), score, 1e-9)

	// No token matches.
	score, anchor := scoreDocument([]string{"quantum", "cryptography"}, content)
	assert.Zero(t, score)
	assert.Equal(t, -1, anchor)
}

func TestScoreDocumentFuzzy(t *testing.T) {
	content := "An introduction to machine learning."

	// Both tokens are one edit away from content tokens.
	score, anchor := scoreDocument([]string{"machne", "lerning"}, content)
	assert.InDelta(t, 0.7*(0.6+0.8/3), score, 1e-9)
	assert.Equal(t, -1, anchor, "fuzzy-only matches have no snippet anchor")

	// Short tokens never fuzzy-match.
	score, _ = scoreDocument([]string{"teh"}, "the end")
	assert.Zero(t, score)
}

func TestDampener(t *testing.T) {
	assert.InDelta(t, 0.6+0.4/3, dampener(1), 1e-9)
	assert.InDelta(t, 0.6+0.8/3, dampener(2), 1e-9)
	assert.InDelta(t, 1.0, dampener(3), 1e-9)
	assert.InDelta(t, 1.0, dampener(7), 1e-9)
}

func TestEditDistanceAtMostOne(t *testing.T) {
	tests := []struct {
		a, b     string
		expected bool
	}{
		{"machine", "machine", true},
		{"machne", "machine", true},  // deletion
		{"machinee", "machine", true}, // insertion
		{"machxne", "machine", true}, // substitution
		{"macxxne", "machine", false},
		{"learning", "lerning", true},
		{"cat", "dog", false},
		{"abc", "abcde", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.a, tt.b), func(t *testing.T) {
			assert.Equal(t, tt.expected, editDistanceAtMostOne(tt.a, tt.b))
		})
	}
}

func TestRankOrdering(t *testing.T) {
	docs := []Document{
		{ID: "f1", Filename: "partial.txt", Content: "Only machine parts here."},
		{ID: "f2", Filename: "full.txt", Content: "Machine learning systems explained."},
		{ID: "f3", Filename: "none.txt", Content: "Cooking recipes for beginners."},
	}

	matches := Rank("machine learning systems", docs, Options{Limit: 10})
	require.Len(t, matches, 2)

	assert.Equal(t, "f2", matches[0].DocID)
	assert.Equal(t, "f1", matches[1].DocID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestRankStableTies(t *testing.T) {
	docs := []Document{
		{ID: "f1", Filename: "a.txt", Content: "machine learning notes"},
		{ID: "f2", Filename: "b.txt", Content: "machine learning slides"},
	}

	first := Rank("machine learning", docs, Options{Limit: 10})
	require.Len(t, first, 2)
	assert.Equal(t, "f1", first[0].DocID, "ties keep document order")

	// Identical calls return identical orderings.
	for i := 0; i < 5; i++ {
		again := Rank("machine learning", docs, Options{Limit: 10})
		assert.Equal(t, first, again)
	}
}

func TestRankThreshold(t *testing.T) {
	docs := []Document{
		{ID: "f1", Filename: "a.txt", Content: "quantum computing explained for the curious"},
	}

	// A one-token match cannot clear a strict threshold.
	matches := Rank("quantum", docs, Options{Limit: 10, Threshold: 0.9})
	assert.Empty(t, matches)

	// But it clears a permissive one.
	matches = Rank("quantum", docs, Options{Limit: 10, Threshold: 0.3})
	require.Len(t, matches, 1)
	assert.Equal(t, "f1", matches[0].DocID)
	assert.GreaterOrEqual(t, matches[0].Score, 0.3)
	assert.Less(t, matches[0].Score, 0.9)
}

func TestRankLimit(t *testing.T) {
	var docs []Document
	for i := 0; i < 8; i++ {
		docs = append(docs, Document{
			ID:      fmt.Sprintf("f%d", i),
			Content: "database indexing strategies",
		})
	}

	matches := Rank("database indexing", docs, Options{Limit: 3})
	assert.Len(t, matches, 3)
}

func TestRankEmptyQuery(t *testing.T) {
	docs := []Document{{ID: "f1", Content: "anything"}}

	assert.Nil(t, Rank("", docs, Options{Limit: 10}))
	assert.Nil(t, Rank("a b", docs, Options{Limit: 10}), "queries of only short tokens produce nothing")
}

func TestExcerpt(t *testing.T) {
	content := "The quick brown fox jumps over the lazy dog while the cat watches from the warm windowsill in the afternoon sun."

	snippet := excerpt(content, 0)
	assert.NotContains(t, snippet, "windowsill")
	assert.Contains(t, snippet, "quick brown fox")

	// Mid-document anchors gain leading and trailing markers.
	mid := excerpt(content, 70)
	assert.Contains(t, mid, "...")

	// Short documents come back whole.
	assert.Equal(t, "short text", excerpt("short text", 0))
}
