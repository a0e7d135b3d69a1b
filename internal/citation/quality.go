package citation

import (
	"strings"

	"ragstore/internal/search"
)

// Quality score weights. The formula is explicit so it can be asserted
// against fixed fixtures.
const (
	qualityBase         = 0.2
	snippetOverlapMax   = 0.4
	sourceOverlapMax    = 0.2
	longSnippetBonus    = 0.1 // snippet longer than 50 chars
	veryLongSnippetStep = 0.1 // and again past 100 chars
	fileBonus           = 0.05
	pageBonus           = 0.05
)

// AssessQuality scores how well a citation supports a query, in [0, 1].
//
//	0.2  for existing at all
//	0.4  weighted by the fraction of query tokens found in the snippet
//	0.2  weighted by the fraction found in the source label
//	0.1  if the snippet is longer than 50 chars, +0.1 past 100
//	0.05 each for file and page metadata
func AssessQuality(c Citation, query string) float64 {
	tokens := search.Tokenize(query)

	score := qualityBase
	score += snippetOverlapMax * tokenOverlap(tokens, c.Snippet)
	score += sourceOverlapMax * tokenOverlap(tokens, c.Source)

	if len(c.Snippet) > 50 {
		score += longSnippetBonus
	}
	if len(c.Snippet) > 100 {
		score += veryLongSnippetStep
	}
	if c.File != "" {
		score += fileBonus
	}
	if c.Page > 0 {
		score += pageBonus
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// tokenOverlap returns the fraction of tokens contained in text,
// case-insensitively. No tokens means no overlap.
func tokenOverlap(tokens []string, text string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	found := 0
	for _, tok := range tokens {
		if strings.Contains(lower, tok) {
			found++
		}
	}
	return float64(found) / float64(len(tokens))
}
