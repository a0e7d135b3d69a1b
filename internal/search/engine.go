// Package search implements deterministic keyword relevance ranking over
// uploaded documents.
//
// The scorer is intentionally explainable: per query token it awards full
// weight for a substring match and a reduced weight for a near-miss
// (Levenshtein distance <= 1), then averages across the query. Short
// queries are dampened so that a single matched token cannot clear very
// strict thresholds.
package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// Document is a searchable unit: one completed file.
type Document struct {
	ID       string
	Filename string
	Content  string
}

// Match is a scored document with a supporting excerpt.
type Match struct {
	DocID    string
	Filename string
	Snippet  string
	Score    float64 // 0-1, higher is better
}

// Options configures ranking.
type Options struct {
	// Limit is the maximum number of matches to return.
	Limit int

	// Threshold drops matches scoring below it.
	Threshold float64
}

const (
	substringWeight = 1.0
	fuzzyWeight     = 0.7

	// Tokens shorter than this are never fuzzy-matched; one edit in a
	// three-letter word is a different word.
	minFuzzyTokenLen = 4

	snippetRadius = 60
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Tokenize splits text into lowercase tokens longer than two characters.
func Tokenize(text string) []string {
	var tokens []string
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if len(tok) > 2 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Rank scores every document against the query, filters by threshold,
// and returns up to Limit matches ordered by descending score. Ties keep
// document order, so identical calls return identical results.
func Rank(query string, docs []Document, opts Options) []Match {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		log.Debug("Query produced no tokens", "query", query)
		return nil
	}

	var matches []Match
	for _, doc := range docs {
		score, anchor := scoreDocument(tokens, doc.Content)
		if score <= 0 || score < opts.Threshold {
			continue
		}
		matches = append(matches, Match{
			DocID:    doc.ID,
			Filename: doc.Filename,
			Snippet:  excerpt(doc.Content, anchor),
			Score:    score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if opts.Limit > 0 && len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches
}

// scoreDocument computes the relevance of content against query tokens.
// It returns the score and the byte offset of the first substring match,
// used to anchor the snippet (-1 when only fuzzy matches hit).
func scoreDocument(tokens []string, content string) (float64, int) {
	lower := strings.ToLower(content)
	contentTokens := tokenPattern.FindAllString(lower, -1)

	anchor := -1
	total := 0.0
	for _, tok := range tokens {
		if idx := strings.Index(lower, tok); idx >= 0 {
			total += substringWeight
			if anchor < 0 || idx < anchor {
				anchor = idx
			}
			continue
		}
		if fuzzyMatch(tok, contentTokens) {
			total += fuzzyWeight
		}
	}
	if total == 0 {
		return 0, -1
	}

	base := total / float64(len(tokens))
	return base * dampener(len(tokens)), anchor
}

// dampener scales scores for short queries: one matched token is weaker
// evidence than three. Queries of three or more tokens are unscaled.
func dampener(n int) float64 {
	if n >= 3 {
		return 1.0
	}
	return 0.6 + 0.4*float64(n)/3
}

// fuzzyMatch reports whether tok is within one edit of any content token.
// This is the chosen fuzzy strategy: no stemming, a single insertion,
// deletion, or substitution covers the typo tolerance the ranking needs
// ("lerning" finds "learning").
func fuzzyMatch(tok string, contentTokens []string) bool {
	if len(tok) < minFuzzyTokenLen {
		return false
	}
	for _, ct := range contentTokens {
		if len(ct) < minFuzzyTokenLen {
			continue
		}
		if editDistanceAtMostOne(tok, ct) {
			return true
		}
	}
	return false
}

// editDistanceAtMostOne reports whether a and b are within Levenshtein
// distance one, without building the full DP table.
func editDistanceAtMostOne(a, b string) bool {
	la, lb := len(a), len(b)
	if la > lb {
		a, b = b, a
		la, lb = lb, la
	}
	if lb-la > 1 {
		return false
	}

	// Same length: allow one substitution.
	if la == lb {
		diffs := 0
		for i := 0; i < la; i++ {
			if a[i] != b[i] {
				diffs++
				if diffs > 1 {
					return false
				}
			}
		}
		return true
	}

	// Length differs by one: allow one insertion into a.
	i, j, edits := 0, 0, 0
	for i < la && j < lb {
		if a[i] == b[j] {
			i++
			j++
			continue
		}
		edits++
		if edits > 1 {
			return false
		}
		j++
	}
	return true
}

// excerpt extracts a window around the anchor offset, trimmed to word
// boundaries. With no anchor it falls back to the document head.
func excerpt(content string, anchor int) string {
	if anchor < 0 {
		anchor = 0
	}

	start := anchor - snippetRadius
	if start < 0 {
		start = 0
	}
	end := anchor + snippetRadius
	if end > len(content) {
		end = len(content)
	}

	// Trim partial words at the window edges.
	if start > 0 {
		if cut := strings.IndexAny(content[start:end], " \t\n"); cut >= 0 {
			start += cut + 1
		}
	}
	if end < len(content) {
		if cut := strings.LastIndexAny(content[start:end], " \t\n"); cut > 0 {
			end = start + cut
		}
	}

	snippet := strings.TrimSpace(content[start:end])
	snippet = strings.Join(strings.Fields(snippet), " ")
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(content) {
		snippet += "..."
	}
	return snippet
}
