package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckResponsePasses(t *testing.T) {
	response := "Vector stores index embeddings [1], which search traverses [2]."
	citations := []Citation{
		{Index: 1, Source: "Storage Internals", Snippet: "Embeddings are kept in an approximate index."},
		{Index: 2, Source: "Search Design", Snippet: "Queries traverse the index in sublinear time."},
	}

	report, err := CheckResponse(response, citations, Expectations{
		Query:           "vector store search",
		MinCitations:    1,
		MaxCitations:    5,
		RequiredSources: []string{"Storage Internals"},
	})
	require.NoError(t, err)
	assert.True(t, report.Passed())
	assert.Equal(t, []int{1, 2}, report.Referenced)
	assert.Len(t, report.Quality, 2)
}

func TestCheckResponseStructuralViolation(t *testing.T) {
	citations := []Citation{
		{Index: 1, Source: "", Snippet: "A snippet long enough to count as evidence."},
	}

	report, err := CheckResponse("Claim [1].", citations, Expectations{})
	require.Error(t, err)
	assert.False(t, report.Passed())
	require.Len(t, report.Violations, 1)
	assert.Contains(t, report.Violations[0], "missing a source")
}

func TestCheckResponseMissingSource(t *testing.T) {
	citations := []Citation{
		{Index: 1, Source: "Paper A", Snippet: "A snippet long enough to count as evidence."},
	}

	report, err := CheckResponse("Claim [1] and claim [3].", citations, Expectations{})
	require.Error(t, err)
	assert.False(t, report.Passed())
	assert.Equal(t, []int{1, 3}, report.Referenced)
}

func TestCheckResponseCountBounds(t *testing.T) {
	citations := []Citation{
		{Index: 1, Source: "Paper A", Snippet: "A snippet long enough to count as evidence."},
	}

	_, err := CheckResponse("Claim [1].", citations, Expectations{MinCitations: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2")

	citations = append(citations,
		Citation{Index: 2, Source: "Paper B", Snippet: "Another snippet long enough to matter here."})

	_, err = CheckResponse("Claims [1] and [2].", citations, Expectations{MaxCitations: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 1")
}

func TestCheckResponseRequiredSources(t *testing.T) {
	citations := []Citation{
		{Index: 1, Source: "Paper A", Snippet: "A snippet long enough to count as evidence."},
	}

	_, err := CheckResponse("Claim [1].", citations, Expectations{
		RequiredSources: []string{"Paper A", "Paper B"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Paper B")
}

func TestCheckResponseQualityFloor(t *testing.T) {
	citations := []Citation{
		{Index: 1, Source: "Unrelated", Snippet: "Nothing about the topic whatsoever."},
	}

	report, err := CheckResponse("Claim [1].", citations, Expectations{
		Query:      "distributed consensus protocols",
		MinQuality: 0.8,
	})
	require.Error(t, err)
	assert.Less(t, report.Quality[1], 0.8)
}

func TestCheckResponseConsistency(t *testing.T) {
	tracker := NewConsistencyTracker(true)
	first := []Citation{
		{Index: 1, Source: "Paper A", Snippet: "A snippet long enough to count as evidence.", File: "a.pdf"},
	}

	_, err := CheckResponse("Claim [1].", first, Expectations{Consistency: tracker})
	require.NoError(t, err)

	drifted := []Citation{
		{Index: 1, Source: "Paper A", Snippet: "A snippet long enough to count as evidence.", File: "a-revised.pdf"},
	}
	report, err := CheckResponse("Claim [1].", drifted, Expectations{Consistency: tracker})
	require.Error(t, err)
	assert.False(t, report.Passed())
}

func TestCheckResponseCollectsAllViolations(t *testing.T) {
	citations := []Citation{
		{Index: 1, Source: "", Snippet: "short"},
	}

	// Missing source, short snippet, unmatched marker, count floor.
	report, err := CheckResponse("Claims [1] and [2].", citations, Expectations{MinCitations: 2})
	require.Error(t, err)
	assert.GreaterOrEqual(t, len(report.Violations), 3)
}
