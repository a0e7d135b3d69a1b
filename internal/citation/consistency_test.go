package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsistencyStableSources(t *testing.T) {
	tracker := NewConsistencyTracker(true)

	turns := [][]Citation{
		{{Index: 1, Source: "Paper A", File: "a.pdf"}},
		{{Index: 1, Source: "Paper A", File: "a.pdf"}, {Index: 2, Source: "Paper B", File: "b.pdf"}},
		{{Index: 1, Source: "Paper B", File: "b.pdf"}},
	}

	for _, citations := range turns {
		require.NoError(t, tracker.Observe(citations))
	}
	assert.Equal(t, 3, tracker.Turn())
}

func TestConsistencyFileDrift(t *testing.T) {
	tracker := NewConsistencyTracker(true)

	require.NoError(t, tracker.Observe([]Citation{
		{Index: 1, Source: "Paper A", File: "a.pdf"},
	}))
	require.NoError(t, tracker.Observe([]Citation{
		{Index: 1, Source: "Paper A", File: "a.pdf"},
	}))

	// The same source must not drift to a different file.
	err := tracker.Observe([]Citation{
		{Index: 1, Source: "Paper A", File: "a-revised.pdf"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Paper A")
	assert.Contains(t, err.Error(), "a-revised.pdf")
}

func TestConsistencyNewSourcesDisallowed(t *testing.T) {
	tracker := NewConsistencyTracker(false)

	require.NoError(t, tracker.Observe([]Citation{
		{Index: 1, Source: "Paper A", File: "a.pdf"},
	}))

	err := tracker.Observe([]Citation{
		{Index: 1, Source: "Paper B", File: "b.pdf"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Paper B")

	// Sources from the first turn remain fine.
	assert.NoError(t, tracker.Observe([]Citation{
		{Index: 1, Source: "Paper A", File: "a.pdf"},
	}))
}

func TestConsistencyFirstTurnUnconstrained(t *testing.T) {
	// Even with new sources disallowed, the first turn establishes the set.
	tracker := NewConsistencyTracker(false)

	assert.NoError(t, tracker.Observe([]Citation{
		{Index: 1, Source: "Paper A", File: "a.pdf"},
		{Index: 2, Source: "Paper B", File: "b.pdf"},
	}))
}
