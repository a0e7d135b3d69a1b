package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCitation() Citation {
	return Citation{
		Index:   1,
		Source:  "Machine Learning Basics",
		Snippet: "Neural networks are machine learning models inspired by the brain.",
		File:    "ml.pdf",
		Page:    12,
	}
}

func TestValidate(t *testing.T) {
	opts := DefaultValidateOptions()

	assert.NoError(t, Validate(validCitation(), opts))
}

func TestValidateIndex(t *testing.T) {
	opts := DefaultValidateOptions()

	c := validCitation()
	c.Index = 0
	assert.Error(t, Validate(c, opts))

	c.Index = -3
	assert.Error(t, Validate(c, opts))
}

func TestValidateRequiredFields(t *testing.T) {
	opts := DefaultValidateOptions()

	c := validCitation()
	c.Source = ""
	assert.Error(t, Validate(c, opts))

	c = validCitation()
	c.Snippet = "too short"
	assert.Error(t, Validate(c, opts), "snippets at or under %d characters do not count as evidence", MinSnippetLen)

	// File is optional by default but can be required.
	c = validCitation()
	c.File = ""
	assert.NoError(t, Validate(c, opts))

	opts.RequireFile = true
	assert.Error(t, Validate(c, opts))
}

func TestValidateRelevance(t *testing.T) {
	opts := DefaultValidateOptions()
	opts.MinRelevance = 0.5

	rel := func(v float64) *float64 { return &v }

	c := validCitation()
	assert.NoError(t, Validate(c, opts), "absent relevance is never checked")

	c.Relevance = rel(0.8)
	assert.NoError(t, Validate(c, opts))

	c.Relevance = rel(0.2)
	assert.Error(t, Validate(c, opts))

	c.Relevance = rel(1.2)
	assert.Error(t, Validate(c, opts))
}

func TestValidateReferences(t *testing.T) {
	citations := []Citation{
		{Index: 1, Source: "Paper A"},
		{Index: 2, Source: "Paper B"},
	}

	report, err := ValidateReferences("Claim one [1] and claim two [2].", citations)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, report.Referenced)
	assert.Empty(t, report.Orphaned)
}

func TestValidateReferencesMissingSource(t *testing.T) {
	citations := []Citation{{Index: 1, Source: "Paper A"}}

	report, err := ValidateReferences("Claim [1] and unsupported claim [2].", citations)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[2]")
	assert.Equal(t, []int{1, 2}, report.Referenced)
}

func TestValidateReferencesOrphans(t *testing.T) {
	citations := []Citation{
		{Index: 1, Source: "Paper A"},
		{Index: 2, Source: "Paper B"},
	}

	// An unreferenced citation is reported, never an error.
	report, err := ValidateReferences("Only one claim [1].", citations)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, report.Orphaned)
}

func TestExtractValidateRoundTrip(t *testing.T) {
	// A citation list built from the extracted markers always reconciles.
	text := "Intro [2], detail [5], conclusion [2] and [9]."

	var citations []Citation
	for _, idx := range Extract(text) {
		citations = append(citations, Citation{Index: idx, Source: "Source"})
	}

	report, err := ValidateReferences(text, citations)
	require.NoError(t, err)
	assert.Empty(t, report.Orphaned)
}
