package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssessQualityFullMarks(t *testing.T) {
	c := Citation{
		Index:   1,
		Source:  "Machine Learning Basics",
		Snippet: "Neural networks are machine learning models with layers.",
		File:    "ml.pdf",
		Page:    3,
	}

	// Both query tokens hit the snippet and the source, the snippet is
	// longer than 50 chars, and both metadata fields are set.
	score := AssessQuality(c, "machine learning")
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestAssessQualityBareCitation(t *testing.T) {
	c := Citation{Index: 1, Source: "X", Snippet: "AI is cool"}

	score := AssessQuality(c, "neural networks deep learning transformer")
	assert.InDelta(t, 0.2, score, 1e-9, "no overlap, no bonuses, only the base")
}

func TestAssessQualityPartialOverlap(t *testing.T) {
	c := Citation{
		Index:   1,
		Source:  "Unrelated Report",
		Snippet: "transformer models",
	}

	// One of two query tokens in the snippet, none in the source, snippet
	// too short for length bonuses.
	score := AssessQuality(c, "transformer pipelines")
	assert.InDelta(t, 0.2+0.4*0.5, score, 1e-9)
}

func TestAssessQualityMonotonic(t *testing.T) {
	query := "neural networks deep learning transformer"

	weak := Citation{Index: 1, Source: "X", Snippet: "AI is cool"}
	strong := Citation{
		Index:   1,
		Source:  "X",
		Snippet: "Deep learning with neural networks and transformer architectures.",
	}

	assert.Greater(t, AssessQuality(strong, query), AssessQuality(weak, query))
}

func TestAssessQualityMetadataBonuses(t *testing.T) {
	base := Citation{Index: 1, Source: "X", Snippet: "short note"}
	query := "anything at all"

	withFile := base
	withFile.File = "notes.pdf"
	assert.InDelta(t, 0.05, AssessQuality(withFile, query)-AssessQuality(base, query), 1e-9)

	withPage := withFile
	withPage.Page = 7
	assert.InDelta(t, 0.05, AssessQuality(withPage, query)-AssessQuality(withFile, query), 1e-9)
}

func TestAssessQualityCapped(t *testing.T) {
	c := Citation{
		Index:   1,
		Source:  "machine learning machine learning",
		Snippet: "machine learning machine learning machine learning machine learning machine learning",
		File:    "ml.pdf",
		Page:    1,
	}

	assert.LessOrEqual(t, AssessQuality(c, "machine learning"), 1.0)
}
