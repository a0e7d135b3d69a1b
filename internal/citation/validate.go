package citation

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// MinSnippetLen is the default minimum snippet length: a snippet must be
// longer than this to count as supporting evidence.
const MinSnippetLen = 10

// ValidateOptions configures structural validation.
type ValidateOptions struct {
	// RequireSource fails citations without a source label.
	RequireSource bool

	// RequireSnippet fails citations whose snippet is missing or no longer
	// than MinSnippetLen characters.
	RequireSnippet bool

	// RequireFile fails citations without a file reference.
	RequireFile bool

	// MinRelevance is the lower bound for the relevance field, when set.
	MinRelevance float64
}

// DefaultValidateOptions requires source and snippet but not file.
func DefaultValidateOptions() ValidateOptions {
	return ValidateOptions{
		RequireSource:  true,
		RequireSnippet: true,
	}
}

// Validate checks the structural shape of a single citation.
func Validate(c Citation, opts ValidateOptions) error {
	if c.Index <= 0 {
		return fmt.Errorf("citation index must be a positive integer, got %d", c.Index)
	}
	if opts.RequireSource && c.Source == "" {
		return fmt.Errorf("citation [%d] is missing a source", c.Index)
	}
	if opts.RequireSnippet && len(c.Snippet) <= MinSnippetLen {
		return fmt.Errorf("citation [%d] snippet must be longer than %d characters", c.Index, MinSnippetLen)
	}
	if opts.RequireFile && c.File == "" {
		return fmt.Errorf("citation [%d] is missing a file reference", c.Index)
	}
	if c.Relevance != nil {
		if *c.Relevance < opts.MinRelevance || *c.Relevance > 1 {
			return fmt.Errorf("citation [%d] relevance %.2f outside [%.2f, 1]",
				c.Index, *c.Relevance, opts.MinRelevance)
		}
	}
	return nil
}

// ReferenceReport describes how response markers line up with the
// supplied citation list.
type ReferenceReport struct {
	// Referenced holds the indices extracted from the response text.
	Referenced []int

	// Orphaned holds indices of citations supplied but never referenced.
	// Orphans are a quality issue, not a correctness one.
	Orphaned []int
}

// ValidateReferences checks that every marker in the response text has a
// matching citation. A marker without a citation is a hard failure: the
// model referenced a source it did not supply. Unreferenced citations are
// reported as orphans and logged as warnings.
func ValidateReferences(text string, citations []Citation) (*ReferenceReport, error) {
	report := &ReferenceReport{Referenced: Extract(text)}

	supplied := make(map[int]bool, len(citations))
	for _, c := range citations {
		supplied[c.Index] = true
	}

	var missing []int
	referenced := make(map[int]bool, len(report.Referenced))
	for _, idx := range report.Referenced {
		referenced[idx] = true
		if !supplied[idx] {
			missing = append(missing, idx)
		}
	}

	for _, c := range citations {
		if !referenced[c.Index] {
			report.Orphaned = append(report.Orphaned, c.Index)
		}
	}
	if len(report.Orphaned) > 0 {
		log.Warn("Citations supplied but never referenced", "indices", report.Orphaned)
	}

	if len(missing) > 0 {
		return report, fmt.Errorf("response references citations with no matching source: %v", missing)
	}
	return report, nil
}
