package citation

import (
	"fmt"
	"strings"
)

// Expectations bound the combined response check.
type Expectations struct {
	// Query scores citation quality when non-empty.
	Query string

	// MinCitations / MaxCitations bound the citation count. Zero means
	// unbounded.
	MinCitations int
	MaxCitations int

	// RequiredSources must each appear among the citation source labels.
	RequiredSources []string

	// MinQuality, when positive, is the floor every citation's quality
	// score must clear against Query.
	MinQuality float64

	// Structure overrides the structural validation options.
	Structure *ValidateOptions

	// Consistency, when set, folds this response into a cross-turn check.
	Consistency *ConsistencyTracker
}

// Report summarizes a response check.
type Report struct {
	Referenced []int
	Orphaned   []int
	Quality    map[int]float64
	Violations []string
}

// Passed reports whether the response met every expectation.
func (r *Report) Passed() bool {
	return len(r.Violations) == 0
}

// CheckResponse is the one-shot contract check for a generated response:
// structural validation of each citation, marker/source reconciliation,
// optional cross-turn consistency, count bounds, required sources, and
// quality scoring. Violations are loud: any one fails the whole check.
func CheckResponse(response string, citations []Citation, exp Expectations) (*Report, error) {
	report := &Report{Quality: make(map[int]float64)}

	opts := DefaultValidateOptions()
	if exp.Structure != nil {
		opts = *exp.Structure
	}
	for _, c := range citations {
		if err := Validate(c, opts); err != nil {
			report.Violations = append(report.Violations, err.Error())
		}
	}

	refs, err := ValidateReferences(response, citations)
	if err != nil {
		report.Violations = append(report.Violations, err.Error())
	}
	report.Referenced = refs.Referenced
	report.Orphaned = refs.Orphaned

	if exp.Consistency != nil {
		if err := exp.Consistency.Observe(citations); err != nil {
			report.Violations = append(report.Violations, err.Error())
		}
	}

	if exp.MinCitations > 0 && len(citations) < exp.MinCitations {
		report.Violations = append(report.Violations,
			fmt.Sprintf("expected at least %d citations, got %d", exp.MinCitations, len(citations)))
	}
	if exp.MaxCitations > 0 && len(citations) > exp.MaxCitations {
		report.Violations = append(report.Violations,
			fmt.Sprintf("expected at most %d citations, got %d", exp.MaxCitations, len(citations)))
	}

	sources := make(map[string]bool, len(citations))
	for _, c := range citations {
		sources[c.Source] = true
	}
	for _, required := range exp.RequiredSources {
		if !sources[required] {
			report.Violations = append(report.Violations,
				fmt.Sprintf("required source %q was not cited", required))
		}
	}

	if exp.Query != "" {
		for _, c := range citations {
			score := AssessQuality(c, exp.Query)
			report.Quality[c.Index] = score
			if exp.MinQuality > 0 && score < exp.MinQuality {
				report.Violations = append(report.Violations,
					fmt.Sprintf("citation [%d] quality %.2f below floor %.2f", c.Index, score, exp.MinQuality))
			}
		}
	}

	if !report.Passed() {
		return report, fmt.Errorf("citation contract violated:\n  %s", strings.Join(report.Violations, "\n  "))
	}
	return report, nil
}
