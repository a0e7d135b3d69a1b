// Package citation extracts and validates numbered source references in
// generated text.
//
// Extraction is deliberately permissive (a regex over bracket markers);
// every semantic guarantee lives in the validators so the two concerns
// stay separate.
package citation

// Citation is a numbered reference supplied alongside a generated
// response. Citations are immutable once created; validators only read
// them.
type Citation struct {
	// Index is the reference number as it appears in text ([1], [2], ...).
	Index int `json:"index"`

	// Source is the human-readable source label.
	Source string `json:"source"`

	// Snippet is the supporting excerpt.
	Snippet string `json:"snippet"`

	// File and Page are optional enrichment fields.
	File string `json:"file,omitempty"`
	Page int    `json:"page,omitempty"`

	// Relevance, when present, must lie within [0, 1].
	Relevance *float64 `json:"relevance,omitempty"`
}
