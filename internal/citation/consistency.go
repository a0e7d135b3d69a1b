package citation

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// ConsistencyTracker checks that citations stay stable across the turns
// of a conversation. Citations are keyed by source label: once a source
// has been seen, later turns must cite it with exactly the same file.
type ConsistencyTracker struct {
	allowNew bool
	turn     int
	seen     map[string]seenCitation
}

type seenCitation struct {
	file string
	turn int
}

// NewConsistencyTracker creates a tracker. With allowNew set to false,
// introducing a source the first turn did not mention is a hard failure.
func NewConsistencyTracker(allowNew bool) *ConsistencyTracker {
	return &ConsistencyTracker{
		allowNew: allowNew,
		seen:     make(map[string]seenCitation),
	}
}

// Turn returns the number of observed turns.
func (t *ConsistencyTracker) Turn() int {
	return t.turn
}

// Observe records one turn's citations and validates them against every
// earlier turn.
func (t *ConsistencyTracker) Observe(citations []Citation) error {
	t.turn++

	for _, c := range citations {
		prev, known := t.seen[c.Source]
		if !known {
			if t.turn > 1 && !t.allowNew {
				return fmt.Errorf("turn %d introduces new citation source %q", t.turn, c.Source)
			}
			t.seen[c.Source] = seenCitation{file: c.File, turn: t.turn}
			log.Debug("Citation source recorded", "source", c.Source, "file", c.File, "turn", t.turn)
			continue
		}
		if prev.file != c.File {
			return fmt.Errorf("citation source %q cited file %q in turn %d but %q in turn %d",
				c.Source, prev.file, prev.turn, c.File, t.turn)
		}
	}
	return nil
}
