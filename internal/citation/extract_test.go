package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []int
	}{
		{
			name:     "single marker",
			text:     "Vector stores index embeddings [1].",
			expected: []int{1},
		},
		{
			name:     "multiple markers in order",
			text:     "First [1], then [3], then [2].",
			expected: []int{1, 3, 2},
		},
		{
			name:     "duplicates collapse to first occurrence",
			text:     "See [1] and [1] again, also [1].",
			expected: []int{1},
		},
		{
			name:     "invalid markers are ignored",
			text:     "This [a] is not [999] a valid [0] citation [-1].",
			expected: []int{999},
		},
		{
			name:     "empty text",
			text:     "",
			expected: []int{},
		},
		{
			name:     "no markers",
			text:     "Plain prose without references.",
			expected: []int{},
		},
		{
			name:     "marker inside other brackets",
			text:     "Array access a[10] still counts as [10].",
			expected: []int{10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			assert.NotNil(t, got)
			assert.Equal(t, tt.expected, got)
		})
	}
}
