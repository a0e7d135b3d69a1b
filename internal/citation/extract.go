package citation

import (
	"regexp"
	"strconv"
)

var markerPattern = regexp.MustCompile(`\[(\d+)\]`)

// Extract returns the citation indices referenced in text, deduplicated
// in first-seen order. Only strictly positive integer markers count;
// [a], [0], and [-1] are ignored rather than treated as parse errors.
func Extract(text string) []int {
	indices := []int{}
	seen := make(map[int]bool)

	for _, m := range markerPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		indices = append(indices, n)
	}
	return indices
}
