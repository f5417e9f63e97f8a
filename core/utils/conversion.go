package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseIndices parses a comma-separated list of non-negative column indices,
// e.g. "0,2,5". Blank entries are ignored; an empty string yields nil.
func ParseIndices(s string) ([]int, error) {
	var indices []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid column index %q: %w", part, err)
		}
		if i < 0 {
			return nil, fmt.Errorf("invalid column index %d: must not be negative", i)
		}
		indices = append(indices, i)
	}
	return indices, nil
}

// JoinIndices formats indices the way ParseIndices reads them.
func JoinIndices(indices []int) string {
	parts := make([]string, len(indices))
	for i, v := range indices {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// AllIndices returns 0..n-1.
func AllIndices(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}
