package reconcile

import (
	"fmt"
	"regexp"

	"csv-reconciler/core/document"
)

// NoKeyColumn is returned by KeyLocator.Locate when no single identifier column exists.
const NoKeyColumn = -1

// KeyLocator finds the column that carries a per-row identifier.
type KeyLocator struct {
	pattern *regexp.Regexp
}

// NewKeyLocator compiles the identifier pattern.
func NewKeyLocator(pattern string) (*KeyLocator, error) {
	if pattern == "" {
		pattern = DefaultIdentifierPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile identifier pattern: %w", err)
	}
	return &KeyLocator{pattern: re}, nil
}

// IsIdentifier reports whether s matches the identifier pattern.
func (l *KeyLocator) IsIdentifier(s string) bool {
	return l.pattern.MatchString(s)
}

// Locate inspects only the first data row and returns the index of the one
// column whose cell looks like an identifier. It returns NoKeyColumn when no
// column or more than one column matches, and for documents without rows.
func (l *KeyLocator) Locate(doc *document.Document) int {
	first := doc.Row(0)
	if first == nil {
		return NoKeyColumn
	}

	found := NoKeyColumn
	matches := 0
	for i, cell := range first {
		if l.IsIdentifier(cell) {
			found = i
			matches++
		}
	}

	if matches != 1 {
		return NoKeyColumn
	}
	return found
}
