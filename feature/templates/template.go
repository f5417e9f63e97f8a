package templates

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Template is a named column selection for one snapshot format.
type Template struct {
	// HeaderID is the format fingerprint of the snapshots the template applies to.
	HeaderID string `json:"headerId"`
	// Name is the display name of the template.
	Name string `json:"templateName"`
	// Indices are the selected column positions.
	Indices []int `json:"indices"`
}

// Entry is a template together with its position in the store.
type Entry struct {
	Index int `json:"index"`
	Template
}

// Equal reports whether two templates have the same fingerprint, name and indices.
func (t Template) Equal(o Template) bool {
	if t.HeaderID != o.HeaderID || t.Name != o.Name || len(t.Indices) != len(o.Indices) {
		return false
	}
	for i := range t.Indices {
		if t.Indices[i] != o.Indices[i] {
			return false
		}
	}
	return true
}

// Selection applies the template to a layout of the given column count.
// Indices outside the layout are ignored.
func (t Template) Selection(columns int) []bool {
	sel := DefaultSelection(columns, false)
	for _, idx := range t.Indices {
		if idx >= 0 && idx < columns {
			sel[idx] = true
		}
	}
	return sel
}

// Validate checks the fields a new template must carry.
func (t Template) Validate() error {
	if t.HeaderID == "" {
		return &FieldError{Index: -1, Field: "headerId", Reason: "must not be empty"}
	}
	if t.Name == "" {
		return &FieldError{Index: -1, Field: "templateName", Reason: "must not be empty"}
	}
	for _, idx := range t.Indices {
		if idx < 0 {
			return &FieldError{Index: -1, Field: "indices", Reason: fmt.Sprintf("negative index %d", idx)}
		}
	}
	return nil
}

// ErrNotArray is returned when a templates file does not hold a JSON array.
var ErrNotArray = errors.New("templates file must contain a JSON array")

// FieldError describes an invalid field of a template entry.
// Index is the entry position in the file, or -1 for a single template.
type FieldError struct {
	Index  int
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	field := e.Field
	if field == "" {
		field = "entry"
	}
	if e.Index < 0 {
		return fmt.Sprintf("template %s: %s", field, e.Reason)
	}
	return fmt.Sprintf("template %d %s: %s", e.Index, field, e.Reason)
}

// Decode parses a templates document. Entries with invalid fields are
// skipped and reported in the returned slice of *FieldError.
func Decode(data []byte) ([]Template, []error, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, nil, ErrNotArray
		}
		return nil, nil, fmt.Errorf("decode templates: %w", err)
	}

	out := make([]Template, 0, len(raw))
	var skipped []error
	for i, entry := range raw {
		t, err := decodeEntry(i, entry)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		out = append(out, t)
	}
	return out, skipped, nil
}

func decodeEntry(index int, data json.RawMessage) (Template, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return Template{}, &FieldError{Index: index, Reason: "must be an object"}
	}

	var t Template
	if err := stringField(fields, "headerId", &t.HeaderID); err != nil {
		return Template{}, &FieldError{Index: index, Field: "headerId", Reason: err.Error()}
	}
	if err := stringField(fields, "templateName", &t.Name); err != nil {
		return Template{}, &FieldError{Index: index, Field: "templateName", Reason: err.Error()}
	}

	rawIndices, ok := fields["indices"]
	if !ok {
		return Template{}, &FieldError{Index: index, Field: "indices", Reason: "missing"}
	}
	var values []json.RawMessage
	if err := json.Unmarshal(rawIndices, &values); err != nil || values == nil {
		return Template{}, &FieldError{Index: index, Field: "indices", Reason: "must be an array"}
	}
	t.Indices = make([]int, 0, len(values))
	for _, v := range values {
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return Template{}, &FieldError{Index: index, Field: "indices", Reason: fmt.Sprintf("%s is not a number", v)}
		}
		if f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
			return Template{}, &FieldError{Index: index, Field: "indices", Reason: fmt.Sprintf("%s is not a non-negative integer", v)}
		}
		t.Indices = append(t.Indices, int(f))
	}
	return t, nil
}

func stringField(fields map[string]json.RawMessage, name string, dst *string) error {
	raw, ok := fields[name]
	if !ok {
		return errors.New("missing")
	}
	if err := json.Unmarshal(raw, dst); err != nil || string(raw) == "null" {
		return errors.New("must be a string")
	}
	return nil
}

// DefaultSelection returns the initial selection of a layout with the given column count.
func DefaultSelection(columns int, selected bool) []bool {
	if columns < 0 {
		columns = 0
	}
	sel := make([]bool, columns)
	if selected {
		for i := range sel {
			sel[i] = true
		}
	}
	return sel
}

// SelectedIndices returns the positions of the selected columns in ascending order.
func SelectedIndices(sel []bool) []int {
	out := make([]int, 0, len(sel))
	for i, on := range sel {
		if on {
			out = append(out, i)
		}
	}
	return out
}
