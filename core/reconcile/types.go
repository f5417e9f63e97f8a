package reconcile

import (
	"fmt"
	"slices"
	"time"
)

// RowState classifies a row of the combined result.
// The numeric order is the display order: Added, Removed, Unchanged.
type RowState int

const (
	// Added marks a row of the second snapshot with no match in the first.
	Added RowState = iota
	// Removed marks a row of the first snapshot with no match in the second.
	Removed
	// Unchanged marks a row of the second snapshot that also exists in the first.
	Unchanged
)

// String returns the lowercase name of the state.
func (s RowState) String() string {
	switch s {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Unchanged:
		return "unchanged"
	default:
		return fmt.Sprintf("RowState(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s RowState) MarshalText() ([]byte, error) {
	switch s {
	case Added, Removed, Unchanged:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("invalid row state %d", int(s))
	}
}

// UnmarshalText decodes a state name.
func (s *RowState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "added":
		*s = Added
	case "removed":
		*s = Removed
	case "unchanged":
		*s = Unchanged
	default:
		return fmt.Errorf("invalid row state %q", string(text))
	}
	return nil
}

// MatchStrategy names how rows of the two snapshots were paired.
type MatchStrategy string

const (
	// StrategyKey pairs rows by the value of a single identifier column.
	StrategyKey MatchStrategy = "key"
	// StrategyContent pairs rows by the unordered set of their cell values.
	StrategyContent MatchStrategy = "content"
)

// Row is one record of the combined result.
type Row struct {
	// State is the classification of the row.
	State RowState `json:"state"`
	// Cells are the row's own values, one per column.
	Cells []string `json:"cells"`
}

// CombinedResult is the outcome of reconciling two snapshots.
// It is never mutated after Engine.Reconcile returns it.
type CombinedResult struct {
	// FormatFingerprint identifies the column layout of the second snapshot.
	FormatFingerprint string `json:"format_fingerprint"`

	// Headers are the column names of the second snapshot.
	Headers []string `json:"headers"`

	// Rows are grouped by state in the order Added, Removed, Unchanged.
	Rows []Row `json:"rows"`

	// AddedCount counts second-snapshot rows without a match in the first.
	AddedCount int `json:"added_count"`

	// RemovedCount counts first-snapshot rows without a match in the second.
	RemovedCount int `json:"removed_count"`

	// Strategy is the matching strategy that was used.
	Strategy MatchStrategy `json:"strategy"`

	// KeyColumn is the identifier column for StrategyKey, NoKeyColumn otherwise.
	KeyColumn int `json:"key_column"`
}

// UnchangedCount returns the number of rows present in both snapshots.
func (r *CombinedResult) UnchangedCount() int {
	return len(r.Rows) - r.AddedCount - r.RemovedCount
}

// Clone returns a deep copy of the result.
func (r *CombinedResult) Clone() *CombinedResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Headers = slices.Clone(r.Headers)
	if r.Rows != nil {
		c.Rows = make([]Row, len(r.Rows))
		for i, row := range r.Rows {
			c.Rows[i] = Row{State: row.State, Cells: slices.Clone(row.Cells)}
		}
	}
	return &c
}

// RowCount returns the number of rows in the result.
func (r *CombinedResult) RowCount() int {
	return len(r.Rows)
}

// ColumnCount returns the number of columns in the result.
func (r *CombinedResult) ColumnCount() int {
	return len(r.Headers)
}

// HasData reports whether the result holds at least one row.
func (r *CombinedResult) HasData() bool {
	return r != nil && len(r.Rows) > 0
}

// Outcome is delivered exactly once per Runner.Start.
type Outcome struct {
	// Result is set when the run succeeded.
	Result *CombinedResult
	// Err is set when loading or reconciling failed.
	Err error
	// Elapsed is the time spent on the actual work, excluding padding.
	Elapsed time.Duration
}
