package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrBothEmpty is returned when neither snapshot contains any record.
	ErrBothEmpty = errors.New("both documents are empty")

	// ErrDifferentFormat is returned when the snapshots have different column counts.
	ErrDifferentFormat = errors.New("documents have different formats")

	// ErrRunInProgress is returned by Runner.Start while a previous run is still in flight.
	ErrRunInProgress = errors.New("a reconciliation is already running")

	// ErrEmptyPath is wrapped by InputError when a path is blank.
	ErrEmptyPath = errors.New("empty path")

	// ErrNotRegularFile is wrapped by InputError when a path is a directory or device.
	ErrNotRegularFile = errors.New("not a regular file")
)

// FormatError describes a column count mismatch between the two snapshots.
type FormatError struct {
	FirstColumns  int
	SecondColumns int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: first has %d columns, second has %d", ErrDifferentFormat, e.FirstColumns, e.SecondColumns)
}

// Unwrap lets errors.Is match ErrDifferentFormat.
func (e *FormatError) Unwrap() error {
	return ErrDifferentFormat
}

// InputError reports a path that cannot be used as a snapshot.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid input: %v", e.Err)
	}
	return fmt.Sprintf("invalid input %q: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
