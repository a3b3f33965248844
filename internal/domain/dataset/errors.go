package dataset

import (
	"errors"
	"fmt"
)

// Sentinel kinds for dataset loading.
var (
	ErrDataFormat    = errors.New("data format error")
	ErrDatasetAbsent = errors.New("dataset not found")
)

// DataFormatError describes why a CSV could not be turned into a dataset.
// Line is 1-based and counts the header; zero means the problem is not tied
// to a single line.
type DataFormatError struct {
	Source string
	Line   int
	Column string
	Value  string
	Reason string
	Err    error
}

func (e *DataFormatError) Error() string {
	msg := "invalid energy data"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(", column %q", e.Column)
	}
	msg += ": " + e.Reason
	if e.Value != "" {
		msg += fmt.Sprintf(" (got %q)", e.Value)
	}
	return msg
}

// Is lets callers match any DataFormatError with errors.Is(err, ErrDataFormat).
func (e *DataFormatError) Is(target error) bool { return target == ErrDataFormat }

func (e *DataFormatError) Unwrap() error { return e.Err }
