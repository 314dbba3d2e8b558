package insert

import "fmt"

// MalformedRangeError is returned when a range token is neither a line
// number nor a "start-end" pair.
type MalformedRangeError struct {
	Token string
}

func (e *MalformedRangeError) Error() string {
	return fmt.Sprintf("malformed range token %q", e.Token)
}

// ReversedRangeError is returned for a range token whose start is after its end.
type ReversedRangeError struct {
	Token string
	Start int // 1-based
	End   int // 1-based
}

func (e *ReversedRangeError) Error() string {
	return fmt.Sprintf("reversed range %q: start %d is after end %d", e.Token, e.Start, e.End)
}

// FileAccessError is returned when an inserted file cannot be read.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("failed to read inserted file %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// RangeOutOfBoundsError is returned when a requested line does not exist in
// the inserted file.
type RangeOutOfBoundsError struct {
	Path  string
	Index int // 0-based
	Lines int
}

func (e *RangeOutOfBoundsError) Error() string {
	return fmt.Sprintf("line %d requested from %s which has %d lines", e.Index+1, e.Path, e.Lines)
}
