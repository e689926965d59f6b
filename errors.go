package teground

import "fmt"

// ParseError reports a malformed persistence payload. Path names the
// document location that failed, e.g. "TeGround.Tracks".
type ParseError struct {
	Path    string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("teground: parse %s: %s", e.Path, e.Message)
}

// UnknownTrackTypeError reports a track type tag with no registered factory.
type UnknownTrackTypeError struct {
	Type string
}

func (e *UnknownTrackTypeError) Error() string {
	return fmt.Sprintf("teground: unknown track type %q", e.Type)
}

// TypeMismatchError reports an evaluator attached to a header of the wrong
// track type.
type TypeMismatchError struct {
	Got  string
	Want string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("teground: track type mismatch: got %q, want %q", e.Got, e.Want)
}

// OutOfBoundsError reports a value outside its valid range: a cursor
// position past the sequence end, a segment past the track end, or a header
// index past the header set.
type OutOfBoundsError struct {
	Context string
	Value   int64
	Limit   int64
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("teground: %s out of bounds: %d (limit %d)", e.Context, e.Value, e.Limit)
}

// CursorBackwardsError reports a cursor monotonicity violation.
type CursorBackwardsError struct {
	From int64
	To   int64
}

func (e *CursorBackwardsError) Error() string {
	return fmt.Sprintf("teground: cannot advance cursor backwards: %d -> %d", e.From, e.To)
}

// CursorAtEndError reports a mutation attempted after the cursor has
// passed the last sequence.
type CursorAtEndError struct{}

func (e *CursorAtEndError) Error() string {
	return "teground: cursor is past the last sequence"
}

// SegmentNotFoundError reports a persisted segment back-reference that does
// not resolve against the data file.
type SegmentNotFoundError struct {
	Position VideoTime
	Length   VideoTime
}

func (e *SegmentNotFoundError) Error() string {
	return fmt.Sprintf("teground: no segment at (%d, %d) in data file", e.Position, e.Length)
}
