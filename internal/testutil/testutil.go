// Package testutil holds shared fixtures for the package tests.
package testutil

import (
	"math"
	"testing"

	teground "github.com/nmichlo/teground-go"
)

// AlmostEqual reports whether a and b differ by at most tolerance.
func AlmostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// BuildDataFile creates a data file with one "Segment" track named
// trackName and one video sequence per length.
func BuildDataFile(t *testing.T, trackName string, lengths ...teground.VideoTime) (*teground.DataFile, *teground.TrackHeader) {
	t.Helper()
	data := teground.NewDataFile()
	header, err := data.AppendTrack(teground.SegmentTrackType, trackName)
	if err != nil {
		t.Fatalf("append track: %v", err)
	}
	for i, length := range lengths {
		data.AppendSequence(teground.NewSequence(
			testSequencePath(i), "StandardVideoDecoder", teground.SequenceVideo, length))
	}
	return data, header
}

func testSequencePath(i int) string {
	return "test" + string(rune('1'+i))
}

// SegmentTrackOf returns the segment track of header on the i-th sequence.
func SegmentTrackOf(t *testing.T, data *teground.DataFile, header *teground.TrackHeader, i int) *teground.SegmentTrack {
	t.Helper()
	track, ok := data.SequenceAt(i).Track(header).(*teground.SegmentTrack)
	if !ok {
		t.Fatalf("sequence %d has no segment track for header %q", i, header.Name())
	}
	return track
}

// RecordingSubscriber collects every notification for inspection.
type RecordingSubscriber struct {
	Assertions []*teground.SegmentAssertion
	Sequences  []*teground.Sequence
}

// OnSequenceSet records the sequence.
func (r *RecordingSubscriber) OnSequenceSet(seq *teground.Sequence) {
	r.Sequences = append(r.Sequences, seq)
}

// OnAssertionInsert records the assertion.
func (r *RecordingSubscriber) OnAssertionInsert(a *teground.SegmentAssertion) {
	r.Assertions = append(r.Assertions, a)
}

// Reset drops the recorded notifications.
func (r *RecordingSubscriber) Reset() {
	r.Assertions = nil
	r.Sequences = nil
}

// Last returns the most recent assertion, or nil.
func (r *RecordingSubscriber) Last() *teground.SegmentAssertion {
	if len(r.Assertions) == 0 {
		return nil
	}
	return r.Assertions[len(r.Assertions)-1]
}
