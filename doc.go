/*
Package teground expresses and evaluates ground-truth assertions over timed
segment annotations of video and image sequences.

An annotation file describes one or more sequences, each carrying one or
more segment tracks: intervals of interest on the sequence timeline. Code
under test drives a cursor forward across those timelines and emits stamps
(pointwise events) or overlaps (interval events); the library matches each
emission against the annotated segments under configurable tolerances,
classifies the outcome as Match, Miss or Unmarked, and records it in an
ordered assertion log that can be persisted, diffed or rendered.

# Basic Usage

	data := teground.NewDataFile()
	header, _ := data.AppendTrack("Segment", "Hands")

	seq := teground.NewSequence("clips/checkout.mp4", "StandardVideoDecoder", teground.SequenceVideo, 1500)
	data.AppendSequence(seq)

	track := seq.Track(header).(*teground.SegmentTrack)
	track.InsertSegment(teground.NewSegment(120, 40, ""))

	test, _ := teground.NewSegmentTrackTest(data, header)
	test.SingleStamp(130, "hand enters basket area")
	test.AdvanceCursorPosition(400)

	fmt.Println(test.CountAssertions(teground.ResultMatch))

# Core Types

DataFile owns the annotated sequences and the shared track headers, and
keeps every sequence's tracks in one-to-one correspondence with the header
set.

SegmentTrack keeps its segments in canonical (position, length) order and
supports insertion, removal and in-place coordinate reassignment with
order repair.

SegmentTrackTest is the evaluation engine: a monotonically advancing
cursor over (sequence, position), the stamp and overlap operations, the
unmarked sweep and the per-sequence assertion log.

TestSuite aggregates the evaluators over one DataFile and dispatches
persistence and rendering.

# Persistence

DataFile and TestSuite read and write YAML documents (root keys "TeGround"
and "TeGroundTestSuite"). See ReadFrom and WriteTo on each.

# Rendering

TestSuite.Draw rasterizes the evaluators onto a BGR gocv.Mat: one heading
row with frame-number labels plus one row per evaluator, with unmarked,
matched and missed regions and the cursor line.
*/
package teground
