package teground_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	teground "github.com/nmichlo/teground-go"
	"github.com/nmichlo/teground-go/internal/testutil"
)

func newTest(t *testing.T, data *teground.DataFile, header *teground.TrackHeader) (*teground.SegmentTrackTest, *testutil.RecordingSubscriber) {
	t.Helper()
	test, err := teground.NewSegmentTrackTest(data, header)
	require.NoError(t, err)
	sub := &testutil.RecordingSubscriber{}
	test.AddSubscriber(sub)
	return test, sub
}

func TestSegmentTrackTest_RejectsNonSegmentHeader(t *testing.T) {
	data := teground.NewDataFile()
	data.Registry().Register("Marker", teground.NewSegmentTrack)
	header, err := data.AppendTrack("Marker", "Track")
	require.NoError(t, err)

	_, err = teground.NewSegmentTrackTest(data, header)
	var mismatch *teground.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "Marker", mismatch.Got)
}

func TestSegmentTrackTest_NoSequencesStartsAtEnd(t *testing.T) {
	data, header := testutil.BuildDataFile(t, "Track")
	test, _ := newTest(t, data, header)

	assert.True(t, test.IsEnd())

	var atEnd *teground.CursorAtEndError
	require.ErrorAs(t, test.AdvanceCursorPosition(100), &atEnd)
	require.ErrorAs(t, test.AdvanceCursorSequence(0), &atEnd)
	require.ErrorAs(t, test.SingleStamp(100, ""), &atEnd)
}

func TestSegmentTrackTest_CursorValidation(t *testing.T) {
	data, header := testutil.BuildDataFile(t, "Track", 100)
	test, sub := newTest(t, data, header)

	var oob *teground.OutOfBoundsError
	require.ErrorAs(t, test.AdvanceCursorPosition(100), &oob)
	require.ErrorAs(t, test.SingleStamp(100, ""), &oob)

	var backwards *teground.CursorBackwardsError
	require.ErrorAs(t, test.AdvanceCursorSequence(0), &backwards)

	// A stamp with no segment in reach records a miss; misses are
	// outcomes, not errors.
	require.NoError(t, test.SingleStamp(50, ""))
	require.Len(t, sub.Assertions, 1)
	assert.Equal(t, teground.ResultMiss, sub.Last().Result())
	assert.Equal(t, teground.SingleStamp, sub.Last().Kind())
	assert.False(t, sub.Last().HasSegment())

	require.NoError(t, test.AdvanceCursorPosition(60))
	require.ErrorAs(t, test.AdvanceCursorPosition(50), &backwards)
	require.ErrorAs(t, test.AdvanceCursorPosition(60), &backwards)

	// Failed operations never touched the log.
	assert.Equal(t, 1, len(test.Assertions(0)))
}

func TestSegmentTrackTest_UnmarkedSweepOnAdvance(t *testing.T) {
	data, header := testutil.BuildDataFile(t, "Track", 100)
	track := testutil.SegmentTrackOf(t, data, header, 0)
	insertAll(t, track, [2]teground.VideoTime{20, 10}, [2]teground.VideoTime{25, 10},
		[2]teground.VideoTime{50, 10}, [2]teground.VideoTime{55, 10}, [2]teground.VideoTime{75, 10})

	test, sub := newTest(t, data, header)

	require.NoError(t, test.AdvanceCursorPosition(40))
	require.Len(t, sub.Assertions, 2)
	for _, a := range sub.Assertions {
		assert.Equal(t, teground.ResultUnmarked, a.Result())
		assert.Equal(t, teground.UnmarkedSegment, a.Kind())
		require.True(t, a.HasSegment())
	}
	assert.Equal(t, teground.VideoTime(20), sub.Assertions[0].Segment().Position())
	assert.Equal(t, teground.VideoTime(25), sub.Assertions[1].Segment().Position())

	sub.Reset()
	require.NoError(t, test.AdvanceCursorPosition(90))
	require.Len(t, sub.Assertions, 3)
	for _, a := range sub.Assertions {
		assert.Equal(t, teground.ResultUnmarked, a.Result())
	}
}

func TestSegmentTrackTest_SweepSkipsSpanningSegments(t *testing.T) {
	data, header := testutil.BuildDataFile(t, "Track", 100)
	track := testutil.SegmentTrackOf(t, data, header, 0)
	insertAll(t, track, [2]teground.VideoTime{20, 50}, [2]teground.VideoTime{25, 30},
		[2]teground.VideoTime{35, 50}, [2]teground.VideoTime{50, 10},
		[2]teground.VideoTime{65, 20}, [2]teground.VideoTime{75, 10})

	test, sub := newTest(t, data, header)

	// No segment ends at or before 40.
	require.NoError(t, test.AdvanceCursorPosition(40))
	assert.Empty(t, sub.Assertions)

	require.NoError(t, test.AdvanceCursorPosition(70))
	assert.Len(t, sub.Assertions, 2)

	sub.Reset()
	require.NoError(t, test.AdvanceCursorPosition(90))
	assert.Len(t, sub.Assertions, 4)
}

func TestSegmentTrackTest_StampMatching(t *testing.T) {
	data, header := testutil.BuildDataFile(t, "Track", 100)
	track := testutil.SegmentTrackOf(t, data, header, 0)
	insertAll(t, track, [2]teground.VideoTime{20, 10}, [2]teground.VideoTime{25, 10},
		[2]teground.VideoTime{50, 10}, [2]teground.VideoTime{55, 10}, [2]teground.VideoTime{75, 10})

	test, sub := newTest(t, data, header)

	// Two single stamps claim the overlapping pair at 20/25; the third
	// claims (50,10); the fourth finds every candidate already claimed.
	require.NoError(t, test.SingleStamp(25, ""))
	require.NoError(t, test.SingleStamp(26, ""))
	require.NoError(t, test.SingleStamp(50, ""))
	require.NoError(t, test.SingleStamp(52, ""))
	require.Len(t, sub.Assertions, 4)
	assert.Equal(t, teground.ResultMatch, sub.Assertions[0].Result())
	assert.Equal(t, teground.ResultMatch, sub.Assertions[1].Result())
	assert.Equal(t, teground.ResultMatch, sub.Assertions[2].Result())
	assert.Equal(t, teground.ResultMiss, sub.Assertions[3].Result())

	// Multi stamps share the still-unclaimed segment at (55,10).
	sub.Reset()
	require.NoError(t, test.MultiStamp(60, ""))
	require.NoError(t, test.MultiStamp(61, ""))
	require.NoError(t, test.MultiStamp(62, ""))
	require.Len(t, sub.Assertions, 3)
	for _, a := range sub.Assertions {
		assert.Equal(t, teground.ResultMatch, a.Result())
		assert.Equal(t, teground.MultiStamp, a.Kind())
	}

	// Only (75,10) is left unclaimed by the time the cursor passes.
	sub.Reset()
	require.NoError(t, test.AdvanceCursorPosition(90))
	require.Len(t, sub.Assertions, 1)
	assert.Equal(t, teground.ResultUnmarked, sub.Last().Result())

	assert.Equal(t, 6, test.CountAssertions(teground.ResultMatch))
	assert.Equal(t, 1, test.CountAssertions(teground.ResultMiss))
	assert.Equal(t, 1, test.CountAssertions(teground.ResultUnmarked))
}

func TestSegmentTrackTest_StampExclusivity(t *testing.T) {
	data, header := testutil.BuildDataFile(t, "Track", 100)
	track := testutil.SegmentTrackOf(t, data, header, 0)
	insertAll(t, track, [2]teground.VideoTime{50, 10})

	test, sub := newTest(t, data, header)

	require.NoError(t, test.SingleStamp(50, ""))
	assert.Equal(t, teground.ResultMatch, sub.Last().Result())

	// The single stamp claimed the only candidate exclusively.
	require.NoError(t, test.SingleStamp(51, ""))
	assert.Equal(t, teground.ResultMiss, sub.Last().Result())

	// A single-stamp claim also pre-empts multi claims.
	require.NoError(t, test.MultiStamp(52, ""))
	assert.Equal(t, teground.ResultMiss, sub.Last().Result())
}

func TestSegmentTrackTest_MultiThenSingleStillShares(t *testing.T) {
	data, header := testutil.BuildDataFile(t, "Track", 100)
	track := testutil.SegmentTrackOf(t, data, header, 0)
	insertAll(t, track, [2]teground.VideoTime{50, 10})

	test, sub := newTest(t, data, header)

	// Multi exclusivity looks at the first prior assertion only: once a
	// multi stamp owns the front of the segment's history, later multi
	// stamps keep matching.
	require.NoError(t, test.MultiStamp(50, ""))
	require.NoError(t, test.SingleStamp(51, ""))
	require.NoError(t, test.MultiStamp(52, ""))

	assert.Equal(t, teground.ResultMatch, sub.Assertions[0].Result())
	assert.Equal(t, teground.ResultMiss, sub.Assertions[1].Result())
	assert.Equal(t, teground.ResultMatch, sub.Assertions[2].Result())
}

func TestSegmentTrackTest_StampAcrossOverlappingSegments(t *testing.T) {
	data, header := testutil.BuildDataFile(t, "Track", 100)
	track := testutil.SegmentTrackOf(t, data, header, 0)
	insertAll(t, track, [2]teground.VideoTime{20, 50}, [2]teground.VideoTime{25, 30},
		[2]teground.VideoTime{35, 50}, [2]teground.VideoTime{50, 10},
		[2]teground.VideoTime{65, 20}, [2]teground.VideoTime{75, 10})

	test, sub := newTest(t, data, header)

	// Each stamp falls into several segments; single claims spread over
	// the distinct candidates.
	require.NoError(t, test.SingleStamp(25, ""))
	require.NoError(t, test.SingleStamp(26, ""))
	require.NoError(t, test.SingleStamp(50, ""))
	require.NoError(t, test.SingleStamp(51, ""))
	require.Len(t, sub.Assertions, 4)
	for _, a := range sub.Assertions {
		assert.Equal(t, teground.ResultMatch, a.Result())
	}

	sub.Reset()
	require.NoError(t, test.AdvanceCursorPosition(90))
	assert.Len(t, sub.Assertions, 2)
	assert.Equal(t, 4, test.CountAssertions(teground.ResultMatch))
}

func TestSegmentTrackTest_OverlapMatching(t *testing.T) {
	data, header := testutil.BuildDataFile(t, "Track", 200)
	track := testutil.SegmentTrackOf(t, data, header, 0)
	insertAll(t, track, [2]teground.VideoTime{20, 10}, [2]teground.VideoTime{50, 10},
		[2]teground.VideoTime{80, 10}, [2]teground.VideoTime{100, 10},
		[2]teground.VideoTime{120, 10}, [2]teground.VideoTime{150, 10})

	test, sub := newTest(t, data, header)

	missParams := teground.OverlapParameters{MaxMissedLength: 5}
	require.NoError(t, test.SingleOverlap(14, 15, missParams, ""))
	require.NoError(t, test.SingleOverlap(15, 15, missParams, ""))
	require.Len(t, sub.Assertions, 2)
	assert.Equal(t, teground.ResultMiss, sub.Assertions[0].Result())
	assert.Equal(t, teground.ResultMatch, sub.Assertions[1].Result())
	assert.Equal(t, teground.SingleOverlap, sub.Assertions[0].Kind())
	require.True(t, sub.Assertions[1].HasSegment())
	assert.Equal(t, teground.VideoTime(20), sub.Assertions[1].Segment().Position())

	sub.Reset()
	missParams.MaxMissedPercent = 0.7
	require.NoError(t, test.SingleOverlap(45, 7, missParams, ""))
	require.NoError(t, test.SingleOverlap(45, 10, missParams, ""))
	assert.Equal(t, teground.ResultMiss, sub.Assertions[0].Result())
	assert.Equal(t, teground.ResultMatch, sub.Assertions[1].Result())

	sub.Reset()
	unmarkParams := teground.OverlapParameters{MaxUnmarkedLength: 5}
	require.NoError(t, test.SingleOverlap(80, 4, unmarkParams, ""))
	require.NoError(t, test.SingleOverlap(80, 5, unmarkParams, ""))
	assert.Equal(t, teground.ResultMiss, sub.Assertions[0].Result())
	assert.Equal(t, teground.ResultMatch, sub.Assertions[1].Result())

	sub.Reset()
	unmarkParams = teground.OverlapParameters{MaxUnmarkedPercent: 0.7}
	require.NoError(t, test.SingleOverlap(100, 2, unmarkParams, ""))
	require.NoError(t, test.SingleOverlap(100, 3, unmarkParams, ""))
	assert.Equal(t, teground.ResultMiss, sub.Assertions[0].Result())
	assert.Equal(t, teground.ResultMatch, sub.Assertions[1].Result())

	sub.Reset()
	segParams := teground.OverlapParameters{MinOverlapLength: 6, MinOverlapPercentToSegment: 0.7}
	require.NoError(t, test.SingleOverlap(120, 5, segParams, ""))
	require.NoError(t, test.SingleOverlap(120, 6, segParams, ""))
	require.NoError(t, test.SingleOverlap(120, 7, segParams, ""))
	assert.Equal(t, teground.ResultMiss, sub.Assertions[0].Result())
	assert.Equal(t, teground.ResultMiss, sub.Assertions[1].Result())
	assert.Equal(t, teground.ResultMatch, sub.Assertions[2].Result())

	sub.Reset()
	assertParams := teground.OverlapParameters{MinOverlapPercentToAssertion: 0.5}
	require.NoError(t, test.SingleOverlap(145, 7, assertParams, ""))
	require.NoError(t, test.SingleOverlap(145, 10, assertParams, ""))
	assert.Equal(t, teground.ResultMiss, sub.Assertions[0].Result())
	assert.Equal(t, teground.ResultMatch, sub.Assertions[1].Result())

	// Every segment was claimed; nothing left for the sweep.
	sub.Reset()
	require.NoError(t, test.AdvanceCursorPosition(199))
	assert.Empty(t, sub.Assertions)
}

func TestSegmentTrackTest_MultiSequence(t *testing.T) {
	data, header := testutil.BuildDataFile(t, "Track", 100, 100)
	track := testutil.SegmentTrackOf(t, data, header, 0)
	insertAll(t, track, [2]teground.VideoTime{20, 50}, [2]teground.VideoTime{30, 30},
		[2]teground.VideoTime{30, 30})
	track2 := testutil.SegmentTrackOf(t, data, header, 1)
	insertAll(t, track2, [2]teground.VideoTime{10, 10}, [2]teground.VideoTime{25, 20})

	test, sub := newTest(t, data, header)

	require.NoError(t, test.SingleStamp(10, ""))
	require.NoError(t, test.SingleStamp(80, ""))
	require.NoError(t, test.AdvanceCursorSequence(1))
	require.Len(t, sub.Assertions, 5)
	assert.Equal(t, teground.ResultMiss, sub.Assertions[0].Result())
	assert.Equal(t, teground.ResultMiss, sub.Assertions[1].Result())
	assert.Equal(t, teground.ResultUnmarked, sub.Assertions[2].Result())
	assert.Equal(t, teground.ResultUnmarked, sub.Assertions[3].Result())
	assert.Equal(t, teground.ResultUnmarked, sub.Assertions[4].Result())
	require.Len(t, sub.Sequences, 1)
	assert.Same(t, data.SequenceAt(1), sub.Sequences[0])

	// The cursor restarted at position 0 of sequence 1.
	assert.Equal(t, 1, test.CursorSequence())
	assert.Equal(t, teground.VideoTime(0), test.CursorPosition())

	sub.Reset()
	require.NoError(t, test.SingleStamp(20, ""))
	require.NoError(t, test.AdvanceCursorPosition(60))
	require.Len(t, sub.Assertions, 3)
	assert.Equal(t, teground.ResultMiss, sub.Assertions[0].Result())
	assert.Equal(t, teground.ResultUnmarked, sub.Assertions[1].Result())
	assert.Equal(t, teground.ResultUnmarked, sub.Assertions[2].Result())

	assert.Equal(t, 5, test.CountAssertions(teground.ResultUnmarked))

	// Advancing past the last sequence drains it and ends the test.
	sub.Reset()
	require.NoError(t, test.AdvanceCursorSequence(2))
	assert.True(t, test.IsEnd())
	assert.Empty(t, sub.Assertions)

	var atEnd *teground.CursorAtEndError
	require.ErrorAs(t, test.SingleStamp(10, ""), &atEnd)
}

func TestSegmentTrackTest_SequenceSkipDrainsAll(t *testing.T) {
	data, header := testutil.BuildDataFile(t, "Track", 100, 100, 100)
	track := testutil.SegmentTrackOf(t, data, header, 0)
	insertAll(t, track, [2]teground.VideoTime{10, 10})
	track2 := testutil.SegmentTrackOf(t, data, header, 1)
	insertAll(t, track2, [2]teground.VideoTime{20, 10}, [2]teground.VideoTime{40, 10})

	test, sub := newTest(t, data, header)

	// Jumping straight to sequence 2 sweeps both earlier tracks.
	require.NoError(t, test.AdvanceCursorSequence(2))
	require.Len(t, sub.Assertions, 3)
	for _, a := range sub.Assertions {
		assert.Equal(t, teground.ResultUnmarked, a.Result())
	}
	assert.Len(t, test.Assertions(0), 1)
	assert.Len(t, test.Assertions(1), 2)
	assert.Equal(t, 2, test.CursorSequence())
}

func TestSegmentTrackTest_LogKeepsCanonicalOrder(t *testing.T) {
	data, header := testutil.BuildDataFile(t, "Track", 100)
	track := testutil.SegmentTrackOf(t, data, header, 0)
	insertAll(t, track, [2]teground.VideoTime{10, 10}, [2]teground.VideoTime{30, 10},
		[2]teground.VideoTime{60, 10})

	test, sub := newTest(t, data, header)

	// Stamps land out of order position-wise; the log reorders them while
	// the subscriber sees call order.
	require.NoError(t, test.SingleStamp(65, ""))
	require.NoError(t, test.SingleStamp(12, ""))
	require.NoError(t, test.SingleStamp(35, ""))

	assert.Equal(t, teground.VideoTime(65), sub.Assertions[0].Position())
	assert.Equal(t, teground.VideoTime(12), sub.Assertions[1].Position())
	assert.Equal(t, teground.VideoTime(35), sub.Assertions[2].Position())

	log := test.Assertions(0)
	require.Len(t, log, 3)
	assert.Equal(t, teground.VideoTime(12), log[0].Position())
	assert.Equal(t, teground.VideoTime(35), log[1].Position())
	assert.Equal(t, teground.VideoTime(65), log[2].Position())
}

func TestSegmentTrackTest_SweptSegmentsStayBehindCursor(t *testing.T) {
	data, header := testutil.BuildDataFile(t, "Track", 100)
	track := testutil.SegmentTrackOf(t, data, header, 0)
	segments := insertAll(t, track, [2]teground.VideoTime{10, 10}, [2]teground.VideoTime{40, 10})

	test, sub := newTest(t, data, header)

	require.NoError(t, test.AdvanceCursorPosition(30))
	require.Len(t, sub.Assertions, 1)
	assert.Same(t, segments[0], sub.Assertions[0].Segment())

	// A later multi stamp matches the next segment: the segment cursor
	// already moved past the swept segment, and the assertion cursor
	// advanced past the sweep entry.
	sub.Reset()
	require.NoError(t, test.MultiStamp(45, ""))
	assert.Equal(t, teground.ResultMatch, sub.Last().Result())
	assert.Same(t, segments[1], sub.Last().Segment())
}

func TestSegmentTrackTest_SubscriberRemoval(t *testing.T) {
	data, header := testutil.BuildDataFile(t, "Track", 100)
	test, sub := newTest(t, data, header)

	extra := &testutil.RecordingSubscriber{}
	handle := test.AddSubscriber(extra)

	require.NoError(t, test.SingleStamp(10, ""))
	assert.Len(t, sub.Assertions, 1)
	assert.Len(t, extra.Assertions, 1)

	test.RemoveSubscriber(handle)
	require.NoError(t, test.SingleStamp(20, ""))
	assert.Len(t, sub.Assertions, 2)
	assert.Len(t, extra.Assertions, 1)
}

func TestSegmentTrackTest_ClearAssertions(t *testing.T) {
	data, header := testutil.BuildDataFile(t, "Track", 100)
	track := testutil.SegmentTrackOf(t, data, header, 0)
	insertAll(t, track, [2]teground.VideoTime{10, 10})

	test, _ := newTest(t, data, header)
	require.NoError(t, test.SingleStamp(10, ""))
	require.NoError(t, test.SingleStamp(50, ""))
	require.Equal(t, 1, test.CountAssertions(teground.ResultMatch))
	require.Equal(t, 1, test.CountAssertions(teground.ResultMiss))

	test.ClearAssertions()
	assert.Equal(t, 0, test.CountAssertions(teground.ResultMatch))
	assert.Equal(t, 0, test.CountAssertions(teground.ResultMiss))
	assert.Empty(t, test.Assertions(0))
}

func TestSegmentTrackTest_CallerSiteRecorded(t *testing.T) {
	data, header := testutil.BuildDataFile(t, "Track", 100)
	test, sub := newTest(t, data, header)

	require.NoError(t, test.SingleStamp(10, "note"))
	a := sub.Last()
	require.True(t, a.HasFile())
	assert.Contains(t, a.File(), "segmenttracktest_test.go")
	assert.Greater(t, a.Line(), 0)
	assert.Equal(t, "note", a.Info())

	require.NoError(t, test.MultiStampLoc(20, "", "driver.go", 42))
	assert.Equal(t, "driver.go", sub.Last().File())
	assert.Equal(t, 42, sub.Last().Line())
}
