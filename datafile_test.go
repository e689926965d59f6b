package teground_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	teground "github.com/nmichlo/teground-go"
)

func TestDataFile_AppendTrackGrowsEverySequence(t *testing.T) {
	data := teground.NewDataFile()
	seq1 := teground.NewSequence("a", "dec", teground.SequenceVideo, 100)
	seq2 := teground.NewSequence("b", "dec", teground.SequenceImage, 50)
	data.AppendSequence(seq1)
	data.AppendSequence(seq2)

	header, err := data.AppendTrack(teground.SegmentTrackType, "Hands")
	require.NoError(t, err)
	assert.Equal(t, 1, data.TrackCount())
	assert.Equal(t, 0, data.TrackIndex(header))

	for _, seq := range data.Sequences() {
		require.Equal(t, 1, seq.TotalTracks())
		track := seq.Track(header)
		require.NotNil(t, track)
		assert.Equal(t, seq.Length(), track.Length())
	}
}

func TestDataFile_AppendTrackUnknownType(t *testing.T) {
	data := teground.NewDataFile()
	_, err := data.AppendTrack("Pose", "Skeleton")
	var unknown *teground.UnknownTrackTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Pose", unknown.Type)
	assert.Equal(t, 0, data.TrackCount())
}

func TestDataFile_AppendSequenceGetsFreshTracks(t *testing.T) {
	data := teground.NewDataFile()
	h1, err := data.AppendTrack(teground.SegmentTrackType, "A")
	require.NoError(t, err)
	h2, err := data.AppendTrack(teground.SegmentTrackType, "B")
	require.NoError(t, err)

	seq := teground.NewSequence("a", "dec", teground.SequenceVideo, 100)
	data.AppendSequence(seq)
	assert.Equal(t, 2, seq.TotalTracks())
	assert.NotNil(t, seq.Track(h1))
	assert.NotNil(t, seq.Track(h2))
	assert.Same(t, seq.Track(h1), seq.TrackByName("A"))
}

func TestDataFile_RemoveTrackDropsFromEverySequence(t *testing.T) {
	data := teground.NewDataFile()
	h1, _ := data.AppendTrack(teground.SegmentTrackType, "A")
	h2, _ := data.AppendTrack(teground.SegmentTrackType, "B")
	data.AppendSequence(teground.NewSequence("a", "dec", teground.SequenceVideo, 100))
	data.AppendSequence(teground.NewSequence("b", "dec", teground.SequenceVideo, 100))

	data.RemoveTrack(h1)
	assert.Equal(t, 1, data.TrackCount())
	assert.Equal(t, data.TrackCount(), data.TrackIndex(h1))
	for _, seq := range data.Sequences() {
		assert.Equal(t, 1, seq.TotalTracks())
		assert.Nil(t, seq.Track(h1))
		assert.NotNil(t, seq.Track(h2))
	}
}

func TestDataFile_HeadersShareIdentityNotName(t *testing.T) {
	data := teground.NewDataFile()
	h1, _ := data.AppendTrack(teground.SegmentTrackType, "Track")
	h2, _ := data.AppendTrack(teground.SegmentTrackType, "Track")

	assert.NotSame(t, h1, h2)
	assert.Equal(t, 0, data.TrackIndex(h1))
	assert.Equal(t, 1, data.TrackIndex(h2))

	seq := teground.NewSequence("a", "dec", teground.SequenceVideo, 100)
	data.AppendSequence(seq)
	assert.NotSame(t, seq.Track(h1), seq.Track(h2))
}

func TestDataFile_SequenceOps(t *testing.T) {
	data := teground.NewDataFile()
	_, err := data.AppendTrack(teground.SegmentTrackType, "A")
	require.NoError(t, err)

	a := teground.NewSequence("a", "dec", teground.SequenceVideo, 100)
	b := teground.NewSequence("b", "dec", teground.SequenceVideo, 100)
	c := teground.NewSequence("c", "dec", teground.SequenceVideo, 100)
	data.AppendSequence(a)
	data.AppendSequence(b)
	data.AppendSequence(c)

	assert.Same(t, b, data.SequenceFrom("b"))
	assert.Nil(t, data.SequenceFrom("missing"))

	data.MoveSequence(c, 0)
	assert.Same(t, c, data.SequenceAt(0))
	assert.Same(t, a, data.SequenceAt(1))
	assert.Same(t, b, data.SequenceAt(2))

	data.MoveSequence(c, 2)
	assert.Same(t, a, data.SequenceAt(0))
	assert.Same(t, b, data.SequenceAt(1))
	assert.Same(t, c, data.SequenceAt(2))

	taken := data.TakeSequence(b)
	assert.Same(t, b, taken)
	assert.Equal(t, 2, data.SequenceCount())
	// A taken sequence keeps its tracks.
	assert.Equal(t, 1, taken.TotalTracks())

	data.RemoveSequence(a)
	assert.Equal(t, 1, data.SequenceCount())
	assert.Same(t, c, data.SequenceAt(0))
}
