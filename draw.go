package teground

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/nmichlo/teground-go/drawing"
)

// DrawHeaderWidth is the fixed width of the label column on rendered
// surfaces, in pixels.
const DrawHeaderWidth = 100

const labelScale = 0.44

func ensureSurface(dst *gocv.Mat, rows, cols int) {
	if !dst.Empty() && dst.Rows() == rows && dst.Cols() == cols {
		return
	}
	if !dst.Empty() {
		dst.Close()
	}
	*dst = gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
}

func truncateLabel(s string) string {
	if len(s) > 9 {
		return s[:9]
	}
	return s
}

// Draw renders one evaluator row onto dst: segments no assertion
// references yet in neutral gray, matched segments in green, segments
// swept as Unmarked and missed assertions in red, and the cursor line. The visible window spans numberOfFrames frames starting at
// framePosition of the sequence at startSequence; segments of following
// sequences continue on the same row.
func (t *SegmentTrackTest) Draw(
	dst *gocv.Mat,
	startSequence int,
	framePosition, numberOfFrames VideoTime,
	pixelsPerFrame, trackHeight int,
) error {
	if startSequence < 0 || startSequence >= t.data.SequenceCount() {
		return &OutOfBoundsError{Context: "sequence index", Value: int64(startSequence), Limit: int64(t.data.SequenceCount())}
	}

	frameEnd := framePosition + numberOfFrames
	width := DrawHeaderWidth + pixelsPerFrame*int(numberOfFrames)
	ensureSurface(dst, trackHeight, width)

	d := drawing.NewDrawer()
	d.Fill(dst, drawing.Surface)

	// Label column.
	d.FillRect(dst, image.Rect(0, 0, DrawHeaderWidth, trackHeight-1), drawing.HeaderFill)
	d.Text(dst, truncateLabel(t.header.Name()), image.Pt(10, trackHeight/2+10), labelScale, drawing.Label)

	// The cursor position relative to the displayed window: sequences the
	// cursor already passed count as fully covered.
	cursorPos := VideoTime(0)
	if startSequence < t.cursorSequence {
		cursorPos = t.data.SequenceAt(startSequence).Length()
	} else if startSequence == t.cursorSequence {
		cursorPos = t.cursorPosition
	}

	t.drawUnmarked(dst, d, startSequence, cursorPos, framePosition, frameEnd, pixelsPerFrame, trackHeight)
	t.drawAssertions(dst, d, startSequence, framePosition, frameEnd, pixelsPerFrame, trackHeight)
	t.drawCursor(dst, d, startSequence, framePosition, frameEnd, pixelsPerFrame, trackHeight)
	return nil
}

func drawSpan(
	dst *gocv.Mat,
	d *drawing.Drawer,
	position, length, framePosition VideoTime,
	pixelsPerFrame, trackHeight int,
	c drawing.Color,
) {
	start := int(position - framePosition)
	span := int(length)
	if start < 0 {
		span += start
		start = 0
	}
	if span <= 0 {
		return
	}
	d.FillRect(dst, image.Rect(
		DrawHeaderWidth+start*pixelsPerFrame, 0,
		DrawHeaderWidth+(start+span)*pixelsPerFrame, trackHeight,
	), c)
}

// drawUnmarked shades every not-yet-claimed segment intersecting the
// window. Segments still spanning the cursor are picked up by stepping
// back from the cursor's lower bound.
func (t *SegmentTrackTest) drawUnmarked(
	dst *gocv.Mat,
	d *drawing.Drawer,
	startSequence int,
	cursorPos, framePosition, frameEnd VideoTime,
	pixelsPerFrame, trackHeight int,
) {
	seqIdx := startSequence
	track := t.data.SequenceAt(seqIdx).Track(t.header).(*SegmentTrack)

	it := track.SegmentFrom(cursorPos)
	for rp := it - 1; rp >= 0; rp-- {
		if track.At(rp).End() <= cursorPos {
			break
		}
		it = rp
	}

	sequencePosition := VideoTime(0)
	for seqIdx < t.data.SequenceCount() {
		if it == track.TotalSegments() {
			sequencePosition += t.data.SequenceAt(seqIdx).Length()
			seqIdx++
			if seqIdx == t.data.SequenceCount() {
				break
			}
			track = t.data.SequenceAt(seqIdx).Track(t.header).(*SegmentTrack)
			it = 0
			continue
		}

		seg := track.At(it)
		if sequencePosition+seg.Position() > frameEnd {
			break
		}
		if t.isUnmarked(seqIdx, seg) {
			drawSpan(dst, d, sequencePosition+seg.Position(), seg.Length(), framePosition,
				pixelsPerFrame, trackHeight, drawing.UnmarkedFill)
		}
		it++
	}
}

// drawAssertions shades asserted intervals and the segments they claimed.
func (t *SegmentTrackTest) drawAssertions(
	dst *gocv.Mat,
	d *drawing.Drawer,
	startSequence int,
	framePosition, frameEnd VideoTime,
	pixelsPerFrame, trackHeight int,
) {
	sequencePosition := VideoTime(0)
	for seqIdx := startSequence; seqIdx < t.data.SequenceCount(); seqIdx++ {
		for _, a := range t.assertions[seqIdx] {
			if sequencePosition+a.Position() >= frameEnd {
				return
			}

			if a.HasSegment() {
				seg := a.Segment()
				if sequencePosition+seg.End() > framePosition {
					c := drawing.MissedSegment
					if a.Result() == ResultMatch {
						c = drawing.MatchedSegment
					}
					drawSpan(dst, d, sequencePosition+seg.Position(), seg.Length(), framePosition,
						pixelsPerFrame, trackHeight, c)
				}
			}

			if sequencePosition+a.Position()+a.Length() > framePosition {
				c := drawing.MissedAssertion
				if a.Result() == ResultMatch {
					c = drawing.MatchedAssertion
				}
				drawSpan(dst, d, sequencePosition+a.Position(), a.Length(), framePosition,
					pixelsPerFrame, trackHeight, c)
			}
		}
		sequencePosition += t.data.SequenceAt(seqIdx).Length()
	}
}

func (t *SegmentTrackTest) drawCursor(
	dst *gocv.Mat,
	d *drawing.Drawer,
	startSequence int,
	framePosition, frameEnd VideoTime,
	pixelsPerFrame, trackHeight int,
) {
	if t.cursorSequence < startSequence || t.IsEnd() {
		return
	}
	absolute := t.cursorPosition
	for seqIdx := startSequence; seqIdx < t.cursorSequence; seqIdx++ {
		absolute += t.data.SequenceAt(seqIdx).Length()
	}
	if absolute < framePosition || absolute >= frameEnd {
		return
	}
	x := DrawHeaderWidth + int(absolute-framePosition)*pixelsPerFrame
	d.Line(dst, image.Pt(x, 0), image.Pt(x, trackHeight), drawing.Cursor)
}

// Draw renders the whole suite: a heading row with the suite name, frame
// ticks and number labels at adaptive strides, one row per evaluator, and
// vertical separators at sequence boundaries.
func (s *TestSuite) Draw(
	dst *gocv.Mat,
	startSequence int,
	framePosition, numberOfFrames VideoTime,
	pixelsPerFrame, trackHeight int,
) error {
	if startSequence < 0 || startSequence >= s.data.SequenceCount() {
		return &OutOfBoundsError{Context: "sequence index", Value: int64(startSequence), Limit: int64(s.data.SequenceCount())}
	}
	if framePosition >= s.data.SequenceAt(startSequence).Length() {
		return nil
	}
	if trackHeight < 10 {
		trackHeight = 10
	}

	width := DrawHeaderWidth + pixelsPerFrame*int(numberOfFrames)
	height := trackHeight * (len(s.tests) + 1)
	ensureSurface(dst, height, width)

	d := drawing.NewDrawer()
	d.Fill(dst, drawing.Surface)
	d.Text(dst, truncateLabel(s.name), image.Pt(10, trackHeight/2+10), labelScale, drawing.LabelDim)

	drawPosition := trackHeight
	for _, test := range s.tests {
		region := dst.Region(image.Rect(0, drawPosition, width, drawPosition+trackHeight))
		err := test.Draw(&region, startSequence, framePosition, numberOfFrames, pixelsPerFrame, trackHeight)
		region.Close()
		if err != nil {
			return err
		}
		drawPosition += trackHeight
	}

	s.drawTimeline(dst, d, startSequence, framePosition, numberOfFrames, pixelsPerFrame, trackHeight, height)
	return nil
}

// drawTimeline draws frame ticks and number labels on the heading row.
// Label stride adapts to the zoom so neighboring labels sit roughly the
// label-column width apart, snapping to 1/2x/5x/10x progressions. The
// frame divider is rounded down, so labels can land closer than that
// width (e.g. 80 pixels apart at 40 pixels per frame).
func (s *TestSuite) drawTimeline(
	dst *gocv.Mat,
	d *drawing.Drawer,
	startSequence int,
	framePosition, numberOfFrames VideoTime,
	pixelsPerFrame, trackHeight, height int,
) {
	const minLabelDistance = 100

	textDistance := minLabelDistance
	if pixelsPerFrame > textDistance {
		textDistance = pixelsPerFrame
	}
	frameDivider := textDistance / pixelsPerFrame
	labeled := 1
	for labeled < frameDivider {
		if labeled*2 >= frameDivider {
			labeled *= 2
			break
		}
		if labeled*5 >= frameDivider {
			labeled *= 5
			break
		}
		labeled *= 10
	}
	marked := labeled / 4
	if marked < 1 {
		marked = 1
	}

	seqIdx := startSequence
	seqLength := s.data.SequenceAt(seqIdx).Length()
	frame := framePosition
	for i := 0; i < int(numberOfFrames); i++ {
		x := DrawHeaderWidth + i*pixelsPerFrame
		if frame%VideoTime(labeled) == 0 && frame+VideoTime(labeled) <= seqLength {
			d.Line(dst, image.Pt(x, trackHeight-5), image.Pt(x, trackHeight), drawing.Marker)

			label := "0"
			labelX := x + 3
			if frame != 0 {
				label = fmt.Sprintf("%.5d", frame)
				labelX = x - 15
			}
			d.Text(dst, label, image.Pt(labelX, trackHeight-10), 0.35, drawing.Label)
		} else if frame == seqLength-1 {
			d.Text(dst, fmt.Sprintf("%.5d", frame), image.Pt(x-30, trackHeight-10), 0.35, drawing.LabelDim)
		}
		if frame%VideoTime(marked) == 0 {
			d.Line(dst, image.Pt(x, trackHeight-2), image.Pt(x, trackHeight), drawing.Marker)
		}

		frame++
		if frame >= seqLength {
			frame = 0
			seqIdx++
			separatorX := DrawHeaderWidth + (i+1)*pixelsPerFrame
			d.Line(dst, image.Pt(separatorX, 0), image.Pt(separatorX, height), drawing.Separator)
			if seqIdx == s.data.SequenceCount() {
				break
			}
			seqLength = s.data.SequenceAt(seqIdx).Length()
		}
	}
}
