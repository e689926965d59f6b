package teground

// SegmentTrack owns an ordered sequence of segments on one sequence
// timeline. Two invariants hold after every public mutation:
//
//   - canonical order: for adjacent segments a before b, either
//     a.Position < b.Position, or a.Position == b.Position and
//     a.Length <= b.Length;
//   - bounds: every inserted segment satisfies Position+Length <= Length().
type SegmentTrack struct {
	header   *TrackHeader
	length   VideoTime
	segments []*Segment
}

// SegmentTrackType is the registry tag for segment tracks.
const SegmentTrackType = "Segment"

// NewSegmentTrack creates an empty track of the given length. It has the
// TrackMakeFunc shape so it can be registered on a TrackRegistry.
func NewSegmentTrack(header *TrackHeader, length VideoTime) Track {
	return &SegmentTrack{header: header, length: length}
}

// Header returns the shared track descriptor.
func (t *SegmentTrack) Header() *TrackHeader { return t.header }

// Length returns the track length.
func (t *SegmentTrack) Length() VideoTime { return t.length }

// TotalSegments returns the number of segments.
func (t *SegmentTrack) TotalSegments() int { return len(t.segments) }

// At returns the segment at index i.
func (t *SegmentTrack) At(i int) *Segment { return t.segments[i] }

// Segments returns the backing segment slice in canonical order. The
// slice must not be mutated by the caller.
func (t *SegmentTrack) Segments() []*Segment { return t.segments }

// ClearSegments removes every segment.
func (t *SegmentTrack) ClearSegments() {
	t.segments = t.segments[:0]
}

// InsertSegment adds s in canonical order and returns its index. Segments
// sharing a position are kept in ascending length order; a segment with
// the same coordinates as an existing one is placed before it, so
// equal-coordinate ties end up reversed relative to insertion order.
func (t *SegmentTrack) InsertSegment(s *Segment) (int, error) {
	if s.position+s.length > t.length {
		return 0, &OutOfBoundsError{
			Context: "segment end",
			Value:   int64(s.position + s.length),
			Limit:   int64(t.length),
		}
	}

	i := t.SegmentFrom(s.position)
	for ; i < len(t.segments); i++ {
		cur := t.segments[i]
		if cur.position > s.position {
			break
		}
		if cur.position == s.position && cur.length >= s.length {
			break
		}
	}
	t.segments = append(t.segments, nil)
	copy(t.segments[i+1:], t.segments[i:])
	t.segments[i] = s
	return i, nil
}

// RemoveSegment deletes the segment at index i.
func (t *SegmentTrack) RemoveSegment(i int) {
	if i < 0 || i >= len(t.segments) {
		return
	}
	t.segments = append(t.segments[:i], t.segments[i+1:]...)
}

// TakeSegment detaches and returns the segment at index i without
// destroying it, or nil if i is out of range.
func (t *SegmentTrack) TakeSegment(i int) *Segment {
	if i < 0 || i >= len(t.segments) {
		return nil
	}
	s := t.segments[i]
	t.segments = append(t.segments[:i], t.segments[i+1:]...)
	return s
}

// AssignSegmentCoords rewrites the coordinates of the segment at index i
// in place, then repairs canonical order if either neighbor ordering was
// violated, by removing and re-inserting the segment. It returns the
// segment's (possibly new) index.
//
// Bounds against the track length are not re-checked; callers must
// guarantee position+length <= Length().
func (t *SegmentTrack) AssignSegmentCoords(i int, position, length VideoTime) int {
	if i < 0 || i >= len(t.segments) {
		return i
	}
	s := t.segments[i]
	if s.position == position && s.length == length {
		return i
	}

	s.position = position
	s.length = length

	reposition := false
	if i > 0 {
		prev := t.segments[i-1]
		if prev.position > s.position {
			reposition = true
		} else if prev.position == s.position && prev.length > s.length {
			reposition = true
		}
	}
	if i+1 < len(t.segments) {
		next := t.segments[i+1]
		if next.position < s.position {
			reposition = true
		} else if next.position == s.position && next.length < s.length {
			reposition = true
		}
	}

	if reposition {
		t.segments = append(t.segments[:i], t.segments[i+1:]...)
		// Bounds were checked when the segment first entered the track.
		j, _ := t.InsertSegment(s)
		return j
	}
	return i
}

// AssignCoords locates segment by identity and reassigns its coordinates.
func (t *SegmentTrack) AssignCoords(s *Segment, position, length VideoTime) {
	if i, ok := t.FindSegment(s); ok {
		t.AssignSegmentCoords(i, position, length)
	}
}

// SegmentFrom returns the smallest index i with segments[i].Position >=
// position, or TotalSegments if there is none. Runs in O(log n).
func (t *SegmentTrack) SegmentFrom(position VideoTime) int {
	if len(t.segments) == 0 {
		return 0
	}
	if t.segments[len(t.segments)-1].position < position {
		return len(t.segments)
	}

	first, last := 0, len(t.segments)-1
	for first < last {
		middle := (first + last) / 2
		if t.segments[middle].position < position {
			first = middle + 1
		} else {
			last = middle
		}
	}
	return first
}

// SegmentFromCoords returns the index of the first segment at exactly
// (position, length), skipping intermediate segments at the same position,
// or TotalSegments if there is none.
func (t *SegmentTrack) SegmentFromCoords(position, length VideoTime) int {
	i := t.SegmentFrom(position)
	for ; i < len(t.segments); i++ {
		if t.segments[i].position != position {
			return len(t.segments)
		}
		if t.segments[i].length == length {
			return i
		}
	}
	return len(t.segments)
}

// FindSegment locates s by identity among the segments sharing its
// coordinates.
func (t *SegmentTrack) FindSegment(s *Segment) (int, bool) {
	for i := t.SegmentFromCoords(s.position, s.length); i < len(t.segments); i++ {
		if t.segments[i] == s {
			return i, true
		}
		if t.segments[i].position != s.position || t.segments[i].length != s.length {
			return len(t.segments), false
		}
	}
	return len(t.segments), false
}
