package teground

// DataFile owns an ordered set of sequences and an ordered set of track
// headers. Every mutation re-establishes the correspondence invariant:
// each sequence holds exactly one track per header, in header order.
//
// The track-kind registry is scoped to the file, so independent data
// files (e.g. parallel test harnesses) never share registration state.
type DataFile struct {
	registry  *TrackRegistry
	sequences []*Sequence
	headers   []*TrackHeader
}

// NewDataFile creates an empty data file with the "Segment" track kind
// registered.
func NewDataFile() *DataFile {
	r := NewTrackRegistry()
	r.Register(SegmentTrackType, NewSegmentTrack)
	return &DataFile{registry: r}
}

// Registry returns the file's track-kind registry, e.g. to register
// additional kinds before reading.
func (d *DataFile) Registry() *TrackRegistry { return d.registry }

// Track header handling
// ---------------------

// TrackCount returns the number of registered headers.
func (d *DataFile) TrackCount() int { return len(d.headers) }

// TrackIndex returns the position of header, or TrackCount if it is not
// part of this file.
func (d *DataFile) TrackIndex(header *TrackHeader) int {
	for i, h := range d.headers {
		if h == header {
			return i
		}
	}
	return len(d.headers)
}

// TrackAt returns the header at index i.
func (d *DataFile) TrackAt(i int) *TrackHeader { return d.headers[i] }

// Headers returns the headers in order. The slice must not be mutated by
// the caller.
func (d *DataFile) Headers() []*TrackHeader { return d.headers }

// AppendTrack registers a header of the given type and grows a matching
// empty track on every sequence.
func (d *DataFile) AppendTrack(typ, name string) (*TrackHeader, error) {
	fn := d.registry.makeFunc(typ)
	if fn == nil {
		return nil, &UnknownTrackTypeError{Type: typ}
	}

	header := newTrackHeader(typ, name, fn)
	d.headers = append(d.headers, header)
	for _, seq := range d.sequences {
		seq.appendTrack(header)
	}
	return header, nil
}

// RemoveTrack drops header from the file and its track from every
// sequence.
func (d *DataFile) RemoveTrack(header *TrackHeader) {
	for _, seq := range d.sequences {
		seq.removeTrack(header)
	}
	for i, h := range d.headers {
		if h == header {
			d.headers = append(d.headers[:i], d.headers[i+1:]...)
			return
		}
	}
}

// ClearTracks removes every header and every sequence track.
func (d *DataFile) ClearTracks() {
	for _, seq := range d.sequences {
		seq.clearTracks()
	}
	d.headers = nil
}

// Sequence handling
// -----------------

// SequenceCount returns the number of sequences.
func (d *DataFile) SequenceCount() int { return len(d.sequences) }

// AppendSequence takes ownership of seq: any pre-existing tracks are
// cleared and one fresh track per registered header is created.
func (d *DataFile) AppendSequence(seq *Sequence) {
	seq.clearTracks()
	d.sequences = append(d.sequences, seq)
	for _, header := range d.headers {
		seq.appendTrack(header)
	}
}

// RemoveSequence detaches and discards seq.
func (d *DataFile) RemoveSequence(seq *Sequence) {
	for i, s := range d.sequences {
		if s == seq {
			d.sequences = append(d.sequences[:i], d.sequences[i+1:]...)
			return
		}
	}
}

// TakeSequence detaches seq without discarding it; the caller receives
// ownership, tracks included.
func (d *DataFile) TakeSequence(seq *Sequence) *Sequence {
	for i, s := range d.sequences {
		if s == seq {
			d.sequences = append(d.sequences[:i], d.sequences[i+1:]...)
			return seq
		}
	}
	return seq
}

// MoveSequence reorders seq to index, keeping the relative order of the
// other sequences stable.
func (d *DataFile) MoveSequence(seq *Sequence, index int) {
	for i, s := range d.sequences {
		if s != seq {
			continue
		}
		if i == index {
			return
		}
		d.sequences = append(d.sequences[:i], d.sequences[i+1:]...)
		d.sequences = append(d.sequences, nil)
		copy(d.sequences[index+1:], d.sequences[index:])
		d.sequences[index] = seq
		return
	}
}

// SequenceAt returns the sequence at index i.
func (d *DataFile) SequenceAt(i int) *Sequence { return d.sequences[i] }

// Sequences returns the sequences in order. The slice must not be mutated
// by the caller.
func (d *DataFile) Sequences() []*Sequence { return d.sequences }

// SequenceFrom returns the first sequence whose path matches, or nil.
func (d *DataFile) SequenceFrom(path string) *Sequence {
	for _, s := range d.sequences {
		if s.path == path {
			return s
		}
	}
	return nil
}

// ClearSequences removes every sequence.
func (d *DataFile) ClearSequences() {
	d.sequences = nil
}
