package teground

// SequenceKind discriminates the underlying media of a sequence.
type SequenceKind int

const (
	// SequenceVideo is a decoded video timeline.
	SequenceVideo SequenceKind = iota
	// SequenceImage is an ordered image set.
	SequenceImage
)

// String returns the persisted tag for the kind.
func (k SequenceKind) String() string {
	switch k {
	case SequenceVideo:
		return "Video"
	case SequenceImage:
		return "Image"
	}
	return ""
}

// SequenceKindFromString parses a persisted kind tag. Unknown tags map to
// SequenceVideo.
func SequenceKindFromString(s string) SequenceKind {
	if s == "Image" {
		return SequenceImage
	}
	return SequenceVideo
}

// Sequence is one annotated media timeline. A sequence attached to a
// DataFile holds exactly one track per header known to the file; the
// tracks are managed by the file and stay in one-to-one correspondence
// with its header set.
type Sequence struct {
	path    string
	decoder string
	kind    SequenceKind
	length  VideoTime

	tracks []Track
}

// NewSequence creates a sequence of the given length. Path locates the
// underlying media and decoder names how to open it; both are opaque to
// the library.
func NewSequence(path, decoder string, kind SequenceKind, length VideoTime) *Sequence {
	return &Sequence{path: path, decoder: decoder, kind: kind, length: length}
}

// Path returns the media locator.
func (s *Sequence) Path() string { return s.path }

// Decoder returns the decoder name.
func (s *Sequence) Decoder() string { return s.decoder }

// SetDecoder replaces the decoder name.
func (s *Sequence) SetDecoder(decoder string) { s.decoder = decoder }

// Kind returns the media kind.
func (s *Sequence) Kind() SequenceKind { return s.kind }

// Length returns the timeline length in frames.
func (s *Sequence) Length() VideoTime { return s.length }

// TotalTracks returns the number of tracks.
func (s *Sequence) TotalTracks() int { return len(s.tracks) }

// Tracks returns the tracks in header order. The slice must not be
// mutated by the caller.
func (s *Sequence) Tracks() []Track { return s.tracks }

// Track returns the track created for header, or nil.
func (s *Sequence) Track(header *TrackHeader) Track {
	for _, t := range s.tracks {
		if t.Header() == header {
			return t
		}
	}
	return nil
}

// TrackByName returns the first track whose header carries name, or nil.
func (s *Sequence) TrackByName(name string) Track {
	for _, t := range s.tracks {
		if t.Header().Name() == name {
			return t
		}
	}
	return nil
}

func (s *Sequence) appendTrack(header *TrackHeader) Track {
	t := header.makeTrack(s.length)
	s.tracks = append(s.tracks, t)
	return t
}

func (s *Sequence) removeTrack(header *TrackHeader) {
	for i, t := range s.tracks {
		if t.Header() == header {
			s.tracks = append(s.tracks[:i], s.tracks[i+1:]...)
			return
		}
	}
}

func (s *Sequence) clearTracks() {
	s.tracks = nil
}
