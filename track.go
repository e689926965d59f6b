package teground

import "gopkg.in/yaml.v3"

// Track is one column of annotations along a single sequence. Concrete
// kinds are registered on a TrackRegistry under a string tag; the only
// built-in kind is "Segment" (see SegmentTrack).
type Track interface {
	// Header returns the shared descriptor this track was created for.
	Header() *TrackHeader

	// Length returns the track length, equal to the owning sequence's length.
	Length() VideoTime

	// ReadNode replaces the track contents from a persisted track node.
	ReadNode(node *yaml.Node) error

	// WriteNode serializes the track, tagged with its header's index in the
	// enclosing data file.
	WriteNode(headerIndex int) (*yaml.Node, error)
}

// TrackMakeFunc constructs a concrete track of a registered kind.
type TrackMakeFunc func(header *TrackHeader, length VideoTime) Track

type trackFactory struct {
	tag  string
	make TrackMakeFunc
}

// TrackRegistry maps track type tags to constructors. Each DataFile owns
// its own registry, so independent data files cannot interfere with each
// other's registered kinds.
type TrackRegistry struct {
	factories []trackFactory
}

// NewTrackRegistry creates an empty registry.
func NewTrackRegistry() *TrackRegistry {
	return &TrackRegistry{}
}

// Register adds a track kind under tag. Registering an existing tag is a
// no-op.
func (r *TrackRegistry) Register(tag string, fn TrackMakeFunc) {
	if r.Has(tag) {
		return
	}
	r.factories = append(r.factories, trackFactory{tag: tag, make: fn})
}

// Has reports whether tag is registered.
func (r *TrackRegistry) Has(tag string) bool {
	for _, f := range r.factories {
		if f.tag == tag {
			return true
		}
	}
	return false
}

func (r *TrackRegistry) makeFunc(tag string) TrackMakeFunc {
	for _, f := range r.factories {
		if f.tag == tag {
			return f.make
		}
	}
	return nil
}
