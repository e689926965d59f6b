package teground

// TrackHeader is a named, typed track descriptor shared across all
// sequences of a data file. Headers carry identity: two headers with the
// same name are distinct, and a sequence resolves its tracks by header
// pointer, not by name.
type TrackHeader struct {
	name string
	typ  string
	make TrackMakeFunc
}

func newTrackHeader(typ, name string, fn TrackMakeFunc) *TrackHeader {
	return &TrackHeader{name: name, typ: typ, make: fn}
}

// Name returns the display name.
func (h *TrackHeader) Name() string { return h.name }

// SetName renames the header. The name has no identity role.
func (h *TrackHeader) SetName(name string) { h.name = name }

// Type returns the registered track type tag, e.g. "Segment".
func (h *TrackHeader) Type() string { return h.typ }

func (h *TrackHeader) makeTrack(length VideoTime) Track {
	if h.make == nil {
		return nil
	}
	return h.make(h, length)
}
