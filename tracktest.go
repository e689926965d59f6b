package teground

import (
	"gocv.io/x/gocv"
	"gopkg.in/yaml.v3"
)

// TrackTest is one evaluator over a single track of a data file. The only
// built-in implementation is SegmentTrackTest, registered on the suite's
// registry under "SegmentTrackTest".
type TrackTest interface {
	// TrackHeader returns the header under evaluation.
	TrackHeader() *TrackHeader

	// Data returns the borrowed data file. It must outlive the evaluator
	// and not be mutated while the evaluator exists.
	Data() *DataFile

	// Read replaces the evaluator's recorded assertions from a persisted
	// result node.
	Read(node *yaml.Node) error

	// Write serializes the evaluator's recorded assertions.
	Write() (*yaml.Node, error)

	// IsEnd reports whether the cursor has passed the last sequence.
	IsEnd() bool

	// Draw renders one row of the suite surface. See SegmentTrackTest.Draw.
	Draw(dst *gocv.Mat, startSequence int, framePosition, numberOfFrames VideoTime, pixelsPerFrame, trackHeight int) error
}

// TrackTestMakeFunc constructs an evaluator of a registered subtype for a
// header of a data file.
type TrackTestMakeFunc func(data *DataFile, header *TrackHeader) (TrackTest, error)

type trackTestFactory struct {
	tag  string
	make TrackTestMakeFunc
}

// TrackTestRegistry maps evaluator subtype tags to constructors. Each
// TestSuite owns its own registry.
type TrackTestRegistry struct {
	factories []trackTestFactory
}

// NewTrackTestRegistry creates an empty registry.
func NewTrackTestRegistry() *TrackTestRegistry {
	return &TrackTestRegistry{}
}

// Register adds an evaluator subtype under tag. Registering an existing
// tag is a no-op.
func (r *TrackTestRegistry) Register(tag string, fn TrackTestMakeFunc) {
	if r.Has(tag) {
		return
	}
	r.factories = append(r.factories, trackTestFactory{tag: tag, make: fn})
}

// Has reports whether tag is registered.
func (r *TrackTestRegistry) Has(tag string) bool {
	for _, f := range r.factories {
		if f.tag == tag {
			return true
		}
	}
	return false
}

func (r *TrackTestRegistry) makeFunc(tag string) TrackTestMakeFunc {
	for _, f := range r.factories {
		if f.tag == tag {
			return f.make
		}
	}
	return nil
}
