package drawing

import "image/color"

// Color is an RGB triple. Surfaces are BGR gocv Mats; gocv's drawing
// calls take color.RGBA and reorder the channels themselves.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// NewColor creates a color from RGB components.
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ToRGBA converts to the color.RGBA gocv drawing functions expect.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Palette used by the track-test surfaces.
var (
	// Surface is the background fill.
	Surface = Color{R: 70, G: 70, B: 70}
	// HeaderFill is the left-hand label column fill.
	HeaderFill = Color{R: 60, G: 60, B: 60}
	// Label is the bright label text color.
	Label = Color{R: 200, G: 200, B: 200}
	// LabelDim is the secondary label text color.
	LabelDim = Color{R: 150, G: 150, B: 150}
	// Marker is the frame tick color.
	Marker = Color{R: 120, G: 120, B: 120}
	// Separator divides sequences on the surface.
	Separator = Color{R: 100, G: 100, B: 100}
	// UnmarkedFill shades segments that no assertion references yet.
	UnmarkedFill = Color{R: 84, G: 84, B: 84}
	// MatchedSegment shades segments claimed by a matching assertion.
	MatchedSegment = Color{R: 84, G: 200, B: 84}
	// MissedSegment shades segments referenced by a non-matching
	// assertion, i.e. segments the cursor swept as Unmarked.
	MissedSegment = Color{R: 200, G: 84, B: 84}
	// MatchedAssertion shades the asserted interval of a match.
	MatchedAssertion = Color{R: 30, G: 120, B: 30}
	// MissedAssertion shades the asserted interval of a miss.
	MissedAssertion = Color{R: 120, G: 30, B: 30}
	// Cursor is the cursor line color.
	Cursor = Color{R: 220, G: 220, B: 220}
)
