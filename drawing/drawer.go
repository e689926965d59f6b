// Package drawing provides the drawing primitives the track-test surfaces
// are rasterized with. All functions modify BGR gocv.Mat frames in place.
package drawing

import (
	"image"

	"gocv.io/x/gocv"
)

// Drawer provides stateless drawing primitive functions over gocv Mats.
type Drawer struct{}

// NewDrawer creates a new Drawer instance.
func NewDrawer() *Drawer {
	return &Drawer{}
}

// Fill floods the whole frame with a color.
func (d *Drawer) Fill(frame *gocv.Mat, c Color) {
	frame.SetTo(gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 255))
}

// FillRect draws a filled rectangle clipped to the frame.
func (d *Drawer) FillRect(frame *gocv.Mat, r image.Rectangle, c Color) {
	gocv.Rectangle(frame, r, c.ToRGBA(), -1)
}

// Rect draws a rectangle outline.
func (d *Drawer) Rect(frame *gocv.Mat, r image.Rectangle, c Color, thickness int) {
	if thickness <= 0 {
		thickness = 1
	}
	gocv.Rectangle(frame, r, c.ToRGBA(), thickness)
}

// Line draws a line segment.
func (d *Drawer) Line(frame *gocv.Mat, start, end image.Point, c Color) {
	gocv.Line(frame, start, end, c.ToRGBA(), 1)
}

// Text draws a text label at position with the given scale.
func (d *Drawer) Text(frame *gocv.Mat, text string, position image.Point, scale float64, c Color) {
	gocv.PutText(frame, text, position, gocv.FontHersheySimplex, scale, c.ToRGBA(), 1)
}
