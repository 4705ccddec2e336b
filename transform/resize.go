// Package transform computes new shape geometry for resize, rotate, move
// and group gestures. Every function is pure: it takes the geometry captured
// at gesture start plus the total pointer delta and returns new values.
package transform

import (
	"math"

	"gesso/core"
)

// DefaultMinSize is the smallest width or height a resize may produce.
const DefaultMinSize = 10.0

// ResizeOptions tune a single resize computation.
type ResizeOptions struct {
	MaintainAspectRatio bool    // Corner handles keep OriginalAspectRatio
	ResizeFromCenter    bool    // Keep the start center fixed
	OriginalAspectRatio float64 // width/height; <= 0 means use the start bounds
	MinSize             float64 // <= 0 means DefaultMinSize
}

func (o ResizeOptions) minSize() float64 {
	if o.MinSize <= 0 {
		return DefaultMinSize
	}
	return o.MinSize
}

// Resize recomputes bounds for a drag of handle by delta from start.
//
// The adjustments compose in a fixed order: raw edge edits, aspect ratio
// (corner handles only), minimum size, then center anchoring.
func Resize(start core.Bounds, handle core.Handle, delta core.Point, opts ResizeOptions) core.Bounds {
	b := rawResize(start, handle, delta)
	if opts.MaintainAspectRatio && handle.IsCorner() {
		ratio := opts.OriginalAspectRatio
		if ratio <= 0 {
			ratio = start.AspectRatio()
		}
		b = keepAspectRatio(start, b, handle, ratio)
	}
	b = enforceMinSize(start, b, handle, opts.minSize())
	if opts.ResizeFromCenter {
		b = centerResize(start, b, opts.minSize())
	}
	return b
}

// rawResize applies delta only to the edges the handle owns.
func rawResize(start core.Bounds, handle core.Handle, delta core.Point) core.Bounds {
	b := start
	if handle.EditsRight() {
		b.Width += delta.X
	}
	if handle.EditsLeft() {
		b.X += delta.X
		b.Width -= delta.X
	}
	if handle.EditsBottom() {
		b.Height += delta.Y
	}
	if handle.EditsTop() {
		b.Y += delta.Y
		b.Height -= delta.Y
	}
	return b
}

// keepAspectRatio lets the axis that changed more drive the other one. The
// dragged edges absorb the adjustment so the opposite corner stays put.
func keepAspectRatio(start, b core.Bounds, handle core.Handle, ratio float64) core.Bounds {
	dw := math.Abs(b.Width - start.Width)
	dh := math.Abs(b.Height - start.Height)
	if dw >= dh {
		b.Height = b.Width / ratio
		if handle.EditsTop() {
			b.Y = start.Bottom() - b.Height
		}
	} else {
		b.Width = b.Height * ratio
		if handle.EditsLeft() {
			b.X = start.Right() - b.Width
		}
	}
	return b
}

// enforceMinSize clamps width and height. The edge not being dragged stays
// fixed, so dragging the west edge never moves the east edge.
func enforceMinSize(start, b core.Bounds, handle core.Handle, minSize float64) core.Bounds {
	if b.Width < minSize {
		b.Width = minSize
		if handle.EditsLeft() {
			b.X = start.Right() - minSize
		}
	}
	if b.Height < minSize {
		b.Height = minSize
		if handle.EditsTop() {
			b.Y = start.Bottom() - minSize
		}
	}
	return b
}

// centerResize doubles the size change and centers it on the start center.
func centerResize(start, b core.Bounds, minSize float64) core.Bounds {
	c := start.Center()
	w := math.Max(start.Width+2*(b.Width-start.Width), minSize)
	h := math.Max(start.Height+2*(b.Height-start.Height), minSize)
	return core.Bounds{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
}
