package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownHandle is returned when parsing a handle name fails.
var ErrUnknownHandle = errors.New("unknown handle")

// Handle is a draggable resize control on a shape's bounding box.
type Handle int

const (
	HandleNW Handle = iota
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
)

// Handles lists all eight resize handles clockwise from the top-left corner.
var Handles = []Handle{HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW}

var handleNames = [...]string{"nw", "n", "ne", "e", "se", "s", "sw", "w"}

// String returns the compass name of the handle.
func (h Handle) String() string {
	if h < HandleNW || h > HandleW {
		return "unknown"
	}
	return handleNames[h]
}

// IsCorner reports whether the handle sits on a corner.
func (h Handle) IsCorner() bool {
	return h == HandleNW || h == HandleNE || h == HandleSE || h == HandleSW
}

// EditsLeft reports whether dragging the handle moves the left edge.
func (h Handle) EditsLeft() bool {
	return strings.Contains(h.String(), "w")
}

// EditsRight reports whether dragging the handle moves the right edge.
func (h Handle) EditsRight() bool {
	return strings.Contains(h.String(), "e")
}

// EditsTop reports whether dragging the handle moves the top edge.
func (h Handle) EditsTop() bool {
	return strings.HasPrefix(h.String(), "n")
}

// EditsBottom reports whether dragging the handle moves the bottom edge.
func (h Handle) EditsBottom() bool {
	return strings.HasPrefix(h.String(), "s")
}

// Opposite returns the handle diagonally or directly across the box.
func (h Handle) Opposite() Handle {
	return (h + 4) % 8
}

// Position returns where the handle sits on b.
func (h Handle) Position(b Bounds) Point {
	p := b.Center()
	if h.EditsLeft() {
		p.X = b.X
	}
	if h.EditsRight() {
		p.X = b.Right()
	}
	if h.EditsTop() {
		p.Y = b.Y
	}
	if h.EditsBottom() {
		p.Y = b.Bottom()
	}
	return p
}

// ParseHandle converts a compass name such as "se" to a Handle.
func ParseHandle(s string) (Handle, error) {
	for i, name := range handleNames {
		if name == s {
			return Handle(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownHandle, s)
}
