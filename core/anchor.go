package core

import (
	"errors"
	"fmt"
)

// ErrUnknownAnchor is returned when parsing an anchor name fails.
var ErrUnknownAnchor = errors.New("unknown anchor")

// Anchor is one of the four attachment points on a shape's side midpoints.
type Anchor int

const (
	AnchorTop Anchor = iota
	AnchorRight
	AnchorBottom
	AnchorLeft

	// AnchorNone marks a floating endpoint with no side.
	AnchorNone Anchor = -1
)

// Anchors lists the cardinal anchors in enumeration order.
var Anchors = []Anchor{AnchorTop, AnchorRight, AnchorBottom, AnchorLeft}

// String returns the string representation of an Anchor.
func (a Anchor) String() string {
	switch a {
	case AnchorTop:
		return "top"
	case AnchorRight:
		return "right"
	case AnchorBottom:
		return "bottom"
	case AnchorLeft:
		return "left"
	case AnchorNone:
		return ""
	default:
		return "unknown"
	}
}

// Opposite returns the anchor on the other side of the shape.
func (a Anchor) Opposite() Anchor {
	switch a {
	case AnchorTop:
		return AnchorBottom
	case AnchorRight:
		return AnchorLeft
	case AnchorBottom:
		return AnchorTop
	case AnchorLeft:
		return AnchorRight
	default:
		return a
	}
}

// Normal returns the unit vector pointing outward from the side, in canvas
// space where y grows downward.
func (a Anchor) Normal() Point {
	switch a {
	case AnchorTop:
		return Point{X: 0, Y: -1}
	case AnchorRight:
		return Point{X: 1, Y: 0}
	case AnchorBottom:
		return Point{X: 0, Y: 1}
	case AnchorLeft:
		return Point{X: -1, Y: 0}
	default:
		return Point{}
	}
}

// IsHorizontal reports whether the anchor exits along the x axis.
func (a Anchor) IsHorizontal() bool {
	return a == AnchorLeft || a == AnchorRight
}

// Valid reports whether a is one of the four cardinal anchors.
func (a Anchor) Valid() bool {
	return a >= AnchorTop && a <= AnchorLeft
}

// MarshalText encodes the anchor by name.
func (a Anchor) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an anchor name; the empty string is AnchorNone.
func (a *Anchor) UnmarshalText(text []byte) error {
	parsed, err := ParseAnchor(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAnchor converts a name such as "left" to an Anchor.
func ParseAnchor(s string) (Anchor, error) {
	switch s {
	case "top":
		return AnchorTop, nil
	case "right":
		return AnchorRight, nil
	case "bottom":
		return AnchorBottom, nil
	case "left":
		return AnchorLeft, nil
	case "":
		return AnchorNone, nil
	default:
		return AnchorNone, fmt.Errorf("%w: %q", ErrUnknownAnchor, s)
	}
}
