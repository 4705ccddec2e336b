package core

// ShapeKind identifies the outline used for hit-testing.
type ShapeKind string

const (
	KindRectangle ShapeKind = "rectangle"
	KindEllipse   ShapeKind = "ellipse"
	KindDiamond   ShapeKind = "diamond"
	KindText      ShapeKind = "text"
)

// Shape holds the transform-relevant fields of a diagram shape. The shape
// collection owns shapes; the core only computes new field values.
type Shape struct {
	ID          string    `json:"id"`
	Kind        ShapeKind `json:"kind,omitempty"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Rotation    float64   `json:"rotation"` // Degrees, 0-360
	ZIndex      int       `json:"zIndex"`   // Higher draws on top
	StrokeWidth float64   `json:"strokeWidth,omitempty"`
	Hidden      bool      `json:"hidden,omitempty"`
	GroupID     string    `json:"groupId,omitempty"`
	Text        string    `json:"text,omitempty"`
}

// Bounds returns the unrotated bounding box of the shape.
func (s Shape) Bounds() Bounds {
	return Bounds{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
}

// Center returns the center point of the shape.
func (s Shape) Center() Point {
	return s.Bounds().Center()
}

// WithBounds returns a copy of s positioned and sized to b.
func (s Shape) WithBounds(b Bounds) Shape {
	s.X, s.Y, s.Width, s.Height = b.X, b.Y, b.Width, b.Height
	return s
}

// Group is a named set of shape ids, optionally nested in a parent group.
type Group struct {
	ID            string   `json:"id"`
	MemberIDs     []string `json:"memberIds"`
	ParentGroupID string   `json:"parentGroupId,omitempty"`
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	g.MemberIDs = append([]string(nil), g.MemberIDs...)
	return g
}

// Has reports whether id is a direct member of the group.
func (g Group) Has(id string) bool {
	for _, m := range g.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}
