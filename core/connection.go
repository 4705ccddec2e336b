package core

// CurveType selects the path family used to draw a connection.
type CurveType string

const (
	CurveStraight   CurveType = "straight"
	CurveOrthogonal CurveType = "orthogonal"
	CurveBezier     CurveType = "bezier"
)

// Endpoint is one end of a connection. It is attached when ShapeID is set,
// in which case its position is derived from the shape's anchor; otherwise
// Point holds the floating position.
type Endpoint struct {
	ShapeID string `json:"shapeId,omitempty"`
	Anchor  Anchor `json:"anchor"`
	Point   Point  `json:"point"`
}

// Attached returns an endpoint bound to a shape side.
func Attached(shapeID string, anchor Anchor) Endpoint {
	return Endpoint{ShapeID: shapeID, Anchor: anchor}
}

// Floating returns an endpoint at a fixed canvas position.
func Floating(p Point) Endpoint {
	return Endpoint{Anchor: AnchorNone, Point: p}
}

// IsAttached reports whether the endpoint follows a shape.
func (e Endpoint) IsAttached() bool {
	return e.ShapeID != ""
}

// ControlPoints are bezier handles stored as offsets: CP1 relative to the
// start point and CP2 relative to the end point.
type ControlPoints struct {
	CP1 Point `json:"cp1"`
	CP2 Point `json:"cp2"`
}

// Waypoint is a routing point stored relative to the straight baseline
// between the endpoints: T is the fractional position along it and Offset
// the displacement from the baseline point at T.
type Waypoint struct {
	ID     string  `json:"id"`
	T      float64 `json:"t"`
	Offset Point   `json:"offset"`
}

// Connection is a connector between two endpoints.
type Connection struct {
	ID            string         `json:"id"`
	Start         Endpoint       `json:"start"`
	End           Endpoint       `json:"end"`
	CurveType     CurveType      `json:"curveType,omitempty"`
	ControlPoints *ControlPoints `json:"controlPoints,omitempty"`
	Waypoints     []Waypoint     `json:"waypoints,omitempty"`
	Label         string         `json:"label,omitempty"`
	LabelPosition float64        `json:"labelPosition,omitempty"` // Path parameter in [0,1]
	StrokeWidth   float64        `json:"strokeWidth,omitempty"`
	Arrow         bool           `json:"arrow,omitempty"`
}

// Curve returns the connection's curve type, defaulting to straight.
func (c Connection) Curve() CurveType {
	if c.CurveType == "" {
		return CurveStraight
	}
	return c.CurveType
}

// Clone creates a deep copy of the connection
func (c Connection) Clone() Connection {
	if c.ControlPoints != nil {
		cp := *c.ControlPoints
		c.ControlPoints = &cp
	}
	if c.Waypoints != nil {
		wps := make([]Waypoint, len(c.Waypoints))
		copy(wps, c.Waypoints)
		c.Waypoints = wps
	}
	return c
}

// References reports whether either endpoint is attached to shapeID.
func (c Connection) References(shapeID string) bool {
	return c.Start.ShapeID == shapeID || c.End.ShapeID == shapeID
}
