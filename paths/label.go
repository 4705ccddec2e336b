package paths

import (
	"gesso/core"
	"gesso/geometry"
)

// Label placement limits. A dragged label stays inside [LabelMin, LabelMax]
// so it never sits on top of an endpoint.
const (
	DefaultLabelPosition = 0.5
	LabelMin             = 0.05
	LabelMax             = 0.95
)

// LabelPosition returns conn's label parameter, defaulting unset values to
// the middle of the path.
func LabelPosition(conn core.Connection) float64 {
	if conn.LabelPosition <= 0 {
		return DefaultLabelPosition
	}
	return geometry.Clamp(conn.LabelPosition, 0, 1)
}

// LabelPoint returns where conn's label sits on curve c.
func LabelPoint(c Curve, conn core.Connection) core.Point {
	return c.PointAt(LabelPosition(conn))
}

// DragLabel returns the label parameter for a label dragged to p.
func DragLabel(c Curve, p core.Point) float64 {
	t, _ := c.Nearest(p)
	return geometry.Clamp(t, LabelMin, LabelMax)
}
