// Package core contains the fundamental value types shared by the gesso geometry core.
package core

import "math"

// Point represents a 2D coordinate in canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale multiplies both components by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Len returns the length of p treated as a vector.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns the euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Lerp returns the point at fraction t along the segment p->q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Bounds represents an axis-aligned rectangle by its top-left corner and size.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the center point of the bounds.
func (b Bounds) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Right returns the x coordinate of the right edge.
func (b Bounds) Right() float64 {
	return b.X + b.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (b Bounds) Bottom() float64 {
	return b.Y + b.Height
}

// Contains checks if a point is within the bounds, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.Right() &&
		p.Y >= b.Y && p.Y <= b.Bottom()
}

// ContainsBounds reports whether o lies entirely inside b.
func (b Bounds) ContainsBounds(o Bounds) bool {
	return o.X >= b.X && o.Y >= b.Y && o.Right() <= b.Right() && o.Bottom() <= b.Bottom()
}

// Union returns the smallest bounds containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	minX := math.Min(b.X, o.X)
	minY := math.Min(b.Y, o.Y)
	maxX := math.Max(b.Right(), o.Right())
	maxY := math.Max(b.Bottom(), o.Bottom())
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Inflate grows the bounds by d on every side. Negative d shrinks.
func (b Bounds) Inflate(d float64) Bounds {
	return Bounds{X: b.X - d, Y: b.Y - d, Width: b.Width + 2*d, Height: b.Height + 2*d}
}

// AspectRatio returns width/height, or 1 for degenerate bounds.
func (b Bounds) AspectRatio() float64 {
	if b.Height == 0 {
		return 1
	}
	return b.Width / b.Height
}

// BoundsFromPoints returns the bounds spanned by two corner points in any order.
func BoundsFromPoints(a, b Point) Bounds {
	return Bounds{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}
