package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect represents a rectangle in y-down page coordinates:
// Top is the smaller y value, Bottom the larger.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// NewRect creates a rectangle from its four edges
func NewRect(left, top, right, bottom float64) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// RectFromSize creates a rectangle from its top-left corner and dimensions
func RectFromSize(left, top, width, height float64) Rect {
	return Rect{Left: left, Top: top, Right: left + width, Bottom: top + height}
}

// Width returns the horizontal extent of the rectangle
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent of the rectangle
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// CenterX returns the x coordinate of the rectangle center
func (r Rect) CenterX() float64 {
	return (r.Left + r.Right) / 2
}

// CenterY returns the y coordinate of the rectangle center
func (r Rect) CenterY() float64 {
	return (r.Top + r.Bottom) / 2
}

// Center returns the center point
func (r Rect) Center() Point {
	return Point{X: r.CenterX(), Y: r.CenterY()}
}

// Area returns the area of the rectangle
func (r Rect) Area() float64 {
	return r.Width() * r.Height()
}

// IsValid returns true if the rectangle has positive dimensions
func (r Rect) IsValid() bool {
	return r.Width() > 0 && r.Height() > 0
}

// IsEmpty returns true if the rectangle has zero or negative area
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains checks if a point is inside the rectangle
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right &&
		p.Y >= r.Top && p.Y <= r.Bottom
}

// ContainsRect checks if another rectangle lies entirely inside this one
func (r Rect) ContainsRect(other Rect) bool {
	return other.Left >= r.Left && other.Right <= r.Right &&
		other.Top >= r.Top && other.Bottom <= r.Bottom
}

// Intersects checks if two rectangles intersect
func (r Rect) Intersects(other Rect) bool {
	return !(r.Right < other.Left ||
		r.Left > other.Right ||
		r.Bottom < other.Top ||
		r.Top > other.Bottom)
}

// Intersection returns the intersection of two rectangles
func (r Rect) Intersection(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}

	return Rect{
		Left:   math.Max(r.Left, other.Left),
		Top:    math.Max(r.Top, other.Top),
		Right:  math.Min(r.Right, other.Right),
		Bottom: math.Min(r.Bottom, other.Bottom),
	}
}

// Union returns the smallest rectangle covering both rectangles
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, other.Left),
		Top:    math.Min(r.Top, other.Top),
		Right:  math.Max(r.Right, other.Right),
		Bottom: math.Max(r.Bottom, other.Bottom),
	}
}

// Expand expands the rectangle by a margin on all sides
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		Left:   r.Left - margin,
		Top:    r.Top - margin,
		Right:  r.Right + margin,
		Bottom: r.Bottom + margin,
	}
}

// OverlapRatio calculates the intersection area over the smaller rectangle's
// area. Returns a value between 0 and 1.
func (r Rect) OverlapRatio(other Rect) float64 {
	if !r.Intersects(other) {
		return 0
	}

	intersection := r.Intersection(other)
	minArea := math.Min(r.Area(), other.Area())

	if minArea <= 0 {
		return 0
	}

	return intersection.Area() / minArea
}

// HorizontalOverlap returns the length of the shared x range, or 0 if the
// rectangles do not overlap horizontally.
func (r Rect) HorizontalOverlap(other Rect) float64 {
	overlap := math.Min(r.Right, other.Right) - math.Max(r.Left, other.Left)
	if overlap < 0 {
		return 0
	}
	return overlap
}

// VerticalOverlap returns the length of the shared y range, or 0 if the
// rectangles do not overlap vertically.
func (r Rect) VerticalOverlap(other Rect) float64 {
	overlap := math.Min(r.Bottom, other.Bottom) - math.Max(r.Top, other.Top)
	if overlap < 0 {
		return 0
	}
	return overlap
}

// HorizontalGap returns the horizontal distance between the rectangles'
// nearest vertical edges, or 0 if they overlap horizontally.
func (r Rect) HorizontalGap(other Rect) float64 {
	gap := math.Max(r.Left, other.Left) - math.Min(r.Right, other.Right)
	if gap < 0 {
		return 0
	}
	return gap
}

// VerticalGap returns the vertical distance between the rectangles' nearest
// horizontal edges, or 0 if they overlap vertically.
func (r Rect) VerticalGap(other Rect) float64 {
	gap := math.Max(r.Top, other.Top) - math.Min(r.Bottom, other.Bottom)
	if gap < 0 {
		return 0
	}
	return gap
}
