// Package geometry provides the small geometric types shared by the
// ring-detection pipeline.
package geometry

import (
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PolarOffset returns the point at the given radius and angle (radians)
// from p. Angle 0 points along +X, increasing counterclockwise.
func (p Point2D) PolarOffset(radius, angle float64) Point2D {
	return Point2D{
		X: p.X + radius*math.Cos(angle),
		Y: p.Y + radius*math.Sin(angle),
	}
}

// UnitCircle returns n evenly spaced direction vectors covering a full
// turn, starting at angle 0. The endpoint 2π is excluded so angular
// averages do not double-count the first direction.
func UnitCircle(n int) []Point2D {
	dirs := make([]Point2D, n)
	for i := 0; i < n; i++ {
		a := float64(i) * 2 * math.Pi / float64(n)
		dirs[i] = Point2D{X: math.Cos(a), Y: math.Sin(a)}
	}
	return dirs
}
