// Package profile reduces the 2-D fringe image to a 1-D radial intensity
// profile by averaging bilinear samples over many angles per radius.
//
// The angular average is the main noise-reduction step of the pipeline:
// dust or glare at a single angle contributes only 1/numAngles of its
// weight to any radius sample.
package profile

import (
	"newton-rings/internal/raster"
	"newton-rings/pkg/geometry"
)

// DefaultNumAngles is the number of angular samples per radius when the
// caller does not specify one.
const DefaultNumAngles = 720

// minMaxRadius is the floor applied to the computed profile length so
// degenerate centers still yield a usable profile.
const minMaxRadius = 10

// Radial computes the mean intensity for each integer radius
// 0..maxRadius-1 around the given center. Centers outside the image are
// safe: sampling reflects at the borders.
func Radial(g *raster.Gray, c geometry.Point2D, numAngles, maxRadius int) []float64 {
	if numAngles <= 0 {
		numAngles = DefaultNumAngles
	}
	if maxRadius < 1 {
		maxRadius = DefaultMaxRadius(g, c)
	}

	dirs := geometry.UnitCircle(numAngles)
	prof := make([]float64, maxRadius)
	for r := 0; r < maxRadius; r++ {
		var sum float64
		fr := float64(r)
		for _, d := range dirs {
			sum += g.Bilinear(c.X+d.X*fr, c.Y+d.Y*fr)
		}
		prof[r] = sum / float64(numAngles)
	}
	return prof
}

// DefaultMaxRadius returns the distance from the center to the nearest
// image edge, floored at minMaxRadius.
func DefaultMaxRadius(g *raster.Gray, c geometry.Point2D) int {
	m := c.X
	if c.Y < m {
		m = c.Y
	}
	if r := float64(g.Width) - c.X; r < m {
		m = r
	}
	if b := float64(g.Height) - c.Y; b < m {
		m = b
	}

	maxRadius := int(m)
	if maxRadius < minMaxRadius {
		maxRadius = minMaxRadius
	}
	return maxRadius
}
