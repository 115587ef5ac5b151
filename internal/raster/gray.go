// Package raster holds the in-memory grayscale buffer the pipeline
// samples from. Keeping intensity data in a plain float slice decouples
// the radial profiler from OpenCV and keeps sampling deterministic.
package raster

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"
)

// Gray is an immutable height×width grayscale intensity buffer.
type Gray struct {
	Width  int
	Height int
	pix    []float32
}

// NewGray allocates a zeroed buffer.
func NewGray(width, height int) *Gray {
	return &Gray{
		Width:  width,
		Height: height,
		pix:    make([]float32, width*height),
	}
}

// FromMat copies a single-channel 8-bit Mat into a Gray buffer.
func FromMat(m gocv.Mat) (*Gray, error) {
	if m.Empty() {
		return nil, fmt.Errorf("empty image matrix")
	}
	if m.Channels() != 1 {
		return nil, fmt.Errorf("expected single-channel image, got %d channels", m.Channels())
	}

	g := NewGray(m.Cols(), m.Rows())
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			g.pix[y*g.Width+x] = float32(m.GetUCharAt(y, x))
		}
	}
	return g, nil
}

// At returns the intensity at (x, y). Out-of-range coordinates are
// reflected back into the image.
func (g *Gray) At(x, y int) float64 {
	x = reflectIndex(x, g.Width)
	y = reflectIndex(y, g.Height)
	return float64(g.pix[y*g.Width+x])
}

// Set stores an intensity sample. Intended for constructing synthetic
// images; coordinates must be in range.
func (g *Gray) Set(x, y int, v float64) {
	g.pix[y*g.Width+x] = float32(v)
}

// Bilinear samples the image at a fractional position using bilinear
// interpolation. Positions outside the image reflect at the borders, so
// sampling never fails regardless of where the caller points it.
func (g *Gray) Bilinear(x, y float64) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	v00 := g.At(x0, y0)
	v10 := g.At(x0+1, y0)
	v01 := g.At(x0, y0+1)
	v11 := g.At(x0+1, y0+1)

	top := v00 + fx*(v10-v00)
	bottom := v01 + fx*(v11-v01)
	return top + fy*(bottom-top)
}

// reflectIndex maps an arbitrary index into [0, n) by reflecting at the
// borders with edge duplication (…cba|abc…|cba…).
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i - 1
		}
		if i >= n {
			i = 2*n - 1 - i
		}
	}
	return i
}
