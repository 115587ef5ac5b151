// Package center estimates the common center of a Newton-ring fringe
// pattern from a grayscale image.
//
// Two strategies are available: a gradient-weighted edge centroid (the
// usual choice, since fringe systems produce a dense, symmetric edge
// cloud) and a Hough circle transform (useful when a strong outer boundary
// dominates). Strategies are tried in configured order; when both fail
// the geometric image center is returned so the pipeline always has a
// center to work from.
package center

import (
	"math"

	"gocv.io/x/gocv"

	"newton-rings/pkg/geometry"
)

// Method identifies how a center estimate was produced.
type Method string

const (
	MethodGradient Method = "gradient"
	MethodHough    Method = "hough"
	MethodDefault  Method = "default"
)

// Estimate is the detected fringe-pattern center.
type Estimate struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Method Method  `json:"method"`

	// Score is method-specific confidence: inverse edge spread for the
	// gradient method, circle radius for Hough, 0 for the default.
	Score float64 `json:"score"`
}

// Point returns the estimate as a geometry point.
func (e Estimate) Point() geometry.Point2D {
	return geometry.Point2D{X: e.X, Y: e.Y}
}

// Params tunes the center strategies.
type Params struct {
	// PreferredMethod is "gradient" or "hough"; anything else means
	// gradient first.
	PreferredMethod string

	CannyThreshold1 float32
	CannyThreshold2 float32

	HoughDP      float64
	HoughMinDist float64
	HoughParam1  float64
	HoughParam2  float64
}

// DefaultParams returns center detection defaults tuned for typical
// Newton-ring photographs.
func DefaultParams() Params {
	return Params{
		PreferredMethod: "gradient",
		CannyThreshold1: 50,
		CannyThreshold2: 150,
		HoughDP:         1,
		HoughMinDist:    50,
		HoughParam1:     50,
		HoughParam2:     30,
	}
}

// minEdgePixels is the floor below which the edge cloud is considered
// too sparse for a meaningful centroid.
const minEdgePixels = 200

// strategy attempts one center estimation method. ok is false when the
// method found nothing usable.
type strategy func(gray gocv.Mat, p Params) (Estimate, bool)

// Find estimates the fringe center. It never fails: after the preferred
// and fallback strategies, the geometric image center (score 0) is used.
// The input image is not modified.
func Find(gray gocv.Mat, p Params) Estimate {
	chain := []strategy{gradientCentroid, houghLargestCircle}
	if p.PreferredMethod == "hough" {
		chain = []strategy{houghLargestCircle, gradientCentroid}
	}
	return firstOf(chain, gray, p, float64(gray.Cols()), float64(gray.Rows()))
}

// firstOf runs strategies in order and returns the first success, or the
// geometric center of a width×height image when all fail.
func firstOf(chain []strategy, gray gocv.Mat, p Params, width, height float64) Estimate {
	for _, s := range chain {
		if est, ok := s(gray, p); ok {
			return est
		}
	}
	return Estimate{X: width / 2, Y: height / 2, Method: MethodDefault, Score: 0}
}

// gradientCentroid estimates the center as the gradient-magnitude-weighted
// centroid of Canny edge pixels. Concentric fringes put edge pixels all
// around the center, so the weighted centroid lands on it even when single
// fringes are partially washed out.
func gradientCentroid(gray gocv.Mat, p Params) (Estimate, bool) {
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, p.CannyThreshold1, p.CannyThreshold2)

	rows, cols := edges.Rows(), edges.Cols()

	type edgePixel struct {
		x, y int
	}
	var pixels []edgePixel
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if edges.GetUCharAt(y, x) != 0 {
				pixels = append(pixels, edgePixel{x, y})
			}
		}
	}
	if len(pixels) < minEdgePixels {
		return Estimate{}, false
	}

	gx := gocv.NewMat()
	defer gx.Close()
	gy := gocv.NewMat()
	defer gy.Close()
	gocv.Sobel(gray, &gx, gocv.MatTypeCV32F, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(gray, &gy, gocv.MatTypeCV32F, 0, 1, 3, 1, 0, gocv.BorderDefault)

	mag := gocv.NewMat()
	defer mag.Close()
	gocv.Magnitude(gx, gy, &mag)

	var sumW, sumWX, sumWY float64
	weights := make([]float64, len(pixels))
	for i, px := range pixels {
		w := float64(mag.GetFloatAt(px.y, px.x))
		if w < 1e-6 {
			w = 1e-6
		}
		weights[i] = w
		sumW += w
		sumWX += w * float64(px.x)
		sumWY += w * float64(px.y)
	}

	cx := sumWX / sumW
	cy := sumWY / sumW

	// Confidence: inverse of the weighted RMS spread of edge pixels
	// around the centroid. A tight ring system spreads little.
	var spread2 float64
	for i, px := range pixels {
		dx := float64(px.x) - cx
		dy := float64(px.y) - cy
		spread2 += weights[i] * (dx*dx + dy*dy)
	}
	spread := math.Sqrt(spread2 / sumW)
	score := 1.0 / (spread + 1e-6)

	return Estimate{X: cx, Y: cy, Method: MethodGradient, Score: score}, true
}

// houghLargestCircle runs a Hough circle transform with an unconstrained
// radius range and keeps the largest detected circle; the outer ring
// boundary is the most reliably detected one. Its radius doubles as the
// confidence score.
func houghLargestCircle(gray gocv.Mat, p Params) (Estimate, bool) {
	circles := gocv.NewMat()
	defer circles.Close()

	gocv.HoughCirclesWithParams(gray, &circles, gocv.HoughGradient,
		p.HoughDP, p.HoughMinDist, p.HoughParam1, p.HoughParam2, 0, 0)

	if circles.Empty() || circles.Cols() == 0 {
		return Estimate{}, false
	}

	best := 0
	bestR := float32(-1)
	for i := 0; i < circles.Cols(); i++ {
		if r := circles.GetFloatAt(0, i*3+2); r > bestR {
			bestR = r
			best = i
		}
	}

	return Estimate{
		X:      float64(circles.GetFloatAt(0, best*3)),
		Y:      float64(circles.GetFloatAt(0, best*3+1)),
		Method: MethodHough,
		Score:  float64(bestR),
	}, true
}
