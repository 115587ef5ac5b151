// Package render draws the diagnostic figures: the detected rings over
// the photograph, the radial profile with marked minima, the linear fit,
// the residuals and the measured-vs-reference comparison. Figures are
// plain PNG files composed with OpenCV drawing primitives.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"newton-rings/internal/center"
	"newton-rings/internal/fit"
)

const (
	plotWidth  = 900
	plotHeight = 450
	plotMargin = 60
)

var (
	colorAxis     = color.RGBA{R: 40, G: 40, B: 40, A: 0}
	colorRaw      = color.RGBA{R: 160, G: 160, B: 160, A: 0}
	colorSmooth   = color.RGBA{B: 200, A: 0}
	colorMarker   = color.RGBA{R: 200, A: 0}
	colorData     = color.RGBA{B: 180, A: 0}
	colorFitLine  = color.RGBA{R: 200, A: 0}
	colorMeasured = color.RGBA{B: 180, A: 0}
	colorRef      = color.RGBA{R: 60, G: 160, B: 60, A: 0}
)

// Overlay draws the estimated center and the detected ring radii on top
// of the grayscale image.
func Overlay(gray gocv.Mat, est center.Estimate, radiiPx []int, path string) error {
	img := gocv.NewMat()
	defer img.Close()
	gocv.CvtColor(gray, &img, gocv.ColorGrayToBGR)

	c := image.Point{X: int(est.X + 0.5), Y: int(est.Y + 0.5)}
	gocv.Circle(&img, c, 5, color.RGBA{G: 255, A: 0}, -1)
	for _, r := range radiiPx {
		gocv.Circle(&img, c, r, color.RGBA{B: 255, A: 0}, 1)
	}

	return writePNG(img, path)
}

// ProfilePlot draws the raw and smoothed radial profiles with the
// detected minima marked.
func ProfilePlot(raw, smooth []float64, minima []int, path string) error {
	if len(raw) == 0 {
		return fmt.Errorf("empty profile")
	}

	lo, hi := seriesRange(raw, smooth)
	canvas := newPlotCanvas()
	defer canvas.Close()

	drawAxes(&canvas, "radius (px)", "mean intensity")
	drawPolyline(&canvas, raw, lo, hi, colorRaw)
	drawPolyline(&canvas, smooth, lo, hi, colorSmooth)

	for _, m := range minima {
		if m < len(smooth) {
			p := plotPoint(float64(m), smooth[m], 0, float64(len(raw)-1), lo, hi)
			drawCross(&canvas, p, colorMarker)
		}
	}
	gocv.PutText(&canvas, "radial intensity profile", image.Point{X: plotMargin, Y: 30},
		gocv.FontHersheySimplex, 0.7, colorAxis, 1)

	return writePNG(canvas, path)
}

// FitPlot draws the (n, r²) scatter and the fitted line.
func FitPlot(res fit.Result, path string) error {
	if len(res.Orders) == 0 {
		return fmt.Errorf("empty fit result")
	}

	xMin := float64(res.Orders[0])
	xMax := float64(res.Orders[len(res.Orders)-1])
	if xMax == xMin {
		xMax = xMin + 1
	}
	lo, hi := seriesRange(res.RadiiMM2, nil)

	canvas := newPlotCanvas()
	defer canvas.Close()
	drawAxes(&canvas, "ring index n", "r^2 (mm^2)")

	p0 := plotPoint(xMin, res.Slope*xMin+res.Intercept, xMin, xMax, lo, hi)
	p1 := plotPoint(xMax, res.Slope*xMax+res.Intercept, xMin, xMax, lo, hi)
	gocv.Line(&canvas, p0, p1, colorFitLine, 2)

	for i, n := range res.Orders {
		p := plotPoint(float64(n), res.RadiiMM2[i], xMin, xMax, lo, hi)
		gocv.Circle(&canvas, p, 4, colorData, -1)
	}

	title := fmt.Sprintf("r^2 = %.4f n + %.4f   R = %.2f mm", res.Slope, res.Intercept, res.RMM)
	gocv.PutText(&canvas, title, image.Point{X: plotMargin, Y: 30},
		gocv.FontHersheySimplex, 0.7, colorAxis, 1)

	return writePNG(canvas, path)
}

// ResidualPlot draws the fit residuals per ring index around a zero line.
func ResidualPlot(orders []int, residualsMM2 []float64, path string) error {
	if len(orders) == 0 || len(orders) != len(residualsMM2) {
		return fmt.Errorf("invalid residual data")
	}

	xMin := float64(orders[0])
	xMax := float64(orders[len(orders)-1])
	if xMax == xMin {
		xMax = xMin + 1
	}
	lo, hi := seriesRange(residualsMM2, nil)
	if lo > 0 {
		lo = 0
	}
	if hi < 0 {
		hi = 0
	}

	canvas := newPlotCanvas()
	defer canvas.Close()
	drawAxes(&canvas, "ring index n", "residual of r^2 (mm^2)")

	z0 := plotPoint(xMin, 0, xMin, xMax, lo, hi)
	z1 := plotPoint(xMax, 0, xMin, xMax, lo, hi)
	gocv.Line(&canvas, z0, z1, colorAxis, 1)

	var prev image.Point
	for i, n := range orders {
		p := plotPoint(float64(n), residualsMM2[i], xMin, xMax, lo, hi)
		gocv.Circle(&canvas, p, 4, colorData, -1)
		if i > 0 {
			gocv.Line(&canvas, prev, p, colorData, 1)
		}
		prev = p
	}
	gocv.PutText(&canvas, "residual plot (r^2 - fitted)", image.Point{X: plotMargin, Y: 30},
		gocv.FontHersheySimplex, 0.7, colorAxis, 1)

	return writePNG(canvas, path)
}

// ComparisonPlot draws measured vs reference curvature radius as bars.
func ComparisonPlot(measuredRMM, referenceRMM float64, path string) error {
	_, hi := seriesRange([]float64{0, measuredRMM, referenceRMM}, nil)
	if hi <= 0 {
		hi = 1
	}

	canvas := newPlotCanvas()
	defer canvas.Close()
	drawAxes(&canvas, "", "R (mm)")

	bars := []struct {
		label string
		value float64
		col   color.RGBA
	}{
		{"measured R", measuredRMM, colorMeasured},
		{"reference R", referenceRMM, colorRef},
	}

	innerW := plotWidth - 2*plotMargin
	barW := innerW / 5
	for i, b := range bars {
		x0 := plotMargin + innerW/4 + i*innerW/2 - barW/2
		yTop := yToPixel(b.value, 0, hi)
		yBase := yToPixel(0, 0, hi)
		gocv.Rectangle(&canvas, image.Rect(x0, yTop, x0+barW, yBase), b.col, -1)
		gocv.PutText(&canvas, fmt.Sprintf("%s: %.2f", b.label, b.value),
			image.Point{X: x0 - 20, Y: yTop - 10}, gocv.FontHersheySimplex, 0.55, colorAxis, 1)
	}

	return writePNG(canvas, path)
}

func newPlotCanvas() gocv.Mat {
	white := gocv.NewScalar(255, 255, 255, 0)
	return gocv.NewMatWithSizeFromScalar(white, plotHeight, plotWidth, gocv.MatTypeCV8UC3)
}

func drawAxes(canvas *gocv.Mat, xLabel, yLabel string) {
	origin := image.Point{X: plotMargin, Y: plotHeight - plotMargin}
	gocv.Line(canvas, origin, image.Point{X: plotWidth - plotMargin, Y: plotHeight - plotMargin}, colorAxis, 1)
	gocv.Line(canvas, origin, image.Point{X: plotMargin, Y: plotMargin}, colorAxis, 1)

	if xLabel != "" {
		gocv.PutText(canvas, xLabel, image.Point{X: plotWidth/2 - 40, Y: plotHeight - 20},
			gocv.FontHersheySimplex, 0.5, colorAxis, 1)
	}
	if yLabel != "" {
		gocv.PutText(canvas, yLabel, image.Point{X: 8, Y: plotMargin - 15},
			gocv.FontHersheySimplex, 0.5, colorAxis, 1)
	}
}

func drawPolyline(canvas *gocv.Mat, series []float64, lo, hi float64, col color.RGBA) {
	if len(series) < 2 {
		return
	}
	xMax := float64(len(series) - 1)
	prev := plotPoint(0, series[0], 0, xMax, lo, hi)
	for i := 1; i < len(series); i++ {
		p := plotPoint(float64(i), series[i], 0, xMax, lo, hi)
		gocv.Line(canvas, prev, p, col, 1)
		prev = p
	}
}

func drawCross(canvas *gocv.Mat, p image.Point, col color.RGBA) {
	const arm = 4
	gocv.Line(canvas, image.Point{X: p.X - arm, Y: p.Y - arm}, image.Point{X: p.X + arm, Y: p.Y + arm}, col, 1)
	gocv.Line(canvas, image.Point{X: p.X - arm, Y: p.Y + arm}, image.Point{X: p.X + arm, Y: p.Y - arm}, col, 1)
}

// plotPoint maps a data point into canvas pixel coordinates.
func plotPoint(x, y, xMin, xMax, yMin, yMax float64) image.Point {
	innerW := float64(plotWidth - 2*plotMargin)
	px := plotMargin + int(innerW*(x-xMin)/(xMax-xMin)+0.5)
	return image.Point{X: px, Y: yToPixel(y, yMin, yMax)}
}

func yToPixel(y, yMin, yMax float64) int {
	innerH := float64(plotHeight - 2*plotMargin)
	return plotHeight - plotMargin - int(innerH*(y-yMin)/(yMax-yMin)+0.5)
}

// seriesRange returns a padded min/max over one or two series so curves
// do not hug the plot frame.
func seriesRange(a, b []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range [][]float64{a, b} {
		for _, v := range s {
			if math.IsNaN(v) {
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	if hi == lo {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

func writePNG(img gocv.Mat, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if ok := gocv.IMWrite(path, img); !ok {
		return fmt.Errorf("failed to write %s", path)
	}
	return nil
}
