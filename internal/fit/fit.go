// Package fit performs the physical least-squares fit for Newton rings.
//
// For dark rings in reflected light the squared fringe radius grows
// linearly with the fringe order: r² = slope·n + intercept, with
// slope = λR (any constant air-gap offset is absorbed by the intercept).
// The lens curvature radius follows as R = slope/λ.
package fit

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// nmToMM converts a wavelength in nanometres to millimetres.
const nmToMM = 1e-6

// Result holds the fit of squared fringe radius against fringe order and
// the derived curvature radius with its standard error.
type Result struct {
	Orders   []int     `json:"n"`
	RadiiMM  []float64 `json:"r_mm"`
	RadiiMM2 []float64 `json:"r2_mm2"`

	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`

	// SlopeSE and InterceptSE are NaN when the order sequence has zero
	// variance (fewer than two distinct orders).
	SlopeSE     float64 `json:"slope_se"`
	InterceptSE float64 `json:"intercept_se"`

	RMM   float64 `json:"R_mm"`
	RSEMM float64 `json:"R_se_mm"`

	// RSquared is the coefficient of determination; 0 for constant data.
	RSquared float64 `json:"r_squared"`
}

// Fit regresses r² on the fringe order n for the given physical radii.
// Orders are assigned contiguously starting at ringIndexStart. The
// wavelength is in nanometres, radii in millimetres.
//
// Degenerate inputs never panic: a single ring yields NaN standard
// errors, constant data yields RSquared 0.
func Fit(radiiMM []float64, wavelengthNM float64, ringIndexStart int) Result {
	n := len(radiiMM)

	res := Result{
		Orders:   make([]int, n),
		RadiiMM:  make([]float64, n),
		RadiiMM2: make([]float64, n),
	}
	orders := make([]float64, n)
	for i, r := range radiiMM {
		res.Orders[i] = ringIndexStart + i
		orders[i] = float64(ringIndexStart + i)
		res.RadiiMM[i] = r
		res.RadiiMM2[i] = r * r
	}

	if n == 0 {
		res.Slope = math.NaN()
		res.Intercept = math.NaN()
		res.SlopeSE = math.NaN()
		res.InterceptSE = math.NaN()
		res.RMM = math.NaN()
		res.RSEMM = math.NaN()
		return res
	}

	res.Intercept, res.Slope = stat.LinearRegression(orders, res.RadiiMM2, nil, false)

	var ssRes float64
	for i, o := range orders {
		d := res.RadiiMM2[i] - (res.Slope*o + res.Intercept)
		ssRes += d * d
	}

	dof := n - 2
	if dof < 1 {
		dof = 1
	}
	sigma2 := ssRes / float64(dof)

	meanN := stat.Mean(orders, nil)
	var sxx float64
	for _, o := range orders {
		d := o - meanN
		sxx += d * d
	}

	if sxx > 0 {
		res.SlopeSE = math.Sqrt(sigma2 / sxx)
		res.InterceptSE = math.Sqrt(sigma2 * (1/float64(n) + meanN*meanN/sxx))
	} else {
		res.SlopeSE = math.NaN()
		res.InterceptSE = math.NaN()
	}

	meanR2 := stat.Mean(res.RadiiMM2, nil)
	var ssTot float64
	for _, v := range res.RadiiMM2 {
		d := v - meanR2
		ssTot += d * d
	}
	if ssTot > 0 {
		res.RSquared = 1 - ssRes/ssTot
	}

	wavelengthMM := wavelengthNM * nmToMM
	res.RMM = res.Slope / wavelengthMM
	if math.IsInf(res.SlopeSE, 0) || math.IsNaN(res.SlopeSE) {
		res.RSEMM = math.NaN()
	} else {
		res.RSEMM = res.SlopeSE / wavelengthMM
	}

	return res
}

// Residuals returns r² minus the fitted line, per ring.
func (r Result) Residuals() []float64 {
	out := make([]float64, len(r.Orders))
	for i, n := range r.Orders {
		out[i] = r.RadiiMM2[i] - (r.Slope*float64(n) + r.Intercept)
	}
	return out
}
