// Package analysis evaluates the quality of a curvature fit: residual
// statistics, goodness-of-fit gating, and, when a reference radius is
// known, absolute and relative measurement error.
package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"newton-rings/internal/fit"
)

// DefaultMinRSquared is the fit-quality gate used when no threshold is
// configured.
const DefaultMinRSquared = 0.98

// Thresholds are the pass/fail criteria. MaxRelError nil means the
// relative-error check never fails.
type Thresholds struct {
	MinRSquared float64  `json:"min_r_squared"`
	MaxRelError *float64 `json:"max_rel_error"`
}

// ResidualStats summarizes the r² residuals (mm² units).
type ResidualStats struct {
	MeanMM2   float64 `json:"mean_mm2"`
	StdMM2    float64 `json:"std_mm2"`
	MaxAbsMM2 float64 `json:"max_abs_mm2"`
}

// Flags are the pass/fail outcomes. PassError is nil when no usable
// reference radius was supplied.
type Flags struct {
	PassFitQuality bool  `json:"pass_fit_quality"`
	PassError      *bool `json:"pass_error"`
	OverallPass    bool  `json:"overall_pass"`
}

// Report is the complete error-analysis record. Reference-dependent
// fields are nil when no usable reference radius was supplied.
type Report struct {
	MeasuredRMM  float64  `json:"measured_R_mm"`
	ReferenceRMM *float64 `json:"reference_R_mm"`
	AbsErrorMM   *float64 `json:"abs_error_mm"`
	RelError     *float64 `json:"rel_error"`

	RSquared   float64    `json:"r_squared"`
	Thresholds Thresholds `json:"thresholds"`

	ResidualsMM2  []float64     `json:"residuals_mm2"`
	ResidualStats ResidualStats `json:"residual_stats"`
	Flags         Flags         `json:"flags"`
}

// Analyze builds an error report for a fit. referenceRMM may be nil; a
// NaN, infinite or zero reference is treated the same as none. Threshold
// failures are reported as flags, never as errors.
func Analyze(f fit.Result, referenceRMM *float64, thr Thresholds) Report {
	if thr.MinRSquared <= 0 {
		thr.MinRSquared = DefaultMinRSquared
	}

	// Residuals are recomputed from orders and coefficients rather than
	// trusted from the fit, guarding against inconsistent inputs.
	residuals := f.Residuals()

	stats := ResidualStats{}
	if len(residuals) > 0 {
		stats.MeanMM2 = stat.Mean(residuals, nil)
		for _, r := range residuals {
			if a := math.Abs(r); a > stats.MaxAbsMM2 {
				stats.MaxAbsMM2 = a
			}
		}
	}
	if len(residuals) >= 2 {
		stats.StdMM2 = stat.StdDev(residuals, nil)
	}

	rep := Report{
		MeasuredRMM:   f.RMM,
		RSquared:      f.RSquared,
		Thresholds:    thr,
		ResidualsMM2:  residuals,
		ResidualStats: stats,
	}

	rep.Flags.PassFitQuality = f.RSquared >= thr.MinRSquared

	if referenceRMM != nil && !math.IsNaN(*referenceRMM) && !math.IsInf(*referenceRMM, 0) && *referenceRMM != 0 {
		ref := *referenceRMM
		absErr := math.Abs(f.RMM - ref)
		relErr := absErr / math.Abs(ref)

		passErr := true
		if thr.MaxRelError != nil {
			passErr = relErr <= *thr.MaxRelError
		}

		rep.ReferenceRMM = &ref
		rep.AbsErrorMM = &absErr
		rep.RelError = &relErr
		rep.Flags.PassError = &passErr
	}

	rep.Flags.OverallPass = rep.Flags.PassFitQuality &&
		(rep.Flags.PassError == nil || *rep.Flags.PassError)

	return rep
}
