package analysis

import (
	"math"
	"testing"

	"newton-rings/internal/fit"
)

func floatPtr(v float64) *float64 { return &v }

// goodFit returns a consistent fit result with known residuals
// {0.1, -0.1, 0} and a configurable measured R and r².
func goodFit(rMM, rSquared float64) fit.Result {
	return fit.Result{
		Orders:    []int{1, 2, 3},
		RadiiMM:   []float64{1.0488, 1.3784, 1.7321},
		RadiiMM2:  []float64{1.1, 1.9, 3.0},
		Slope:     1,
		Intercept: 0,
		RMM:       rMM,
		RSquared:  rSquared,
	}
}

func TestAnalyzeWithoutReference(t *testing.T) {
	rep := Analyze(goodFit(10.5, 0.995), nil, Thresholds{MinRSquared: 0.98})

	if rep.ReferenceRMM != nil || rep.AbsErrorMM != nil || rep.RelError != nil {
		t.Errorf("reference fields should be absent without a reference")
	}
	if rep.Flags.PassError != nil {
		t.Errorf("PassError should be absent without a reference")
	}
	if !rep.Flags.PassFitQuality || !rep.Flags.OverallPass {
		t.Errorf("flags = %+v, want pass on fit quality alone", rep.Flags)
	}
}

func TestAnalyzeWithReference(t *testing.T) {
	rep := Analyze(goodFit(10.5, 0.995), floatPtr(10.0), Thresholds{MinRSquared: 0.98})

	if rep.AbsErrorMM == nil || math.Abs(*rep.AbsErrorMM-0.5) > 1e-12 {
		t.Errorf("AbsErrorMM = %v, want 0.5", rep.AbsErrorMM)
	}
	if rep.RelError == nil || math.Abs(*rep.RelError-0.05) > 1e-12 {
		t.Errorf("RelError = %v, want 0.05", rep.RelError)
	}
	if rep.Flags.PassError == nil || !*rep.Flags.PassError {
		t.Errorf("PassError should default to true without a max_rel_error threshold")
	}
	if !rep.Flags.OverallPass {
		t.Errorf("OverallPass = false, want true")
	}
}

func TestAnalyzeRelErrorThreshold(t *testing.T) {
	tests := []struct {
		name        string
		maxRelError float64
		wantPass    bool
	}{
		{"loose threshold passes", 0.06, true},
		{"tight threshold fails", 0.04, false},
	}

	for _, tt := range tests {
		rep := Analyze(goodFit(10.5, 0.995), floatPtr(10.0),
			Thresholds{MinRSquared: 0.98, MaxRelError: floatPtr(tt.maxRelError)})

		if rep.Flags.PassError == nil || *rep.Flags.PassError != tt.wantPass {
			t.Errorf("%s: PassError = %v, want %v", tt.name, rep.Flags.PassError, tt.wantPass)
		}
		if rep.Flags.OverallPass != tt.wantPass {
			t.Errorf("%s: OverallPass = %v, want %v", tt.name, rep.Flags.OverallPass, tt.wantPass)
		}
	}
}

func TestAnalyzeFitQualityGate(t *testing.T) {
	rep := Analyze(goodFit(10.0, 0.9), nil, Thresholds{MinRSquared: 0.98})

	if rep.Flags.PassFitQuality {
		t.Errorf("PassFitQuality = true with r_squared 0.9 against threshold 0.98")
	}
	if rep.Flags.OverallPass {
		t.Errorf("OverallPass = true despite failed fit quality")
	}
}

func TestAnalyzeUnusableReference(t *testing.T) {
	tests := []struct {
		name string
		ref  *float64
	}{
		{"zero reference", floatPtr(0)},
		{"NaN reference", floatPtr(math.NaN())},
		{"infinite reference", floatPtr(math.Inf(1))},
	}

	for _, tt := range tests {
		rep := Analyze(goodFit(10.5, 0.995), tt.ref, Thresholds{})
		if rep.ReferenceRMM != nil || rep.RelError != nil || rep.Flags.PassError != nil {
			t.Errorf("%s: reference fields should be absent", tt.name)
		}
	}
}

func TestAnalyzeResidualStats(t *testing.T) {
	rep := Analyze(goodFit(10.0, 1.0), nil, Thresholds{})

	if math.Abs(rep.ResidualStats.MeanMM2) > 1e-12 {
		t.Errorf("residual mean = %v, want 0", rep.ResidualStats.MeanMM2)
	}
	if math.Abs(rep.ResidualStats.StdMM2-0.1) > 1e-12 {
		t.Errorf("residual std = %v, want 0.1", rep.ResidualStats.StdMM2)
	}
	if math.Abs(rep.ResidualStats.MaxAbsMM2-0.1) > 1e-12 {
		t.Errorf("residual max abs = %v, want 0.1", rep.ResidualStats.MaxAbsMM2)
	}
	if len(rep.ResidualsMM2) != 3 {
		t.Errorf("residuals length = %d, want 3", len(rep.ResidualsMM2))
	}
}

func TestAnalyzeSingleResidualStd(t *testing.T) {
	f := fit.Result{
		Orders:    []int{1},
		RadiiMM2:  []float64{1.2},
		Slope:     1,
		Intercept: 0,
		RMM:       5,
		RSquared:  0,
	}
	rep := Analyze(f, nil, Thresholds{})

	if rep.ResidualStats.StdMM2 != 0 {
		t.Errorf("std with one residual = %v, want 0", rep.ResidualStats.StdMM2)
	}
}

func TestAnalyzeDefaultThreshold(t *testing.T) {
	rep := Analyze(goodFit(10.0, 0.985), nil, Thresholds{})

	if rep.Thresholds.MinRSquared != DefaultMinRSquared {
		t.Errorf("threshold = %v, want default %v", rep.Thresholds.MinRSquared, DefaultMinRSquared)
	}
	if !rep.Flags.PassFitQuality {
		t.Errorf("0.985 should pass the default 0.98 gate")
	}
}
