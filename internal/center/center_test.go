package center

import (
	"testing"

	"gocv.io/x/gocv"
)

// Strategy-chain behavior is tested with stubs; the chain never touches
// the image when a stub answers, so a zero Mat is safe here.

func TestFirstOfReturnsFirstSuccess(t *testing.T) {
	first := func(gocv.Mat, Params) (Estimate, bool) {
		return Estimate{X: 10, Y: 20, Method: MethodGradient, Score: 0.5}, true
	}
	second := func(gocv.Mat, Params) (Estimate, bool) {
		t.Fatal("second strategy consulted despite first succeeding")
		return Estimate{}, false
	}

	est := firstOf([]strategy{first, second}, gocv.Mat{}, Params{}, 640, 480)
	if est.X != 10 || est.Y != 20 || est.Method != MethodGradient {
		t.Errorf("estimate = %+v, want the first strategy's result", est)
	}
}

func TestFirstOfFallsThroughToSecond(t *testing.T) {
	fail := func(gocv.Mat, Params) (Estimate, bool) { return Estimate{}, false }
	hough := func(gocv.Mat, Params) (Estimate, bool) {
		return Estimate{X: 5, Y: 6, Method: MethodHough, Score: 120}, true
	}

	est := firstOf([]strategy{fail, hough}, gocv.Mat{}, Params{}, 640, 480)
	if est.Method != MethodHough || est.Score != 120 {
		t.Errorf("estimate = %+v, want the fallback strategy's result", est)
	}
}

func TestFirstOfDefaultsToGeometricCenter(t *testing.T) {
	fail := func(gocv.Mat, Params) (Estimate, bool) { return Estimate{}, false }

	est := firstOf([]strategy{fail, fail}, gocv.Mat{}, Params{}, 640, 480)
	if est.X != 320 || est.Y != 240 {
		t.Errorf("default center = (%v, %v), want (320, 240)", est.X, est.Y)
	}
	if est.Method != MethodDefault || est.Score != 0 {
		t.Errorf("default estimate = %+v, want method %q with score 0", est, MethodDefault)
	}
}

func TestEstimatePoint(t *testing.T) {
	est := Estimate{X: 1.5, Y: -2.5}
	p := est.Point()
	if p.X != 1.5 || p.Y != -2.5 {
		t.Errorf("Point() = %+v, want (1.5, -2.5)", p)
	}
}
