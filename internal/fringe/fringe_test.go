package fringe

import (
	"math"
	"testing"
)

// dipProfile builds a flat profile of the given length with triangular
// intensity dips centered at the given radii. Each dip reaches the given
// depth at its center and tapers off over `arm` samples on each side.
func dipProfile(length int, baseline float64, centers []int, depth float64, arm int) []float64 {
	prof := make([]float64, length)
	for i := range prof {
		prof[i] = baseline
	}
	for _, c := range centers {
		for d := -arm; d <= arm; d++ {
			i := c + d
			if i < 0 || i >= length {
				continue
			}
			drop := depth * (1 - float64(abs(d))/float64(arm+1))
			if baseline-drop < prof[i] {
				prof[i] = baseline - drop
			}
		}
	}
	return prof
}

func TestExtractFindsAllMinima(t *testing.T) {
	centers := []int{30, 60, 90, 120, 150}
	prof := dipProfile(200, 100, centers, 20, 4)

	radii, smooth := Extract(prof, Params{
		SmoothWindow: 5,
		Prominence:   3,
		Distance:     8,
		MinRadiusPx:  10,
	})

	if len(smooth) != len(prof) {
		t.Fatalf("smoothed length = %d, want %d", len(smooth), len(prof))
	}
	if len(radii) != len(centers) {
		t.Fatalf("detected %d fringes %v, want %d at %v", len(radii), radii, len(centers), centers)
	}
	for i, r := range radii {
		if r != centers[i] {
			t.Errorf("fringe %d at radius %d, want %d", i, r, centers[i])
		}
		if i > 0 && radii[i] <= radii[i-1] {
			t.Errorf("radii not ascending at %d: %v", i, radii)
		}
	}
}

func TestExtractMinRadiusCutoff(t *testing.T) {
	prof := dipProfile(120, 100, []int{5, 40, 80}, 20, 3)

	radii, _ := Extract(prof, Params{
		SmoothWindow: 5,
		Prominence:   3,
		Distance:     8,
		MinRadiusPx:  10,
	})

	for _, r := range radii {
		if r < 10 {
			t.Errorf("fringe at radius %d survived the min-radius cutoff", r)
		}
	}
	if len(radii) != 2 {
		t.Fatalf("detected %v, want the two fringes beyond the cutoff", radii)
	}
}

func TestExtractProminenceRejectsShallowDips(t *testing.T) {
	prof := dipProfile(120, 100, []int{40, 80}, 20, 3)
	// A shallow dip well below the prominence threshold.
	for d := -2; d <= 2; d++ {
		prof[60+d] -= 0.5
	}

	radii, _ := Extract(prof, Params{
		SmoothWindow: 3,
		Prominence:   3,
		Distance:     8,
		MinRadiusPx:  10,
	})

	for _, r := range radii {
		if r > 55 && r < 65 {
			t.Errorf("shallow dip at 60 detected as a fringe: %v", radii)
		}
	}
	if len(radii) != 2 {
		t.Fatalf("detected %v, want exactly the two deep fringes", radii)
	}
}

func TestExtractDistanceKeepsDeeperMinimum(t *testing.T) {
	prof := dipProfile(120, 100, []int{50}, 30, 2)
	shallow := dipProfile(120, 100, []int{55}, 15, 2)
	for i := range prof {
		if shallow[i] < prof[i] {
			prof[i] = shallow[i]
		}
	}

	radii, _ := Extract(prof, Params{
		SmoothWindow: 3,
		Prominence:   2,
		Distance:     8,
		MinRadiusPx:  10,
	})

	if len(radii) != 1 || radii[0] != 50 {
		t.Fatalf("detected %v, want only the deeper minimum at 50", radii)
	}
}

func TestMovingAverage(t *testing.T) {
	x := []float64{0, 0, 9, 0, 0}

	got := MovingAverage(x, 3)
	want := []float64{0, 3, 3, 3, 0}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("MovingAverage[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMovingAverageForcesOddWindow(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	even := MovingAverage(x, 4)
	odd := MovingAverage(x, 5)
	for i := range x {
		if even[i] != odd[i] {
			t.Fatalf("window 4 should behave as window 5: index %d got %v vs %v", i, even[i], odd[i])
		}
	}
}

func TestMovingAverageAttenuatesEnds(t *testing.T) {
	x := []float64{10, 10, 10, 10, 10}

	got := MovingAverage(x, 3)
	// Ends see one zero-padded sample each.
	if math.Abs(got[0]-20.0/3) > 1e-12 || math.Abs(got[4]-20.0/3) > 1e-12 {
		t.Errorf("ends = %v, %v; want %v", got[0], got[4], 20.0/3)
	}
	if got[2] != 10 {
		t.Errorf("interior = %v, want 10", got[2])
	}
}

func TestFindPeaksPlateauMidpoint(t *testing.T) {
	x := []float64{0, 0, 5, 5, 5, 0, 0}

	peaks := findPeaks(x, 1, 1)
	if len(peaks) != 1 || peaks[0] != 3 {
		t.Fatalf("peaks = %v, want plateau midpoint [3]", peaks)
	}
}
