// Package fringe extracts dark-fringe radii from a radial intensity
// profile. Dark Newton rings are intensity minima, so the smoothed
// profile is inverted and searched for prominent, well-separated peaks.
package fringe

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Params tunes fringe extraction. Prominence and distance trade detection
// sensitivity against false positives from residual noise; the smoothing
// window sets how much of the raw profile jitter survives into the
// minimum search.
type Params struct {
	// SmoothWindow is the moving-average width in samples. Values below 3
	// are raised to 3; even values are incremented to stay centered.
	SmoothWindow int

	// Prominence is the minimum height a minimum must stand out from its
	// surrounding baseline (in inverted-intensity units).
	Prominence float64

	// Distance is the minimum spacing in samples between accepted minima.
	Distance int

	// MinRadiusPx discards minima closer to the center than this; the
	// center region routinely carries a contact artifact.
	MinRadiusPx int
}

// DefaultParams returns extraction defaults that work for clean
// photographs at typical resolutions.
func DefaultParams() Params {
	return Params{
		SmoothWindow: 9,
		Prominence:   3.0,
		Distance:     8,
		MinRadiusPx:  10,
	}
}

// Extract locates dark-fringe radii in a radial profile. It returns the
// detected pixel radii in ascending order together with the smoothed
// profile the search ran on.
func Extract(profile []float64, p Params) (radii []int, smooth []float64) {
	smooth = MovingAverage(profile, p.SmoothWindow)
	if len(smooth) == 0 {
		return nil, smooth
	}

	// Invert so minima become peaks.
	inv := make([]float64, len(smooth))
	top := floats.Max(smooth)
	for i, v := range smooth {
		inv[i] = top - v
	}

	peaks := findPeaks(inv, p.Prominence, p.Distance)

	radii = peaks[:0]
	for _, pk := range peaks {
		if pk >= p.MinRadiusPx {
			radii = append(radii, pk)
		}
	}
	return radii, smooth
}

// MovingAverage applies a centered moving-average filter of odd width.
// Samples beyond the ends count as zero, so values near the borders are
// attenuated rather than extrapolated.
func MovingAverage(x []float64, window int) []float64 {
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}

	half := window / 2
	out := make([]float64, len(x))
	for i := range x {
		var sum float64
		for j := i - half; j <= i+half; j++ {
			if j >= 0 && j < len(x) {
				sum += x[j]
			}
		}
		out[i] = sum / float64(window)
	}
	return out
}

// findPeaks locates local maxima with at least the given prominence and
// pairwise spacing. Plateaus count once, at their midpoint. When peaks
// crowd closer than distance, the higher one wins.
func findPeaks(x []float64, prominence float64, distance int) []int {
	maxima := localMaxima(x)

	var peaks []int
	for _, m := range maxima {
		if peakProminence(x, m) >= prominence {
			peaks = append(peaks, m)
		}
	}

	if distance > 1 {
		peaks = selectByDistance(x, peaks, distance)
	}
	return peaks
}

// localMaxima returns indices of strict local maxima, reducing plateaus
// to their midpoint sample.
func localMaxima(x []float64) []int {
	var maxima []int
	i := 1
	for i < len(x)-1 {
		if x[i] <= x[i-1] {
			i++
			continue
		}
		// Walk the plateau, if any.
		j := i
		for j < len(x)-1 && x[j+1] == x[i] {
			j++
		}
		if j < len(x)-1 && x[j+1] < x[i] {
			maxima = append(maxima, (i+j)/2)
		}
		i = j + 1
	}
	return maxima
}

// peakProminence measures how far the peak rises above the higher of the
// two valley floors separating it from taller terrain (or the signal
// boundary).
func peakProminence(x []float64, peak int) float64 {
	leftBase := x[peak]
	for i := peak - 1; i >= 0; i-- {
		if x[i] > x[peak] {
			break
		}
		if x[i] < leftBase {
			leftBase = x[i]
		}
	}

	rightBase := x[peak]
	for i := peak + 1; i < len(x); i++ {
		if x[i] > x[peak] {
			break
		}
		if x[i] < rightBase {
			rightBase = x[i]
		}
	}

	return x[peak] - math.Max(leftBase, rightBase)
}

// selectByDistance enforces a minimum spacing between peaks, keeping
// higher peaks in preference to lower ones.
func selectByDistance(x []float64, peaks []int, distance int) []int {
	byHeight := make([]int, len(peaks))
	copy(byHeight, peaks)
	sort.Slice(byHeight, func(i, j int) bool {
		return x[byHeight[i]] > x[byHeight[j]]
	})

	removed := make(map[int]bool, len(peaks))
	for _, p := range byHeight {
		if removed[p] {
			continue
		}
		for _, q := range peaks {
			if q != p && !removed[q] && abs(q-p) < distance {
				removed[q] = true
			}
		}
	}

	var kept []int
	for _, p := range peaks {
		if !removed[p] {
			kept = append(kept, p)
		}
	}
	return kept
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
