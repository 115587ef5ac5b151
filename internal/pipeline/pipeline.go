// Package pipeline wires the measurement stages together: preprocessing,
// center estimation, radial profiling, fringe extraction, curve fitting
// and error analysis. Each stage consumes the complete output of the
// previous one; nothing here holds process-wide state, so independent
// runs can proceed concurrently.
package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"newton-rings/internal/analysis"
	"newton-rings/internal/center"
	"newton-rings/internal/config"
	"newton-rings/internal/fit"
	"newton-rings/internal/fringe"
	"newton-rings/internal/preprocess"
	"newton-rings/internal/profile"
	"newton-rings/internal/raster"
	"newton-rings/internal/render"
)

// Figures records where diagnostic images were written. Paths are empty
// when the corresponding figure was not produced.
type Figures struct {
	Overlay    string `json:"overlay_figure,omitempty"`
	Profile    string `json:"profile_figure,omitempty"`
	Fit        string `json:"fit_figure,omitempty"`
	Residual   string `json:"residual_figure,omitempty"`
	Comparison string `json:"comparison_figure,omitempty"`
}

// Detection is the ring-detection record. On failure Success is false,
// Message explains why, and the fit stages are skipped.
type Detection struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Center  *center.Estimate `json:"center,omitempty"`
	RadiiPx []int            `json:"radii_px,omitempty"`
	RadiiMM []float64        `json:"radii_mm,omitempty"`

	// Raw and smoothed radial profiles, kept for plotting and debugging;
	// not part of the persisted record.
	Profile []float64 `json:"-"`
	Smooth  []float64 `json:"-"`
}

// Measurement bundles everything one image run produced.
type Measurement struct {
	Image       string           `json:"image"`
	GeneratedAt time.Time        `json:"generated_at"`
	Detection   Detection        `json:"detection"`
	Fit         *fit.Result      `json:"fit,omitempty"`
	Analysis    *analysis.Report `json:"analysis,omitempty"`
	Figures     Figures          `json:"figures"`
}

// Save writes the measurement record as indented JSON.
func (m *Measurement) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Runner executes the pipeline with a fixed configuration.
type Runner struct {
	cfg config.Config
	log *logrus.Logger
}

// New creates a Runner.
func New(cfg config.Config, log *logrus.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// Run processes one image file end to end. A detection with too few
// rings is not an error: the returned Measurement carries the failure
// record and Fit/Analysis stay nil.
func (r *Runner) Run(imagePath, outdir string) (*Measurement, error) {
	base := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))

	gray, err := preprocess.Load(imagePath, r.cfg.Preprocessing)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	m := &Measurement{
		Image:       imagePath,
		GeneratedAt: time.Now(),
	}

	figDir := filepath.Join(outdir, "figures")
	m.Detection = r.detect(gray, figDir, base, &m.Figures)
	if !m.Detection.Success {
		return m, nil
	}

	r.log.WithFields(logrus.Fields{
		"rings":  len(m.Detection.RadiiMM),
		"method": m.Detection.Center.Method,
	}).Info("fitting r^2 vs n")

	f := fit.Fit(m.Detection.RadiiMM, r.cfg.Calculation.Wavelength, r.cfg.Calculation.RingIndexStart)
	m.Fit = &f

	rep := analysis.Analyze(f, r.cfg.Analysis.ReferenceRMM, analysis.Thresholds{
		MinRSquared: r.cfg.Analysis.MinRSquared,
		MaxRelError: r.cfg.Analysis.MaxRelError,
	})
	m.Analysis = &rep

	r.renderFitFigures(figDir, base, m)

	if err := m.Save(filepath.Join(outdir, base+"_results.json")); err != nil {
		return m, fmt.Errorf("save results: %w", err)
	}
	return m, nil
}

// detect runs center estimation, radial profiling, fringe extraction and
// the ring-count policy, writing the detection diagnostic figures.
func (r *Runner) detect(gray gocv.Mat, figDir, base string, figs *Figures) Detection {
	d := r.cfg.Detection

	est := center.Find(gray, center.Params{
		PreferredMethod: d.CenterDetectionMethod,
		CannyThreshold1: d.CannyThreshold1,
		CannyThreshold2: d.CannyThreshold2,
		HoughDP:         d.HoughDP,
		HoughMinDist:    d.HoughMinDist,
		HoughParam1:     d.HoughParam1,
		HoughParam2:     d.HoughParam2,
	})
	r.log.WithFields(logrus.Fields{
		"method": est.Method,
		"x":      fmt.Sprintf("%.2f", est.X),
		"y":      fmt.Sprintf("%.2f", est.Y),
	}).Info("center estimated")

	img, err := raster.FromMat(gray)
	if err != nil {
		return Detection{Success: false, Message: err.Error(), Center: &est}
	}

	maxRadius := 0
	if d.MaxRadiusPx != nil {
		maxRadius = *d.MaxRadiusPx
	}
	prof := profile.Radial(img, est.Point(), d.ProfileNumAngles, maxRadius)

	radii, smooth := fringe.Extract(prof, fringe.Params{
		SmoothWindow: d.ProfileSmoothWindow,
		Prominence:   d.MinimaProminence,
		Distance:     d.MinimaDistance,
		MinRadiusPx:  d.MinRadiusPx,
	})

	selected, failMsg := selectRings(radii, r.cfg.Calculation.MinRings, r.cfg.Calculation.MaxRings)
	if failMsg != "" {
		return Detection{
			Success: false,
			Message: failMsg,
			Center:  &est,
			Profile: prof,
			Smooth:  smooth,
		}
	}

	radiiMM := make([]float64, len(selected))
	for i, px := range selected {
		radiiMM[i] = float64(px) * r.cfg.Calculation.PixelToMM
	}

	det := Detection{
		Success: true,
		Center:  &est,
		RadiiPx: selected,
		RadiiMM: radiiMM,
		Profile: prof,
		Smooth:  smooth,
	}

	overlayPath := filepath.Join(figDir, base+"_rings_overlay.png")
	if err := render.Overlay(gray, est, selected, overlayPath); err != nil {
		r.log.WithError(err).Warn("failed to write ring overlay figure")
	} else {
		figs.Overlay = overlayPath
	}

	profilePath := filepath.Join(figDir, base+"_radial_profile.png")
	if err := render.ProfilePlot(prof, smooth, selected, profilePath); err != nil {
		r.log.WithError(err).Warn("failed to write radial profile figure")
	} else {
		figs.Profile = profilePath
	}

	return det
}

// renderFitFigures writes the fit, residual and (with a reference) the
// comparison figures. Rendering problems are logged, never fatal.
func (r *Runner) renderFitFigures(figDir, base string, m *Measurement) {
	fitPath := filepath.Join(figDir, base+"_fit_r2_n.png")
	if err := render.FitPlot(*m.Fit, fitPath); err != nil {
		r.log.WithError(err).Warn("failed to write fit figure")
	} else {
		m.Figures.Fit = fitPath
	}

	residualPath := filepath.Join(figDir, base+"_residuals.png")
	if err := render.ResidualPlot(m.Fit.Orders, m.Analysis.ResidualsMM2, residualPath); err != nil {
		r.log.WithError(err).Warn("failed to write residual figure")
	} else {
		m.Figures.Residual = residualPath
	}

	if m.Analysis.ReferenceRMM != nil {
		cmpPath := filepath.Join(figDir, base+"_R_comparison.png")
		if err := render.ComparisonPlot(m.Analysis.MeasuredRMM, *m.Analysis.ReferenceRMM, cmpPath); err != nil {
			r.log.WithError(err).Warn("failed to write comparison figure")
		} else {
			m.Figures.Comparison = cmpPath
		}
	}
}

// selectRings applies the ring-count policy: fewer than minRings is a
// detection failure; more than maxRings keeps the innermost maxRings,
// since inner fringes carry the best contrast.
func selectRings(radii []int, minRings, maxRings int) ([]int, string) {
	if len(radii) < minRings {
		return nil, fmt.Sprintf("detected rings (%d) < min_rings (%d); try tuning detection parameters",
			len(radii), minRings)
	}
	if maxRings > 0 && len(radii) > maxRings {
		radii = radii[:maxRings]
	}
	return radii, ""
}
