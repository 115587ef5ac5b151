// Package config loads and validates the measurement configuration.
//
// The configuration is a single YAML file with one section per pipeline
// stage. Every field has a working default, so a missing file or an empty
// section still produces a runnable setup.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Preprocessing Preprocessing `yaml:"preprocessing"`
	Detection     Detection     `yaml:"detection"`
	Calculation   Calculation   `yaml:"calculation"`
	Analysis      Analysis      `yaml:"analysis"`
	Report        Report        `yaml:"report"`
	Logging       Logging       `yaml:"logging"`
}

// Preprocessing controls the denoise/contrast chain applied before
// detection.
type Preprocessing struct {
	GaussianKernelSize  int     `yaml:"gaussian_kernel_size"`
	BilateralD          int     `yaml:"bilateral_d"`
	BilateralSigmaColor float64 `yaml:"bilateral_sigma_color"`
	BilateralSigmaSpace float64 `yaml:"bilateral_sigma_space"`
	CLAHEClipLimit      float64 `yaml:"clahe_clip_limit"`
	CLAHEGridSize       int     `yaml:"clahe_grid_size"`
}

// Detection controls center estimation, radial profiling and dark-fringe
// extraction.
type Detection struct {
	// CenterDetectionMethod selects the preferred center strategy:
	// "gradient" or "hough". The other strategy is tried on failure.
	CenterDetectionMethod string `yaml:"center_detection_method"`

	HoughDP      float64 `yaml:"hough_dp"`
	HoughMinDist float64 `yaml:"hough_min_dist"`
	HoughParam1  float64 `yaml:"hough_param1"`
	HoughParam2  float64 `yaml:"hough_param2"`

	CannyThreshold1 float32 `yaml:"canny_threshold1"`
	CannyThreshold2 float32 `yaml:"canny_threshold2"`

	ProfileNumAngles    int     `yaml:"profile_num_angles"`
	MaxRadiusPx         *int    `yaml:"max_radius_px"`
	ProfileSmoothWindow int     `yaml:"profile_smooth_window"`
	MinimaProminence    float64 `yaml:"minima_prominence"`
	MinimaDistance      int     `yaml:"minima_distance"`
	MinRadiusPx         int     `yaml:"min_radius_px"`
}

// Calculation controls the ring-count policy and the physical fit.
type Calculation struct {
	MinRings       int     `yaml:"min_rings"`
	MaxRings       int     `yaml:"max_rings"`
	PixelToMM      float64 `yaml:"pixel_to_mm"`
	Wavelength     float64 `yaml:"wavelength"` // nm
	RingIndexStart int     `yaml:"ring_index_start"`
}

// Analysis controls error analysis thresholds and the optional reference
// curvature radius.
type Analysis struct {
	MinRSquared  float64  `yaml:"min_r_squared"`
	MaxRelError  *float64 `yaml:"max_rel_error"`
	ReferenceRMM *float64 `yaml:"reference_R_mm"`
}

// Report controls report generation.
type Report struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
}

// Logging controls log level and file output.
type Logging struct {
	Level      string `yaml:"level"`
	SaveToFile bool   `yaml:"save_to_file"`
	LogDir     string `yaml:"log_dir"`
}

// Default returns the built-in configuration. Values match the reference
// sodium-lamp setup (589.3 nm) and a conservative detection tuning.
func Default() Config {
	return Config{
		Preprocessing: Preprocessing{
			GaussianKernelSize:  5,
			BilateralD:          9,
			BilateralSigmaColor: 75,
			BilateralSigmaSpace: 75,
			CLAHEClipLimit:      2.0,
			CLAHEGridSize:       8,
		},
		Detection: Detection{
			CenterDetectionMethod: "gradient",
			HoughDP:               1,
			HoughMinDist:          50,
			HoughParam1:           50,
			HoughParam2:           30,
			CannyThreshold1:       50,
			CannyThreshold2:       150,
			ProfileNumAngles:      720,
			ProfileSmoothWindow:   9,
			MinimaProminence:      3.0,
			MinimaDistance:        8,
			MinRadiusPx:           10,
		},
		Calculation: Calculation{
			MinRings:       5,
			MaxRings:       30,
			PixelToMM:      0.01,
			Wavelength:     589.3,
			RingIndexStart: 1,
		},
		Analysis: Analysis{
			MinRSquared: 0.98,
		},
		Report: Report{
			Title: "Newton Rings Measurement Report",
		},
		Logging: Logging{
			Level:      "info",
			SaveToFile: true,
			LogDir:     "output/logs",
		},
	}
}

// Load reads a YAML configuration file on top of the defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	d := c.Detection
	if m := d.CenterDetectionMethod; m != "" && m != "gradient" && m != "hough" {
		return fmt.Errorf("center_detection_method must be gradient or hough, got %q", m)
	}
	if d.ProfileNumAngles < 0 {
		return fmt.Errorf("profile_num_angles must be positive, got %d", d.ProfileNumAngles)
	}
	if c.Calculation.MinRings < 1 {
		return fmt.Errorf("min_rings must be at least 1, got %d", c.Calculation.MinRings)
	}
	if c.Calculation.MaxRings < c.Calculation.MinRings {
		return fmt.Errorf("max_rings (%d) must not be below min_rings (%d)",
			c.Calculation.MaxRings, c.Calculation.MinRings)
	}
	if c.Calculation.PixelToMM <= 0 {
		return fmt.Errorf("pixel_to_mm must be positive, got %g", c.Calculation.PixelToMM)
	}
	if c.Calculation.Wavelength <= 0 {
		return fmt.Errorf("wavelength must be positive, got %g", c.Calculation.Wavelength)
	}
	return nil
}
