package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.Detection.CenterDetectionMethod != "gradient" {
		t.Errorf("default center method = %q, want gradient", cfg.Detection.CenterDetectionMethod)
	}
	if cfg.Detection.ProfileNumAngles != 720 {
		t.Errorf("default profile_num_angles = %d, want 720", cfg.Detection.ProfileNumAngles)
	}
	if cfg.Calculation.Wavelength != 589.3 {
		t.Errorf("default wavelength = %v, want 589.3", cfg.Calculation.Wavelength)
	}
	if cfg.Calculation.MinRings != 5 || cfg.Calculation.MaxRings != 30 {
		t.Errorf("default ring bounds = %d/%d, want 5/30", cfg.Calculation.MinRings, cfg.Calculation.MaxRings)
	}
	if cfg.Analysis.MinRSquared != 0.98 {
		t.Errorf("default min_r_squared = %v, want 0.98", cfg.Analysis.MinRSquared)
	}
	if cfg.Analysis.MaxRelError != nil || cfg.Analysis.ReferenceRMM != nil {
		t.Errorf("optional analysis settings should default to absent")
	}
	if cfg.Detection.MaxRadiusPx != nil {
		t.Errorf("max_radius_px should default to absent")
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") should return the defaults")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
detection:
  center_detection_method: hough
  profile_num_angles: 360
  max_radius_px: 250
calculation:
  wavelength: 632.8
  pixel_to_mm: 0.005
analysis:
  min_r_squared: 0.95
  max_rel_error: 0.1
  reference_R_mm: 1000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Detection.CenterDetectionMethod != "hough" {
		t.Errorf("center method = %q, want hough", cfg.Detection.CenterDetectionMethod)
	}
	if cfg.Detection.ProfileNumAngles != 360 {
		t.Errorf("profile_num_angles = %d, want 360", cfg.Detection.ProfileNumAngles)
	}
	if cfg.Detection.MaxRadiusPx == nil || *cfg.Detection.MaxRadiusPx != 250 {
		t.Errorf("max_radius_px = %v, want 250", cfg.Detection.MaxRadiusPx)
	}
	if cfg.Calculation.Wavelength != 632.8 {
		t.Errorf("wavelength = %v, want 632.8", cfg.Calculation.Wavelength)
	}
	if cfg.Analysis.MaxRelError == nil || *cfg.Analysis.MaxRelError != 0.1 {
		t.Errorf("max_rel_error = %v, want 0.1", cfg.Analysis.MaxRelError)
	}
	if cfg.Analysis.ReferenceRMM == nil || *cfg.Analysis.ReferenceRMM != 1000 {
		t.Errorf("reference_R_mm = %v, want 1000", cfg.Analysis.ReferenceRMM)
	}

	// Untouched sections keep their defaults.
	if cfg.Detection.ProfileSmoothWindow != 9 {
		t.Errorf("profile_smooth_window = %d, want default 9", cfg.Detection.ProfileSmoothWindow)
	}
	if cfg.Calculation.MinRings != 5 {
		t.Errorf("min_rings = %d, want default 5", cfg.Calculation.MinRings)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad center method", "detection:\n  center_detection_method: sobel\n"},
		{"ring bounds inverted", "calculation:\n  min_rings: 10\n  max_rings: 4\n"},
		{"zero pixel scale", "calculation:\n  pixel_to_mm: 0\n"},
		{"negative wavelength", "calculation:\n  wavelength: -500\n"},
	}

	for _, tt := range tests {
		path := writeConfig(t, tt.content)
		if _, err := Load(path); err == nil {
			t.Errorf("%s: Load accepted invalid config", tt.name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load should fail for a missing config file")
	}
}
