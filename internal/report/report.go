// Package report renders a Markdown measurement report from a completed
// pipeline run: run info, the (n, r, r²) data table, fit and error
// analysis summaries, and the diagnostic figures.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"newton-rings/internal/config"
	"newton-rings/internal/pipeline"
)

const reportTemplate = `# {{.Title}}

{{if .Author}}Author: {{.Author}}
{{end}}Sample: {{.Basename}}
Generated: {{.Generated}}
Center method: {{.CenterMethod}}

## Result

Curvature radius **R = {{printf "%.2f" .RMM}} mm** (standard error {{printf "%.3f" .RSEMM}} mm), r² = {{printf "%.4f" .RSquared}}.

## Measured rings

| n | r (mm) | r² (mm²) |
|---|--------|----------|
{{range .Rows}}| {{.N}} | {{printf "%.4f" .RMM}} | {{printf "%.6f" .R2MM2}} |
{{end}}
## Fit

- slope: {{printf "%.6f" .Slope}} mm²/index (SE {{printf "%.6f" .SlopeSE}})
- intercept: {{printf "%.6f" .Intercept}} mm² (SE {{printf "%.6f" .InterceptSE}})
{{if .HasAnalysis}}
## Error analysis

- residuals (mm²): mean {{printf "%.6f" .ResidualMean}}, std {{printf "%.6f" .ResidualStd}}, max |res| {{printf "%.6f" .ResidualMaxAbs}}
- fit quality: {{.FitQuality}}
{{if .HasReference}}- reference R: {{printf "%.2f" .ReferenceRMM}} mm, absolute error {{printf "%.3f" .AbsErrorMM}} mm, relative error {{printf "%.2f" .RelErrorPct}}%
- error check: {{.ErrorCheck}}
{{end}}- overall: {{.Overall}}
{{end}}
## Figures

{{range .Figures}}![{{.Caption}}]({{.Path}})
{{end}}`

type row struct {
	N     int
	RMM   float64
	R2MM2 float64
}

type figure struct {
	Caption string
	Path    string
}

type reportData struct {
	Title        string
	Author       string
	Basename     string
	Generated    string
	CenterMethod string

	RMM, RSEMM, RSquared          float64
	Slope, SlopeSE                float64
	Intercept, InterceptSE        float64
	Rows                          []row
	HasAnalysis, HasReference     bool
	ResidualMean, ResidualStd     float64
	ResidualMaxAbs                float64
	ReferenceRMM, AbsErrorMM      float64
	RelErrorPct                   float64
	FitQuality, ErrorCheck        string
	Overall                       string
	Figures                       []figure
}

// Generate writes the Markdown report for a successful measurement and
// returns its path.
func Generate(outdir string, m *pipeline.Measurement, cfg config.Report) (string, error) {
	if m.Fit == nil {
		return "", fmt.Errorf("measurement has no fit result")
	}

	base := strings.TrimSuffix(filepath.Base(m.Image), filepath.Ext(m.Image))

	data := reportData{
		Title:        cfg.Title,
		Author:       cfg.Author,
		Basename:     base,
		Generated:    m.GeneratedAt.Format("2006-01-02 15:04:05"),
		CenterMethod: string(m.Detection.Center.Method),
		RMM:          m.Fit.RMM,
		RSEMM:        m.Fit.RSEMM,
		RSquared:     m.Fit.RSquared,
		Slope:        m.Fit.Slope,
		SlopeSE:      m.Fit.SlopeSE,
		Intercept:    m.Fit.Intercept,
		InterceptSE:  m.Fit.InterceptSE,
	}
	if data.Title == "" {
		data.Title = "Newton Rings Measurement Report"
	}

	for i, n := range m.Fit.Orders {
		data.Rows = append(data.Rows, row{N: n, RMM: m.Fit.RadiiMM[i], R2MM2: m.Fit.RadiiMM2[i]})
	}

	if a := m.Analysis; a != nil {
		data.HasAnalysis = true
		data.ResidualMean = a.ResidualStats.MeanMM2
		data.ResidualStd = a.ResidualStats.StdMM2
		data.ResidualMaxAbs = a.ResidualStats.MaxAbsMM2
		data.FitQuality = passFail(a.Flags.PassFitQuality)
		data.Overall = passFail(a.Flags.OverallPass)
		if a.ReferenceRMM != nil {
			data.HasReference = true
			data.ReferenceRMM = *a.ReferenceRMM
			data.AbsErrorMM = *a.AbsErrorMM
			data.RelErrorPct = *a.RelError * 100
			if a.Flags.PassError != nil {
				data.ErrorCheck = passFail(*a.Flags.PassError)
			}
		}
	}

	repDir := filepath.Join(outdir, "reports")
	for _, f := range []struct{ caption, path string }{
		{"Detected rings", m.Figures.Overlay},
		{"Radial intensity profile", m.Figures.Profile},
		{"Linear fit of r^2 vs n", m.Figures.Fit},
		{"Fit residuals", m.Figures.Residual},
		{"Measured vs reference R", m.Figures.Comparison},
	} {
		if f.path == "" {
			continue
		}
		rel, err := filepath.Rel(repDir, f.path)
		if err != nil {
			rel = f.path
		}
		data.Figures = append(data.Figures, figure{Caption: f.caption, Path: rel})
	}

	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(repDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(repDir, base+"_report.md")
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if err := tmpl.Execute(out, data); err != nil {
		return "", err
	}
	return path, nil
}

func passFail(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}
