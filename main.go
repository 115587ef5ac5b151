// Command newton-rings measures the curvature radius of a plano-convex
// lens from a photograph of Newton's interference rings and writes a
// Markdown report with diagnostic figures.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"

	"newton-rings/internal/config"
	"newton-rings/internal/pipeline"
	"newton-rings/internal/report"
	"newton-rings/internal/version"
	"newton-rings/pkg/log"
)

func main() {
	os.Exit(run())
}

func run() int {
	imagePath := flag.String("image", "", "Input image path (jpg/png/bmp/tiff)")
	configPath := flag.String("config", "", "Config YAML path (optional; built-in defaults otherwise)")
	outdir := flag.String("outdir", "output", "Output directory")
	noReport := flag.Bool("no-report", false, "Only run detection+fit, skip report generation")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("newton-rings %s (built %s, commit %s)\n",
			version.Version, version.BuildTime, version.GitCommit)
		return 0
	}

	if *imagePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: newton-rings -image <path> [-config config.yaml] [-outdir output] [-no-report] [-debug]")
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 2
	}

	level := cfg.Logging.Level
	if *debug {
		level = "debug"
	}
	logger := log.New(log.Options{
		Level:  level,
		Dir:    cfg.Logging.LogDir,
		ToFile: cfg.Logging.SaveToFile,
	})

	if _, err := os.Stat(*imagePath); err != nil {
		logger.WithError(err).Errorf("image not found: %s", *imagePath)
		return 2
	}
	if err := os.MkdirAll(*outdir, 0755); err != nil {
		logger.WithError(err).Error("failed to create output directory")
		return 2
	}

	logger.Infof("loading image: %s", *imagePath)
	runner := pipeline.New(cfg, logger)
	m, err := runner.Run(*imagePath, *outdir)
	if err != nil {
		logger.WithError(err).Error("pipeline failed")
		return 2
	}
	if !m.Detection.Success {
		logger.Errorf("detection failed: %s", m.Detection.Message)
		return 3
	}

	logger.Infof("fit result: slope=%.6f mm^2/idx, R=%.3f mm (r^2=%.4f)",
		m.Fit.Slope, m.Fit.RMM, m.Fit.RSquared)

	if *noReport {
		logger.Infof("done (report disabled); outputs are in %s", *outdir)
		return 0
	}

	reportPath, err := report.Generate(*outdir, m, cfg.Report)
	if err != nil {
		logger.WithError(err).Error("report generation failed")
		return 2
	}
	logger.Infof("report saved: %s", filepath.Clean(reportPath))
	return 0
}
