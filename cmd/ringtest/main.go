// Command ringtest runs Newton-ring detection on an image and prints the
// detected center and dark-fringe radii without fitting or reporting.
// Useful for tuning detection parameters.
package main

import (
	"flag"
	"fmt"
	"os"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"

	"gocv.io/x/gocv"

	"newton-rings/internal/center"
	"newton-rings/internal/config"
	"newton-rings/internal/fringe"
	"newton-rings/internal/preprocess"
	"newton-rings/internal/profile"
	"newton-rings/internal/raster"
)

func main() {
	imagePath := flag.String("image", "", "Path to Newton-ring image (PNG, JPEG, or TIFF)")
	configPath := flag.String("config", "", "Config YAML path (optional)")
	method := flag.String("method", "", "Center method override: gradient or hough")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: ringtest -image <path> [-config config.yaml] [-method gradient|hough]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *method != "" {
		cfg.Detection.CenterDetectionMethod = *method
	}
	d := cfg.Detection

	gray, err := preprocess.Load(*imagePath, cfg.Preprocessing)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	defer gray.Close()

	fmt.Printf("Loaded image: %dx%d pixels\n", gray.Cols(), gray.Rows())
	fmt.Printf("\nDetection parameters:\n")
	fmt.Printf("  Center method: %s (canny %.0f/%.0f, hough dp=%.1f minDist=%.0f p1=%.0f p2=%.0f)\n",
		d.CenterDetectionMethod, d.CannyThreshold1, d.CannyThreshold2,
		d.HoughDP, d.HoughMinDist, d.HoughParam1, d.HoughParam2)
	fmt.Printf("  Profile: %d angles, smooth window %d\n", d.ProfileNumAngles, d.ProfileSmoothWindow)
	fmt.Printf("  Minima: prominence %.1f, distance %d, min radius %d px\n",
		d.MinimaProminence, d.MinimaDistance, d.MinRadiusPx)

	est := detectCenter(gray, d)
	fmt.Printf("\nCenter: (%.2f, %.2f) by %s (score %.4f)\n", est.X, est.Y, est.Method, est.Score)

	img, err := raster.FromMat(gray)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read pixels: %v\n", err)
		os.Exit(1)
	}

	maxRadius := 0
	if d.MaxRadiusPx != nil {
		maxRadius = *d.MaxRadiusPx
	}
	prof := profile.Radial(img, est.Point(), d.ProfileNumAngles, maxRadius)

	radii, _ := fringe.Extract(prof, fringe.Params{
		SmoothWindow: d.ProfileSmoothWindow,
		Prominence:   d.MinimaProminence,
		Distance:     d.MinimaDistance,
		MinRadiusPx:  d.MinRadiusPx,
	})

	fmt.Printf("\nDetected %d dark fringes:\n", len(radii))
	fmt.Printf("%-6s %12s %12s\n", "n", "radius (px)", "radius (mm)")
	for i, r := range radii {
		fmt.Printf("%-6d %12d %12.4f\n",
			cfg.Calculation.RingIndexStart+i, r, float64(r)*cfg.Calculation.PixelToMM)
	}
}

func detectCenter(gray gocv.Mat, d config.Detection) center.Estimate {
	return center.Find(gray, center.Params{
		PreferredMethod: d.CenterDetectionMethod,
		CannyThreshold1: d.CannyThreshold1,
		CannyThreshold2: d.CannyThreshold2,
		HoughDP:         d.HoughDP,
		HoughMinDist:    d.HoughMinDist,
		HoughParam1:     d.HoughParam1,
		HoughParam2:     d.HoughParam2,
	})
}
