// Package preprocess reads the input photograph and prepares it for ring
// detection: grayscale conversion, denoising and contrast enhancement.
package preprocess

import (
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"

	"newton-rings/internal/config"
)

// Load reads an image file and returns the preprocessed grayscale Mat.
// Decoding goes through Go's image registry, so callers choose the
// supported formats by blank-importing the decoders. The caller owns the
// returned Mat and must Close it.
func Load(path string, cfg config.Preprocessing) (gocv.Mat, error) {
	f, err := os.Open(path)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("decode image %s: %w", path, err)
	}

	bgr := imageToMat(img)
	defer bgr.Close()

	return Apply(bgr, cfg), nil
}

// Apply runs the preprocessing chain on a color image:
// grayscale → Gaussian blur → bilateral filter → CLAHE.
// The Gaussian pass knocks down pixel noise, the bilateral filter smooths
// while keeping fringe edges, and CLAHE evens out uneven illumination so
// faint outer fringes survive the minimum search downstream.
func Apply(bgr gocv.Mat, cfg config.Preprocessing) gocv.Mat {
	k := cfg.GaussianKernelSize
	if k < 1 {
		k = 5
	}
	if k%2 == 0 {
		k++
	}

	gray := gocv.NewMat()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: k, Y: k}, 0, 0, gocv.BorderDefault)

	bilateral := gocv.NewMat()
	defer bilateral.Close()
	gocv.BilateralFilter(blurred, &bilateral, cfg.BilateralD, cfg.BilateralSigmaColor, cfg.BilateralSigmaSpace)

	grid := cfg.CLAHEGridSize
	if grid < 1 {
		grid = 8
	}
	clahe := gocv.NewCLAHEWithParams(cfg.CLAHEClipLimit, image.Point{X: grid, Y: grid})
	defer clahe.Close()
	clahe.Apply(bilateral, &gray)

	return gray
}

// imageToMat converts a Go image.Image to an 8-bit BGR Mat.
func imageToMat(srcImg image.Image) gocv.Mat {
	bounds := srcImg.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := srcImg.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// 16-bit to 8-bit, BGR channel order for OpenCV.
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}
	return mat
}
