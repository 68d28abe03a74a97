package vision

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// Canny performs Canny edge detection on a smoothed grayscale frame.
//
// The output is a binary image with the input bounds: edge pixels are 255,
// everything else is 0. Smoothing is the caller's job (see GaussianBlur);
// running Canny on an unblurred frame works but amplifies sensor noise.
//
// Parameters:
//   - gray: Source frame, usually the blurred stage output.
//   - thresholdLow: Gradient magnitudes below this are discarded (0-255
//     scale). Typical value: 50.
//   - thresholdHigh: Gradient magnitudes above this are always kept.
//     Typical value: 150.
//
// Returns:
//   - *image.Gray: Binary edge map, edges marked in white (255).
//
// # Algorithm
//
//  1. Gradient computation: Sobel operators for X and Y gradients
//     magnitude = sqrt(Gx² + Gy²)
//     direction = atan2(Gy, Gx)
//
//  2. Non-maximum suppression: Thin edges to 1-pixel width by keeping only
//     local maxima in the gradient direction
//
//  3. Hysteresis thresholding:
//     - Pixels above thresholdHigh are strong edges (always kept)
//     - Pixels between thresholdLow and thresholdHigh are weak edges
//     (kept only if adjacent to a strong edge)
//     - Pixels below thresholdLow are discarded
func Canny(gray *image.Gray, thresholdLow, thresholdHigh int) *image.Gray {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	result := image.NewGray(bounds)
	if width == 0 || height == 0 {
		return result
	}

	// Compute gradients using Sobel operators.
	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				var gx, gy float64
				for ky := -1; ky <= 1; ky++ {
					for kx := -1; kx <= 1; kx++ {
						py := clamp(y+ky, 0, height-1)
						px := clamp(x+kx, 0, width-1)
						v := float64(gray.GrayAt(px+bounds.Min.X, py+bounds.Min.Y).Y)
						gx += v * sobelX[ky+1][kx+1]
						gy += v * sobelY[ky+1][kx+1]
					}
				}
				magnitude[y*width+x] = math.Sqrt(gx*gx + gy*gy)
				direction[y*width+x] = math.Atan2(gy, gx)
			}
		}
	})

	// Non-maximum suppression. Border pixels stay suppressed because they
	// have no full neighborhood to compare against.
	suppressed := make([]float64, width*height)
	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			if y == 0 || y == height-1 {
				continue
			}
			for x := 1; x < width-1; x++ {
				angle := direction[y*width+x]
				mag := magnitude[y*width+x]

				// Determine neighbors to compare based on gradient direction
				var n1, n2 float64
				if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
					n1 = magnitude[y*width+x-1]
					n2 = magnitude[y*width+x+1]
				} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
					n1 = magnitude[(y-1)*width+x+1]
					n2 = magnitude[(y+1)*width+x-1]
				} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
					n1 = magnitude[(y-1)*width+x]
					n2 = magnitude[(y+1)*width+x]
				} else {
					n1 = magnitude[(y-1)*width+x-1]
					n2 = magnitude[(y+1)*width+x+1]
				}

				if mag >= n1 && mag >= n2 {
					suppressed[y*width+x] = mag
				}
			}
		}
	})

	// Double threshold and edge tracking by hysteresis.
	low := float64(thresholdLow)
	high := float64(thresholdHigh)

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				val := suppressed[y*width+x]
				if val >= high {
					result.SetGray(x+bounds.Min.X, y+bounds.Min.Y, color.Gray{Y: 255})
					continue
				}
				if val < low {
					continue
				}
				// Weak edge: keep only if connected to a strong edge.
				hasStrongNeighbor := false
				for ky := -1; ky <= 1 && !hasStrongNeighbor; ky++ {
					for kx := -1; kx <= 1 && !hasStrongNeighbor; kx++ {
						py := clamp(y+ky, 0, height-1)
						px := clamp(x+kx, 0, width-1)
						if suppressed[py*width+px] >= high {
							hasStrongNeighbor = true
						}
					}
				}
				if hasStrongNeighbor {
					result.SetGray(x+bounds.Min.X, y+bounds.Min.Y, color.Gray{Y: 255})
				}
			}
		}
	})

	return result
}
