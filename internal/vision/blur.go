package vision

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// blurKernel holds the normalized 1-D weights of a separable Gaussian blur.
type blurKernel struct {
	weights []float64
	radius  int
}

// newBlurKernel builds the 1-D Gaussian for an odd ksize x ksize blur.
//
// Sigma is derived from the kernel size as 0.3*((ksize-1)/2 - 1) + 0.8,
// so the default 7x7 kernel blurs with sigma 1.4.
func newBlurKernel(ksize int) (*blurKernel, error) {
	if ksize < 1 || ksize%2 == 0 {
		return nil, fmt.Errorf("blur kernel size must be a positive odd number, got %d", ksize)
	}

	radius := ksize / 2
	sigma := 0.3*(float64(ksize-1)*0.5-1) + 0.8

	weights := make([]float64, ksize)
	var sum float64
	for i := range weights {
		d := float64(i - radius)
		weights[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}

	return &blurKernel{weights: weights, radius: radius}, nil
}

// Blur applies the kernel horizontally then vertically over the frame.
// Border pixels use clamped (replicated) edge values.
func (k *blurKernel) Blur(gray *image.Gray) *image.Gray {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := image.NewGray(bounds)
	if width == 0 || height == 0 {
		return out
	}

	horiz := make([]float64, width*height)
	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			row := y * width
			for x := 0; x < width; x++ {
				var sum float64
				for i, w := range k.weights {
					px := clamp(x+i-k.radius, 0, width-1)
					sum += w * float64(gray.GrayAt(px+bounds.Min.X, y+bounds.Min.Y).Y)
				}
				horiz[row+x] = sum
			}
		}
	})

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				var sum float64
				for i, w := range k.weights {
					py := clamp(y+i-k.radius, 0, height-1)
					sum += w * horiz[py*width+x]
				}
				out.SetGray(x+bounds.Min.X, y+bounds.Min.Y, color.Gray{Y: uint8(sum + 0.5)})
			}
		}
	})

	return out
}

// GaussianBlur smooths a grayscale frame with an odd ksize x ksize Gaussian
// kernel. A kernel size of 1 returns an unchanged copy.
//
// Parameters:
//   - gray: Source frame.
//   - ksize: Kernel width and height in pixels. Must be odd and >= 1.
//     Typical value: 7.
//
// Returns:
//   - *image.Gray: Smoothed frame with the same bounds as the input.
//   - error: Non-nil if ksize is even or less than 1.
func GaussianBlur(gray *image.Gray, ksize int) (*image.Gray, error) {
	k, err := newBlurKernel(ksize)
	if err != nil {
		return nil, err
	}
	return k.Blur(gray), nil
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
