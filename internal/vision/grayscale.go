package vision

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/parallel"
)

// Grayscale converts a frame to a single-channel intensity image.
//
// Luminance uses the ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B)
// on the 8-bit channel values, rounded to the nearest integer. The output
// shares the input bounds.
func Grayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)

	parallel.Line(bounds.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			py := y + bounds.Min.Y
			for px := bounds.Min.X; px < bounds.Max.X; px++ {
				r, g, b, _ := img.At(px, py).RGBA()
				lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
				gray.SetGray(px, py, color.Gray{Y: uint8(lum + 0.5)})
			}
		}
	})

	return gray
}
