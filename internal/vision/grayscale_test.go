package vision

import (
	"image"
	"image/color"
	"testing"
)

func TestGrayscale_Dimensions(t *testing.T) {
	img := createUniformImage(64, 48, color.RGBA{10, 20, 30, 255})

	gray := Grayscale(img)

	if !gray.Bounds().Eq(img.Bounds()) {
		t.Errorf("bounds: got %v, want %v", gray.Bounds(), img.Bounds())
	}
}

func TestGrayscale_Luminance(t *testing.T) {
	tests := []struct {
		name string
		in   color.RGBA
		want uint8
	}{
		{"white", color.RGBA{255, 255, 255, 255}, 255},
		{"black", color.RGBA{0, 0, 0, 255}, 0},
		{"red", color.RGBA{255, 0, 0, 255}, 76},
		{"green", color.RGBA{0, 255, 0, 255}, 150},
		{"blue", color.RGBA{0, 0, 255, 255}, 29},
		{"mid gray", color.RGBA{128, 128, 128, 255}, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createUniformImage(4, 4, tt.in)
			gray := Grayscale(img)
			if got := gray.GrayAt(2, 2).Y; got != tt.want {
				t.Errorf("luminance of %v: got %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestGrayscale_OffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 5, 30, 25))
	for y := 5; y < 25; y++ {
		for x := 10; x < 30; x++ {
			img.SetRGBA(x, y, color.RGBA{0, 255, 0, 255})
		}
	}

	gray := Grayscale(img)

	if !gray.Bounds().Eq(img.Bounds()) {
		t.Fatalf("bounds: got %v, want %v", gray.Bounds(), img.Bounds())
	}
	if got := gray.GrayAt(15, 10).Y; got != 150 {
		t.Errorf("luminance at offset pixel: got %d, want 150", got)
	}
}

// Helper functions

// createUniformImage creates a solid-color RGBA test image.
func createUniformImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
