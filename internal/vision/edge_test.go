package vision

import (
	"image"
	"testing"
)

func TestCanny_UniformImage(t *testing.T) {
	gray := createUniformGray(50, 50, 128)

	edges := Canny(gray, 50, 150)

	if !edges.Bounds().Eq(gray.Bounds()) {
		t.Fatalf("bounds: got %v, want %v", edges.Bounds(), gray.Bounds())
	}
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if edges.GrayAt(x, y).Y != 0 {
				t.Fatalf("uniform image should have no edges, got %d at (%d,%d)",
					edges.GrayAt(x, y).Y, x, y)
			}
		}
	}
}

func TestCanny_StrongEdge(t *testing.T) {
	// Left half black, right half white: one strong vertical edge.
	gray := createUniformGray(100, 100, 0)
	for y := 0; y < 100; y++ {
		for x := 50; x < 100; x++ {
			gray.Pix[gray.PixOffset(x, y)] = 255
		}
	}

	edges := Canny(gray, 50, 150)

	edgeFound := false
	for x := 48; x <= 52; x++ {
		if edges.GrayAt(x, 50).Y == 255 {
			edgeFound = true
			break
		}
	}
	if !edgeFound {
		t.Error("strong vertical edge was not detected")
	}

	// Far from the boundary there is nothing to detect.
	for _, x := range []int{10, 90} {
		if edges.GrayAt(x, 50).Y != 0 {
			t.Errorf("unexpected edge at (%d,50)", x)
		}
	}
}

func TestCanny_BinaryOutput(t *testing.T) {
	gray := createGradientGray(40, 40)

	edges := Canny(gray, 50, 150)

	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			v := edges.GrayAt(x, y).Y
			if v != 0 && v != 255 {
				t.Fatalf("edge map must be binary, got %d at (%d,%d)", v, x, y)
			}
		}
	}
}

func TestCanny_HighThresholdSuppresses(t *testing.T) {
	// A mild step: magnitude clears a low threshold but not an extreme one.
	gray := createUniformGray(60, 60, 100)
	for y := 0; y < 60; y++ {
		for x := 30; x < 60; x++ {
			gray.Pix[gray.PixOffset(x, y)] = 140
		}
	}

	relaxed := Canny(gray, 20, 60)
	strict := Canny(gray, 220, 250)

	if countEdgePixels(relaxed) == 0 {
		t.Error("relaxed thresholds should detect the step edge")
	}
	if got := countEdgePixels(strict); got != 0 {
		t.Errorf("strict thresholds should suppress the step edge, got %d edge pixels", got)
	}
}

func TestCanny_SmallImage(t *testing.T) {
	// Very small image (edge cases for convolution).
	gray := createUniformGray(5, 5, 128)

	edges := Canny(gray, 50, 150)

	if edges.Bounds().Dx() != 5 || edges.Bounds().Dy() != 5 {
		t.Errorf("dimensions: got %dx%d, want 5x5", edges.Bounds().Dx(), edges.Bounds().Dy())
	}
}

// countEdgePixels counts white pixels in a binary edge map.
func countEdgePixels(edges *image.Gray) int {
	n := 0
	b := edges.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if edges.GrayAt(x, y).Y == 255 {
				n++
			}
		}
	}
	return n
}
