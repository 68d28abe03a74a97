package vision

import (
	"image"
	"testing"
)

func TestPolygonMask_Rectangle(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)
	poly := Polygon{{20, 30}, {80, 30}, {80, 70}, {20, 70}}

	mask := PolygonMask(bounds, poly)

	inside := []image.Point{{50, 50}, {21, 31}, {79, 69}}
	for _, p := range inside {
		if mask.GrayAt(p.X, p.Y).Y != 255 {
			t.Errorf("pixel (%d,%d) should be inside the mask", p.X, p.Y)
		}
	}

	outside := []image.Point{{0, 0}, {99, 99}, {50, 10}, {50, 90}, {10, 50}, {90, 50}}
	for _, p := range outside {
		if mask.GrayAt(p.X, p.Y).Y != 0 {
			t.Errorf("pixel (%d,%d) should be outside the mask", p.X, p.Y)
		}
	}
}

func TestPolygonMask_Triangle(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)
	poly := Polygon{{10, 90}, {90, 90}, {50, 10}}

	mask := PolygonMask(bounds, poly)

	if mask.GrayAt(50, 60).Y != 255 {
		t.Error("triangle centroid should be inside the mask")
	}
	for _, p := range []image.Point{{10, 20}, {90, 20}, {0, 0}, {99, 0}} {
		if mask.GrayAt(p.X, p.Y).Y != 0 {
			t.Errorf("pixel (%d,%d) should be outside the triangle", p.X, p.Y)
		}
	}
}

func TestPolygonMask_ClipsToFrame(t *testing.T) {
	// Polygon larger than the frame: everything inside the frame is kept.
	bounds := image.Rect(0, 0, 40, 40)
	poly := Polygon{{-100, -100}, {140, -100}, {140, 140}, {-100, 140}}

	mask := PolygonMask(bounds, poly)

	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if mask.GrayAt(x, y).Y != 255 {
				t.Fatalf("pixel (%d,%d) should be covered by the oversized polygon", x, y)
			}
		}
	}
}

func TestPolygonMask_FullyOutsideFrame(t *testing.T) {
	bounds := image.Rect(0, 0, 40, 40)
	polys := []Polygon{
		{{-90, 10}, {-50, 10}, {-70, 30}},  // left of the frame
		{{100, 10}, {140, 10}, {120, 30}},  // right of the frame
		{{10, -90}, {30, -90}, {20, -50}},  // above the frame
		{{10, 100}, {30, 100}, {20, 140}},  // below the frame
	}

	for _, poly := range polys {
		mask := PolygonMask(bounds, poly)
		for y := 0; y < 40; y++ {
			for x := 0; x < 40; x++ {
				if mask.GrayAt(x, y).Y != 0 {
					t.Fatalf("polygon %v outside the frame set pixel (%d,%d)", poly, x, y)
				}
			}
		}
	}
}

func TestPolygonMask_TooFewVertices(t *testing.T) {
	bounds := image.Rect(0, 0, 20, 20)

	for _, poly := range []Polygon{nil, {{1, 1}}, {{1, 1}, {10, 10}}} {
		mask := PolygonMask(bounds, poly)
		for y := 0; y < 20; y++ {
			for x := 0; x < 20; x++ {
				if mask.GrayAt(x, y).Y != 0 {
					t.Fatalf("polygon with %d vertices should mask everything", len(poly))
				}
			}
		}
	}
}

func TestMaskPolygon(t *testing.T) {
	// All-white edge map, rectangular region of interest.
	bin := createUniformGray(100, 100, 255)
	poly := Polygon{{20, 30}, {80, 30}, {80, 70}, {20, 70}}

	masked := MaskPolygon(bin, poly)

	if masked.GrayAt(50, 50).Y != 255 {
		t.Error("edge pixel inside the region should be preserved")
	}
	for _, p := range []image.Point{{0, 0}, {50, 10}, {10, 50}, {99, 99}} {
		if masked.GrayAt(p.X, p.Y).Y != 0 {
			t.Errorf("edge pixel (%d,%d) outside the region should be zeroed", p.X, p.Y)
		}
	}

	// The input must not be modified.
	if bin.GrayAt(0, 0).Y != 255 {
		t.Error("MaskPolygon must not mutate its input")
	}
}

func TestMaskPolygon_ValuesPreserved(t *testing.T) {
	bin := createGradientGray(60, 60)
	poly := Polygon{{0, 0}, {60, 0}, {60, 60}, {0, 60}}

	masked := MaskPolygon(bin, poly)

	// Full-frame polygon: output equals input everywhere.
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			if got, want := masked.GrayAt(x, y).Y, bin.GrayAt(x, y).Y; got != want {
				t.Fatalf("pixel (%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}
