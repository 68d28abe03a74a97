package vision

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/parallel"
)

// Polygon is a closed region given by its vertices in pixel coordinates.
// The closing edge from the last vertex back to the first is implicit.
// A polygon needs at least three vertices to enclose any area.
type Polygon []image.Point

// PolygonMask rasterizes the polygon into a binary mask over bounds.
//
// Pixels whose center lies inside the polygon under the even-odd rule are
// set to 255, all others to 0. Vertices may lie outside bounds; the filled
// region is clipped to the frame. Fewer than three vertices produce an
// all-zero mask.
func PolygonMask(bounds image.Rectangle, poly Polygon) *image.Gray {
	mask := image.NewGray(bounds)
	if len(poly) < 3 {
		return mask
	}

	parallel.Line(bounds.Dy(), func(start, end int) {
		xs := make([]float64, 0, len(poly))
		for y := start; y < end; y++ {
			py := y + bounds.Min.Y
			cy := float64(py) + 0.5

			// Crossings of the scanline through the pixel centers of this
			// row. Sampling at half-integer Y sidesteps vertex hits and
			// skips horizontal edges naturally.
			xs = xs[:0]
			for i := range poly {
				p1 := poly[i]
				p2 := poly[(i+1)%len(poly)]
				if (float64(p1.Y) <= cy) == (float64(p2.Y) <= cy) {
					continue
				}
				t := (cy - float64(p1.Y)) / float64(p2.Y-p1.Y)
				xs = append(xs, float64(p1.X)+t*float64(p2.X-p1.X))
			}
			sort.Float64s(xs)

			for i := 0; i+1 < len(xs); i += 2 {
				x1 := clamp(int(math.Ceil(xs[i]-0.5)), bounds.Min.X, bounds.Max.X)
				x2 := clamp(int(math.Floor(xs[i+1]-0.5)), bounds.Min.X-1, bounds.Max.X-1)
				for px := x1; px <= x2; px++ {
					mask.SetGray(px, py, color.Gray{Y: 255})
				}
			}
		}
	})

	return mask
}

// MaskPolygon intersects a binary edge map with a polygonal region of
// interest: pixels inside poly keep their value, everything outside
// becomes 0. The input is not modified.
func MaskPolygon(bin *image.Gray, poly Polygon) *image.Gray {
	bounds := bin.Bounds()
	mask := PolygonMask(bounds, poly)
	out := image.NewGray(bounds)

	parallel.Line(bounds.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			py := y + bounds.Min.Y
			for px := bounds.Min.X; px < bounds.Max.X; px++ {
				if mask.GrayAt(px, py).Y != 0 {
					out.SetGray(px, py, bin.GrayAt(px, py))
				}
			}
		}
	})

	return out
}
