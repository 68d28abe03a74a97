package vision

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/parallel"
)

// LineStyle describes how segments are stroked onto a frame.
type LineStyle struct {
	// Color is the stroke color.
	Color color.RGBA `json:"color"`

	// Thickness is the stroke width in pixels. Must be at least 1.
	Thickness int `json:"thickness"`
}

// Validate reports an invalid stroke width.
func (s LineStyle) Validate() error {
	if s.Thickness < 1 {
		return fmt.Errorf("line thickness must be at least 1, got %d", s.Thickness)
	}
	return nil
}

// Blend weights for compositing stroked lanes over the source frame.
const (
	compositeSrcWeight  = 0.8
	compositeLineWeight = 1.0
	compositeBias       = 1.0
)

// DrawSegments strokes the segments onto the canvas in place.
//
// Each segment is walked pixel by pixel and stamped with a disc of diameter
// Thickness. Segments are clipped to the canvas first, so endpoints far
// outside the frame cost nothing; a segment with no pixels in view is
// skipped entirely.
func DrawSegments(canvas *image.RGBA, segs []Segment, style LineStyle) {
	bounds := canvas.Bounds()
	radius := style.Thickness / 2

	// Disc stamp offsets realizing the stroke width.
	offsets := make([]image.Point, 0, (2*radius+1)*(2*radius+1))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				offsets = append(offsets, image.Point{X: dx, Y: dy})
			}
		}
	}

	clipRect := bounds.Inset(-radius)
	for _, seg := range segs {
		s, ok := clipSegment(seg, clipRect)
		if !ok {
			continue
		}
		drawLine(canvas, s, offsets, style.Color)
	}
}

// drawLine stamps the disc offsets along the Bresenham walk from (X1,Y1)
// to (X2,Y2). Endpoints must already be near the canvas; stamping is still
// bounds-checked per pixel.
func drawLine(canvas *image.RGBA, s Segment, offsets []image.Point, col color.RGBA) {
	bounds := canvas.Bounds()
	x, y := s.X1, s.Y1
	dx := abs(s.X2 - s.X1)
	dy := -abs(s.Y2 - s.Y1)
	sx, sy := 1, 1
	if s.X1 > s.X2 {
		sx = -1
	}
	if s.Y1 > s.Y2 {
		sy = -1
	}
	errAcc := dx + dy

	for {
		for _, o := range offsets {
			px, py := x+o.X, y+o.Y
			if (image.Point{X: px, Y: py}).In(bounds) {
				canvas.SetRGBA(px, py, col)
			}
		}
		if x == s.X2 && y == s.Y2 {
			break
		}
		e2 := 2 * errAcc
		if e2 >= dy {
			errAcc += dy
			x += sx
		}
		if e2 <= dx {
			errAcc += dx
			y += sy
		}
	}
}

// clipSegment clips a segment to the pixel range of r (Min inclusive, Max
// exclusive). The second return is false when nothing remains in view.
func clipSegment(s Segment, r image.Rectangle) (Segment, bool) {
	x1, y1 := float64(s.X1), float64(s.Y1)
	dx, dy := float64(s.X2-s.X1), float64(s.Y2-s.Y1)
	t0, t1 := 0.0, 1.0

	clipEdge := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
		return true
	}

	xmin, ymin := float64(r.Min.X), float64(r.Min.Y)
	xmax, ymax := float64(r.Max.X-1), float64(r.Max.Y-1)
	if !clipEdge(-dx, x1-xmin) || !clipEdge(dx, xmax-x1) ||
		!clipEdge(-dy, y1-ymin) || !clipEdge(dy, ymax-y1) {
		return Segment{}, false
	}

	return Segment{
		X1: int(math.Round(x1 + t0*dx)),
		Y1: int(math.Round(y1 + t0*dy)),
		X2: int(math.Round(x1 + t1*dx)),
		Y2: int(math.Round(y1 + t1*dy)),
	}, true
}

// AddWeighted blends two frames pixelwise: alpha*a + beta*b + gamma per
// 8-bit channel, rounded and saturated to [0, 255]. Both frames must share
// bounds. The result is fully opaque.
func AddWeighted(a image.Image, alpha float64, b image.Image, beta, gamma float64) *image.RGBA {
	ra := clone.AsRGBA(a)
	rb := clone.AsRGBA(b)
	out := image.NewRGBA(ra.Bounds())

	parallel.Line(len(out.Pix)/4, func(start, end int) {
		for i := start * 4; i < end*4; i += 4 {
			for c := 0; c < 3; c++ {
				v := alpha*float64(ra.Pix[i+c]) + beta*float64(rb.Pix[i+c]) + gamma
				switch {
				case v <= 0:
					out.Pix[i+c] = 0
				case v >= 255:
					out.Pix[i+c] = 255
				default:
					out.Pix[i+c] = uint8(v + 0.5)
				}
			}
			out.Pix[i+3] = 255
		}
	})

	return out
}

// Composite strokes the segments onto a blank canvas and blends the canvas
// over the source frame: 0.8*src + stroke + 1 per channel, saturated. The
// source shows dimmed wherever no stroke lands; strokes render at full
// strength. With no segments the result is just the dimmed source.
func Composite(src image.Image, segs []Segment, style LineStyle) *image.RGBA {
	canvas := image.NewRGBA(src.Bounds())
	DrawSegments(canvas, segs, style)
	return AddWeighted(src, compositeSrcWeight, canvas, compositeLineWeight, compositeBias)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
