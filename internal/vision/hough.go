package vision

import (
	"fmt"
	"image"
	"math"
)

// HoughParams configures probabilistic Hough segment extraction.
type HoughParams struct {
	// RhoRes is the distance resolution of the accumulator in pixels.
	RhoRes float64 `json:"rho_res"`

	// ThetaRes is the angle resolution of the accumulator in radians.
	ThetaRes float64 `json:"theta_res"`

	// Threshold is the number of accumulator votes a line needs before
	// it is traced through the edge map.
	Threshold int `json:"threshold"`

	// MinLineLength is the minimum Euclidean length in pixels of an
	// accepted segment.
	MinLineLength int `json:"min_line_length"`

	// MaxLineGap is the largest run of non-edge pixels bridged while
	// tracing a segment.
	MaxLineGap int `json:"max_line_gap"`
}

// DefaultHoughParams returns extraction parameters tuned for road lane
// footage: 1 pixel and 1 degree resolution, 100-vote threshold, 100 pixel
// minimum segment length and 40 pixel gap bridging.
func DefaultHoughParams() HoughParams {
	return HoughParams{
		RhoRes:        1,
		ThetaRes:      math.Pi / 180,
		Threshold:     100,
		MinLineLength: 100,
		MaxLineGap:    40,
	}
}

// Validate reports the first invalid parameter, or nil.
func (p HoughParams) Validate() error {
	if p.RhoRes <= 0 {
		return fmt.Errorf("hough rho resolution must be positive, got %g", p.RhoRes)
	}
	if p.ThetaRes <= 0 || p.ThetaRes > math.Pi {
		return fmt.Errorf("hough theta resolution must be in (0, pi], got %g", p.ThetaRes)
	}
	if p.Threshold < 1 {
		return fmt.Errorf("hough threshold must be at least 1, got %d", p.Threshold)
	}
	if p.MinLineLength < 1 {
		return fmt.Errorf("hough min line length must be at least 1, got %d", p.MinLineLength)
	}
	if p.MaxLineGap < 0 {
		return fmt.Errorf("hough max line gap must not be negative, got %d", p.MaxLineGap)
	}
	return nil
}

// HoughSegments extracts line segments from a binary edge map using a
// progressive probabilistic Hough transform.
//
// Edge pixels vote for the (rho, theta) lines passing through them. As soon
// as a pixel's vote pushes some line over p.Threshold, that line is traced
// through the edge map from the pixel in both directions, bridging gaps of
// up to p.MaxLineGap non-edge pixels. A traced run at least p.MinLineLength
// long is emitted as a segment, and its pixels are consumed: they stop
// voting and cannot seed another segment, so each lane marking is reported
// once.
//
// Pixels are visited in row-major order rather than sampled randomly, which
// makes extraction fully deterministic for a given input. Params must have
// been validated; see HoughParams.Validate.
func HoughSegments(bin *image.Gray, p HoughParams) []Segment {
	bounds := bin.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	// Collect edge pixels in frame-local coordinates.
	points := make([]image.Point, 0, 1024)
	mask := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if bin.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y != 0 {
				mask[y*width+x] = true
				points = append(points, image.Point{X: x, Y: y})
			}
		}
	}
	if len(points) == 0 {
		return nil
	}

	numAngle := int(math.Round(math.Pi / p.ThetaRes))
	numRho := int(math.Round((float64(width+height)*2 + 1) / p.RhoRes))
	accum := make([]int32, numAngle*numRho)

	cosT := make([]float64, numAngle)
	sinT := make([]float64, numAngle)
	for t := 0; t < numAngle; t++ {
		angle := float64(t) * p.ThetaRes
		cosT[t] = math.Cos(angle) / p.RhoRes
		sinT[t] = math.Sin(angle) / p.RhoRes
	}

	rhoIndex := func(x, y, t int) int {
		r := int(math.Round(float64(x)*cosT[t] + float64(y)*sinT[t]))
		return r + (numRho-1)/2
	}

	// voted marks pixels whose accumulator contribution is still present,
	// so consuming a segment retracts exactly the votes it absorbed.
	voted := make([]bool, width*height)
	var segments []Segment

	const shift = 16

	for _, pt := range points {
		idx := pt.Y*width + pt.X
		if !mask[idx] {
			continue // consumed by an earlier segment
		}

		// Vote for every line through this pixel, tracking the best bin.
		voted[idx] = true
		bestVal := int32(p.Threshold) - 1
		bestAngle := -1
		for t := 0; t < numAngle; t++ {
			r := rhoIndex(pt.X, pt.Y, t)
			if r < 0 || r >= numRho {
				continue
			}
			accum[t*numRho+r]++
			if accum[t*numRho+r] > bestVal {
				bestVal = accum[t*numRho+r]
				bestAngle = t
			}
		}
		if bestAngle < 0 {
			continue // no line over threshold yet
		}

		// Fixed-point stepping along the winning line. The unit step goes
		// along the major axis; the minor axis advances by the slope in
		// 16.16 fixed point.
		angle := float64(bestAngle) * p.ThetaRes
		a := -math.Sin(angle)
		b := math.Cos(angle)
		x0, y0 := pt.X, pt.Y
		var dx0, dy0 int
		xflag := math.Abs(a) > math.Abs(b)
		if xflag {
			if a > 0 {
				dx0 = 1
			} else {
				dx0 = -1
			}
			dy0 = int(math.Round(b * (1 << shift) / math.Abs(a)))
			y0 = (y0 << shift) + (1 << (shift - 1))
		} else {
			if b > 0 {
				dy0 = 1
			} else {
				dy0 = -1
			}
			dx0 = int(math.Round(a * (1 << shift) / math.Abs(b)))
			x0 = (x0 << shift) + (1 << (shift - 1))
		}

		// Trace both directions to find the run ends.
		var ends [2]image.Point
		for k := 0; k < 2; k++ {
			gap := 0
			x, y, dx, dy := x0, y0, dx0, dy0
			if k == 1 {
				dx, dy = -dx, -dy
			}
			for ; ; x, y = x+dx, y+dy {
				var px, py int
				if xflag {
					px = x
					py = y >> shift
				} else {
					px = x >> shift
					py = y
				}
				if px < 0 || px >= width || py < 0 || py >= height {
					break
				}
				if mask[py*width+px] {
					gap = 0
					ends[k] = image.Point{X: px, Y: py}
				} else {
					gap++
					if gap > p.MaxLineGap {
						break
					}
				}
			}
		}

		seg := Segment{X1: ends[0].X, Y1: ends[0].Y, X2: ends[1].X, Y2: ends[1].Y}
		if seg.Length() < float64(p.MinLineLength) {
			continue
		}

		// Walk the run again, consuming its pixels and retracting the
		// votes they contributed.
		for k := 0; k < 2; k++ {
			x, y, dx, dy := x0, y0, dx0, dy0
			if k == 1 {
				dx, dy = -dx, -dy
			}
			for ; ; x, y = x+dx, y+dy {
				var px, py int
				if xflag {
					px = x
					py = y >> shift
				} else {
					px = x >> shift
					py = y
				}
				if px < 0 || px >= width || py < 0 || py >= height {
					break
				}
				i := py*width + px
				if mask[i] {
					if voted[i] {
						for t := 0; t < numAngle; t++ {
							r := rhoIndex(px, py, t)
							if r < 0 || r >= numRho {
								continue
							}
							accum[t*numRho+r]--
						}
						voted[i] = false
					}
					mask[i] = false
				}
				if px == ends[k].X && py == ends[k].Y {
					break
				}
			}
		}

		segments = append(segments, seg)
	}

	return segments
}
