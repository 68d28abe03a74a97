package vision

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

// FitLine is a line in slope/intercept form: y = Slope*x + Intercept.
type FitLine struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// laneHorizonRatio places the upper end of a projected lane at 60% of the
// frame height, measured from the top.
const laneHorizonRatio = 0.6

// FitSegment returns the least-squares line through the segment endpoints.
//
// A vertical segment has no finite slope; the returned fit carries NaN in
// both fields and is rejected by ClassifyFits.
func FitSegment(s Segment) FitLine {
	xs := []float64{float64(s.X1), float64(s.X2)}
	ys := []float64{float64(s.Y1), float64(s.Y2)}
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	return FitLine{Slope: slope, Intercept: intercept}
}

// ClassifyFits fits every segment and splits the results by slope sign.
//
// With Y growing downward, a left lane marking rises toward the vanishing
// point and fits with a negative slope; a right marking fits with a
// positive slope. Fits with a slope of exactly zero or a non-finite slope
// belong to neither group and are dropped.
func ClassifyFits(segs []Segment) (left, right []FitLine) {
	for _, s := range segs {
		fit := FitSegment(s)
		switch {
		case fit.Slope < 0:
			left = append(left, fit)
		case fit.Slope > 0:
			right = append(right, fit)
		}
	}
	return left, right
}

// AverageFit returns the elementwise mean of the fits. The slice must not
// be empty.
func AverageFit(fits []FitLine) FitLine {
	slopes := make([]float64, len(fits))
	intercepts := make([]float64, len(fits))
	for i, f := range fits {
		slopes[i] = f.Slope
		intercepts[i] = f.Intercept
	}
	return FitLine{
		Slope:     stat.Mean(slopes, nil),
		Intercept: stat.Mean(intercepts, nil),
	}
}

// ProjectLane converts a fitted lane into a drawable segment spanning from
// the bottom of the frame up to the lane horizon.
//
// The segment runs from y1 = height to y2 = round(0.6*height), with each x
// solved from the fit as x = (y - intercept) / slope and rounded to the
// nearest integer. The second return is false when a coordinate cannot be
// represented: a non-finite result (slope zero or NaN) or a magnitude
// beyond the 32-bit pixel range.
func ProjectLane(fit FitLine, height int) (Segment, bool) {
	y1 := height
	y2 := int(math.Round(laneHorizonRatio * float64(height)))

	x1, ok := laneX(fit, y1)
	if !ok {
		return Segment{}, false
	}
	x2, ok := laneX(fit, y2)
	if !ok {
		return Segment{}, false
	}
	return Segment{X1: x1, Y1: y1, X2: x2, Y2: y2}, true
}

func laneX(fit FitLine, y int) (int, bool) {
	x := (float64(y) - fit.Intercept) / fit.Slope
	if math.IsNaN(x) || math.IsInf(x, 0) || x > math.MaxInt32 || x < math.MinInt32 {
		return 0, false
	}
	return int(math.Round(x)), true
}

// LaneLines reduces raw Hough segments to at most two lane lines, one per
// slope sign, projected onto the frame.
//
// Segments are classified by fitted slope, each group is averaged into a
// single fit, and the averages are projected with ProjectLane. A group that
// is empty or projects outside the representable range contributes no lane,
// so the result holds zero, one or two segments, left first.
func LaneLines(bounds image.Rectangle, segs []Segment) []Segment {
	left, right := ClassifyFits(segs)
	height := bounds.Dy()

	lanes := make([]Segment, 0, 2)
	if len(left) > 0 {
		if s, ok := ProjectLane(AverageFit(left), height); ok {
			lanes = append(lanes, s)
		}
	}
	if len(right) > 0 {
		if s, ok := ProjectLane(AverageFit(right), height); ok {
			lanes = append(lanes, s)
		}
	}
	return lanes
}
