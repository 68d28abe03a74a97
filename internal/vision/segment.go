package vision

import "math"

// Segment is a line segment in pixel coordinates.
//
// Endpoint order carries no meaning; a segment from (x1,y1) to (x2,y2) is
// the same lane evidence as its reverse.
type Segment struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Length returns the Euclidean length of the segment in pixels.
func (s Segment) Length() float64 {
	return math.Hypot(float64(s.X2-s.X1), float64(s.Y2-s.Y1))
}

// AngleDegrees returns the segment direction in degrees in (-180, 180],
// measured from the positive X axis with Y increasing downward.
func (s Segment) AngleDegrees() float64 {
	return math.Atan2(float64(s.Y2-s.Y1), float64(s.X2-s.X1)) * 180 / math.Pi
}
