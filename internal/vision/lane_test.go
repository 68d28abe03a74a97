package vision

import (
	"image"
	"math"
	"testing"
)

func TestFitSegment(t *testing.T) {
	tests := []struct {
		name          string
		seg           Segment
		wantSlope     float64
		wantIntercept float64
	}{
		{"falling", Segment{X1: 0, Y1: 100, X2: 10, Y2: 80}, -2, 100},
		{"rising", Segment{X1: 0, Y1: 0, X2: 10, Y2: 20}, 2, 0},
		{"horizontal", Segment{X1: 5, Y1: 40, X2: 25, Y2: 40}, 0, 40},
		{"offset", Segment{X1: 2, Y1: 11, X2: 6, Y2: 23}, 3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fit := FitSegment(tt.seg)
			if fit.Slope != tt.wantSlope {
				t.Errorf("slope: got %g, want %g", fit.Slope, tt.wantSlope)
			}
			if fit.Intercept != tt.wantIntercept {
				t.Errorf("intercept: got %g, want %g", fit.Intercept, tt.wantIntercept)
			}
		})
	}
}

func TestFitSegment_Vertical(t *testing.T) {
	fit := FitSegment(Segment{X1: 5, Y1: 0, X2: 5, Y2: 10})

	if !math.IsNaN(fit.Slope) {
		t.Errorf("vertical segment slope: got %g, want NaN", fit.Slope)
	}
}

func TestClassifyFits(t *testing.T) {
	segs := []Segment{
		{X1: 0, Y1: 100, X2: 10, Y2: 80},  // slope -2: left
		{X1: 0, Y1: 150, X2: 10, Y2: 120}, // slope -3: left
		{X1: 0, Y1: 0, X2: 10, Y2: 20},    // slope +2: right
		{X1: 0, Y1: 50, X2: 10, Y2: 50},   // slope 0: dropped
		{X1: 5, Y1: 0, X2: 5, Y2: 10},     // vertical: dropped
	}

	left, right := ClassifyFits(segs)

	if len(left) != 2 {
		t.Errorf("left group: got %d fits, want 2", len(left))
	}
	if len(right) != 1 {
		t.Errorf("right group: got %d fits, want 1", len(right))
	}
}

func TestAverageFit(t *testing.T) {
	fits := []FitLine{
		{Slope: -2.0, Intercept: 100.0},
		{Slope: -3.0, Intercept: 150.0},
	}

	avg := AverageFit(fits)

	if avg.Slope != -2.5 {
		t.Errorf("average slope: got %g, want -2.5", avg.Slope)
	}
	if avg.Intercept != 125.0 {
		t.Errorf("average intercept: got %g, want 125", avg.Intercept)
	}
}

func TestProjectLane(t *testing.T) {
	seg, ok := ProjectLane(FitLine{Slope: -2.0, Intercept: 100.0}, 700)

	if !ok {
		t.Fatal("projection should succeed")
	}
	want := Segment{X1: -300, Y1: 700, X2: -160, Y2: 420}
	if seg != want {
		t.Errorf("projected segment: got %+v, want %+v", seg, want)
	}
}

func TestProjectLane_Unrepresentable(t *testing.T) {
	tests := []struct {
		name string
		fit  FitLine
	}{
		{"zero slope", FitLine{Slope: 0, Intercept: 100}},
		{"nan slope", FitLine{Slope: math.NaN(), Intercept: 100}},
		{"near-zero slope overflows", FitLine{Slope: 1e-12, Intercept: 0}},
		{"nan intercept", FitLine{Slope: 1, Intercept: math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := ProjectLane(tt.fit, 700); ok {
				t.Error("projection should be rejected")
			}
		})
	}
}

func TestLaneLines_BothSides(t *testing.T) {
	bounds := image.Rect(0, 0, 800, 700)
	segs := []Segment{
		{X1: 0, Y1: 100, X2: 10, Y2: 80},  // left, slope -2, intercept 100
		{X1: 0, Y1: 150, X2: 10, Y2: 120}, // left, slope -3, intercept 150
		{X1: 0, Y1: 0, X2: 10, Y2: 20},    // right, slope +2, intercept 0
		{X1: 0, Y1: 0, X2: 10, Y2: 30},    // right, slope +3, intercept 0
	}

	lanes := LaneLines(bounds, segs)

	if len(lanes) != 2 {
		t.Fatalf("got %d lanes, want 2: %v", len(lanes), lanes)
	}

	// Left group averages to slope -2.5, intercept 125.
	wantLeft := Segment{X1: -230, Y1: 700, X2: -118, Y2: 420}
	if lanes[0] != wantLeft {
		t.Errorf("left lane: got %+v, want %+v", lanes[0], wantLeft)
	}

	// Right group averages to slope 2.5, intercept 0.
	wantRight := Segment{X1: 280, Y1: 700, X2: 168, Y2: 420}
	if lanes[1] != wantRight {
		t.Errorf("right lane: got %+v, want %+v", lanes[1], wantRight)
	}
}

func TestLaneLines_SingleSide(t *testing.T) {
	bounds := image.Rect(0, 0, 800, 700)
	segs := []Segment{
		{X1: 0, Y1: 0, X2: 10, Y2: 20}, // right only
	}

	lanes := LaneLines(bounds, segs)

	if len(lanes) != 1 {
		t.Fatalf("got %d lanes, want 1: %v", len(lanes), lanes)
	}
	want := Segment{X1: 350, Y1: 700, X2: 210, Y2: 420}
	if lanes[0] != want {
		t.Errorf("lane: got %+v, want %+v", lanes[0], want)
	}
}

func TestLaneLines_NoEvidence(t *testing.T) {
	bounds := image.Rect(0, 0, 800, 700)

	if lanes := LaneLines(bounds, nil); len(lanes) != 0 {
		t.Errorf("no segments should yield no lanes, got %v", lanes)
	}

	// Zero and non-finite slopes contribute to neither side.
	segs := []Segment{
		{X1: 0, Y1: 50, X2: 10, Y2: 50}, // horizontal
		{X1: 5, Y1: 0, X2: 5, Y2: 10},   // vertical
	}
	if lanes := LaneLines(bounds, segs); len(lanes) != 0 {
		t.Errorf("degenerate segments should yield no lanes, got %v", lanes)
	}
}

func TestSegmentGeometry(t *testing.T) {
	s := Segment{X1: 0, Y1: 0, X2: 3, Y2: 4}
	if got := s.Length(); got != 5 {
		t.Errorf("length: got %g, want 5", got)
	}

	h := Segment{X1: 0, Y1: 0, X2: 10, Y2: 0}
	if got := h.AngleDegrees(); got != 0 {
		t.Errorf("horizontal angle: got %g, want 0", got)
	}

	d := Segment{X1: 0, Y1: 0, X2: 10, Y2: 10}
	if got := d.AngleDegrees(); math.Abs(got-45) > 1e-9 {
		t.Errorf("diagonal angle: got %g, want 45", got)
	}
}
