package vision

import (
	"fmt"
	"image"
	"image/color"
)

// Config holds every tunable of the lane-detection pipeline.
//
// The zero value is not usable; start from DefaultConfig and override
// fields as needed. NewPipeline validates the configuration and rejects
// the first invalid field.
type Config struct {
	// BlurKernel is the Gaussian kernel width and height in pixels.
	// Must be odd and >= 1; 1 disables smoothing.
	BlurKernel int `json:"blur_kernel"`

	// EdgeLow and EdgeHigh are the Canny hysteresis thresholds on the
	// 0-255 gradient magnitude scale.
	EdgeLow  int `json:"edge_low"`
	EdgeHigh int `json:"edge_high"`

	// ROI restricts edge evidence to a polygonal region of interest
	// before segment extraction. Nil disables masking; otherwise at
	// least three vertices are required.
	ROI Polygon `json:"roi,omitempty"`

	// Hough configures segment extraction from the masked edge map.
	Hough HoughParams `json:"hough"`

	// SegmentStyle strokes the raw Hough segments on the segments view.
	SegmentStyle LineStyle `json:"segment_style"`

	// LaneStyle strokes the averaged lane lines on the overlay view.
	LaneStyle LineStyle `json:"lane_style"`
}

// DefaultConfig returns pipeline settings tuned for dash-camera road
// footage. No region of interest is set; pick one per camera mount.
func DefaultConfig() Config {
	return Config{
		BlurKernel:   7,
		EdgeLow:      50,
		EdgeHigh:     150,
		Hough:        DefaultHoughParams(),
		SegmentStyle: LineStyle{Color: color.RGBA{R: 183, G: 21, B: 64, A: 255}, Thickness: 5},
		LaneStyle:    LineStyle{Color: color.RGBA{R: 183, G: 21, B: 64, A: 255}, Thickness: 15},
	}
}

// Validate reports the first invalid field, or nil.
func (c Config) Validate() error {
	if c.BlurKernel < 1 || c.BlurKernel%2 == 0 {
		return fmt.Errorf("blur kernel size must be a positive odd number, got %d", c.BlurKernel)
	}
	if c.EdgeLow < 0 {
		return fmt.Errorf("low edge threshold must not be negative, got %d", c.EdgeLow)
	}
	if c.EdgeHigh < c.EdgeLow {
		return fmt.Errorf("high edge threshold %d must not be below low threshold %d", c.EdgeHigh, c.EdgeLow)
	}
	if c.ROI != nil && len(c.ROI) < 3 {
		return fmt.Errorf("region of interest needs at least 3 vertices, got %d", len(c.ROI))
	}
	if err := c.Hough.Validate(); err != nil {
		return err
	}
	if err := c.SegmentStyle.Validate(); err != nil {
		return fmt.Errorf("segment style: %w", err)
	}
	if err := c.LaneStyle.Validate(); err != nil {
		return fmt.Errorf("lane style: %w", err)
	}
	return nil
}

// Names of the frame views a Result can produce, in pipeline order.
const (
	ViewOriginal = "original"
	ViewGray     = "gray"
	ViewBlurred  = "blurred"
	ViewEdges    = "edges"
	ViewMasked   = "masked"
	ViewSegments = "segments"
	ViewOverlay  = "overlay"
)

// ViewNames lists the valid Result view names in pipeline order.
func ViewNames() []string {
	return []string{
		ViewOriginal, ViewGray, ViewBlurred, ViewEdges,
		ViewMasked, ViewSegments, ViewOverlay,
	}
}

// ValidView reports whether name names a Result view.
func ValidView(name string) bool {
	for _, v := range ViewNames() {
		if v == name {
			return true
		}
	}
	return false
}

// Result holds every intermediate of one processed frame.
//
// All frames share the source bounds. Segments holds the raw Hough
// extraction; Lanes the averaged projection, at most one segment per
// slope sign.
type Result struct {
	Source         image.Image
	Gray           *image.Gray
	Blurred        *image.Gray
	Edges          *image.Gray
	Masked         *image.Gray
	Segments       []Segment
	SegmentOverlay *image.RGBA
	Lanes          []Segment
	Overlay        *image.RGBA
}

// View returns the named frame of the result, or nil for an unknown name.
// See ViewNames for the valid names.
func (r *Result) View(name string) image.Image {
	switch name {
	case ViewOriginal:
		return r.Source
	case ViewGray:
		return r.Gray
	case ViewBlurred:
		return r.Blurred
	case ViewEdges:
		return r.Edges
	case ViewMasked:
		return r.Masked
	case ViewSegments:
		return r.SegmentOverlay
	case ViewOverlay:
		return r.Overlay
	default:
		return nil
	}
}

// Pipeline runs the lane-detection stages over single frames.
//
// A Pipeline is immutable after construction, keeps no state between
// frames, and is safe for concurrent use.
type Pipeline struct {
	cfg    Config
	kernel *blurKernel
}

// NewPipeline validates cfg and builds a pipeline around it.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	// Detach the polygon from the caller's slice.
	cfg.ROI = append(Polygon(nil), cfg.ROI...)

	kernel, err := newBlurKernel(cfg.BlurKernel)
	if err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	return &Pipeline{cfg: cfg, kernel: kernel}, nil
}

// Config returns a copy of the pipeline configuration.
func (p *Pipeline) Config() Config {
	cfg := p.cfg
	cfg.ROI = append(Polygon(nil), cfg.ROI...)
	return cfg
}

// Process runs every stage over one frame and returns all intermediates.
//
// The input image is never modified. Without a configured region of
// interest the masked view aliases the edge view.
func (p *Pipeline) Process(img image.Image) *Result {
	res := &Result{Source: img}
	res.Gray = Grayscale(img)
	res.Blurred = p.kernel.Blur(res.Gray)
	res.Edges = Canny(res.Blurred, p.cfg.EdgeLow, p.cfg.EdgeHigh)
	if len(p.cfg.ROI) >= 3 {
		res.Masked = MaskPolygon(res.Edges, p.cfg.ROI)
	} else {
		res.Masked = res.Edges
	}
	res.Segments = HoughSegments(res.Masked, p.cfg.Hough)
	res.SegmentOverlay = Composite(img, res.Segments, p.cfg.SegmentStyle)
	res.Lanes = LaneLines(img.Bounds(), res.Segments)
	res.Overlay = Composite(img, res.Lanes, p.cfg.LaneStyle)
	return res
}
