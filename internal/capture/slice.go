package capture

import (
	"context"
	"image"
	"io"
)

// Slice replays in-memory frames. It backs single-image runs and tests.
type Slice struct {
	frames []image.Image
	idx    int
}

// FromImages builds a source that yields the frames in order.
func FromImages(frames ...image.Image) *Slice {
	return &Slice{frames: frames}
}

// OpenFile builds a source that yields a single image file once.
// Frames wider than maxWidth are downscaled; 0 keeps the original size.
func OpenFile(path string, maxWidth int) (*Slice, error) {
	img, err := loadFrame(path, maxWidth)
	if err != nil {
		return nil, err
	}
	return FromImages(img), nil
}

// Next returns the next frame, or io.EOF past the last one.
func (s *Slice) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.idx >= len(s.frames) {
		return nil, io.EOF
	}
	img := s.frames[s.idx]
	s.idx++
	return img, nil
}

// Close marks the source exhausted.
func (s *Slice) Close() error {
	s.idx = len(s.frames)
	return nil
}
