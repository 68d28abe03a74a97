// Package capture provides frame sources for the lane-detection loop.
//
// A Source yields decoded frames one at a time until the stream ends with
// io.EOF. Sources are not safe for concurrent use; the frame loop is the
// single consumer.
package capture

import (
	"context"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Source yields decoded frames in stream order.
type Source interface {
	// Next returns the next frame. It returns io.EOF once the stream is
	// exhausted and ctx.Err() when the context ends first.
	Next(ctx context.Context) (image.Image, error)

	// Close releases the source. A closed source stops yielding frames.
	Close() error
}

// imageExt reports whether the path names a decodable frame by extension.
func imageExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}

// loadFrame decodes one frame from disk, honoring EXIF orientation, and
// downscales it to maxWidth when the frame is wider. maxWidth 0 keeps the
// native size.
func loadFrame(path string, maxWidth int) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "decode frame %s", filepath.Base(path))
	}
	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}
	return img, nil
}
