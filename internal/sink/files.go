package sink

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/pkg/errors"
)

// Files writes every rendered frame as a numbered PNG into a directory,
// named <view>-<frame number>.png.
type Files struct {
	dir string
	n   int
}

// NewFiles creates the output directory if needed and returns the sink.
func NewFiles(dir string) (*Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create output directory")
	}
	return &Files{dir: dir}, nil
}

// Render saves the frame and advances the frame counter.
func (f *Files) Render(name string, img image.Image) error {
	path := filepath.Join(f.dir, fmt.Sprintf("%s-%06d.png", sanitizeName(name), f.n))
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return errors.Wrapf(err, "save frame %d", f.n)
	}
	f.n++
	return nil
}

// Close is a no-op; every frame is flushed as it is rendered.
func (f *Files) Close() error {
	return nil
}
