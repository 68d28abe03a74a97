package capture

import (
	"context"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// Dir replays the image files of a directory in name order, which suits
// frame dumps named by frame number or timestamp.
type Dir struct {
	paths    []string
	idx      int
	maxWidth int
}

// OpenDir lists the decodable frames of dir. maxWidth > 0 downscales wider
// frames on read, preserving aspect ratio.
func OpenDir(dir string, maxWidth int) (*Dir, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "read frame directory")
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !imageExt(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("no frames in %s", dir)
	}
	sort.Strings(paths)

	return &Dir{paths: paths, maxWidth: maxWidth}, nil
}

// Next decodes the next frame, or io.EOF past the last one.
func (d *Dir) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.idx >= len(d.paths) {
		return nil, io.EOF
	}
	img, err := loadFrame(d.paths[d.idx], d.maxWidth)
	if err != nil {
		return nil, err
	}
	d.idx++
	return img, nil
}

// Close marks the source exhausted.
func (d *Dir) Close() error {
	d.idx = len(d.paths)
	return nil
}
