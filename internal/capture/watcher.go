package capture

import (
	"context"
	"image"
	"io"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/roadlab/lanescan/internal/logger"
)

// Watcher yields frames as an external producer writes them into a
// directory, typically a video decoder dumping stills into a shared
// location. Frames arrive in creation order.
type Watcher struct {
	fsw      *fsnotify.Watcher
	maxWidth int
	pending  []string
}

// OpenWatcher watches dir for newly written frames. maxWidth > 0
// downscales wider frames on read.
func OpenWatcher(dir string, maxWidth int) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create directory watcher")
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "watch %s", dir)
	}
	return &Watcher{fsw: fsw, maxWidth: maxWidth}, nil
}

// Next blocks until a new frame lands in the directory, the watcher is
// closed (io.EOF) or the context ends. A file that fails to decode, such
// as a frame caught mid-write, is logged and skipped.
func (w *Watcher) Next(ctx context.Context) (image.Image, error) {
	log := logger.Entry(ctx)
	for {
		if len(w.pending) > 0 {
			path := w.pending[0]
			w.pending = w.pending[1:]
			img, err := loadFrame(path, w.maxWidth)
			if err != nil {
				log.WithError(err).Debug("skipping undecodable frame")
				continue
			}
			return img, nil
		}

		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil, io.EOF
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 || !imageExt(event.Name) {
				continue
			}
			// A create is usually followed by write bursts for the same
			// file; queue each frame once.
			if n := len(w.pending); n > 0 && w.pending[n-1] == event.Name {
				continue
			}
			w.pending = append(w.pending, event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil, io.EOF
			}
			return nil, errors.Wrap(err, "watch frames")
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Close stops watching. A blocked Next returns io.EOF.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
