// Package runner drives the capture, pipeline and sink through the frame
// loop.
package runner

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/roadlab/lanescan/internal/capture"
	"github.com/roadlab/lanescan/internal/logger"
	"github.com/roadlab/lanescan/internal/sink"
	"github.com/roadlab/lanescan/internal/vision"
)

// Runner processes frames sequentially: read, process, render, repeat.
// Cancellation is checked between frames, so an in-flight frame always
// finishes before the loop exits.
type Runner struct {
	Source   capture.Source
	Pipeline *vision.Pipeline
	Sink     sink.Sink

	// View selects which pipeline frame is rendered. Empty selects the
	// lane overlay.
	View string
}

// Run consumes the source until it ends or ctx is canceled.
//
// The stream ending (io.EOF) and context cancellation are normal
// terminations and return nil; a failing frame read is returned wrapped.
// Render errors are logged and the loop moves on: a display hiccup must
// not kill the stream.
func (r *Runner) Run(ctx context.Context) error {
	view := r.View
	if view == "" {
		view = vision.ViewOverlay
	}
	if !vision.ValidView(view) {
		return errors.Errorf("unknown view %q (choose from %v)", view, vision.ViewNames())
	}

	log := logger.Entry(ctx).WithField("view", view)
	frames := 0
	start := time.Now()
	defer func() {
		log.WithFields(logrus.Fields{
			"frames":  frames,
			"elapsed": time.Since(start).Round(time.Millisecond).String(),
		}).Info("frame loop finished")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		img, err := r.Source.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil
		case err != nil:
			return errors.Wrap(err, "read frame")
		}

		began := time.Now()
		res := r.Pipeline.Process(img)

		if err := r.Sink.Render(view, res.View(view)); err != nil {
			log.WithError(err).WithField("frame", frames).Warn("render failed")
		}

		log.WithFields(logrus.Fields{
			"frame":    frames,
			"segments": len(res.Segments),
			"lanes":    len(res.Lanes),
			"took":     time.Since(began).Round(time.Microsecond).String(),
		}).Debug("frame processed")
		frames++
	}
}
