// Package sink renders processed frames to a display surface: the
// terminal, a browser stream, numbered files, or nowhere.
package sink

import (
	"image"
	"strings"
)

// Sink renders named frame views. The processing loop calls Render once
// per frame; implementations are not required to be safe for concurrent
// renders.
type Sink interface {
	// Render displays one frame. name identifies the pipeline view being
	// shown, for sinks that label or file their output.
	Render(name string, img image.Image) error

	// Close releases the display surface.
	Close() error
}

// sanitizeName reduces a view name to a safe file and label token.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "frame"
	}
	return b.String()
}
