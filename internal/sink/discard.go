package sink

import "image"

// Discard drops every frame. Useful for benchmarking the pipeline and for
// headless runs that only need the log output.
type Discard struct{}

// Render does nothing.
func (Discard) Render(string, image.Image) error { return nil }

// Close does nothing.
func (Discard) Close() error { return nil }
