package sink

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/eliukblau/pixterm/pkg/ansimage"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// ANSI paints frames into the terminal with half-block characters,
// rescaled to the current window size on every frame. The cursor is homed
// before each frame so successive frames overdraw in place like a viewer
// window.
type ANSI struct {
	out *os.File
}

// NewANSI returns a terminal sink writing to stdout.
func NewANSI() *ANSI {
	return &ANSI{out: os.Stdout}
}

// Render scales the frame to the terminal and draws it, with the view
// name on the line below.
func (a *ANSI) Render(name string, img image.Image) error {
	ws, err := unix.IoctlGetWinsize(int(a.out.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return errors.Wrap(err, "query terminal size")
	}

	rows := int(ws.Row)
	cols := int(ws.Col)
	if rows < 2 || cols < 1 {
		return errors.Errorf("terminal too small: %dx%d", cols, rows)
	}

	frame, err := ansimage.NewScaledFromImage(img, 2*(rows-1), cols,
		color.Black, ansimage.ScaleModeFit, ansimage.NoDithering)
	if err != nil {
		return errors.Wrap(err, "scale frame for terminal")
	}

	fmt.Fprint(a.out, "\x1b[H")
	frame.Draw()
	fmt.Fprintf(a.out, "\x1b[0m%s\x1b[K", name)
	return nil
}

// Close resets the terminal attributes.
func (a *ANSI) Close() error {
	fmt.Fprint(a.out, "\x1b[0m\n")
	return nil
}
