// Package canvas provides the persistent drawing surface strokes accumulate on.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/pkg/errors"
)

var (
	// Background is the cleared value; the compositor treats it as transparent.
	Background = color.RGBA{0, 0, 0, 255}
	// Black is the eraser ink. It is the same value as Background.
	Black = Background
)

// Canvas is a raster surface that only ever grows by explicit draw commands.
// Implementations are not safe for concurrent use; a single owner mutates them.
type Canvas interface {
	// DrawSegment paints a straight stroke from one point to another.
	DrawSegment(from, to image.Point, c color.RGBA, thickness int)
	// DrawCircle paints a circle outline centred on center.
	DrawCircle(center image.Point, radius int, c color.RGBA, thickness int)
	// DrawRectangle paints the outline of the rectangle spanned by two corners.
	DrawRectangle(a, b image.Point, c color.RGBA, thickness int)
	// DrawText stamps text with its baseline starting at at.
	DrawText(at image.Point, text string, c color.RGBA, thickness int)
	// Clear resets every pixel to Background.
	Clear()
	// Bounds returns the canvas rectangle.
	Bounds() image.Rectangle
	// Image returns a copy of the current pixels.
	Image() (image.Image, error)
}

// Kind identifies a draw command.
type Kind int

const (
	Segment Kind = iota
	Circle
	Rectangle
	Text
)

var kindNames = map[Kind]string{
	Segment:   "segment",
	Circle:    "circle",
	Rectangle: "rectangle",
	Text:      "text",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Command is one draw call, either committed to a canvas or rendered as a preview.
type Command struct {
	Kind      Kind        `json:"kind"`
	From      image.Point `json:"from"`
	To        image.Point `json:"to"`
	Radius    int         `json:"radius,omitempty"`
	Color     color.RGBA  `json:"color"`
	Thickness int         `json:"thickness"`
	Text      string      `json:"text,omitempty"`
}

// Apply executes cmd on c. From is the segment start, circle centre, rectangle
// corner, or text origin.
func Apply(c Canvas, cmd Command) {
	switch cmd.Kind {
	case Segment:
		c.DrawSegment(cmd.From, cmd.To, cmd.Color, cmd.Thickness)
	case Circle:
		c.DrawCircle(cmd.From, cmd.Radius, cmd.Color, cmd.Thickness)
	case Rectangle:
		c.DrawRectangle(cmd.From, cmd.To, cmd.Color, cmd.Thickness)
	case Text:
		c.DrawText(cmd.From, cmd.Text, cmd.Color, cmd.Thickness)
	}
}

// EncodePNG writes the canvas pixels as a PNG image.
func EncodePNG(w io.Writer, c Canvas) error {
	img, err := c.Image()
	if err != nil {
		return errors.Wrap(err, "read canvas pixels")
	}
	if err := png.Encode(w, img); err != nil {
		return errors.Wrap(err, "encode canvas png")
	}
	return nil
}
