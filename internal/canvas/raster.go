package canvas

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// RasterCanvas is a pure Go canvas backed by an RGBA image and drawn with gg.
// It needs no OpenCV and is used for headless runs and PNG snapshots.
type RasterCanvas struct {
	img *image.RGBA
	ctx *gg.Context
}

// NewRasterCanvas creates a cleared canvas of the given size.
func NewRasterCanvas(width, height int) *RasterCanvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	c := &RasterCanvas{
		img: img,
		ctx: gg.NewContextForRGBA(img),
	}
	c.ctx.SetLineCapRound()
	c.ctx.SetLineJoinRound()
	c.ctx.SetFontFace(basicfont.Face7x13)
	c.Clear()
	return c
}

// DrawSegment paints a round-capped stroke.
func (c *RasterCanvas) DrawSegment(from, to image.Point, col color.RGBA, thickness int) {
	c.ctx.SetColor(col)
	c.ctx.SetLineWidth(float64(thickness))
	c.ctx.DrawLine(float64(from.X), float64(from.Y), float64(to.X), float64(to.Y))
	c.ctx.Stroke()
}

// DrawCircle paints a circle outline. A negative thickness fills it.
func (c *RasterCanvas) DrawCircle(center image.Point, radius int, col color.RGBA, thickness int) {
	c.ctx.SetColor(col)
	c.ctx.DrawCircle(float64(center.X), float64(center.Y), float64(radius))
	c.fillOrStroke(thickness)
}

// DrawRectangle paints a rectangle outline. A negative thickness fills it.
func (c *RasterCanvas) DrawRectangle(a, b image.Point, col color.RGBA, thickness int) {
	r := image.Rectangle{Min: a, Max: b}.Canon()
	c.ctx.SetColor(col)
	c.ctx.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	c.fillOrStroke(thickness)
}

// DrawText stamps text in the fixed 7x13 face. The face has no weight, so
// thickness is emulated by repeating the stamp one pixel to the right.
func (c *RasterCanvas) DrawText(at image.Point, text string, col color.RGBA, thickness int) {
	c.ctx.SetColor(col)
	passes := thickness
	if passes < 1 {
		passes = 1
	}
	for i := 0; i < passes; i++ {
		c.ctx.DrawString(text, float64(at.X+i), float64(at.Y))
	}
}

// Clear resets every pixel to Background.
func (c *RasterCanvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)
}

// Bounds returns the canvas rectangle.
func (c *RasterCanvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// Image returns a copy of the current pixels.
func (c *RasterCanvas) Image() (image.Image, error) {
	out := image.NewRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out, nil
}

// RGBA exposes the backing image without copying.
func (c *RasterCanvas) RGBA() *image.RGBA {
	return c.img
}

func (c *RasterCanvas) fillOrStroke(thickness int) {
	if thickness < 0 {
		c.ctx.Fill()
		return
	}
	c.ctx.SetLineWidth(float64(thickness))
	c.ctx.Stroke()
}
