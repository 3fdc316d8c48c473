package canvas

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// MatCanvas is a canvas held in an OpenCV BGR Mat, the same layout as camera
// frames, so it can be merged onto them without conversion. gocv maps the
// color.RGBA arguments to BGR scalars itself.
type MatCanvas struct {
	mat    *gocv.Mat
	owned  bool
	width  int
	height int
}

// NewMatCanvas creates a cleared canvas of the given size.
// The caller must Close it to release the Mat.
func NewMatCanvas(width, height int) *MatCanvas {
	m := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	c := &MatCanvas{
		mat:    &m,
		owned:  true,
		width:  width,
		height: height,
	}
	c.Clear()
	return c
}

// WrapMat draws onto an existing BGR Mat, typically a camera frame. Close does
// not release it.
func WrapMat(m *gocv.Mat) *MatCanvas {
	return &MatCanvas{mat: m, width: m.Cols(), height: m.Rows()}
}

// DrawSegment paints a stroke with OpenCV's line rasterizer.
func (c *MatCanvas) DrawSegment(from, to image.Point, col color.RGBA, thickness int) {
	gocv.Line(c.mat, from, to, col, thickness)
}

// DrawCircle paints a circle outline. A negative thickness fills it.
func (c *MatCanvas) DrawCircle(center image.Point, radius int, col color.RGBA, thickness int) {
	gocv.Circle(c.mat, center, radius, col, thickness)
}

// DrawRectangle paints a rectangle outline. A negative thickness fills it.
func (c *MatCanvas) DrawRectangle(a, b image.Point, col color.RGBA, thickness int) {
	gocv.Rectangle(c.mat, image.Rectangle{Min: a, Max: b}.Canon(), col, thickness)
}

// DrawText stamps text in the Hershey simplex face.
func (c *MatCanvas) DrawText(at image.Point, text string, col color.RGBA, thickness int) {
	gocv.PutText(c.mat, text, at, gocv.FontHersheySimplex, 2.0, col, thickness)
}

// Clear resets every pixel to Background.
func (c *MatCanvas) Clear() {
	c.mat.SetTo(gocv.NewScalar(0, 0, 0, 0))
}

// Bounds returns the canvas rectangle.
func (c *MatCanvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// Image converts the Mat to an RGBA image.
func (c *MatCanvas) Image() (image.Image, error) {
	return c.mat.ToImage()
}

// Mat exposes the backing Mat for compositing. Callers must not Close it.
func (c *MatCanvas) Mat() *gocv.Mat {
	return c.mat
}

// Close releases the Mat if the canvas allocated it.
func (c *MatCanvas) Close() error {
	if !c.owned {
		return nil
	}
	return c.mat.Close()
}
