// Package overlay draws the menu band, the canvas layer, and status text onto
// camera frames.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/chitra/internal/canvas"
	"github.com/ayusman/chitra/internal/painter"
)

var (
	headerGray = color.RGBA{50, 50, 50, 255}
	iconWhite  = color.RGBA{255, 255, 255, 255}
	highlight  = color.RGBA{0, 255, 0, 255}
	textWhite  = color.RGBA{255, 255, 255, 255}
)

// PointerRadius is the size of the fingertip marker.
const PointerRadius = 10

// Compositor renders one display frame. It holds no per-frame state and is
// safe to share.
type Compositor struct {
	Layout painter.Layout
}

// NewCompositor creates a compositor for the given menu layout.
func NewCompositor(layout painter.Layout) *Compositor {
	return &Compositor{Layout: layout}
}

// DrawHeader paints the menu band: tool icons, color discs, and a green frame
// around the active tool and color.
func (c *Compositor) DrawHeader(frame *gocv.Mat, mode painter.Mode, swatch painter.Swatch) {
	band := image.Rect(0, 0, frame.Cols(), c.Layout.HeaderHeight)
	gocv.Rectangle(frame, band, headerGray, -1)

	for _, r := range c.Layout.Shapes {
		drawToolIcon(frame, r.Rect, r.Mode)
		if r.Mode == mode {
			gocv.Rectangle(frame, r.Rect, highlight, 3)
		}
	}

	for _, r := range c.Layout.Colors {
		center := image.Pt((r.Rect.Min.X+r.Rect.Max.X)/2, (r.Rect.Min.Y+r.Rect.Max.Y)/2)
		gocv.Circle(frame, center, r.Rect.Dy()*2/5, r.Swatch.RGBA, -1)
		if r.Swatch == swatch {
			gocv.Rectangle(frame, r.Rect, highlight, 3)
		}
	}
}

func drawToolIcon(frame *gocv.Mat, r image.Rectangle, mode painter.Mode) {
	at := func(x, y int) image.Point {
		return image.Pt(r.Min.X+x*r.Dx()/100, r.Min.Y+y*r.Dy()/100)
	}

	switch mode {
	case painter.Circle:
		gocv.Circle(frame, at(50, 50), r.Dy()*2/5, iconWhite, 2)
	case painter.Rectangle:
		gocv.Rectangle(frame, image.Rectangle{Min: at(10, 10), Max: at(90, 90)}, iconWhite, 2)
	case painter.Freehand:
		pts := []image.Point{at(10, 80), at(30, 50), at(50, 70), at(70, 30), at(90, 50)}
		for i := 0; i+1 < len(pts); i++ {
			gocv.Line(frame, pts[i], pts[i+1], iconWhite, 2)
		}
	case painter.Eraser:
		gocv.Rectangle(frame, image.Rectangle{Min: at(20, 30), Max: at(80, 70)}, iconWhite, -1)
		gocv.PutText(frame, "ERASE", at(25, 55), gocv.FontHersheySimplex, 0.5, color.RGBA{0, 0, 0, 255}, 2)
	case painter.Text:
		gocv.PutText(frame, "T", at(25, 70), gocv.FontHersheySimplex, 2.0, iconWhite, 3)
	}
}

// DrawPreview paints a display-only shape onto the frame.
func (c *Compositor) DrawPreview(frame *gocv.Mat, preview *canvas.Command) {
	if preview == nil {
		return
	}
	canvas.Apply(canvas.WrapMat(frame), *preview)
}

// Merge overlays the canvas layer on frame. Pure black canvas pixels are
// transparent; everything else replaces the camera pixel.
func (c *Compositor) Merge(frame *gocv.Mat, layer canvas.Canvas) error {
	src, release, err := layerMat(layer)
	if err != nil {
		return err
	}
	defer release()

	if src.Cols() != frame.Cols() || src.Rows() != frame.Rows() {
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(src, &resized, image.Pt(frame.Cols(), frame.Rows()), 0, 0, gocv.InterpolationNearestNeighbor)
		src = resized
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	inv := gocv.NewMat()
	defer inv.Close()
	gocv.Threshold(gray, &inv, 1, 255, gocv.ThresholdBinaryInv)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.CvtColor(inv, &mask, gocv.ColorGrayToBGR)

	gocv.BitwiseAnd(*frame, mask, frame)
	gocv.BitwiseOr(*frame, src, frame)
	return nil
}

// layerMat returns the canvas as a BGR Mat. Mat-backed canvases are used
// directly; anything else is converted from its image.
func layerMat(layer canvas.Canvas) (gocv.Mat, func(), error) {
	if mc, ok := layer.(*canvas.MatCanvas); ok {
		return *mc.Mat(), func() {}, nil
	}

	img, err := layer.Image()
	if err != nil {
		return gocv.Mat{}, nil, fmt.Errorf("read canvas layer: %w", err)
	}
	m, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, nil, fmt.Errorf("convert canvas layer: %w", err)
	}
	return m, func() { m.Close() }, nil
}

// DrawPointer marks the index fingertip.
func (c *Compositor) DrawPointer(frame *gocv.Mat, p image.Point) {
	gocv.Circle(frame, p, PointerRadius, highlight, -1)
}

// DrawStatus writes the frame rate bottom left and the mode bottom right.
func (c *Compositor) DrawStatus(frame *gocv.Mat, fps float64, mode painter.Mode) {
	y := frame.Rows() - 20
	gocv.PutText(frame, fmt.Sprintf("FPS: %d", int(fps)), image.Pt(10, y), gocv.FontHersheySimplex, 1, textWhite, 2)
	gocv.PutText(frame, fmt.Sprintf("Mode: %s", mode), image.Pt(frame.Cols()-280, y), gocv.FontHersheySimplex, 1, textWhite, 2)
}

// Scene is everything a display frame shows besides the camera image.
type Scene struct {
	Layer   canvas.Canvas
	Status  painter.Status
	Preview *canvas.Command
	FPS     float64
}

// Compose draws the full overlay in display order: menu band, shape preview,
// canvas layer, fingertip marker, then status text.
func (c *Compositor) Compose(frame *gocv.Mat, scene Scene) error {
	c.DrawHeader(frame, scene.Status.Mode, scene.Status.Color)
	c.DrawPreview(frame, scene.Preview)

	if scene.Layer != nil {
		if err := c.Merge(frame, scene.Layer); err != nil {
			return err
		}
	}

	if scene.Status.Hand {
		c.DrawPointer(frame, scene.Status.Pointer)
	}
	c.DrawStatus(frame, scene.FPS, scene.Status.Mode)
	return nil
}
