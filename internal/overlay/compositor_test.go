package overlay

import (
	"image"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/chitra/internal/canvas"
	"github.com/ayusman/chitra/internal/painter"
)

func grayFrame(t *testing.T) gocv.Mat {
	t.Helper()
	frame := gocv.NewMatWithSize(720, 1280, gocv.MatTypeCV8UC3)
	frame.SetTo(gocv.NewScalar(128, 128, 128, 0))
	return frame
}

func pixel(m gocv.Mat, x, y int) [3]uint8 {
	v := m.GetVecbAt(y, x)
	return [3]uint8{v[0], v[1], v[2]}
}

func TestMerge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	layers := map[string]func() canvas.Canvas{
		"mat":    func() canvas.Canvas { return canvas.NewMatCanvas(1280, 720) },
		"raster": func() canvas.Canvas { return canvas.NewRasterCanvas(1280, 720) },
	}

	for name, newLayer := range layers {
		t.Run(name, func(t *testing.T) {
			frame := grayFrame(t)
			defer frame.Close()

			layer := newLayer()
			if mc, ok := layer.(*canvas.MatCanvas); ok {
				defer mc.Close()
			}
			layer.DrawSegment(image.Pt(100, 400), image.Pt(300, 400), painter.Blue.RGBA, 15)

			c := NewCompositor(painter.DefaultLayout())
			if err := c.Merge(&frame, layer); err != nil {
				t.Fatalf("Merge() error = %v", err)
			}

			if got := pixel(frame, 200, 400); got != [3]uint8{255, 0, 0} {
				t.Errorf("ink pixel = %v, want BGR blue", got)
			}
			if got := pixel(frame, 600, 600); got != [3]uint8{128, 128, 128} {
				t.Errorf("background pixel = %v, want camera gray", got)
			}
		})
	}
}

func TestMerge_ScalesLayer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := grayFrame(t)
	defer frame.Close()

	layer := canvas.NewRasterCanvas(640, 360)
	layer.DrawRectangle(image.Pt(100, 100), image.Pt(200, 200), painter.Red.RGBA, -1)

	c := NewCompositor(painter.DefaultLayout())
	if err := c.Merge(&frame, layer); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	if got := pixel(frame, 300, 300); got != [3]uint8{0, 0, 255} {
		t.Errorf("scaled ink pixel = %v, want BGR red", got)
	}
}

func TestDrawHeader(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := grayFrame(t)
	defer frame.Close()

	layout := painter.DefaultLayout()
	c := NewCompositor(layout)
	c.DrawHeader(&frame, painter.Rectangle, painter.Green)

	// Band background away from any icon.
	if got := pixel(frame, 1200, 50); got != [3]uint8{50, 50, 50} {
		t.Errorf("band pixel = %v, want header gray", got)
	}
	// Color disc centre.
	yellow := layout.Colors[3].Rect
	center := image.Pt((yellow.Min.X+yellow.Max.X)/2, 50)
	if got := pixel(frame, center.X, center.Y); got != [3]uint8{0, 255, 255} {
		t.Errorf("yellow disc = %v, want BGR yellow", got)
	}
	// Highlight on the active tool's left edge.
	rect := layout.Shapes[1].Rect
	if got := pixel(frame, rect.Min.X, 50); got != [3]uint8{0, 255, 0} {
		t.Errorf("active tool frame = %v, want green", got)
	}
	// Below the band is untouched.
	if got := pixel(frame, 640, 300); got != [3]uint8{128, 128, 128} {
		t.Errorf("frame below band = %v, want camera gray", got)
	}
}

func TestCompose(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := grayFrame(t)
	defer frame.Close()

	layer := canvas.NewRasterCanvas(1280, 720)
	preview := &canvas.Command{Kind: canvas.Circle, From: image.Pt(640, 400), Radius: 50, Color: painter.Purple.RGBA, Thickness: 5}

	c := NewCompositor(painter.DefaultLayout())
	err := c.Compose(&frame, Scene{
		Layer:   layer,
		Status:  painter.Status{Mode: painter.Circle, Color: painter.Purple, Hand: true, Pointer: image.Pt(900, 500)},
		Preview: preview,
		FPS:     29.7,
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	if got := pixel(frame, 690, 400); got != [3]uint8{255, 0, 255} {
		t.Errorf("preview ring = %v, want purple", got)
	}
	if got := pixel(frame, 900, 500); got != [3]uint8{0, 255, 0} {
		t.Errorf("pointer = %v, want green", got)
	}
}

func TestDrawPreview_Nil(t *testing.T) {
	c := NewCompositor(painter.DefaultLayout())
	// Must not touch the frame.
	c.DrawPreview(nil, nil)
}
