package app

import (
	"fmt"
	"image"
	"log"
	"runtime"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/chitra/internal/canvas"
	"github.com/ayusman/chitra/internal/capture"
	"github.com/ayusman/chitra/internal/detector"
	"github.com/ayusman/chitra/internal/overlay"
)

// Window keys.
const (
	keyClear = 'c'
	keyQuit  = 27 // ESC
)

// runPipeline reads frames until stopCh closes.
//
// Each tick: read a mirrored frame, check for motion, detect the hand, step
// the state machine, compose the overlay, and publish the frame. While the
// scene is still and no hand is in view the camera drops to IdleFPS and
// detection is skipped; those frames change nothing.
func (a *App) runPipeline(camera capture.Camera, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	var window *gocv.Window
	if a.config.Window {
		// HighGUI calls must stay on one OS thread.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		window = gocv.NewWindow("Chitra")
		defer window.Close()
	}

	idle := false
	ticker := time.NewTicker(time.Second / time.Duration(ActiveFPS))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
		}

		frame, err := camera.ReadFrame()
		if err != nil {
			log.Printf("Error reading frame: %v", err)
			continue
		}

		moved, _ := a.motion.Detect(frame)
		still := !moved && a.motion.Idle() && !a.Status().Hand

		if still != idle {
			idle = still
			fps := ActiveFPS
			if idle {
				fps = IdleFPS
			}
			camera.SetFPS(fps)
			ticker.Reset(time.Second / time.Duration(fps))
			if idle {
				log.Println("Switched to idle mode")
			} else {
				log.Println("Switched to active mode")
			}
		}

		if idle || !a.IsEnabled() {
			err = a.RenderFrame(frame, time.Now())
		} else {
			err = a.ProcessFrame(frame, time.Now())
		}
		if err != nil {
			log.Printf("Error processing frame: %v", err)
		}

		if window != nil {
			window.IMShow(*frame)
			switch window.WaitKey(1) {
			case keyClear:
				a.Clear()
			case keyQuit:
				if a.config.OnQuit != nil {
					go a.config.OnQuit()
				}
			}
		}

		frame.Close()
	}
}

// ProcessFrame runs one frame through detection and the state machine, then
// draws the overlay onto frame. Detection failures count as a frame without a hand.
func (a *App) ProcessFrame(frame *gocv.Mat, at time.Time) error {
	if frame == nil || frame.Empty() {
		return fmt.Errorf("process frame: empty frame")
	}

	snap := a.detect(frame)

	a.stateMu.Lock()
	defer a.stateMu.Unlock()

	a.fitLayer(frame)
	out := a.machine.Process(snap, at)
	return a.compose(frame, at, out.Preview)
}

// RenderFrame draws the overlay onto frame without stepping the state machine.
func (a *App) RenderFrame(frame *gocv.Mat, at time.Time) error {
	if frame == nil || frame.Empty() {
		return fmt.Errorf("render frame: empty frame")
	}

	a.stateMu.Lock()
	defer a.stateMu.Unlock()

	a.fitLayer(frame)
	return a.compose(frame, at, nil)
}

// detect returns the first hand scaled to frame pixels, or nil.
func (a *App) detect(frame *gocv.Mat) detector.Snapshot {
	d := a.Detector()
	if d == nil {
		return nil
	}

	hands, err := d.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return nil
	}
	if len(hands) == 0 {
		return nil
	}
	return hands[0].Snapshot(frame.Cols(), frame.Rows())
}

// fitLayer replaces the canvas when the camera delivers a different size, so
// stroke coordinates stay in frame pixels. Called with stateMu held.
func (a *App) fitLayer(frame *gocv.Mat) {
	size := image.Pt(frame.Cols(), frame.Rows())
	if a.layer.Bounds().Size() == size {
		return
	}

	log.Printf("Resizing canvas to %dx%d", size.X, size.Y)
	old := a.layer
	a.layer = newLayer(a.config.Backend, size.X, size.Y)
	a.machine.SetCanvas(a.layer)
	if c, ok := old.(interface{ Close() error }); ok {
		c.Close()
	}
}

// compose draws the overlay and publishes the JPEG. Called with stateMu held.
func (a *App) compose(frame *gocv.Mat, at time.Time, preview *canvas.Command) error {
	if !a.lastAt.IsZero() {
		if dt := at.Sub(a.lastAt); dt > 0 {
			a.fps = float64(time.Second) / float64(dt)
		}
	}
	a.lastAt = at

	err := a.compositor.Compose(frame, overlay.Scene{
		Layer:   a.layer,
		Status:  a.machine.Status(),
		Preview: preview,
		FPS:     a.fps,
	})
	if err != nil {
		return fmt.Errorf("compose frame: %w", err)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	buf.Close()

	a.setLatest(jpeg)
	return nil
}
