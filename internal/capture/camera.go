// Package capture reads mirrored camera frames using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings. Drawing needs the full frame rate; the pipeline
// drops it when nothing moves.
const (
	DefaultFPS    = 30
	IdleFPS       = 5
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// Camera is a source of BGR frames.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
	Size() image.Point
}

// Options configure a device camera.
type Options struct {
	DeviceID int
	Width    int
	Height   int
	// Mirror flips frames horizontally so on-screen motion follows the hand.
	Mirror bool
}

// DefaultOptions opens device 0 at 1280x720, mirrored.
func DefaultOptions() Options {
	return Options{Width: DefaultWidth, Height: DefaultHeight, Mirror: true}
}

type cameraImpl struct {
	opts    Options
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
	fps     int
	size    image.Point
}

// NewCamera creates a Camera for the given device. Zero sizes fall back to the defaults.
func NewCamera(opts Options) Camera {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	return &cameraImpl{
		opts: opts,
		fps:  DefaultFPS,
		size: image.Pt(opts.Width, opts.Height),
	}
}

// Open starts capture at the requested resolution. Drivers may pick a nearby
// mode; Size reports what was actually negotiated.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.opts.DeviceID)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", c.opts.DeviceID, err)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.opts.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.opts.Height))
	capture.Set(gocv.VideoCaptureFPS, float64(c.fps))

	if w, h := int(capture.Get(gocv.VideoCaptureFrameWidth)), int(capture.Get(gocv.VideoCaptureFrameHeight)); w > 0 && h > 0 {
		c.size = image.Pt(w, h)
	}

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the camera and releases resources.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame, mirrored when configured.
// The caller is responsible for closing the returned Mat.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	if !c.opts.Mirror {
		return &mat, nil
	}

	mirrored := Mirror(mat)
	mat.Close()
	return &mirrored, nil
}

// Mirror returns a copy of frame flipped around its vertical axis.
// The caller closes the result.
func Mirror(frame gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	gocv.Flip(frame, &out, 1)
	return out
}

// SetFPS sets the frames per second for capture.
// Values less than or equal to 0 are ignored.
func (c *cameraImpl) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps

	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

func (c *cameraImpl) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fps
}

func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

// Size returns the frame size in pixels.
func (c *cameraImpl) Size() image.Point {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.size
}
