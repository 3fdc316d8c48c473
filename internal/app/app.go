// Package app wires the camera, hand detector, state machine, and canvas into
// the running drawing pipeline.
package app

import (
	"fmt"
	"image"
	"io"
	"log"
	"sync"
	"time"

	"github.com/ayusman/chitra/internal/canvas"
	"github.com/ayusman/chitra/internal/capture"
	"github.com/ayusman/chitra/internal/detector"
	"github.com/ayusman/chitra/internal/overlay"
	"github.com/ayusman/chitra/internal/painter"
	"github.com/ayusman/chitra/internal/store"
)

// Canvas backends.
const (
	BackendMat    = "mat"
	BackendRaster = "raster"
)

// Pipeline timing constants.
const (
	// ActiveFPS is the frame rate while someone is drawing.
	ActiveFPS = capture.DefaultFPS
	// IdleFPS is the frame rate once the scene has been still for a while.
	IdleFPS = capture.IdleFPS
	// subscriberBuffer is how many events a slow subscriber may fall behind.
	subscriberBuffer = 32
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	Width        int
	Height       int
	MotionThresh float64
	Painter      painter.Config
	// Backend selects the canvas implementation: BackendMat or BackendRaster.
	Backend string
	// Window shows the composited feed in a local OpenCV window.
	Window bool
	// OnQuit is called when the user presses ESC in the window.
	OnQuit func()
}

// Status is the application state shown by the API and the tray.
type Status struct {
	painter.Status
	Enabled   bool    `json:"enabled"`
	Running   bool    `json:"running"`
	SessionID string  `json:"session_id,omitempty"`
	FPS       float64 `json:"fps"`
	Backend   string  `json:"backend"`
}

// App is the drawing application. The pipeline goroutine owns frame
// processing; every other method may be called concurrently.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	compositor *overlay.Compositor

	enabled bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.RWMutex

	// stateMu guards the machine and its canvas.
	stateMu sync.Mutex
	machine *painter.Machine
	layer   canvas.Canvas
	lastAt  time.Time
	fps     float64

	frameMu sync.RWMutex
	latest  []byte

	subMu   sync.Mutex
	subs    map[int]chan painter.Event
	nextSub int

	session *store.Session
}

// New creates an App. The canvas starts at the configured frame size and
// follows the camera if it delivers something else.
func New(config Config) *App {
	if config.Width <= 0 {
		config.Width = capture.DefaultWidth
	}
	if config.Height <= 0 {
		config.Height = capture.DefaultHeight
	}
	if config.MotionThresh <= 0 {
		config.MotionThresh = 0.5
	}
	if config.Backend == "" {
		config.Backend = BackendMat
	}
	if config.Painter.Layout.HeaderHeight == 0 {
		config.Painter = painter.DefaultConfig()
	}

	opts := capture.DefaultOptions()
	opts.DeviceID = config.CameraID
	opts.Width = config.Width
	opts.Height = config.Height

	a := &App{
		config:     config,
		camera:     capture.NewCamera(opts),
		motion:     capture.NewMotionDetector(config.MotionThresh),
		compositor: overlay.NewCompositor(config.Painter.Layout),
		enabled:    true,
		subs:       make(map[int]chan painter.Event),
	}

	a.layer = newLayer(config.Backend, config.Width, config.Height)
	a.machine = painter.NewMachine(config.Painter, a.layer)
	a.machine.OnEvent(a.publish)

	return a
}

func newLayer(backend string, width, height int) canvas.Canvas {
	if backend == BackendRaster {
		return canvas.NewRasterCanvas(width, height)
	}
	return canvas.NewMatCanvas(width, height)
}

// UseMediaPipe starts the MediaPipe hand tracker, falling back to a mock
// detector that never sees a hand.
func (a *App) UseMediaPipe() {
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.SetDetector(mp)
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.SetDetector(detector.NewMockDetector())
	}
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// SetCamera replaces the frame source. Call it before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Camera returns the frame source.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// SetEnabled pauses or resumes drawing. A paused pipeline keeps streaming
// frames but feeds nothing to the state machine, so any toggle lifts the pen
// and drops the header hold: frames on either side of a pause never join.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	changed := a.enabled != enabled
	a.enabled = enabled
	a.mu.Unlock()

	if !changed {
		return
	}
	a.stateMu.Lock()
	a.machine.Interrupt()
	a.stateMu.Unlock()
}

// IsEnabled returns whether drawing is enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Start opens the camera and runs the pipeline until Stop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("start pipeline: %w", err)
	}
	a.camera.SetFPS(ActiveFPS)

	a.beginSession()

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.camera, a.stopCh, a.doneCh)

	log.Println("Drawing pipeline started")
	return nil
}

// Stop halts the pipeline, waits for the current frame to finish, and
// releases the camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh

	if err := a.Camera().Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Reset()

	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	a.endSession()
	log.Println("Drawing pipeline stopped")
}

// Running reports whether the pipeline goroutine is active.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// Close stops the pipeline and frees the canvas.
func (a *App) Close() {
	a.Stop()
	a.motion.Close()

	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	if mc, ok := a.layer.(*canvas.MatCanvas); ok {
		mc.Close()
	}
}

// Clear wipes the canvas. It is the one reset available outside gesture control.
func (a *App) Clear() {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.machine.Clear(time.Now())
}

// SelectColor sets the stroke color by palette name.
func (a *App) SelectColor(name string) error {
	sw, ok := painter.SwatchByName(name)
	if !ok {
		return fmt.Errorf("%w: unknown color %q", ErrInvalidSetting, name)
	}

	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.machine.SetColor(sw, time.Now())
	return nil
}

// Status returns a snapshot of the application state.
func (a *App) Status() Status {
	st := Status{
		Enabled: a.IsEnabled(),
		Running: a.Running(),
		Backend: a.config.Backend,
	}

	a.stateMu.Lock()
	st.Status = a.machine.Status()
	st.FPS = a.fps
	a.stateMu.Unlock()

	if sess := a.Session(); sess != nil {
		st.SessionID = sess.ID
	}
	return st
}

// PainterConfig returns the state machine's active configuration.
func (a *App) PainterConfig() painter.Config {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.machine.Config()
}

// Snapshot renders the canvas alone, without the camera image.
func (a *App) Snapshot() (image.Image, error) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.layer.Image()
}

// WritePNG encodes the canvas alone as PNG.
func (a *App) WritePNG(w io.Writer) error {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return canvas.EncodePNG(w, a.layer)
}

// Canvas exposes the drawing surface. Hold no reference across frames.
func (a *App) Canvas() canvas.Canvas {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.layer
}

// LatestFrame returns the most recent composited frame as JPEG, or nil before
// the first frame.
func (a *App) LatestFrame() []byte {
	a.frameMu.RLock()
	defer a.frameMu.RUnlock()
	return a.latest
}

func (a *App) setLatest(jpeg []byte) {
	a.frameMu.Lock()
	defer a.frameMu.Unlock()
	a.latest = jpeg
}

// Subscribe returns a channel of state machine events and a function that
// cancels the subscription. Events are dropped for subscribers that fall behind.
func (a *App) Subscribe() (<-chan painter.Event, func()) {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	id := a.nextSub
	a.nextSub++
	ch := make(chan painter.Event, subscriberBuffer)
	a.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			a.subMu.Lock()
			defer a.subMu.Unlock()
			delete(a.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// publish runs on the machine's goroutine with stateMu held.
func (a *App) publish(ev painter.Event) {
	a.journal(ev)

	a.subMu.Lock()
	defer a.subMu.Unlock()
	for _, ch := range a.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
