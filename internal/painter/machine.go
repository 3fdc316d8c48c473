package painter

import (
	"image"
	"log"
	"time"

	"github.com/ayusman/chitra/internal/canvas"
	"github.com/ayusman/chitra/internal/detector"
	"github.com/ayusman/chitra/internal/gesture"
)

// Status is the display-facing summary of the machine.
type Status struct {
	Mode    Mode                 `json:"mode"`
	Color   Swatch               `json:"color"`
	Pen     Pen                  `json:"pen"`
	Hold    int                  `json:"hold"`
	Gesture string               `json:"gesture"`
	Fingers gesture.FingerVector `json:"fingers"`
	Pointer image.Point          `json:"pointer"`
	Hand    bool                 `json:"hand"`
}

// Machine owns the state and the canvas it draws on. Frames must be fed from a
// single goroutine, in arrival order.
type Machine struct {
	config  Config
	state   State
	canvas  canvas.Canvas
	onEvent func(Event)

	lastGesture gesture.Gesture
	lastFingers gesture.FingerVector
	lastPointer image.Point
	hand        bool
}

// NewMachine creates a machine in the start-up state drawing onto c.
func NewMachine(config Config, c canvas.Canvas) *Machine {
	return &Machine{
		config: config,
		state:  NewState(),
		canvas: c,
	}
}

// OnEvent registers the callback for mode, color, and clear events.
func (m *Machine) OnEvent(fn func(Event)) {
	m.onEvent = fn
}

// Process runs one frame through finger extraction, classification, and Step.
// A snapshot without a complete hand is the None gesture.
func (m *Machine) Process(s detector.Snapshot, at time.Time) Output {
	fingers := gesture.Extract(s)
	g := gesture.Classify(fingers)

	var pointer image.Point
	if s.Complete() {
		tip, _ := s.Point(detector.IndexTip)
		pointer = image.Pt(tip.X, tip.Y)
	}

	if near, ok := gesture.NearMiss(fingers); ok && g != m.lastGesture {
		log.Printf("Fingers %s are one off %s", fingers, near)
	}

	m.lastFingers = fingers
	m.hand = s.Complete()
	return m.Feed(Input{Gesture: g, Pointer: pointer, At: at})
}

// Feed applies a classified frame: it steps the state, commits the frame's
// commands to the canvas, and dispatches events.
func (m *Machine) Feed(in Input) Output {
	next, out := Step(m.config, m.state, in)
	m.state = next
	m.lastGesture = in.Gesture
	m.lastPointer = in.Pointer

	for _, cmd := range out.Commands {
		canvas.Apply(m.canvas, cmd)
	}

	for _, ev := range out.Events {
		switch ev.Kind {
		case ModeChanged:
			log.Printf("Switched to %s mode", ev.To)
		case ColorChanged:
			log.Printf("Selected color: %s", ev.Color.Name)
		}
		m.emit(ev)
	}

	return out
}

// Clear wipes the canvas. Mode, color, and pen are left as they are.
func (m *Machine) Clear(at time.Time) {
	m.canvas.Clear()
	log.Println("Canvas cleared")
	m.emit(Event{Kind: CanvasCleared, From: m.state.Mode, To: m.state.Mode, Color: m.state.Color, At: at})
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state
}

// Status summarizes the machine for display.
func (m *Machine) Status() Status {
	return Status{
		Mode:    m.state.Mode,
		Color:   m.state.Color,
		Pen:     m.state.Pen,
		Hold:    m.state.Hold.Frames,
		Gesture: m.lastGesture.String(),
		Fingers: m.lastFingers,
		Pointer: m.lastPointer,
		Hand:    m.hand,
	}
}

// Canvas returns the canvas the machine draws on.
func (m *Machine) Canvas() canvas.Canvas {
	return m.canvas
}

// SetCanvas redirects drawing to c. The pen lifts so no stroke spans both canvases.
func (m *Machine) SetCanvas(c canvas.Canvas) {
	m.canvas = c
	m.state.liftPen()
}

// Interrupt lifts the pen and drops any header hold. The next frame starts
// fresh, as if the hand had just entered the view. Mode and color are kept.
func (m *Machine) Interrupt() {
	m.state.liftPen()
	m.state.Hold = Hold{}
	m.lastGesture = gesture.None
}

// Config returns the active configuration.
func (m *Machine) Config() Config {
	return m.config
}

// SetConfig replaces the configuration. State carries over.
func (m *Machine) SetConfig(config Config) {
	m.config = config
}

// SetColor changes the stroke color outside of gesture control.
func (m *Machine) SetColor(s Swatch, at time.Time) {
	if s == m.state.Color {
		return
	}
	m.state.Color = s
	m.emit(Event{Kind: ColorChanged, From: m.state.Mode, To: m.state.Mode, Color: s, At: at})
}

func (m *Machine) emit(ev Event) {
	if m.onEvent != nil {
		m.onEvent(ev)
	}
}
