package painter

import (
	"fmt"
	"image"
	"time"

	"github.com/ayusman/chitra/internal/canvas"
	"github.com/ayusman/chitra/internal/gesture"
)

// Pen is the last pointer position of the current stroke. A lifted pen has no
// position at all, so a pointer at the origin is an ordinary point.
type Pen struct {
	At   image.Point `json:"at"`
	Down bool        `json:"down"`
}

// Hold counts consecutive frames spent pointing into the menu band.
type Hold struct {
	Frames int       `json:"frames"`
	Since  time.Time `json:"since"`
}

// State is everything the state machine carries from one frame to the next.
type State struct {
	Mode  Mode   `json:"mode"`
	Color Swatch `json:"color"`
	Pen   Pen    `json:"pen"`
	Hold  Hold   `json:"hold"`

	// Pending is the shape being previewed in a shape mode. It only reaches the
	// canvas when Config.CommitShapes is set and the pen lifts.
	Pending *canvas.Command `json:"pending,omitempty"`
}

// NewState returns the start-up state: freehand, pen up, default color red.
func NewState() State {
	return State{Mode: Freehand, Color: Red}
}

func (s *State) liftPen() {
	s.Pen = Pen{}
	s.Pending = nil
}

// Input is one frame as seen by the state machine.
type Input struct {
	Gesture gesture.Gesture
	Pointer image.Point // index fingertip in frame pixels
	At      time.Time
}

// EventKind classifies state machine notifications.
type EventKind int

const (
	ModeChanged EventKind = iota
	ColorChanged
	CanvasCleared
)

var eventKindNames = map[EventKind]string{
	ModeChanged:   "mode_changed",
	ColorChanged:  "color_changed",
	CanvasCleared: "canvas_cleared",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event reports a mode, color, or canvas change.
type Event struct {
	Kind  EventKind `json:"kind"`
	From  Mode      `json:"from"`
	To    Mode      `json:"to"`
	Color Swatch    `json:"color"`
	At    time.Time `json:"at"`
}

// Output is what a single frame produced.
type Output struct {
	// Commands are committed to the canvas in order.
	Commands []canvas.Command
	// Preview is a display-only shape for this frame, nil when there is none.
	Preview *canvas.Command
	// Events are mode and color changes in the order they happened.
	Events []Event
}
