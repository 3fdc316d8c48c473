package painter

import (
	"image"
	"math"

	"github.com/ayusman/chitra/internal/canvas"
	"github.com/ayusman/chitra/internal/gesture"
)

// Step advances the state machine by one frame. It is a pure function: the
// returned state replaces s and the output lists what to draw and announce.
//
// Rules, first match wins:
//  1. Erase: switch to the eraser, stroke black below the header.
//  2. Draw in the header: count the hold, select a tool or color once it is long enough.
//  3. Draw below the header: leave the eraser, then stroke, anchor, or preview.
//  4. Anything else (none, select): lift the pen and reset the hold.
func Step(cfg Config, s State, in Input) (State, Output) {
	var out Output

	switch {
	case in.Gesture == gesture.Erase:
		erase(cfg, &s, in, &out)
	case in.Gesture == gesture.Draw && cfg.Layout.InHeader(in.Pointer):
		choose(cfg, &s, in, &out)
	case in.Gesture == gesture.Draw:
		draw(cfg, &s, in, &out)
	default:
		lift(cfg, &s, &out)
	}

	return s, out
}

func erase(cfg Config, s *State, in Input, out *Output) {
	s.Hold = Hold{}

	if s.Mode != Eraser {
		switchMode(s, Eraser, in, out)
	}

	// Pointing into the menu with the eraser neither strokes nor lifts the pen.
	if !cfg.Layout.BelowHeader(in.Pointer) {
		return
	}

	if s.Pen.Down {
		out.Commands = append(out.Commands, canvas.Command{
			Kind:      canvas.Segment,
			From:      s.Pen.At,
			To:        in.Pointer,
			Color:     canvas.Black,
			Thickness: cfg.EraserThickness,
		})
	}
	s.Pen = Pen{At: in.Pointer, Down: true}
}

func choose(cfg Config, s *State, in Input, out *Output) {
	if s.Hold.Frames == 0 {
		s.Hold.Since = in.At
	}
	s.Hold.Frames++

	if !cfg.holdReached(s.Hold, in.At) {
		return
	}
	s.Hold = Hold{}

	// Shapes and colors are tested independently; the default layout keeps
	// them disjoint so at most one applies.
	if m, ok := cfg.Layout.ModeAt(in.Pointer.X); ok {
		if m != s.Mode {
			out.Events = append(out.Events, Event{Kind: ModeChanged, From: s.Mode, To: m, Color: s.Color, At: in.At})
			s.Mode = m
		}
		s.liftPen()
	}
	if sw, ok := cfg.Layout.SwatchAt(in.Pointer.X); ok && sw != s.Color {
		s.Color = sw
		out.Events = append(out.Events, Event{Kind: ColorChanged, From: s.Mode, To: s.Mode, Color: sw, At: in.At})
	}
}

func draw(cfg Config, s *State, in Input, out *Output) {
	s.Hold = Hold{}

	if s.Mode == Eraser {
		switchMode(s, Freehand, in, out)
	}

	if s.Mode == Freehand {
		if s.Pen.Down {
			out.Commands = append(out.Commands, canvas.Command{
				Kind:      canvas.Segment,
				From:      s.Pen.At,
				To:        in.Pointer,
				Color:     s.Color.RGBA,
				Thickness: cfg.BrushThickness,
			})
		}
		s.Pen = Pen{At: in.Pointer, Down: true}
		return
	}

	// Shape modes: the first frame anchors, later frames preview from the anchor.
	if !s.Pen.Down {
		s.Pen = Pen{At: in.Pointer, Down: true}
		if s.Mode == Text {
			s.Pending = textStamp(cfg, s)
		}
		return
	}

	switch s.Mode {
	case Circle:
		s.Pending = &canvas.Command{
			Kind:      canvas.Circle,
			From:      s.Pen.At,
			Radius:    radius(s.Pen.At, in.Pointer),
			Color:     s.Color.RGBA,
			Thickness: cfg.BrushThickness,
		}
		out.Preview = s.Pending
	case Rectangle:
		s.Pending = &canvas.Command{
			Kind:      canvas.Rectangle,
			From:      s.Pen.At,
			To:        in.Pointer,
			Color:     s.Color.RGBA,
			Thickness: cfg.BrushThickness,
		}
		out.Preview = s.Pending
	case Text:
		if cfg.CommitShapes {
			out.Preview = s.Pending
		}
	}
}

func lift(cfg Config, s *State, out *Output) {
	if cfg.CommitShapes && s.Pending != nil {
		out.Commands = append(out.Commands, *s.Pending)
	}
	s.liftPen()
	s.Hold = Hold{}
}

func switchMode(s *State, to Mode, in Input, out *Output) {
	out.Events = append(out.Events, Event{Kind: ModeChanged, From: s.Mode, To: to, Color: s.Color, At: in.At})
	s.Mode = to
	s.liftPen()
}

func textStamp(cfg Config, s *State) *canvas.Command {
	thickness := cfg.BrushThickness / 5
	if thickness < 1 {
		thickness = 1
	}
	return &canvas.Command{
		Kind:      canvas.Text,
		From:      s.Pen.At,
		Text:      cfg.Text,
		Color:     s.Color.RGBA,
		Thickness: thickness,
	}
}

func radius(a, b image.Point) int {
	return int(math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y)))
}
