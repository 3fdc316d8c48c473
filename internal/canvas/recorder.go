package canvas

import (
	"image"
	"image/color"
	"sync"
)

// Recorder is a Canvas that keeps every draw call instead of rendering it.
// Tests use it to assert exactly what a state machine committed and in what order.
type Recorder struct {
	mu       sync.Mutex
	bounds   image.Rectangle
	commands []Command
	clears   int
}

// NewRecorder creates a Recorder reporting the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{bounds: image.Rect(0, 0, width, height)}
}

func (r *Recorder) record(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
}

func (r *Recorder) DrawSegment(from, to image.Point, c color.RGBA, thickness int) {
	r.record(Command{Kind: Segment, From: from, To: to, Color: c, Thickness: thickness})
}

func (r *Recorder) DrawCircle(center image.Point, radius int, c color.RGBA, thickness int) {
	r.record(Command{Kind: Circle, From: center, Radius: radius, Color: c, Thickness: thickness})
}

func (r *Recorder) DrawRectangle(a, b image.Point, c color.RGBA, thickness int) {
	r.record(Command{Kind: Rectangle, From: a, To: b, Color: c, Thickness: thickness})
}

func (r *Recorder) DrawText(at image.Point, text string, c color.RGBA, thickness int) {
	r.record(Command{Kind: Text, From: at, Text: text, Color: c, Thickness: thickness})
}

// Clear drops recorded commands and counts the call.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = nil
	r.clears++
}

func (r *Recorder) Bounds() image.Rectangle {
	return r.bounds
}

// Image renders the recorded commands onto a fresh raster canvas.
func (r *Recorder) Image() (image.Image, error) {
	raster := NewRasterCanvas(r.bounds.Dx(), r.bounds.Dy())
	for _, cmd := range r.Commands() {
		Apply(raster, cmd)
	}
	return raster.Image()
}

// Commands returns a copy of the recorded commands in call order.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Clears returns how many times Clear was called.
func (r *Recorder) Clears() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clears
}
