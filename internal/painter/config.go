package painter

import "time"

// Default stroke and debounce settings.
const (
	DefaultBrushThickness  = 15
	DefaultEraserThickness = 50
	DefaultHoldFrames      = 5
	DefaultText            = "HELLO"
)

// Config holds the tunables of the state machine.
type Config struct {
	Layout Layout

	BrushThickness  int
	EraserThickness int

	// HoldFrames is the debounce threshold: a menu selection fires on the first
	// frame where the hold count exceeds it.
	HoldFrames int
	// HoldDuration, when positive, replaces the frame count with wall-clock time
	// measured from the first frame of the hold, so latency does not depend on
	// the camera frame rate.
	HoldDuration time.Duration

	// CommitShapes stamps the previewed circle, rectangle, or text onto the canvas
	// when the pen lifts. Off by default: shapes are preview-only.
	CommitShapes bool
	// Text is the string stamped in text mode.
	Text string
}

// DefaultConfig returns the stock layout and thicknesses.
func DefaultConfig() Config {
	return Config{
		Layout:          DefaultLayout(),
		BrushThickness:  DefaultBrushThickness,
		EraserThickness: DefaultEraserThickness,
		HoldFrames:      DefaultHoldFrames,
		Text:            DefaultText,
	}
}

func (c Config) holdReached(h Hold, now time.Time) bool {
	if c.HoldDuration > 0 {
		return now.Sub(h.Since) >= c.HoldDuration
	}
	return h.Frames > c.HoldFrames
}
