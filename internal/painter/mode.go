// Package painter implements the gesture-to-action state machine that drives the canvas.
package painter

import (
	"fmt"
	"image/color"
	"strings"
)

// Mode is the active drawing tool.
type Mode int

const (
	Freehand Mode = iota
	Eraser
	Circle
	Rectangle
	Text
)

var modeNames = map[Mode]string{
	Freehand:  "freehand",
	Eraser:    "eraser",
	Circle:    "circle",
	Rectangle: "rectangle",
	Text:      "text",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// IsShape reports whether the mode anchors on pen-down and previews afterwards.
func (m Mode) IsShape() bool {
	return m == Circle || m == Rectangle || m == Text
}

// ParseMode returns the mode with the given name.
func ParseMode(name string) (Mode, error) {
	for m, n := range modeNames {
		if strings.EqualFold(n, name) {
			return m, nil
		}
	}
	return Freehand, fmt.Errorf("unknown mode %q", name)
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Swatch is a named stroke color from the palette.
type Swatch struct {
	Name string     `json:"name"`
	RGBA color.RGBA `json:"rgba"`
}

// Palette colors in menu order.
var (
	Red    = Swatch{Name: "red", RGBA: color.RGBA{255, 0, 0, 255}}
	Blue   = Swatch{Name: "blue", RGBA: color.RGBA{0, 0, 255, 255}}
	Green  = Swatch{Name: "green", RGBA: color.RGBA{0, 255, 0, 255}}
	Yellow = Swatch{Name: "yellow", RGBA: color.RGBA{255, 255, 0, 255}}
	Purple = Swatch{Name: "purple", RGBA: color.RGBA{255, 0, 255, 255}}

	Palette = []Swatch{Red, Blue, Green, Yellow, Purple}
)

// SwatchByName looks up a palette color.
func SwatchByName(name string) (Swatch, bool) {
	for _, s := range Palette {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Swatch{}, false
}
