package painter

import "image"

// Region is a menu hit area mapped to either a mode or a color.
type Region struct {
	Rect   image.Rectangle
	Mode   Mode
	Swatch Swatch
}

// Hit reports whether x falls strictly inside the region's horizontal span.
// Edges belong to neither neighbour.
func (r Region) Hit(x int) bool {
	return r.Rect.Min.X < x && x < r.Rect.Max.X
}

// Layout describes the header menu band and its hit regions.
type Layout struct {
	HeaderHeight int
	Shapes       []Region
	Colors       []Region
}

// Menu geometry shared by the compositor.
const (
	DefaultHeaderHeight = 100
	IconSize            = 100
)

// MenuModes lists the shape menu entries left to right.
var MenuModes = []Mode{Circle, Rectangle, Freehand, Eraser, Text}

// DefaultLayout places the five tools at x = i*100 and the five palette colors
// right after them, every icon 100 px square in a 100 px header.
func DefaultLayout() Layout {
	l := Layout{HeaderHeight: DefaultHeaderHeight}

	for i, m := range MenuModes {
		x := i * IconSize
		l.Shapes = append(l.Shapes, Region{
			Rect: image.Rect(x, 0, x+IconSize, DefaultHeaderHeight),
			Mode: m,
		})
	}

	offset := len(MenuModes) * IconSize
	for i, s := range Palette {
		x := offset + i*IconSize
		l.Colors = append(l.Colors, Region{
			Rect:   image.Rect(x, 0, x+IconSize, DefaultHeaderHeight),
			Swatch: s,
		})
	}

	return l
}

// InHeader reports whether p selects from the menu (strictly above the band edge).
func (l Layout) InHeader(p image.Point) bool {
	return p.Y < l.HeaderHeight
}

// BelowHeader reports whether p may erase. A point exactly on the band edge is
// neither in the header nor below it, so the eraser skips it while Draw strokes it.
func (l Layout) BelowHeader(p image.Point) bool {
	return p.Y > l.HeaderHeight
}

// ModeAt returns the last shape region containing x.
func (l Layout) ModeAt(x int) (Mode, bool) {
	var (
		mode  Mode
		found bool
	)
	for _, r := range l.Shapes {
		if r.Hit(x) {
			mode, found = r.Mode, true
		}
	}
	return mode, found
}

// SwatchAt returns the last color region containing x.
func (l Layout) SwatchAt(x int) (Swatch, bool) {
	var (
		swatch Swatch
		found  bool
	)
	for _, r := range l.Colors {
		if r.Hit(x) {
			swatch, found = r.Swatch, true
		}
	}
	return swatch, found
}
