// Package gesture turns a hand's landmarks into finger states and symbolic gestures.
package gesture

import (
	"strings"

	"github.com/ayusman/chitra/internal/detector"
)

// Finger positions within a FingerVector.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
)

// FingerVector holds the up/down state of each finger, thumb first.
type FingerVector [5]bool

// String renders the vector as 0/1 digits, e.g. "[0 1 0 0 0]".
func (v FingerVector) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, up := range v {
		if i > 0 {
			b.WriteByte(' ')
		}
		if up {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	b.WriteByte(']')
	return b.String()
}

// Count returns how many fingers are up.
func (v FingerVector) Count() int {
	n := 0
	for _, up := range v {
		if up {
			n++
		}
	}
	return n
}

// Extract reports which fingers are up in a single frame.
//
// An incomplete snapshot yields the all-down vector. The thumb counts as up when
// its tip lies right of the IP joint, which assumes a mirrored right hand. Every
// other finger is up when its tip is strictly above the joint two ids below it.
// Landmarks are looked up by their id label, not slice position; a snapshot
// missing any id it needs is treated as incomplete. There is no memory between
// frames.
func Extract(s detector.Snapshot) FingerVector {
	var v FingerVector
	if !s.Complete() {
		return v
	}

	for f := Thumb; f <= Pinky; f++ {
		id := detector.FingerTips[f]
		joint := id - 2
		if f == Thumb {
			joint = id - 1
		}

		tip, ok := s.Point(id)
		if !ok {
			return FingerVector{}
		}
		j, ok := s.Point(joint)
		if !ok {
			return FingerVector{}
		}

		if f == Thumb {
			v[f] = tip.X > j.X
		} else {
			v[f] = tip.Y < j.Y
		}
	}

	return v
}
