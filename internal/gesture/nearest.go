package gesture

// Match is the closest known pattern to a finger vector.
type Match struct {
	Gesture  Gesture // Closest pattern
	Distance int     // Number of fingers that differ
	Score    float64 // 1 / (1 + Distance), 1.0 for an exact match
}

// Nearest finds the pattern with the fewest differing fingers. It is used to
// report near misses while tuning; the state machine only ever sees Classify.
func Nearest(v FingerVector) Match {
	best := Match{Gesture: None, Distance: len(v) + 1}

	for _, p := range patterns {
		d := hamming(v, p.vector)
		if d < best.Distance {
			best = Match{Gesture: p.gesture, Distance: d}
		}
	}

	best.Score = 1.0 / (1.0 + float64(best.Distance))
	return best
}

// NearMiss reports whether v is exactly one finger away from a pattern.
func NearMiss(v FingerVector) (Gesture, bool) {
	if Classify(v) != None {
		return None, false
	}
	m := Nearest(v)
	if m.Distance == 1 {
		return m.Gesture, true
	}
	return None, false
}

func hamming(a, b FingerVector) int {
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}
