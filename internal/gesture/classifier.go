package gesture

// Gesture is a symbolic label derived from which fingers are extended.
type Gesture int

const (
	// None is any finger configuration that is not a known pattern, including no hand.
	None Gesture = iota
	// Draw is the index finger alone.
	Draw
	// Erase is the index and middle fingers together.
	Erase
	// Select is the open palm.
	Select
)

var gestureNames = map[Gesture]string{
	None:   "none",
	Draw:   "draw",
	Erase:  "erase",
	Select: "select",
}

func (g Gesture) String() string {
	if name, ok := gestureNames[g]; ok {
		return name
	}
	return "unknown"
}

// Fixed finger patterns, thumb first.
var (
	DrawPattern   = FingerVector{false, true, false, false, false}
	ErasePattern  = FingerVector{false, true, true, false, false}
	SelectPattern = FingerVector{true, true, true, true, true}
)

// patterns is ordered; Nearest breaks ties by this order.
var patterns = []struct {
	gesture Gesture
	vector  FingerVector
}{
	{Draw, DrawPattern},
	{Erase, ErasePattern},
	{Select, SelectPattern},
}

// Classify maps a finger vector to a gesture by exact match. A vector one finger
// off a pattern is None, never the nearby gesture.
func Classify(v FingerVector) Gesture {
	for _, p := range patterns {
		if v == p.vector {
			return p.gesture
		}
	}
	return None
}
