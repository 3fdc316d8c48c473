// Package detector provides hand tracking interfaces and the per-frame landmark types
// consumed by the gesture pipeline.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// FingerTips lists the tip ids in thumb, index, middle, ring, pinky order.
var FingerTips = [5]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// Point3D is a normalized landmark position as reported by MediaPipe.
// X and Y are in [0,1] relative to the frame; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// LandmarkPoint is a single labelled landmark in frame pixel coordinates.
type LandmarkPoint struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

// Snapshot is one frame's landmarks for a single hand, each labelled with its id.
// A snapshot with fewer than NumLandmarks points means no usable hand.
type Snapshot []LandmarkPoint

// Snapshot converts normalized landmarks to pixel coordinates for a frame of the
// given size. Coordinates are truncated, not rounded.
func (h *HandLandmarks) Snapshot(width, height int) Snapshot {
	if h == nil {
		return nil
	}

	s := make(Snapshot, NumLandmarks)
	for id, p := range h.Points {
		s[id] = LandmarkPoint{
			ID: id,
			X:  int(p.X * float64(width)),
			Y:  int(p.Y * float64(height)),
		}
	}
	return s
}

// Complete reports whether the snapshot carries every landmark.
func (s Snapshot) Complete() bool {
	return len(s) >= NumLandmarks
}

// Point returns the landmark labelled id. Snapshots from HandLandmarks.Snapshot
// are ordered by id and found directly; any other order falls back to a scan.
func (s Snapshot) Point(id int) (LandmarkPoint, bool) {
	if id >= 0 && id < len(s) && s[id].ID == id {
		return s[id], true
	}
	for _, p := range s {
		if p.ID == id {
			return p, true
		}
	}
	return LandmarkPoint{}, false
}
