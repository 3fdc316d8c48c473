package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// fingerColumns is the x of each finger's joints, index to pinky.
var fingerColumns = [4]float64{0.55, 0.50, 0.45, 0.40}

// PoseLandmarks builds a right hand, palm to camera, with each finger extended or
// curled according to fingers (thumb, index, middle, ring, pinky).
//
// Extended fingers have the tip above the joint two ids below it; an extended
// thumb has its tip right of the IP joint. Curled fingers invert both tests.
func PoseLandmarks(fingers [5]bool) HandLandmarks {
	hand := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	hand.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}
	hand.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76}
	hand.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.72}
	if fingers[0] {
		hand.Points[ThumbIP] = Point3D{X: 0.62, Y: 0.68}
		hand.Points[ThumbTip] = Point3D{X: 0.68, Y: 0.64}
	} else {
		hand.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.68, Z: -0.02}
		hand.Points[ThumbTip] = Point3D{X: 0.54, Y: 0.69, Z: -0.03}
	}

	for i, x := range fingerColumns {
		mcp := IndexMCP + i*4
		hand.Points[mcp] = Point3D{X: x, Y: 0.68}
		if fingers[i+1] {
			hand.Points[mcp+1] = Point3D{X: x, Y: 0.58}
			hand.Points[mcp+2] = Point3D{X: x, Y: 0.50}
			hand.Points[mcp+3] = Point3D{X: x, Y: 0.42}
		} else {
			hand.Points[mcp+1] = Point3D{X: x, Y: 0.62, Z: -0.05}
			hand.Points[mcp+2] = Point3D{X: x - 0.02, Y: 0.68, Z: -0.04}
			hand.Points[mcp+3] = Point3D{X: x - 0.03, Y: 0.70, Z: -0.02}
		}
	}

	return hand
}

// PointingLandmarks returns an index-only pose (the draw gesture).
func PointingLandmarks() HandLandmarks {
	return PoseLandmarks([5]bool{false, true, false, false, false})
}

// PeaceLandmarks returns an index and middle pose (the erase gesture).
func PeaceLandmarks() HandLandmarks {
	return PoseLandmarks([5]bool{false, true, true, false, false})
}

// OpenPalmLandmarks returns an all-fingers-extended pose.
func OpenPalmLandmarks() HandLandmarks {
	return PoseLandmarks([5]bool{true, true, true, true, true})
}

// FistLandmarks returns an all-curled pose.
func FistLandmarks() HandLandmarks {
	return PoseLandmarks([5]bool{})
}

// MoveIndexTip translates the whole hand so the index fingertip lands on (x, y)
// in normalized coordinates.
func MoveIndexTip(hand HandLandmarks, x, y float64) HandLandmarks {
	dx := x - hand.Points[IndexTip].X
	dy := y - hand.Points[IndexTip].Y
	for i := range hand.Points {
		hand.Points[i].X += dx
		hand.Points[i].Y += dy
	}
	// Pin the tip exactly so pixel conversion is predictable.
	hand.Points[IndexTip].X = x
	hand.Points[IndexTip].Y = y
	return hand
}
