package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand tracking implementations.
type Detector interface {
	// Detect analyzes a video frame and returns landmarks for every tracked hand.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand tracking.
type Config struct {
	// MaxHands is the maximum number of hands to track (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns the thresholds the painter is tuned for. Drawing needs a
// steadier track than one-shot gestures, so both confidences sit at 0.8.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.8,
		MinTrackingConf: 0.8,
	}
}
