package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Motion detection constants.
const (
	// AnalysisWidth is the width frames are shrunk to before differencing.
	AnalysisWidth = 320
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21) at analysis width.
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold for difference detection.
	DiffThreshold = 25
	// DefaultQuietFrames is how many still frames pass before the scene counts as idle.
	DefaultQuietFrames = 30
)

// MotionDetector tells the pipeline whether anyone is in front of the camera,
// using frame differencing on a shrunken, blurred grayscale copy.
type MotionDetector struct {
	threshold   float64
	quietLimit  int
	quiet       int
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// NewMotionDetector creates a MotionDetector. The threshold is the percentage
// of pixels that must change, so 1.0 means 1% of the frame.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold:  threshold,
		quietLimit: DefaultQuietFrames,
		prevGray:   gocv.NewMat(),
	}
}

// Detect compares frame with the previous one and reports whether it moved
// along with the percentage of changed pixels. The first frame only sets the
// baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	small := gocv.NewMat()
	defer small.Close()
	if gray.Cols() > AnalysisWidth {
		h := gray.Rows() * AnalysisWidth / gray.Cols()
		gocv.Resize(gray, &small, image.Pt(AnalysisWidth, h), 0, 0, gocv.InterpolationArea)
	} else {
		gray.CopyTo(&small)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(small, &blurred, image.Pt(GaussianBlurSize, GaussianBlurSize), 0, 0, gocv.BorderDefault)

	if !m.initialized || m.prevGray.Cols() != blurred.Cols() || m.prevGray.Rows() != blurred.Rows() {
		blurred.CopyTo(&m.prevGray)
		m.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	changePercent := float64(nonZero) / float64(thresh.Rows()*thresh.Cols()) * 100.0

	blurred.CopyTo(&m.prevGray)

	moved := changePercent > m.threshold
	if moved {
		m.quiet = 0
	} else {
		m.quiet++
	}
	return moved, changePercent
}

// Idle reports whether the last DefaultQuietFrames frames were all still.
func (m *MotionDetector) Idle() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized && m.quiet >= m.quietLimit
}

// SetQuietFrames changes how many still frames make the scene idle.
// Values less than or equal to 0 are ignored.
func (m *MotionDetector) SetQuietFrames(n int) {
	if n <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quietLimit = n
}

// Reset drops the baseline so the next frame starts a new comparison.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

// Close releases resources used by the motion detector.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

func (m *MotionDetector) release() {
	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
	m.quiet = 0
}

// SetThreshold sets the motion detection threshold in percent of pixels.
// Values less than or equal to 0 are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.threshold = threshold
}
