package timing

import (
	"time"

	"github.com/valerio/jeebie-ppu/jeebie/video"
)

// Limiter controls frame rate timing for the frame viewers.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// DotFrequency is the number of dots per second, one per clock of the 4 MiHz oscillator.
const DotFrequency = 4194304

// TargetFPS calculates the exact Game Boy frame rate.
func TargetFPS() float64 {
	return float64(DotFrequency) / float64(video.FrameCycles)
}

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}
