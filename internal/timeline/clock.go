// Package timeline converts musical event times into frame-exact output
// segments. All boundary arithmetic happens in integer frame space; seconds
// are derived from frames, never the reverse, so long timelines cannot
// accumulate floating-point drift.
package timeline

import (
	"fmt"
	"math"
)

// DefaultFrameBuffer is the padding, in frames, added to a segment's minimum
// source duration to tolerate encoder keyframe rounding at clip boundaries.
const DefaultFrameBuffer = 2

// Clock performs conversions between seconds and frame indices at a fixed
// output frame rate.
type Clock struct {
	fps float64
}

func NewClock(fps float64) (Clock, error) {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return Clock{}, fmt.Errorf("invalid frame rate: %v", fps)
	}
	return Clock{fps: fps}, nil
}

func (c Clock) FPS() float64 {
	return c.fps
}

// ToFrame rounds a timestamp to the nearest frame index.
func (c Clock) ToFrame(seconds float64) int {
	return int(math.Round(seconds * c.fps))
}

// ToSeconds is the exact inverse mapping for whole frames.
func (c Clock) ToSeconds(frame int) float64 {
	return float64(frame) / c.fps
}

// MinSourceFrames returns the source footage length, in frames, needed to
// safely cover a segment of frameCount frames.
func (c Clock) MinSourceFrames(frameCount, frameBuffer int) int {
	return frameCount + frameBuffer
}

// MinSourceSeconds is MinSourceFrames expressed in seconds.
func (c Clock) MinSourceSeconds(frameCount, frameBuffer int) float64 {
	return c.ToSeconds(c.MinSourceFrames(frameCount, frameBuffer))
}
