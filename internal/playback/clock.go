// Package playback maps wall-clock time to discrete frame indices for
// full-episode and bounded-segment replay.
package playback

import "time"

// Mode selects how the clock terminates.
type Mode string

const (
	// ModeFull plays from the current position to the last frame.
	ModeFull Mode = "full"
	// ModeSegment plays a bounded [start, end] window and stops at end.
	ModeSegment Mode = "segment"
)

// TickResult is what one clock advancement produced.
type TickResult struct {
	FrameIndex int
	Elapsed    time.Duration
	// Stopped is set when this tick terminated the run (segment end
	// reached, or episode exhausted in full mode).
	Stopped bool
	// FullCompleted is set on the tick that finishes a full-mode run at
	// the last frame. Segment completion never sets it; it is the signal
	// that unlocks interval editing.
	FullCompleted bool
}

// Clock converts wall-clock time into a monotonic frame index. It is a pure
// state machine: the scheduler (or a test) feeds it explicit times via Tick.
// The caller serializes access; the clock itself holds no lock.
type Clock struct {
	frameDuration time.Duration
	totalFrames   int

	mode       Mode
	running    bool
	elapsed    time.Duration
	frameIndex int
	segmentEnd int
	hasSegment bool

	// virtualStart is "now minus elapsed" at the moment playback started,
	// so pausing and resuming is frame-accurate.
	virtualStart time.Time
}

// NewClock builds a stopped clock with no episode. frameDuration is the
// fixed per-frame wall time for the whole episode; it never derives from
// the data.
func NewClock(frameDuration time.Duration) *Clock {
	return &Clock{
		frameDuration: frameDuration,
		mode:          ModeFull,
	}
}

// SetTotalFrames installs the frame count of a newly loaded episode and
// resets all playback state.
func (c *Clock) SetTotalFrames(n int) {
	if n < 0 {
		n = 0
	}
	c.totalFrames = n
	c.Reset()
}

// Reset stops the clock and rewinds to frame 0. The frame count is kept.
func (c *Clock) Reset() {
	c.running = false
	c.mode = ModeFull
	c.elapsed = 0
	c.frameIndex = 0
	c.segmentEnd = 0
	c.hasSegment = false
}

// Play starts (or resumes) full-mode playback. It is a no-op while already
// running or with no episode. Starting from the last frame rewinds to 0
// first. Reports whether playback started.
func (c *Clock) Play(now time.Time) bool {
	if c.running || c.totalFrames == 0 {
		return false
	}
	if c.frameIndex >= c.totalFrames-1 {
		c.frameIndex = 0
		c.elapsed = 0
	}
	c.mode = ModeFull
	c.hasSegment = false
	c.virtualStart = now.Add(-c.elapsed)
	c.running = true
	return true
}

// PlaySegment rewinds into the [start, end] window and starts segment-mode
// playback. Bounds are normalized (swapped if inverted) and clamped into the
// episode. This is the only operation allowed to move the frame index
// backwards.
func (c *Clock) PlaySegment(start, end int, now time.Time) bool {
	if c.totalFrames == 0 {
		return false
	}
	if start > end {
		start, end = end, start
	}
	start = clampFrame(start, c.totalFrames)
	end = clampFrame(end, c.totalFrames)

	c.running = false
	c.mode = ModeSegment
	c.segmentEnd = end
	c.hasSegment = true
	c.frameIndex = start
	c.elapsed = time.Duration(start) * c.frameDuration
	c.virtualStart = now.Add(-c.elapsed)
	c.running = true
	return true
}

// Pause stops the clock in place. Idempotent. Elapsed time and frame index
// survive so a later Play resumes exactly where it stopped.
func (c *Clock) Pause() { c.running = false }

// Tick advances the clock to now. While stopped it reports the current
// position unchanged.
func (c *Clock) Tick(now time.Time) TickResult {
	if !c.running {
		return TickResult{FrameIndex: c.frameIndex, Elapsed: c.elapsed}
	}

	newElapsed := now.Sub(c.virtualStart)
	if newElapsed < 0 {
		newElapsed = 0
	}
	newIndex := int(newElapsed / c.frameDuration)

	if c.mode == ModeSegment {
		end := c.totalFrames - 1
		if c.hasSegment {
			end = c.segmentEnd
		}
		if newIndex >= end {
			c.frameIndex = end
			c.elapsed = time.Duration(end) * c.frameDuration
			c.running = false
			return TickResult{FrameIndex: c.frameIndex, Elapsed: c.elapsed, Stopped: true}
		}
		c.frameIndex = newIndex
		c.elapsed = newElapsed
		return TickResult{FrameIndex: c.frameIndex, Elapsed: c.elapsed}
	}

	if newIndex < c.totalFrames {
		c.frameIndex = newIndex
		c.elapsed = newElapsed
		return TickResult{FrameIndex: c.frameIndex, Elapsed: c.elapsed}
	}

	c.frameIndex = c.totalFrames - 1
	c.elapsed = time.Duration(c.totalFrames) * c.frameDuration
	c.running = false
	return TickResult{
		FrameIndex:    c.frameIndex,
		Elapsed:       c.elapsed,
		Stopped:       true,
		FullCompleted: true,
	}
}

func (c *Clock) Running() bool                { return c.running }
func (c *Clock) CurrentMode() Mode            { return c.mode }
func (c *Clock) FrameIndex() int              { return c.frameIndex }
func (c *Clock) Elapsed() time.Duration       { return c.elapsed }
func (c *Clock) TotalFrames() int             { return c.totalFrames }
func (c *Clock) FrameDuration() time.Duration { return c.frameDuration }

// Progress is the fraction of the episode covered by the elapsed time, in
// [0, 1].
func (c *Clock) Progress() float64 {
	total := time.Duration(c.totalFrames) * c.frameDuration
	if total <= 0 {
		return 0
	}
	p := float64(c.elapsed) / float64(total)
	if p > 1 {
		p = 1
	}
	return p
}

func clampFrame(i, total int) int {
	if i < 0 {
		return 0
	}
	if i > total-1 {
		return total - 1
	}
	return i
}
