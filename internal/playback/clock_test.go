package playback

import (
	"testing"
	"time"
)

const frameDuration = 300 * time.Millisecond

func newTestClock(totalFrames int) *Clock {
	c := NewClock(frameDuration)
	c.SetTotalFrames(totalFrames)
	return c
}

func TestPlayGuards(t *testing.T) {
	start := time.Now()

	c := NewClock(frameDuration) // no episode
	if c.Play(start) {
		t.Error("Play with no episode should be a no-op")
	}

	c = newTestClock(20)
	if !c.Play(start) {
		t.Fatal("Play should start")
	}
	if c.Play(start) {
		t.Error("Play while running should be a no-op")
	}
}

func TestPlayFromLastFrameRewinds(t *testing.T) {
	start := time.Now()
	c := newTestClock(10)

	// Drive to completion.
	if !c.Play(start) {
		t.Fatal("Play should start")
	}
	res := c.Tick(start.Add(10 * frameDuration))
	if !res.Stopped || !res.FullCompleted {
		t.Fatalf("expected full completion, got %+v", res)
	}
	if c.FrameIndex() != 9 {
		t.Fatalf("expected clamp to last frame 9, got %d", c.FrameIndex())
	}

	// Playing again starts over from frame 0.
	restart := start.Add(20 * frameDuration)
	if !c.Play(restart) {
		t.Fatal("restart should start")
	}
	res = c.Tick(restart.Add(frameDuration / 2))
	if res.FrameIndex != 0 {
		t.Errorf("expected restart at frame 0, got %d", res.FrameIndex)
	}
}

func TestFrameIndexMonotonicWithinRun(t *testing.T) {
	start := time.Now()
	c := newTestClock(50)
	if !c.Play(start) {
		t.Fatal("Play should start")
	}

	last := -1
	for i := 0; i < 200; i++ {
		res := c.Tick(start.Add(time.Duration(i) * 80 * time.Millisecond))
		if res.FrameIndex < last {
			t.Fatalf("frame index went backwards: %d after %d", res.FrameIndex, last)
		}
		last = res.FrameIndex
		if res.Stopped {
			break
		}
	}
	if last != 49 {
		t.Errorf("expected run to end at frame 49, got %d", last)
	}
}

func TestPauseResumeIsFrameAccurate(t *testing.T) {
	start := time.Now()
	c := newTestClock(20)
	c.Play(start)

	c.Tick(start.Add(5 * frameDuration))
	if got := c.FrameIndex(); got != 5 {
		t.Fatalf("expected frame 5 before pause, got %d", got)
	}
	c.Pause()
	c.Pause() // idempotent

	// A tick while paused reports the held position.
	res := c.Tick(start.Add(9 * frameDuration))
	if res.FrameIndex != 5 || res.Stopped {
		t.Fatalf("paused tick should hold position, got %+v", res)
	}

	// Resume much later: elapsed time is preserved, not wall time.
	resume := start.Add(time.Hour)
	if !c.Play(resume) {
		t.Fatal("resume should start")
	}
	res = c.Tick(resume.Add(frameDuration))
	if res.FrameIndex != 6 {
		t.Errorf("expected frame 6 one frame after resume, got %d", res.FrameIndex)
	}
}

func TestSegmentTermination(t *testing.T) {
	// Property: playSegment(5, 10) on a 0.3s clock, driven 1.6s past
	// segment start, ends exactly at frame 10, stopped.
	start := time.Now()
	c := newTestClock(20)

	if !c.PlaySegment(5, 10, start) {
		t.Fatal("PlaySegment should start")
	}
	if c.FrameIndex() != 5 {
		t.Fatalf("segment should rewind to 5, got %d", c.FrameIndex())
	}
	if c.CurrentMode() != ModeSegment {
		t.Fatalf("expected segment mode, got %s", c.CurrentMode())
	}

	var final TickResult
	for _, dt := range []time.Duration{
		400 * time.Millisecond,
		800 * time.Millisecond,
		1200 * time.Millisecond,
		1600 * time.Millisecond,
	} {
		final = c.Tick(start.Add(dt))
	}

	if final.FrameIndex != 10 {
		t.Errorf("expected terminal frame 10, got %d", final.FrameIndex)
	}
	if !final.Stopped || c.Running() {
		t.Error("segment should have stopped at its end frame")
	}
	if final.FullCompleted {
		t.Error("segment completion must not report full-playback completion")
	}
	if got := c.Elapsed(); got != 10*frameDuration {
		t.Errorf("expected elapsed clamped to 3s, got %v", got)
	}
}

func TestPlaySegmentNormalizesBounds(t *testing.T) {
	cases := []struct {
		name       string
		start, end int
		wantStart  int
		wantEnd    int
	}{
		{"inverted", 12, 4, 4, 12},
		{"below range", -8, 3, 0, 3},
		{"above range", 15, 99, 15, 19},
		{"single frame", 7, 7, 7, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start := time.Now()
			c := newTestClock(20)
			if !c.PlaySegment(tc.start, tc.end, start) {
				t.Fatal("PlaySegment should start")
			}
			if c.FrameIndex() != tc.wantStart {
				t.Errorf("start frame = %d, want %d", c.FrameIndex(), tc.wantStart)
			}
			res := c.Tick(start.Add(time.Hour))
			if res.FrameIndex != tc.wantEnd {
				t.Errorf("end frame = %d, want %d", res.FrameIndex, tc.wantEnd)
			}
		})
	}
}

func TestFullCompletionOnlyInFullMode(t *testing.T) {
	start := time.Now()
	c := newTestClock(10)

	// Segment run to its end: no completion signal.
	c.PlaySegment(2, 6, start)
	res := c.Tick(start.Add(time.Hour))
	if res.FullCompleted {
		t.Fatal("segment must not satisfy the full-playback gate")
	}

	// Full run to the last frame: signal fires exactly once.
	resume := start.Add(2 * time.Hour)
	c.Play(resume)
	res = c.Tick(resume.Add(time.Hour))
	if !res.FullCompleted {
		t.Fatal("full run should report completion")
	}
	res = c.Tick(resume.Add(2 * time.Hour))
	if res.FullCompleted {
		t.Error("stopped clock must not re-report completion")
	}
}

func TestResetRewindsAndStops(t *testing.T) {
	start := time.Now()
	c := newTestClock(20)
	c.Play(start)
	c.Tick(start.Add(7 * frameDuration))

	c.Reset()
	if c.Running() || c.FrameIndex() != 0 || c.Elapsed() != 0 {
		t.Errorf("reset should stop at frame 0, got running=%v frame=%d elapsed=%v",
			c.Running(), c.FrameIndex(), c.Elapsed())
	}
	if c.CurrentMode() != ModeFull {
		t.Errorf("reset should restore full mode, got %s", c.CurrentMode())
	}
}

func TestProgress(t *testing.T) {
	start := time.Now()
	c := newTestClock(10)
	if got := c.Progress(); got != 0 {
		t.Errorf("initial progress = %v, want 0", got)
	}
	c.Play(start)
	c.Tick(start.Add(3 * frameDuration))
	if got := c.Progress(); got < 0.29 || got > 0.31 {
		t.Errorf("progress after 3/10 frames = %v, want ~0.3", got)
	}
	c.Tick(start.Add(time.Hour))
	if got := c.Progress(); got != 1 {
		t.Errorf("progress after completion = %v, want 1", got)
	}
}
