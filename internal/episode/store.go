package episode

import "time"

// Store holds the one loaded episode and answers read-only positional
// queries. It has no lock of its own: the viewer module serializes every
// access, and the episode is immutable once installed.
type Store struct {
	ep     Episode
	loaded bool
}

func NewStore() *Store { return &Store{} }

// Install replaces the current episode. The caller owns the reset of every
// component that derived state from the previous one.
func (s *Store) Install(ep Episode) {
	s.ep = ep
	s.loaded = true
}

// Clear drops the episode, returning the store to the no-episode state.
func (s *Store) Clear() {
	s.ep = Episode{}
	s.loaded = false
}

// Loaded reports whether an episode with at least one frame is present.
func (s *Store) Loaded() bool { return s.loaded && len(s.ep.Frames) > 0 }

func (s *Store) FileName() string { return s.ep.FileName }

func (s *Store) Static() StaticInfo { return s.ep.StaticInfo }

func (s *Store) TotalFrames() int { return len(s.ep.Frames) }

// Frames exposes the immutable frame sequence for the replay paths.
func (s *Store) Frames() []Frame { return s.ep.Frames }

// FrameAt returns the frame at index i, clamped into the valid range the
// way the viewer displays it. ok is false when no frames are loaded.
func (s *Store) FrameAt(i int) (Frame, bool) {
	n := len(s.ep.Frames)
	if n == 0 {
		return Frame{}, false
	}
	if i < 0 {
		i = 0
	}
	if i > n-1 {
		i = n - 1
	}
	return s.ep.Frames[i], true
}

// Duration is the wall-clock length of the loaded episode.
func (s *Store) Duration(frameDuration time.Duration) time.Duration {
	return s.ep.Duration(frameDuration)
}
