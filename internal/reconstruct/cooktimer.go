package reconstruct

import "trajview/internal/episode"

// midCook is the condition the cooking timer tracks: the recorded cooking
// flag set (the simulator raises it once the pot is full) and not yet
// ready.
func midCook(o episode.ObjectState) bool {
	return o.Name == "soup" && o.IsCooking && !o.IsReady
}

// CookingStarts scans frames[0..target] and reports, for every pot
// position hosting a mid-cook soup at target, the timestep its current
// continuous cooking run began. A pot leaves the map whenever its soup
// turns ready or resets, so an interrupted cook restarts the count. Pure:
// identical results whether playback reached target live or by seeking.
func CookingStarts(frames []episode.Frame, target int) map[episode.Position]int {
	starts := make(map[episode.Position]int)
	for i := 0; i <= target && i < len(frames); i++ {
		frame := frames[i]
		seen := make(map[episode.Position]bool)
		for _, o := range frame.Objects {
			if o.Name != "soup" {
				continue
			}
			if midCook(o) {
				seen[o.Position] = true
				if _, ok := starts[o.Position]; !ok {
					starts[o.Position] = frame.Timestep
				}
			} else {
				delete(starts, o.Position)
			}
		}
		// A pot whose soup vanished entirely (served, picked up) resets.
		for pos := range starts {
			if !seen[pos] {
				delete(starts, pos)
			}
		}
	}
	return starts
}

// Remaining computes the cook time left at target for the pot at pos.
// ok is false when nothing is mid-cook there.
func Remaining(frames []episode.Frame, target int, pos episode.Position, cookDuration int) (int, bool) {
	startedAt, ok := CookingStarts(frames, target)[pos]
	if !ok {
		return 0, false
	}
	return clampRemaining(cookDuration, targetTimestep(frames, target)-startedAt), true
}

// RemainingAll computes the remaining cook time for every mid-cook pot at
// target, honoring per-object cookTime overrides when present.
func RemainingAll(frames []episode.Frame, static episode.StaticInfo, target int) map[episode.Position]int {
	starts := CookingStarts(frames, target)
	if len(starts) == 0 {
		return nil
	}
	out := make(map[episode.Position]int, len(starts))
	now := targetTimestep(frames, target)

	overrides := make(map[episode.Position]int)
	if target >= 0 && target < len(frames) {
		for _, o := range frames[target].Objects {
			if midCook(o) && o.CookTime != nil && *o.CookTime > 0 {
				overrides[o.Position] = *o.CookTime
			}
		}
	}

	for pos, startedAt := range starts {
		duration := static.CookDuration()
		if d, ok := overrides[pos]; ok {
			duration = d
		}
		out[pos] = clampRemaining(duration, now-startedAt)
	}
	return out
}

func targetTimestep(frames []episode.Frame, target int) int {
	if target >= 0 && target < len(frames) {
		return frames[target].Timestep
	}
	return target
}

func clampRemaining(cookDuration, elapsed int) int {
	left := cookDuration - elapsed
	if left < 0 {
		return 0
	}
	if left > cookDuration {
		return cookDuration
	}
	return left
}
