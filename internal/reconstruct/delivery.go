package reconstruct

import "trajview/internal/episode"

// Delivered counts soups delivered by timestep target, derived from score
// jumps of at least one delivery reward between consecutive frames. A
// timestep-0 frame resets the count (episode restart). Pure and
// replay-symmetric like the other derivers.
func Delivered(frames []episode.Frame, target int, reward int) int {
	if len(frames) == 0 || reward <= 0 {
		return 0
	}
	if target > len(frames)-1 {
		target = len(frames) - 1
	}

	count := 0
	prevScore := frames[0].Score
	for i := 1; i <= target; i++ {
		frame := frames[i]
		if frame.Timestep == 0 {
			count = 0
			prevScore = frame.Score
			continue
		}
		diff := frame.Score - prevScore
		if diff >= float64(reward) {
			count += int(diff) / reward
		}
		prevScore = frame.Score
	}
	return count
}
