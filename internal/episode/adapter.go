package episode

import (
	"encoding/json"
	"fmt"
)

// rawEpisode accepts both legacy names for the frame list. Older recorders
// write dynamicState, newer ones write frames.
type rawEpisode struct {
	StaticInfo   StaticInfo `json:"staticInfo"`
	DynamicState []Frame    `json:"dynamicState"`
	Frames       []Frame    `json:"frames"`
}

// swapPos converts a recorded position from the trajectory convention
// (x = row, y = col) to the display convention (x = col, y = row).
func swapPos(p Position) Position {
	return Position{X: p.Y, Y: p.X}
}

// Adapt parses a raw trajectory file and normalizes it into the viewer
// format: frame-list field selection, coordinate-axis correction for every
// player, held-object and object position, and optional truncation to
// maxFrames (0 keeps everything).
//
// A file that parses but carries no recognizable frame list yields an
// episode with an empty frame sequence plus a warning, not an error; the
// viewer degrades to its no-episode state.
func Adapt(data []byte, fileName string, maxFrames int) (Episode, []string, error) {
	var raw rawEpisode
	if err := json.Unmarshal(data, &raw); err != nil {
		return Episode{}, nil, fmt.Errorf("parse trajectory %s: %w", fileName, err)
	}

	frames := raw.DynamicState
	if len(frames) == 0 {
		frames = raw.Frames
	}

	var warnings []string
	if len(frames) == 0 {
		warnings = append(warnings, fmt.Sprintf(
			"unexpected format in %s: expected {staticInfo, dynamicState[]} or {staticInfo, frames[]}", fileName))
	}

	if maxFrames > 0 && len(frames) > maxFrames {
		warnings = append(warnings, fmt.Sprintf(
			"%s truncated to %d of %d frames", fileName, maxFrames, len(frames)))
		frames = frames[:maxFrames]
	}

	adapted := make([]Frame, len(frames))
	for i, f := range frames {
		adapted[i] = adaptFrame(f)
	}

	return Episode{
		FileName:   fileName,
		StaticInfo: raw.StaticInfo,
		Frames:     adapted,
	}, warnings, nil
}

func adaptFrame(f Frame) Frame {
	players := make([]PlayerState, len(f.Players))
	for i, p := range f.Players {
		p.Position = swapPos(p.Position)
		if p.HeldObject != nil {
			held := *p.HeldObject
			held.Position = swapPos(held.Position)
			p.HeldObject = &held
		}
		players[i] = p
	}

	objects := make([]ObjectState, len(f.Objects))
	for i, o := range f.Objects {
		o.Position = swapPos(o.Position)
		objects[i] = o
	}

	f.Players = players
	f.Objects = objects
	return f
}
