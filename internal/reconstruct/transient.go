// Package reconstruct derives display-only state the recorded frames do not
// carry: transient objects bridging the one-frame reporting lag around
// put-down/pick-up actions, per-pot cooking countdowns, and the delivered
// soup count.
package reconstruct

import "trajview/internal/episode"

// TransientObject is an inferred object that should be drawn even though it
// is absent from the frame's authoritative object list. It exists only
// until the recorded data catches up.
type TransientObject struct {
	Name     string           `json:"name"`
	Position episode.Position `json:"position"`
}

// placeable reports whether a held object of this name leaves a transient
// behind when set down. Dishes and raw soups in hand render on the player,
// so only these two suffer the reporting lag.
func placeable(name string) bool {
	return name == "onion" || name == "soup"
}

// frontCell is the cell the player faces. Drop and pick-up reconciliation
// both use the previous frame's player here: that is the frame in which the
// agent stood facing the cell it acted on, and the only basis under which a
// pick-up always cancels the drop that placed the transient.
func frontCell(p episode.PlayerState) episode.Position {
	off := episode.OrientationOffset(p.Orientation)
	return episode.Position{X: p.Position.X + off.X, Y: p.Position.Y + off.Y}
}

// Tracker maintains the running transient-object set across live forward
// playback. It is not safe for concurrent use; the viewer serializes it.
type Tracker struct {
	transients []TransientObject
	prev       episode.Frame
	primed     bool
}

func NewTracker() *Tracker { return &Tracker{} }

// Reset drops all state, as on episode switch.
func (t *Tracker) Reset() {
	t.transients = nil
	t.prev = episode.Frame{}
	t.primed = false
}

// Observe feeds the next live frame and returns the transient set to
// display with it. Timestep 0 is an episode (re)start and clears
// everything.
func (t *Tracker) Observe(frame episode.Frame, static episode.StaticInfo) []TransientObject {
	if frame.Timestep == 0 {
		t.transients = nil
		t.prev = frame
		t.primed = true
		return nil
	}
	if !t.primed {
		t.prev = frame
		t.primed = true
		return copyTransients(t.transients)
	}

	t.transients = reconcile(t.prev, frame, static, t.transients)
	t.prev = frame
	return copyTransients(t.transients)
}

// Current returns the transient set as of the last observed frame.
func (t *Tracker) Current() []TransientObject {
	return copyTransients(t.transients)
}

// SeekTo rebuilds the tracker as if it had observed every frame from the
// episode start through target, so a seek shows exactly what continuous
// playback would have shown.
func (t *Tracker) SeekTo(frames []episode.Frame, static episode.StaticInfo, target int) []TransientObject {
	t.Reset()
	var out []TransientObject
	for i := 0; i <= target && i < len(frames); i++ {
		out = t.Observe(frames[i], static)
	}
	return out
}

// At is the stateless seek path: the transient set at target, computed by
// replaying the reconciliation rule from frame 0. Pure; shares no state
// with any live Tracker.
func At(frames []episode.Frame, static episode.StaticInfo, target int) []TransientObject {
	t := NewTracker()
	return t.SeekTo(frames, static, target)
}

// reconcile applies the drop/pick-up/catch-up rule for one consecutive
// frame pair and returns the updated transient set.
func reconcile(prev, cur episode.Frame, static episode.StaticInfo, transients []TransientObject) []TransientObject {
	out := copyTransients(transients)

	for i, player := range cur.Players {
		if i >= len(prev.Players) {
			continue
		}
		prevPlayer := prev.Players[i]
		prevHeld := prevPlayer.HeldObject
		curHeld := player.HeldObject

		// Put down: held in the previous frame, empty-handed now. The
		// object lands on the cell the agent faced, unless that cell is a
		// pot or the serving window (those consume it immediately).
		if prevHeld != nil && curHeld == nil && placeable(prevHeld.Name) {
			target := frontCell(prevPlayer)
			if static.InBounds(target) {
				cell := static.CellAt(target)
				if cell != episode.CellPot && cell != episode.CellServing {
					out = append(out, TransientObject{Name: prevHeld.Name, Position: target})
				}
			}
		}

		// Pick up: empty-handed before, holding now. Remove the matching
		// transient from the cell the agent faced in the previous frame.
		if prevHeld == nil && curHeld != nil && placeable(curHeld.Name) {
			target := frontCell(prevPlayer)
			out = removeFirst(out, curHeld.Name, target)
		}
	}

	// The authoritative object list has caught up wherever a real object
	// now matches a transient by name and position.
	kept := out[:0]
	for _, tr := range out {
		if !hasRealObject(cur.Objects, tr.Name, tr.Position) {
			kept = append(kept, tr)
		}
	}
	return kept
}

func removeFirst(list []TransientObject, name string, pos episode.Position) []TransientObject {
	for i, tr := range list {
		if tr.Name == name && tr.Position == pos {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func hasRealObject(objects []episode.ObjectState, name string, pos episode.Position) bool {
	for _, o := range objects {
		if o.Name == name && o.Position == pos {
			return true
		}
	}
	return false
}

func copyTransients(list []TransientObject) []TransientObject {
	if len(list) == 0 {
		return nil
	}
	out := make([]TransientObject, len(list))
	copy(out, list)
	return out
}
