// Package annotate keeps the user's error markers and their editable
// replay intervals.
package annotate

import (
	"strconv"
	"strings"
)

// OffsetField names the two editable interval bounds.
type OffsetField string

const (
	FieldStart OffsetField = "startOffset"
	FieldEnd   OffsetField = "endOffset"
)

// Defaults for a freshly created interval: a five-frame window centered on
// the marked frame.
const (
	DefaultStartOffset = -2
	DefaultEndOffset   = 2
)

// Interval is one annotation window anchored to the frame where the user
// pressed the mark key. BaseFrame never changes after creation; the offsets
// and reason are edited freely. Start past end is legal in storage and
// normalized by Resolve.
type Interval struct {
	BaseFrame   int    `json:"baseFrame"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	Reason      string `json:"reason"`
}

// Resolve translates the interval into absolute frame bounds: clamp both
// ends into [0, totalFrames-1], then swap if inverted. Recomputed on every
// call; the offsets are user-editable so a cached result would go stale.
func (iv Interval) Resolve(totalFrames int) (start, end int) {
	if totalFrames <= 0 {
		return 0, 0
	}
	start = clamp(iv.BaseFrame+iv.StartOffset, 0, totalFrames-1)
	end = clamp(iv.BaseFrame+iv.EndOffset, 0, totalFrames-1)
	if start > end {
		start, end = end, start
	}
	return start, end
}

// Ledger owns the raw marker list and the interval list. The two grow and
// shrink together: index i in both refers to the same annotation event.
// Editing is locked until the first full playback completes; marking is
// not. The viewer module serializes all access.
type Ledger struct {
	markers   []int
	intervals []Interval
	selected  int
	locked    bool
}

func NewLedger() *Ledger {
	return &Ledger{selected: -1, locked: true}
}

// Clear resets the ledger for a new episode: no markers, no selection,
// editing locked again.
func (l *Ledger) Clear() {
	l.markers = nil
	l.intervals = nil
	l.selected = -1
	l.locked = true
}

// Lock disables interval editing (playback started or episode reloaded).
func (l *Ledger) Lock() { l.locked = true }

// Unlock enables editing; called when a full playback run completes.
func (l *Ledger) Unlock() { l.locked = false }

func (l *Ledger) Locked() bool { return l.locked }

// Add appends a marker at frame together with its interval, and returns
// the new index. The caller guards against marking with no episode loaded.
func (l *Ledger) Add(frame int) int {
	l.markers = append(l.markers, frame)
	l.intervals = append(l.intervals, Interval{
		BaseFrame:   frame,
		StartOffset: DefaultStartOffset,
		EndOffset:   DefaultEndOffset,
	})
	return len(l.intervals) - 1
}

// EditOffset replaces one offset of interval i from raw user input. Input
// that does not parse as an integer is rejected with no mutation, as is any
// edit while the ledger is locked. Out-of-order bounds are not an error
// here; Resolve normalizes them. Reports whether the ledger changed.
func (l *Ledger) EditOffset(i int, field OffsetField, raw string) bool {
	if l.locked || i < 0 || i >= len(l.intervals) {
		return false
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return false
	}

	iv := l.intervals[i]
	switch field {
	case FieldStart:
		iv.StartOffset = value
	case FieldEnd:
		iv.EndOffset = value
	default:
		return false
	}
	l.intervals[i] = iv
	return true
}

// EditReason replaces interval i's note verbatim, any length.
func (l *Ledger) EditReason(i int, text string) bool {
	if l.locked || i < 0 || i >= len(l.intervals) {
		return false
	}
	iv := l.intervals[i]
	iv.Reason = text
	l.intervals[i] = iv
	return true
}

// Delete removes interval i and its raw marker together. A deleted active
// selection becomes no selection; a selection past the removed index shifts
// down with its interval.
func (l *Ledger) Delete(i int) bool {
	if l.locked || i < 0 || i >= len(l.intervals) {
		return false
	}
	l.markers = append(l.markers[:i], l.markers[i+1:]...)
	l.intervals = append(l.intervals[:i], l.intervals[i+1:]...)
	switch {
	case l.selected == i:
		l.selected = -1
	case l.selected > i:
		l.selected--
	}
	return true
}

// Select marks interval i as the single active one.
func (l *Ledger) Select(i int) bool {
	if l.locked || i < 0 || i >= len(l.intervals) {
		return false
	}
	l.selected = i
	return true
}

// Deselect clears the active selection.
func (l *Ledger) Deselect() { l.selected = -1 }

// Selected returns the active index, -1 for none.
func (l *Ledger) Selected() int { return l.selected }

func (l *Ledger) Len() int { return len(l.intervals) }

// Interval returns interval i by value.
func (l *Ledger) Interval(i int) (Interval, bool) {
	if i < 0 || i >= len(l.intervals) {
		return Interval{}, false
	}
	return l.intervals[i], true
}

// Markers returns a copy of the raw marker frames in creation order.
func (l *Ledger) Markers() []int {
	out := make([]int, len(l.markers))
	copy(out, l.markers)
	return out
}

// Intervals returns a copy of the interval list.
func (l *Ledger) Intervals() []Interval {
	out := make([]Interval, len(l.intervals))
	copy(out, l.intervals)
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
