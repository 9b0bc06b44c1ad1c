package bindings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"trajview/internal/annotate"
	"trajview/internal/config"
	"trajview/internal/episode"
	"trajview/internal/playback"
	"trajview/internal/reconstruct"
)

// FrameEvent is the Wails event carrying per-tick display state.
const FrameEvent = "viewer:frame"

// ViewerModule is the annotation viewer's control surface, bound to Wails
// so the frontend drives it directly. One mutex serializes the scheduler's
// ticks and every user action, the Go rendition of the original
// single-threaded animation loop: no operation spans ticks, and a mode
// switch can never race a stale tick.
type ViewerModule struct {
	ctx context.Context
	mu  sync.Mutex

	cfg     config.Config
	store   *episode.Store
	clock   *playback.Clock
	sched   *playback.Scheduler
	tracker *reconstruct.Tracker
	ledger  *annotate.Ledger

	// fed is the index of the last frame the live tracker observed;
	// backward jumps reseed it via the stateless replay path.
	fed      int
	warnings []string
}

// NewViewerModule builds the module; Startup wires the Wails context.
func NewViewerModule(cfg config.Config) *ViewerModule {
	return &ViewerModule{
		cfg:     cfg,
		store:   episode.NewStore(),
		clock:   playback.NewClock(cfg.FrameDuration()),
		sched:   playback.NewScheduler(cfg.TickInterval()),
		tracker: reconstruct.NewTracker(),
		ledger:  annotate.NewLedger(),
		fed:     -1,
	}
}

// Startup is called by Wails on application startup.
func (vm *ViewerModule) Startup(ctx context.Context) {
	vm.ctx = ctx
}

// Shutdown cancels any pending tick.
func (vm *ViewerModule) Shutdown(ctx context.Context) {
	vm.sched.Stop()
}

// Snapshot is the frontend-facing control state.
type Snapshot struct {
	HasEpisode  bool                `json:"hasEpisode"`
	FileName    string              `json:"fileName"`
	TotalFrames int                 `json:"totalFrames"`
	FrameIndex  int                 `json:"frameIndex"`
	Elapsed     float64             `json:"elapsedSeconds"`
	Progress    float64             `json:"progress"`
	Running     bool                `json:"running"`
	Mode        string              `json:"mode"`
	Locked      bool                `json:"locked"`
	Markers     []int               `json:"markers"`
	Intervals   []annotate.Interval `json:"intervals"`
	Selected    int                 `json:"selectedInterval"`
	MinOffset   int                 `json:"minOffset"`
	MaxOffset   int                 `json:"maxOffset"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// FrameUpdate is the per-tick display state pushed on FrameEvent.
type FrameUpdate struct {
	FrameIndex int                           `json:"frameIndex"`
	Elapsed    float64                       `json:"elapsedSeconds"`
	Progress   float64                       `json:"progress"`
	Running    bool                          `json:"running"`
	Mode       string                        `json:"mode"`
	Locked     bool                          `json:"locked"`
	Frame      episode.Frame                 `json:"frame"`
	Transients []reconstruct.TransientObject `json:"transients"`
	// CookingRemaining maps "x,y" pot cells to timesteps left.
	CookingRemaining map[string]int `json:"cookingRemaining,omitempty"`
	Delivered        int            `json:"delivered"`
}

// LoadResult reports what a trajectory load produced.
type LoadResult struct {
	FileName    string             `json:"fileName"`
	TotalFrames int                `json:"totalFrames"`
	Static      episode.StaticInfo `json:"staticInfo"`
	Warnings    []string           `json:"warnings,omitempty"`
	Snapshot    Snapshot           `json:"snapshot"`
}

// OpenEpisodeDialog lets the user pick a trajectory JSON and loads it.
func (vm *ViewerModule) OpenEpisodeDialog() (LoadResult, error) {
	path, err := runtime.OpenFileDialog(vm.ctx, runtime.OpenDialogOptions{
		Title: "Open trajectory file",
		Filters: []runtime.FileFilter{
			{DisplayName: "Trajectory JSON (*.json)", Pattern: "*.json"},
		},
	})
	if err != nil {
		return LoadResult{}, err
	}
	if path == "" {
		return LoadResult{}, nil // user cancelled
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("read trajectory %s: %w", path, err)
	}
	return vm.LoadEpisodeJSON(filepath.Base(path), string(data))
}

// LoadEpisodeJSON normalizes raw trajectory JSON and installs it as the
// current episode. Switching episodes cancels the pending tick chain and
// resets clock, ledger and tracker as one unit before the new frames
// become visible; nothing from the previous episode may leak through.
func (vm *ViewerModule) LoadEpisodeJSON(fileName string, data string) (LoadResult, error) {
	ep, warnings, err := episode.Adapt([]byte(data), fileName, vm.cfg.Episode.MaxFrames)
	if err != nil {
		return LoadResult{}, err
	}

	vm.sched.Stop()

	vm.mu.Lock()
	vm.store.Install(ep)
	vm.clock.SetTotalFrames(len(ep.Frames))
	vm.ledger.Clear()
	vm.tracker.Reset()
	vm.fed = -1
	vm.warnings = warnings
	if len(ep.Frames) > 0 {
		vm.tracker.Observe(ep.Frames[0], ep.StaticInfo)
		vm.fed = 0
	}
	res := LoadResult{
		FileName:    ep.FileName,
		TotalFrames: len(ep.Frames),
		Static:      ep.StaticInfo,
		Warnings:    warnings,
		Snapshot:    vm.snapshotLocked(),
	}
	vm.mu.Unlock()
	return res, nil
}

// Play starts (or resumes) full playback. A no-op while already running or
// with no episode. Editing locks again for the duration of the run; the
// run's completion unlocks it.
func (vm *ViewerModule) Play() Snapshot {
	vm.mu.Lock()
	started := vm.store.Loaded() && vm.clock.Play(time.Now())
	if started {
		vm.ledger.Lock()
		// Play from the last frame rewinds; resync the tracker if so.
		vm.resyncTrackerLocked(vm.clock.FrameIndex())
	}
	snap := vm.snapshotLocked()
	vm.mu.Unlock()

	if started {
		vm.sched.Start(vm.tick)
	}
	return snap
}

// Pause stops playback in place; resuming continues frame-accurately.
func (vm *ViewerModule) Pause() Snapshot {
	vm.sched.Stop()
	vm.mu.Lock()
	vm.clock.Pause()
	snap := vm.snapshotLocked()
	vm.mu.Unlock()
	return snap
}

// Reset rewinds to frame 0 and discards the whole annotation session for
// the loaded episode: markers, intervals, selection, and the editing
// unlock.
func (vm *ViewerModule) Reset() Snapshot {
	vm.sched.Stop()
	vm.mu.Lock()
	vm.clock.Reset()
	vm.ledger.Clear()
	vm.resyncTrackerLocked(0)
	snap := vm.snapshotLocked()
	vm.mu.Unlock()
	return snap
}

// Mark drops a raw marker plus its default interval at the current frame.
// Returns the new index, or -1 when no episode is loaded.
func (vm *ViewerModule) Mark() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if !vm.store.Loaded() {
		return -1
	}
	return vm.ledger.Add(vm.clock.FrameIndex())
}

// PlayInterval replays interval i's resolved window as a bounded segment.
// Allowed even while editing is locked (the raw timeline markers stay
// clickable throughout).
func (vm *ViewerModule) PlayInterval(i int) Snapshot {
	vm.mu.Lock()
	iv, ok := vm.ledger.Interval(i)
	started := false
	if ok && vm.store.Loaded() {
		start, end := iv.Resolve(vm.store.TotalFrames())
		started = vm.clock.PlaySegment(start, end, time.Now())
		if started {
			vm.resyncTrackerLocked(vm.clock.FrameIndex())
		}
	}
	snap := vm.snapshotLocked()
	vm.mu.Unlock()

	if started {
		vm.sched.Start(vm.tick)
	}
	return snap
}

// SelectInterval makes interval i the active one and replays its window.
func (vm *ViewerModule) SelectInterval(i int) Snapshot {
	vm.mu.Lock()
	selected := vm.ledger.Select(i)
	vm.mu.Unlock()
	if !selected {
		return vm.Snapshot()
	}
	return vm.PlayInterval(i)
}

// DeselectInterval clears the active selection.
func (vm *ViewerModule) DeselectInterval() Snapshot {
	vm.mu.Lock()
	vm.ledger.Deselect()
	snap := vm.snapshotLocked()
	vm.mu.Unlock()
	return snap
}

// EditOffset updates one bound of interval i from raw input. Non-integer
// input leaves the ledger untouched, silently.
func (vm *ViewerModule) EditOffset(i int, field string, value string) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.ledger.EditOffset(i, annotate.OffsetField(field), value)
}

// EditReason replaces interval i's note.
func (vm *ViewerModule) EditReason(i int, text string) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.ledger.EditReason(i, text)
}

// DeleteInterval removes interval i and its raw marker together.
func (vm *ViewerModule) DeleteInterval(i int) Snapshot {
	vm.mu.Lock()
	vm.ledger.Delete(i)
	snap := vm.snapshotLocked()
	vm.mu.Unlock()
	return snap
}

// Snapshot returns the current control state.
func (vm *ViewerModule) Snapshot() Snapshot {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.snapshotLocked()
}

// DisplayState returns the fully-resolved display state for the current
// frame, for frontends that pull instead of listening to FrameEvent.
func (vm *ViewerModule) DisplayState() FrameUpdate {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.displayLocked()
}

// tick is the scheduler callback: advance the clock, reconcile transients,
// push display state. Returning false ends this tick chain.
func (vm *ViewerModule) tick(now time.Time) bool {
	vm.mu.Lock()
	res := vm.clock.Tick(now)
	vm.resyncTrackerLocked(res.FrameIndex)
	if res.FullCompleted {
		vm.ledger.Unlock()
	}
	upd := vm.displayLocked()
	ctx := vm.ctx
	vm.mu.Unlock()

	if ctx != nil {
		runtime.EventsEmit(ctx, FrameEvent, upd)
	}
	// A pause that raced this tick also ends the chain.
	return !res.Stopped && upd.Running
}

// resyncTrackerLocked brings the live tracker to frame index idx. Forward
// motion feeds the skipped frames one by one; any backward jump (segment
// replay, reset, rewound play) rebuilds from the episode start so the
// result matches continuous playback exactly.
func (vm *ViewerModule) resyncTrackerLocked(idx int) {
	if !vm.store.Loaded() {
		return
	}
	frames := vm.store.Frames()
	static := vm.store.Static()
	if idx > len(frames)-1 {
		idx = len(frames) - 1
	}
	if idx < vm.fed {
		vm.tracker.SeekTo(frames, static, idx)
		vm.fed = idx
		return
	}
	for i := vm.fed + 1; i <= idx; i++ {
		vm.tracker.Observe(frames[i], static)
	}
	if idx > vm.fed {
		vm.fed = idx
	}
}

func (vm *ViewerModule) snapshotLocked() Snapshot {
	return Snapshot{
		HasEpisode:  vm.store.Loaded(),
		FileName:    vm.store.FileName(),
		TotalFrames: vm.store.TotalFrames(),
		FrameIndex:  vm.clock.FrameIndex(),
		Elapsed:     vm.clock.Elapsed().Seconds(),
		Progress:    vm.clock.Progress(),
		Running:     vm.clock.Running(),
		Mode:        string(vm.clock.CurrentMode()),
		Locked:      vm.ledger.Locked(),
		Markers:     vm.ledger.Markers(),
		Intervals:   vm.ledger.Intervals(),
		Selected:    vm.ledger.Selected(),
		MinOffset:   vm.cfg.Annotation.MinOffset,
		MaxOffset:   vm.cfg.Annotation.MaxOffset,
		Warnings:    vm.warnings,
	}
}

func (vm *ViewerModule) displayLocked() FrameUpdate {
	idx := vm.clock.FrameIndex()
	upd := FrameUpdate{
		FrameIndex: idx,
		Elapsed:    vm.clock.Elapsed().Seconds(),
		Progress:   vm.clock.Progress(),
		Running:    vm.clock.Running(),
		Mode:       string(vm.clock.CurrentMode()),
		Locked:     vm.ledger.Locked(),
	}
	frame, ok := vm.store.FrameAt(idx)
	if !ok {
		return upd
	}
	frames := vm.store.Frames()
	static := vm.store.Static()

	upd.Frame = frame
	upd.Transients = vm.tracker.Current()
	upd.Delivered = reconstruct.Delivered(frames, idx, static.Reward())

	if remaining := reconstruct.RemainingAll(frames, static, idx); len(remaining) > 0 {
		upd.CookingRemaining = make(map[string]int, len(remaining))
		for pos, left := range remaining {
			upd.CookingRemaining[fmt.Sprintf("%d,%d", pos.X, pos.Y)] = left
		}
	}
	return upd
}
