package bindings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"trajview/internal/episode"
	"trajview/internal/library"
)

// LibraryModule owns the sqlite episode library and is bound to Wails for
// the round/episode picker. Loading an entry hands the stored payload to
// the viewer, which re-runs the normalizer; the library itself never holds
// adapted frames.
type LibraryModule struct {
	ctx    context.Context
	store  *library.Store
	viewer *ViewerModule

	maxFrames int
}

// NewLibraryModule opens (or creates) the library database at dbPath.
func NewLibraryModule(dbPath string, maxFrames int, viewer *ViewerModule) (*LibraryModule, error) {
	store, err := library.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open episode library: %w", err)
	}
	return &LibraryModule{store: store, viewer: viewer, maxFrames: maxFrames}, nil
}

// Startup is called by Wails on application startup.
func (lm *LibraryModule) Startup(ctx context.Context) {
	lm.ctx = ctx
}

// Shutdown closes the database.
func (lm *LibraryModule) Shutdown(ctx context.Context) error {
	return lm.store.Close()
}

// ImportEpisodeFile lets the user pick a trajectory JSON and files it
// under the given round label. The file is adapted once to validate it and
// record its dimensions; the raw payload is what gets stored.
func (lm *LibraryModule) ImportEpisodeFile(round string) (library.Entry, error) {
	path, err := runtime.OpenFileDialog(lm.ctx, runtime.OpenDialogOptions{
		Title: "Import trajectory file",
		Filters: []runtime.FileFilter{
			{DisplayName: "Trajectory JSON (*.json)", Pattern: "*.json"},
		},
	})
	if err != nil {
		return library.Entry{}, err
	}
	if path == "" {
		return library.Entry{}, nil // user cancelled
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return library.Entry{}, fmt.Errorf("read trajectory %s: %w", path, err)
	}

	fileName := filepath.Base(path)
	ep, _, err := episode.Adapt(data, fileName, lm.maxFrames)
	if err != nil {
		return library.Entry{}, err
	}
	if round == "" {
		round = ep.StaticInfo.Layout()
	}

	return lm.store.Import(lm.ctx, fileName, round,
		ep.StaticInfo.Width, ep.StaticInfo.Height, len(ep.Frames), data)
}

// ListEpisodes returns the entries for one round, or all of them when
// round is empty.
func (lm *LibraryModule) ListEpisodes(round string) ([]library.Entry, error) {
	return lm.store.List(lm.ctx, round)
}

// Rounds returns the distinct round labels in the library.
func (lm *LibraryModule) Rounds() ([]string, error) {
	return lm.store.Rounds(lm.ctx)
}

// LoadEpisode installs a library entry as the viewer's current episode.
func (lm *LibraryModule) LoadEpisode(id string) (LoadResult, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return LoadResult{}, fmt.Errorf("invalid episode id: %w", err)
	}
	fileName, payload, err := lm.store.Payload(lm.ctx, parsed)
	if err != nil {
		return LoadResult{}, err
	}
	return lm.viewer.LoadEpisodeJSON(fileName, string(payload))
}

// DeleteEpisode removes an entry and its payload.
func (lm *LibraryModule) DeleteEpisode(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid episode id: %w", err)
	}
	return lm.store.Delete(lm.ctx, parsed)
}

// UpdateNotes sets the notes field on an entry.
func (lm *LibraryModule) UpdateNotes(id string, notes string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid episode id: %w", err)
	}
	return lm.store.UpdateNotes(lm.ctx, parsed, notes)
}
