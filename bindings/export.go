package bindings

import (
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"trajview/internal/export"
)

// BuildExport assembles the error-annotation payload for the current
// session without writing anything, for frontend preview and tests. With
// no episode loaded it returns ok=false and the frontend shows nothing.
func (vm *ViewerModule) BuildExport() (export.Payload, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if !vm.store.Loaded() {
		return export.Payload{}, false
	}
	p := export.Build(
		vm.store.FileName(),
		vm.ledger.Markers(),
		vm.ledger.Intervals(),
		vm.store.TotalFrames(),
	)
	return p, true
}

// ExportAnnotations writes the payload to a user-chosen path and returns
// it. A no-op (empty path, no error) with no episode loaded or when the
// user cancels the dialog.
func (vm *ViewerModule) ExportAnnotations() (string, error) {
	payload, ok := vm.BuildExport()
	if !ok {
		return "", nil
	}

	path, err := runtime.SaveFileDialog(vm.ctx, runtime.SaveDialogOptions{
		Title:           "Export annotations",
		DefaultFilename: export.DefaultFileName,
		Filters: []runtime.FileFilter{
			{DisplayName: "JSON (*.json)", Pattern: "*.json"},
		},
	})
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", nil // user cancelled
	}

	if err := export.WriteFile(path, payload); err != nil {
		return "", err
	}
	return path, nil
}
