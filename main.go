package main

import (
	"context"
	"embed"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
	wruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"trajview/bindings"
	"trajview/internal/config"
)

//go:embed all:frontend/dist
var assets embed.FS

const (
	appConfigDirName = "trajview"
	configFileName   = "config.toml"
	libraryDBName    = "episodes.db"
)

var (
	appCtx   context.Context
	appCtxMu sync.RWMutex
)

func main() {
	log.Printf("Starting trajectory viewer (Go %s)...", runtime.Version())

	cfg, err := config.Load(filepath.Join(appDataDir(), configFileName))
	if err != nil {
		log.Printf("config load failed, using defaults: %v", err)
	}

	viewer := bindings.NewViewerModule(cfg)

	dbPath := cfg.Library.DBPath
	if dbPath == "" {
		dbPath = defaultLibraryDBPath()
	}
	lib, err := bindings.NewLibraryModule(dbPath, cfg.Episode.MaxFrames, viewer)
	if err != nil {
		log.Fatalf("episode library init failed: %v", err)
	}

	startup := func(ctx context.Context) {
		viewer.Startup(ctx)
		lib.Startup(ctx)
		setAppContext(ctx)
	}

	beforeClose := func(ctx context.Context) (prevent bool) {
		viewer.Shutdown(ctx)
		if err := lib.Shutdown(ctx); err != nil {
			log.Printf("library shutdown error: %v", err)
		}
		setAppContext(nil)
		log.Println("Application is closing")
		return false
	}

	if err := wails.Run(&options.App{
		Title:            "Overcooked Trajectory Viewer",
		Width:            1440,
		Height:           900,
		MinWidth:         1024,
		MinHeight:        720,
		WindowStartState: options.Normal,
		BackgroundColour: &options.RGBA{R: 13, G: 13, B: 13, A: 255},

		AssetServer: &assetserver.Options{
			Assets: assets,
		},

		OnStartup:     startup,
		OnBeforeClose: beforeClose,
		OnShutdown: func(ctx context.Context) {
			log.Println("Application shutdown complete")
		},

		Menu: buildAppMenu(viewer),

		Bind: []interface{}{viewer, lib},

		LogLevel:           logger.INFO,
		LogLevelProduction: logger.ERROR,

		ErrorFormatter: func(err error) any {
			if err == nil {
				return nil
			}
			return err.Error()
		},

		SingleInstanceLock: &options.SingleInstanceLock{
			UniqueId: "7b5a1f62-93dc-4f0e-b41a-trajview-viewer",
			OnSecondInstanceLaunch: func(data options.SecondInstanceData) {
				log.Printf("Second instance launch prevented. Args: %v", data.Args)
			},
		},

		Windows: &windows.Options{
			Theme: windows.SystemDefault,
		},
		Mac: &mac.Options{
			About: &mac.AboutInfo{
				Title:   "Overcooked Trajectory Viewer",
				Message: "Replays recorded multi-agent cooking episodes and exports error annotations.\n\nAll data is processed locally.",
			},
		},
		Linux: &linux.Options{
			ProgramName:      "trajview",
			WebviewGpuPolicy: linux.WebviewGpuPolicyAlways,
		},
	}); err != nil {
		log.Fatalf("Error running Wails app: %v", err)
	}

	log.Println("Application exited normally")
}

func defaultLibraryDBPath() string {
	base := appDataDir()
	if err := os.MkdirAll(base, 0o755); err != nil {
		log.Printf("appdata mkdir failed: %v; using working directory", err)
		return filepath.Join(".", libraryDBName)
	}
	return filepath.Join(base, libraryDBName)
}

// appDataDir returns an OS-appropriate writable directory.
func appDataDir() string {
	if d, err := os.UserConfigDir(); err == nil && d != "" {
		return filepath.Join(d, appConfigDirName)
	}
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return filepath.Join(h, "."+appConfigDirName)
	}
	return "."
}

func buildAppMenu(viewer *bindings.ViewerModule) *menu.Menu {
	rootMenu := menu.NewMenu()

	if runtime.GOOS == "darwin" {
		if appMenu := menu.AppMenu(); appMenu != nil {
			rootMenu.Append(appMenu)
		}
	}

	fileMenu := menu.NewMenu()
	fileMenu.AddText("Open Trajectory…", keys.CmdOrCtrl("o"), func(_ *menu.CallbackData) {
		withAppContext(func(ctx context.Context) {
			if _, err := viewer.OpenEpisodeDialog(); err != nil {
				log.Printf("open trajectory failed: %v", err)
			}
		})
	})
	fileMenu.AddText("Export Annotations…", keys.CmdOrCtrl("e"), func(_ *menu.CallbackData) {
		withAppContext(func(ctx context.Context) {
			if _, err := viewer.ExportAnnotations(); err != nil {
				log.Printf("export failed: %v", err)
			}
		})
	})
	fileMenu.AddSeparator()
	fileMenu.AddText("Quit", keys.CmdOrCtrl("q"), func(_ *menu.CallbackData) {
		withAppContext(func(ctx context.Context) {
			wruntime.Quit(ctx)
		})
	})
	rootMenu.Append(menu.SubMenu("File", fileMenu))

	viewMenu := menu.NewMenu()
	viewMenu.AddText("Reload Frontend", keys.CmdOrCtrl("r"), func(_ *menu.CallbackData) {
		withAppContext(func(ctx context.Context) {
			wruntime.WindowReloadApp(ctx)
		})
	})
	viewMenu.AddText("Toggle Fullscreen", keys.Combo("f", keys.CmdOrCtrlKey, keys.ShiftKey), func(_ *menu.CallbackData) {
		withAppContext(func(ctx context.Context) {
			if wruntime.WindowIsFullscreen(ctx) {
				wruntime.WindowUnfullscreen(ctx)
				return
			}
			wruntime.WindowFullscreen(ctx)
		})
	})
	rootMenu.Append(menu.SubMenu("View", viewMenu))

	return rootMenu
}

func setAppContext(ctx context.Context) {
	appCtxMu.Lock()
	defer appCtxMu.Unlock()
	appCtx = ctx
}

func withAppContext(action func(context.Context)) {
	appCtxMu.RLock()
	ctx := appCtx
	appCtxMu.RUnlock()
	if ctx == nil {
		log.Println("application context not initialised; ignoring menu action")
		return
	}
	action(ctx)
}
