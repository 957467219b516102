package ui

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"

	"github.com/beatcut/beatcut-agent/internal/catalog"
)

type Tray struct {
	catalogSvc catalog.CatalogService
	runner     *catalog.Runner
	logger     *slog.Logger

	statusItem *systray.MenuItem
	assetsItem *systray.MenuItem
	clipsItem  *systray.MenuItem
	pauseItem  *systray.MenuItem

	mu sync.Mutex

	onImportFolder func() error
	onQuit         func()
}

type TrayConfig struct {
	CatalogService catalog.CatalogService
	Runner         *catalog.Runner
	Logger         *slog.Logger
	OnImportFolder func() error
	OnQuit         func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		catalogSvc:     cfg.CatalogService,
		runner:         cfg.Runner,
		logger:         cfg.Logger,
		onImportFolder: cfg.OnImportFolder,
		onQuit:         cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("BeatCut")
	systray.SetTooltip("BeatCut Agent")

	t.statusItem = systray.AddMenuItem("Status: Idle", "Current agent status")
	t.statusItem.Disable()

	t.assetsItem = systray.AddMenuItem("Assets: 0", "Imported source assets")
	t.assetsItem.Disable()

	t.clipsItem = systray.AddMenuItem("Pool clips: 0", "Usable pool clips")
	t.clipsItem.Disable()

	systray.AddSeparator()

	t.pauseItem = systray.AddMenuItem("Pause", "Pause catalog imports")

	importItem := systray.AddMenuItem("Import Catalog...", "Import a catalog folder")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit BeatCut Agent")

	go func() {
		for {
			select {
			case <-t.pauseItem.ClickedCh:
				t.togglePause()
			case <-importItem.ClickedCh:
				t.handleImportFolder()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) togglePause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.runner == nil {
		return
	}

	if t.runner.IsPaused() {
		t.runner.Resume()
		t.pauseItem.SetTitle("Pause")
		t.statusItem.SetTitle("Status: Idle")
	} else {
		t.runner.Pause()
		t.pauseItem.SetTitle("Resume")
		t.statusItem.SetTitle("Status: Paused")
	}
}

func (t *Tray) handleImportFolder() {
	if t.onImportFolder != nil {
		if err := t.onImportFolder(); err != nil {
			t.logger.Error("failed to import folder", "error", err)
		}
	}
}

func (t *Tray) UpdateStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.runner != nil && t.runner.IsPaused() {
		return
	}
	t.statusItem.SetTitle("Status: " + status)
}

func (t *Tray) UpdateAssetsCount(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.assetsItem.SetTitle(fmt.Sprintf("Assets: %d", count))
}

func (t *Tray) UpdateClipsCount(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clipsItem.SetTitle(fmt.Sprintf("Pool clips: %d", count))
}

func (t *Tray) Quit() {
	systray.Quit()
}
