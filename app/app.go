package app

import (
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/loot-lens-go/app/core"
	"github.com/soocke/loot-lens-go/ui/presenter"
	"github.com/soocke/loot-lens-go/ui/theme"
	"github.com/soocke/loot-lens-go/ui/view"
)

const tick = 100 * time.Millisecond

type app struct {
	c       *AppContainer
	logger  *slog.Logger
	afterID string
}

// NewApp creates the status window around an already built core.
func NewApp(title string, width, height int, c *core.Core) *app {
	a := &app{c: BuildContainer(c), logger: c.Logger}
	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))
	return a
}

// Start builds the UI, starts the ticker and focus watcher, and runs the Tk
// main loop until the window closes.
func (a *app) Start() {
	c := a.c
	theme.SetDark(c.Config.DarkUI)
	c.RootView.Build(view.Handlers{
		ToggleScanning: c.ScanningPresenter.Toggle,
		IconScan:       c.ScanningPresenter.IconScan,
		TooltipScan:    c.ScanningPresenter.TooltipScan,
		NameScan:       c.ScanningPresenter.NameScan,
		RectScan:       c.RectPresenter.Confirm,
		Exit:           a.exitHandler,
	})
	// focus changes arrive on the watcher goroutine; the flag is atomic and
	// the label follows on the next UI tick
	c.Loop = presenter.NewLoop(c.StatusPresenter, c.RaidPresenter, func() {
		c.RootView.SetFocus(c.Core.Scanning.Focused())
	})
	c.FocusWatcher.Start()
	c.Core.Ticker.Start()
	a.scheduleUpdate()
	App.Wait()
}

func (a *app) update() {
	defer a.scheduleUpdate()
	defer func() {
		if r := recover(); r != nil && a.logger != nil {
			a.logger.Error("ui update panic", "error", r)
		}
	}()
	a.c.Loop.Tick()
}

// scheduleUpdate stays on Tk's event loop thread via TclAfter.
func (a *app) scheduleUpdate() {
	a.afterID = TclAfter(tick, func() { a.update() })
}

func (a *app) exitHandler() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	a.c.FocusWatcher.Stop()
	a.c.Core.Close()
	Destroy(App)
}
