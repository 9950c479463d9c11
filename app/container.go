package app

import (
	"log/slog"

	"github.com/soocke/loot-lens-go/app/core"
	"github.com/soocke/loot-lens-go/config"
	"github.com/soocke/loot-lens-go/ui/model"
	"github.com/soocke/loot-lens-go/ui/presenter"
	"github.com/soocke/loot-lens-go/ui/view"
)

// AppContainer assembles models, presenters and the root view around the
// recognition core.
type AppContainer struct {
	Config *config.Config
	Logger *slog.Logger
	Core   *core.Core

	Status   *model.StatusModel
	Raid     *model.RaidModel
	RootView *view.RootView

	// Presenters
	StatusPresenter   *presenter.StatusPresenter
	RaidPresenter     *presenter.RaidPresenter
	ScanningPresenter *presenter.ScanningPresenter
	RectPresenter     *presenter.RectPresenter
	FocusWatcher      *presenter.FocusWatcher
	Loop              *presenter.Loop
}

// BuildContainer constructs all components. The view is built by the app
// once Tk is ready; presenters only hold it.
func BuildContainer(c *core.Core) *AppContainer {
	ac := &AppContainer{Config: c.Config, Logger: c.Logger, Core: c}
	ac.Status = model.NewStatusModel()
	ac.Raid = model.NewRaidModel()
	ac.RootView = view.NewRootView(c.Logger)

	ac.StatusPresenter = presenter.NewStatusPresenter(ac.Status, ac.RootView)
	ac.RaidPresenter = presenter.NewRaidPresenter(ac.Raid, presenter.StatusRaid{Model: ac.Status}, ac.RootView)
	ac.ScanningPresenter = presenter.NewScanningPresenter(c.Scanning, c.Scanner, c.Scanner.PointerPosition, ac.RootView, c.Logger)
	ac.RectPresenter = presenter.NewRectPresenter(c.Scanner, ac.RootView)
	ac.FocusWatcher = presenter.NewFocusWatcher(c.Scanning, c.Logger, c.Foreground, func() string { return c.Config.GameWindow })
	c.Bus.Subscribe(ac.StatusPresenter.OnEvent)
	return ac
}
