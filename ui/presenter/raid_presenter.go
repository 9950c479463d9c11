package presenter

import (
	"time"

	"github.com/soocke/loot-lens-go/ui/model"
)

// RaidSource reports whether the committed state is raid scoped.
type RaidSource interface{ InRaid() bool }

// RaidView displays the raid and total raid durations.
type RaidView interface {
	SetRaid(raid, total time.Duration, raids int)
}

// RaidPresenter advances the raid clock and pushes it to the view.
type RaidPresenter struct {
	raid *model.RaidModel
	src  RaidSource
	view RaidView
}

// NewRaidPresenter returns a new RaidPresenter.
func NewRaidPresenter(raid *model.RaidModel, src RaidSource, view RaidView) *RaidPresenter {
	return &RaidPresenter{raid: raid, src: src, view: view}
}

// Tick advances the raid model and pushes values to the view.
func (p *RaidPresenter) Tick(now time.Time) {
	if p == nil || p.raid == nil || p.src == nil || p.view == nil {
		return
	}
	p.raid.OnTick(p.src.InRaid(), now)
	r, t := p.raid.Values()
	p.view.SetRaid(r, t, p.raid.Raids())
}

// StatusRaid adapts the status model to RaidSource.
type StatusRaid struct{ Model *model.StatusModel }

func (s StatusRaid) InRaid() bool {
	_, raid, _ := s.Model.State()
	return raid
}
