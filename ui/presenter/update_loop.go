package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates on the UI
// thread. The zero value is usable (methods are nil-safe).
type Loop struct {
	Status   *StatusPresenter
	Raid     *RaidPresenter
	Schedule func()
}

func NewLoop(status *StatusPresenter, raid *RaidPresenter, schedule func()) *Loop {
	return &Loop{Status: status, Raid: raid, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	// status first so the raid clock sees this tick's committed state
	if l.Status != nil {
		l.Status.Tick(now)
	}
	if l.Raid != nil {
		l.Raid.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
