package model

import "time"

// RaidModel tracks the duration of the current raid and the time spent in
// raids overall. A raid starts when a raid-scoped state commits and ends when
// one that is not raid-scoped does. The zero value is ready to use.
type RaidModel struct {
	active   bool
	start    time.Time
	last     time.Duration
	total    time.Duration
	finished int
}

// NewRaidModel returns a ready-to-use RaidModel.
func NewRaidModel() *RaidModel { return &RaidModel{} }

// OnTick advances the model with the committed raid flag at now.
func (m *RaidModel) OnTick(inRaid bool, now time.Time) {
	if m == nil {
		return
	}
	switch {
	case inRaid && !m.active:
		m.active = true
		m.start = now
		m.last = 0
	case inRaid:
		m.last = now.Sub(m.start)
	case m.active:
		m.last = now.Sub(m.start)
		m.total += m.last
		m.finished++
		m.active = false
	}
}

// Values returns the current (or last) raid duration and the total raid
// time, including the ongoing raid.
func (m *RaidModel) Values() (raid, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	raid, total = m.last, m.total
	if m.active {
		total += raid
	}
	return raid, total
}

// Raids returns how many raids have ended.
func (m *RaidModel) Raids() int {
	if m == nil {
		return 0
	}
	return m.finished
}
