// Package model holds the status window state. Models are plain values
// updated by presenters on the UI thread unless noted otherwise.
package model

import (
	"sort"
	"time"

	"github.com/soocke/loot-lens-go/domain/events"
	"github.com/soocke/loot-lens-go/domain/locate"
	"github.com/soocke/loot-lens-go/domain/uistate"
)

// StatusModel folds bus events into the latest known recognition status.
// No synchronization: it is only touched from the UI thread tick.
type StatusModel struct {
	state      uistate.State
	inRaid     bool
	since      time.Time
	scan       *events.ScanResult
	mapID      string
	marker     *locate.Detection
	levels     map[string]int
	blueprints []string
	tracked    []uistate.TrackedResource
}

// NewStatusModel returns an empty model (state unknown).
func NewStatusModel() *StatusModel { return &StatusModel{} }

// Apply folds ev into the model and reports whether anything changed.
func (m *StatusModel) Apply(ev events.Event) bool {
	if m == nil || ev == nil {
		return false
	}
	switch e := ev.(type) {
	case events.StateChanged:
		m.state, m.inRaid, m.since = e.To, e.InRaid, e.At
	case events.ScanResult:
		m.scan = &e
	case events.MarkerDetected:
		d := e.Detection
		m.mapID, m.marker = e.Map, &d
	case events.MarkerCleared:
		if m.marker == nil && m.mapID == "" {
			return false
		}
		m.mapID, m.marker = "", nil
	case events.WorkbenchLevels:
		m.levels = make(map[string]int, len(e.Levels))
		for k, v := range e.Levels {
			m.levels[k] = v
		}
	case events.BlueprintsLearned:
		m.blueprints = append([]string(nil), e.ItemIDs...)
	case events.TrackedResources:
		m.tracked = append([]uistate.TrackedResource(nil), e.Rows...)
	default:
		return false
	}
	return true
}

// State returns the committed state, whether it is raid scoped and when it
// was committed.
func (m *StatusModel) State() (uistate.State, bool, time.Time) {
	if m == nil {
		return uistate.Unknown, false, time.Time{}
	}
	return m.state, m.inRaid, m.since
}

// LastScan returns the most recent scan result, if any.
func (m *StatusModel) LastScan() (events.ScanResult, bool) {
	if m == nil || m.scan == nil {
		return events.ScanResult{}, false
	}
	return *m.scan, true
}

// Marker returns the last marker and its map; ok is false once cleared.
func (m *StatusModel) Marker() (mapID string, d locate.Detection, ok bool) {
	if m == nil || m.marker == nil {
		return "", locate.Detection{}, false
	}
	return m.mapID, *m.marker, true
}

// Level is one workbench level row.
type Level struct {
	Bench string
	Level int
}

// Levels returns the committed workbench levels sorted by bench id.
func (m *StatusModel) Levels() []Level {
	if m == nil {
		return nil
	}
	out := make([]Level, 0, len(m.levels))
	for k, v := range m.levels {
		out = append(out, Level{Bench: k, Level: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bench < out[j].Bench })
	return out
}

// Blueprints returns the learned blueprint ids.
func (m *StatusModel) Blueprints() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.blueprints...)
}

// Tracked returns the latest tracked resource rows.
func (m *StatusModel) Tracked() []uistate.TrackedResource {
	if m == nil {
		return nil
	}
	return append([]uistate.TrackedResource(nil), m.tracked...)
}
