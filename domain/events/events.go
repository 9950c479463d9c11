// Package events carries typed recognition results to their consumers.
package events

import (
	"image"
	"time"

	"github.com/soocke/loot-lens-go/domain/locate"
	"github.com/soocke/loot-lens-go/domain/textmatch"
	"github.com/soocke/loot-lens-go/domain/uistate"
)

// Event is anything published on the bus.
type Event interface {
	EventName() string
}

// ScanKind names a user-triggered scan.
type ScanKind int

const (
	ScanName ScanKind = iota + 1
	ScanIcon
	ScanTooltip
	ScanIconRect
)

func (k ScanKind) String() string {
	switch k {
	case ScanName:
		return "name"
	case ScanIcon:
		return "icon"
	case ScanTooltip:
		return "tooltip"
	case ScanIconRect:
		return "icon_rect"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k ScanKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// StateChanged is a committed UI state transition.
type StateChanged struct {
	From   uistate.State `json:"from"`
	To     uistate.State `json:"to"`
	InRaid bool          `json:"in_raid"`
	At     time.Time     `json:"at"`
}

// ScanResult is the outcome of an explicit scan. A failed scan carries a
// placeholder ("scan failed: <reason>") and Found=false.
type ScanResult struct {
	Kind        ScanKind                 `json:"kind"`
	Found       bool                     `json:"found"`
	Match       textmatch.MatchCandidate `json:"match"`
	Placeholder string                   `json:"placeholder,omitempty"`
	Point       image.Point              `json:"point"`
	Region      image.Rectangle          `json:"region"`
	Fallback    bool                     `json:"fallback"`
	Duration    time.Duration            `json:"duration"`
	At          time.Time                `json:"at"`
}

// Label is the text a consumer shows for the result.
func (r ScanResult) Label() string {
	if !r.Found {
		return r.Placeholder
	}
	return r.Match.Name
}

// MarkerDetected is a fresh player position on the map view.
type MarkerDetected struct {
	Map       string           `json:"map"`
	Detection locate.Detection `json:"detection"`
	At        time.Time        `json:"at"`
}

// MarkerCleared is published when a raid-scoped state is left.
type MarkerCleared struct {
	At time.Time `json:"at"`
}

// WorkbenchLevels is a debounced workbench level mapping.
type WorkbenchLevels struct {
	Levels    map[string]int `json:"levels"`
	Signature string         `json:"signature"`
	At        time.Time      `json:"at"`
}

// BlueprintsLearned is a debounced set of learned blueprints.
type BlueprintsLearned struct {
	ItemIDs []string  `json:"item_ids"`
	At      time.Time `json:"at"`
}

// TrackedResources is the latest tracked resources panel.
type TrackedResources struct {
	Rows []uistate.TrackedResource `json:"rows"`
	At   time.Time                 `json:"at"`
}

func (StateChanged) EventName() string      { return "state_changed" }
func (ScanResult) EventName() string        { return "scan_result" }
func (MarkerDetected) EventName() string    { return "marker_detected" }
func (MarkerCleared) EventName() string     { return "marker_cleared" }
func (WorkbenchLevels) EventName() string   { return "workbench_levels" }
func (BlueprintsLearned) EventName() string { return "blueprints_learned" }
func (TrackedResources) EventName() string  { return "tracked_resources" }
