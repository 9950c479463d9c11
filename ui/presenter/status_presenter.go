package presenter

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/soocke/loot-lens-go/domain/events"
	"github.com/soocke/loot-lens-go/ui/model"
)

// StatusView shows the recognition status labels.
type StatusView interface {
	SetStateLabel(string)
	SetScanLabel(string)
	SetMarkerLabel(string)
	SetLevelsLabel(string)
}

// StatusPresenter receives bus events and reflects them in the view.
//
// OnEvent runs on the bus goroutine and only queues; Tick runs on the UI
// thread and folds the queue into the model before updating the view.
type StatusPresenter struct {
	model *model.StatusModel
	view  StatusView

	mu      sync.Mutex
	pending []events.Event
}

func NewStatusPresenter(m *model.StatusModel, view StatusView) *StatusPresenter {
	return &StatusPresenter{model: m, view: view}
}

// OnEvent queues ev for the next Tick. It is an events.Listener.
func (p *StatusPresenter) OnEvent(ev events.Event) {
	if p == nil || ev == nil {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, ev)
	p.mu.Unlock()
}

func (p *StatusPresenter) drain() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pending) == 0 {
		return nil
	}
	out := p.pending
	p.pending = nil
	return out
}

// Tick applies queued events in arrival order and refreshes the labels that
// changed.
func (p *StatusPresenter) Tick(now time.Time) {
	if p == nil || p.model == nil || p.view == nil {
		return
	}
	var state, scan, marker, levels bool
	for _, ev := range p.drain() {
		if !p.model.Apply(ev) {
			continue
		}
		switch ev.(type) {
		case events.StateChanged:
			state = true
		case events.ScanResult:
			scan = true
		case events.MarkerDetected, events.MarkerCleared:
			marker = true
		case events.WorkbenchLevels:
			levels = true
		}
	}
	if state {
		p.view.SetStateLabel(StateText(p.model))
	}
	if scan {
		p.view.SetScanLabel(ScanText(p.model))
	}
	if marker {
		p.view.SetMarkerLabel(MarkerText(p.model))
	}
	if levels {
		p.view.SetLevelsLabel(LevelsText(p.model))
	}
}

// StateText formats the committed state label.
func StateText(m *model.StatusModel) string {
	s, raid, _ := m.State()
	if raid {
		return "State: " + s.String() + " (raid)"
	}
	return "State: " + s.String()
}

// ScanText formats the last scan label.
func ScanText(m *model.StatusModel) string {
	sr, ok := m.LastScan()
	if !ok {
		return "Scan: <none>"
	}
	text := fmt.Sprintf("Scan (%s): %s", sr.Kind, sr.Label())
	if sr.Found {
		text += fmt.Sprintf(" [%s %.2f]", sr.Match.Method, sr.Match.Confidence)
	}
	if sr.Fallback {
		text += " via fallback"
	}
	return text
}

// MarkerText formats the marker label.
func MarkerText(m *model.StatusModel) string {
	id, d, ok := m.Marker()
	if !ok {
		return "Marker: <none>"
	}
	text := fmt.Sprintf("Marker: %s %.1f%%, %.1f%%", id, d.XPct*100, d.YPct*100)
	if d.Location != "" {
		text += " near " + d.Location
	}
	return text
}

// LevelsText formats the workbench levels label.
func LevelsText(m *model.StatusModel) string {
	levels := m.Levels()
	if len(levels) == 0 {
		return "Workbenches: <none>"
	}
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = fmt.Sprintf("%s %d", l.Bench, l.Level)
	}
	return "Workbenches: " + strings.Join(parts, ", ")
}
