package scan

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/soocke/loot-lens-go/domain/capture"
	"github.com/soocke/loot-lens-go/domain/events"
	"github.com/soocke/loot-lens-go/domain/failure"
	"github.com/soocke/loot-lens-go/domain/uistate"
)

// TickReport summarizes one state pass.
type TickReport struct {
	Raw       uistate.State        `json:"raw"`
	Committed uistate.State        `json:"committed"`
	Changed   bool                 `json:"changed"`
	Gated     bool                 `json:"gated"`
	Extracted []uistate.Extraction `json:"extracted,omitempty"`
	Panicked  bool                 `json:"panicked,omitempty"`
}

// Tick starts a state pass on a worker goroutine. It returns false, and
// counts a skipped tick, when the previous pass is still running.
func (o *Orchestrator) Tick() bool {
	if !o.ticking.CompareAndSwap(false, true) {
		o.stats.ticksSkipped.Add(1)
		return false
	}
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer o.ticking.Store(false)
		defer o.recoverLog("tick panic")
		o.tick()
	}()
	return true
}

// RunTick is the synchronous Tick. ran is false only when another pass was
// in flight; a pass that panicked reports Panicked.
func (o *Orchestrator) RunTick() (rep TickReport, ran bool) {
	if !o.ticking.CompareAndSwap(false, true) {
		o.stats.ticksSkipped.Add(1)
		return TickReport{}, false
	}
	ran = true
	defer o.ticking.Store(false)
	defer func() {
		if r := recover(); r != nil {
			o.logPanic("tick panic", r)
			rep = TickReport{Panicked: true}
		}
	}()
	return o.tick(), true
}

func (o *Orchestrator) tick() TickReport {
	o.stats.ticks.Add(1)
	now := o.now()
	var rep TickReport
	fb, err := o.grab(o.screen())
	if err != nil {
		o.stats.captureFailures.Add(1)
		if o.gate != nil {
			o.gate.reset()
		}
		if o.logger != nil && failure.IsExternal(err) {
			o.logger.Warn("tick capture failed", "error", err)
		}
		rep.Committed, _ = o.machine.Committed()
		return rep
	}

	cls, gated := o.classify(fb)
	rep.Raw, rep.Gated = cls.State, gated
	tr, changed := o.machine.Observe(cls.State, now)
	if changed {
		o.onTransition(tr)
	}
	committed, since := o.machine.Committed()
	rep.Committed, rep.Changed = committed, changed

	o.mu.Lock()
	o.status.State, o.status.Since, o.status.Raw = committed, since, cls.State
	if cls.Map != "" {
		o.status.Map = cls.Map
	}
	mapID := o.status.Map
	o.mu.Unlock()

	if cls.State == committed {
		rep.Extracted = o.extract(fb, committed, mapID, now)
	}
	return rep
}

// classify runs the state checks unless the frame gate says nothing moved.
func (o *Orchestrator) classify(fb capture.FrameBuffer) (uistate.Classification, bool) {
	if o.gate != nil && o.gate.unchanged(fb) {
		o.mu.Lock()
		c, ok := o.lastClass, o.hasClass
		o.mu.Unlock()
		if ok {
			o.stats.ticksGated.Add(1)
			return c, true
		}
	}
	if o.classifier == nil {
		return uistate.Classification{State: uistate.Unknown}, false
	}
	c := o.classifier.Classify(fb)
	o.mu.Lock()
	o.lastClass, o.hasClass = c, true
	o.mu.Unlock()
	return c, false
}

func (o *Orchestrator) onTransition(tr uistate.Transition) {
	o.stats.stateChanges.Add(1)
	if o.logger != nil {
		o.logger.Info("state changed", "from", tr.From.String(), "to", tr.To.String(), "in_raid", tr.InRaid)
	}
	// A newly entered screen is read right away instead of waiting out the
	// previous screen's interval.
	for _, k := range []uistate.Extraction{uistate.ExtractWorkbench, uistate.ExtractBlueprints, uistate.ExtractTracked, uistate.ExtractMap} {
		o.cooldowns.Reset(k)
	}
	o.publish(events.StateChanged{From: tr.From, To: tr.To, InRaid: tr.InRaid, At: tr.At})
	if tr.LeftRaid {
		o.mu.Lock()
		o.status.Marker = nil
		o.status.Map = ""
		o.mu.Unlock()
		o.publish(events.MarkerCleared{At: tr.At})
	}
}

// extract runs the committed state's extraction when its cooldown allows.
func (o *Orchestrator) extract(fb capture.FrameBuffer, state uistate.State, mapID string, now time.Time) []uistate.Extraction {
	if o.extractor == nil {
		return nil
	}
	var kind uistate.Extraction
	switch state {
	case uistate.WorkshopMenu:
		kind = uistate.ExtractWorkbench
	case uistate.BlueprintMenu:
		kind = uistate.ExtractBlueprints
	case uistate.TrackedResourcesMenu:
		kind = uistate.ExtractTracked
	case uistate.MapView:
		kind = uistate.ExtractMap
	default:
		return nil
	}
	if !o.cooldowns.Allow(kind, now) {
		return nil
	}
	o.stats.extractions.Add(1)

	switch kind {
	case uistate.ExtractWorkbench:
		levels, err := o.extractor.WorkbenchLevels(fb)
		sig := ""
		if err == nil {
			sig = uistate.Signature(levels)
		}
		if o.levels.Offer(sig) {
			o.mu.Lock()
			o.status.Levels = levels
			o.mu.Unlock()
			o.logCommit(kind, sig)
			o.publish(events.WorkbenchLevels{Levels: levels, Signature: sig, At: now})
		}
	case uistate.ExtractBlueprints:
		ids, err := o.extractor.Blueprints(fb)
		sig := ""
		if err == nil {
			sig = uistate.SetSignature(ids)
		}
		if o.blueprints.Offer(sig) {
			o.mu.Lock()
			o.status.Blueprints = ids
			o.mu.Unlock()
			o.logCommit(kind, sig)
			o.publish(events.BlueprintsLearned{ItemIDs: ids, At: now})
		}
	case uistate.ExtractTracked:
		rows, err := o.extractor.Tracked(fb)
		sig := ""
		if err == nil {
			sig = trackedSignature(rows)
		}
		if o.tracked.Offer(sig) {
			o.mu.Lock()
			o.status.Tracked = rows
			o.mu.Unlock()
			o.logCommit(kind, sig)
			o.publish(events.TrackedResources{Rows: rows, At: now})
		}
	case uistate.ExtractMap:
		det, err := o.extractor.Map(fb, mapID)
		if err != nil {
			if o.logger != nil {
				o.logger.Debug("marker not found", "map", mapID, "reason", failure.Reason(err))
			}
			break
		}
		o.mu.Lock()
		o.status.Marker = &det
		o.mu.Unlock()
		o.publish(events.MarkerDetected{Map: mapID, Detection: det, At: now})
	}
	return []uistate.Extraction{kind}
}

func (o *Orchestrator) logCommit(kind uistate.Extraction, sig string) {
	if o.logger != nil {
		o.logger.Info("extraction committed", "extraction", kind.String(), "signature", sig)
	}
}

func trackedSignature(rows []uistate.TrackedResource) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = fmt.Sprintf("%s:%d/%d", r.ItemID, r.Have, r.Need)
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}
