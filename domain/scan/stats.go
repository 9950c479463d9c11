package scan

import "sync/atomic"

type counters struct {
	ticks           atomic.Uint64
	ticksSkipped    atomic.Uint64
	ticksGated      atomic.Uint64
	captureFailures atomic.Uint64
	stateChanges    atomic.Uint64
	extractions     atomic.Uint64
	scans           atomic.Uint64
	scanFailures    atomic.Uint64
	fallbacks       atomic.Uint64
	panics          atomic.Uint64
}

// Stats is a snapshot of orchestrator counters.
type Stats struct {
	Ticks           uint64 `json:"ticks"`
	TicksSkipped    uint64 `json:"ticks_skipped"`
	TicksGated      uint64 `json:"ticks_gated"`
	CaptureFailures uint64 `json:"capture_failures"`
	StateChanges    uint64 `json:"state_changes"`
	Extractions     uint64 `json:"extractions"`
	Scans           uint64 `json:"scans"`
	ScanFailures    uint64 `json:"scan_failures"`
	Fallbacks       uint64 `json:"fallbacks"`
	Panics          uint64 `json:"panics"`
}

// Stats returns the current counters.
func (o *Orchestrator) Stats() Stats {
	c := &o.stats
	return Stats{
		Ticks:           c.ticks.Load(),
		TicksSkipped:    c.ticksSkipped.Load(),
		TicksGated:      c.ticksGated.Load(),
		CaptureFailures: c.captureFailures.Load(),
		StateChanges:    c.stateChanges.Load(),
		Extractions:     c.extractions.Load(),
		Scans:           c.scans.Load(),
		ScanFailures:    c.scanFailures.Load(),
		Fallbacks:       c.fallbacks.Load(),
		Panics:          c.panics.Load(),
	}
}
