package uistate

import (
	"sync"
	"time"
)

// Extraction names an expensive per-state routine.
type Extraction int

const (
	ExtractWorkbench Extraction = iota + 1
	ExtractBlueprints
	ExtractTracked
	ExtractMap
)

func (e Extraction) String() string {
	switch e {
	case ExtractWorkbench:
		return "workbench"
	case ExtractBlueprints:
		return "blueprints"
	case ExtractTracked:
		return "tracked"
	case ExtractMap:
		return "map"
	default:
		return "unknown"
	}
}

// MarshalText encodes the extraction by name.
func (e Extraction) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// Cooldowns gate each extraction to at most once per interval.
type Cooldowns struct {
	mu    sync.Mutex
	every map[Extraction]time.Duration
	last  map[Extraction]time.Time
}

// NewCooldowns creates cooldowns with the given intervals.
func NewCooldowns(every map[Extraction]time.Duration) *Cooldowns {
	e := make(map[Extraction]time.Duration, len(every))
	for k, v := range every {
		e[k] = v
	}
	return &Cooldowns{every: e, last: map[Extraction]time.Time{}}
}

// Allow reports whether kind may run at now and, if so, starts its interval.
func (c *Cooldowns) Allow(kind Extraction, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if last, ok := c.last[kind]; ok && now.Sub(last) < c.every[kind] {
		return false
	}
	c.last[kind] = now
	return true
}

// Reset lets kind run on the next Allow.
func (c *Cooldowns) Reset(kind Extraction) {
	c.mu.Lock()
	delete(c.last, kind)
	c.mu.Unlock()
}
