package core

import (
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// Ticker drives the passive state tick at a fixed interval while Active
// reports true. Tick must not block; the orchestrator's Tick dispatches and
// refuses overlapping runs.
type Ticker struct {
	every  time.Duration
	active func() bool
	tick   func() bool
	logger *slog.Logger

	mu   sync.Mutex
	done chan struct{}
	wg   sync.WaitGroup

	fired   atomic.Uint64
	idle    atomic.Uint64
	refused atomic.Uint64
}

// NewTicker creates a stopped ticker firing every millis milliseconds.
func NewTicker(millis int, active func() bool, tick func() bool, logger *slog.Logger) *Ticker {
	if millis <= 0 {
		millis = 750
	}
	return &Ticker{every: time.Duration(millis) * time.Millisecond, active: active, tick: tick, logger: logger}
}

// Start launches the loop. Idempotent.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done != nil {
		return
	}
	t.done = make(chan struct{})
	t.wg.Add(1)
	go t.loop(t.done)
}

// Stop ends the loop and waits for it to exit. Idempotent.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if t.done == nil {
		t.mu.Unlock()
		return
	}
	close(t.done)
	t.done = nil
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *Ticker) loop(done chan struct{}) {
	defer t.wg.Done()
	tk := time.NewTicker(t.every)
	defer tk.Stop()
	for {
		select {
		case <-tk.C:
			t.fire()
		case <-done:
			return
		}
	}
}

func (t *Ticker) fire() {
	defer func() {
		if r := recover(); r != nil && t.logger != nil {
			t.logger.Error("ticker panic", "error", r, "stack", string(debug.Stack()))
		}
	}()
	if t.active != nil && !t.active() {
		t.idle.Add(1)
		return
	}
	if t.tick == nil || !t.tick() {
		t.refused.Add(1)
		return
	}
	t.fired.Add(1)
}

// TickerStats counts loop iterations by outcome.
type TickerStats struct {
	Fired   uint64 `json:"fired"`
	Idle    uint64 `json:"idle"`
	Refused uint64 `json:"refused"`
}

func (t *Ticker) Stats() TickerStats {
	return TickerStats{Fired: t.fired.Load(), Idle: t.idle.Load(), Refused: t.refused.Load()}
}
