// Package debug exposes runtime diagnostics: periodic loggers for goroutine
// and memory growth, and an HTTP server for inspecting and driving the
// recognizer. Everything here is started only in debug mode.
package debug

import (
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"
)

// RuntimeSnapshot is one sample of goroutine and memory usage.
type RuntimeSnapshot struct {
	Goroutines uint64 `json:"goroutines"`
	StackInuse uint64 `json:"stack_inuse"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	HeapInuse  uint64 `json:"heap_inuse"`
	HeapIdle   uint64 `json:"heap_idle"`
	HeapSys    uint64 `json:"heap_sys"`
	NextGC     uint64 `json:"next_gc"`
	NumGC      uint32 `json:"num_gc"`
	RSS        uint64 `json:"rss"` // 0 where the platform cannot report it
}

// ReadRuntime samples the runtime. It stops the world briefly for MemStats.
func ReadRuntime() RuntimeSnapshot {
	samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
	metrics.Read(samples)
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s := RuntimeSnapshot{
		StackInuse: ms.StackInuse,
		HeapAlloc:  ms.HeapAlloc,
		HeapInuse:  ms.HeapInuse,
		HeapIdle:   ms.HeapIdle,
		HeapSys:    ms.HeapSys,
		NextGC:     ms.NextGC,
		NumGC:      ms.NumGC,
	}
	if samples[0].Value.Kind() == metrics.KindUint64 {
		s.Goroutines = samples[0].Value.Uint64()
	}
	if rss, ok := residentSetSize(); ok {
		s.RSS = rss
	}
	return s
}

// StartRuntimeLogger logs a RuntimeSnapshot every interval until done is
// closed. Used to rule out goroutine or native memory growth across long
// sessions of OCR and capture.
func StartRuntimeLogger(interval time.Duration, logger *slog.Logger, done <-chan struct{}) {
	if logger == nil {
		return
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				s := ReadRuntime()
				logger.Info("runtime",
					slog.Uint64("goroutines", s.Goroutines),
					slog.Uint64("stack_inuse", s.StackInuse),
					slog.Uint64("heap_alloc", s.HeapAlloc),
					slog.Uint64("heap_inuse", s.HeapInuse),
					slog.Uint64("heap_idle", s.HeapIdle),
					slog.Uint64("heap_sys", s.HeapSys),
					slog.Uint64("next_gc", s.NextGC),
					slog.Uint64("num_gc", uint64(s.NumGC)),
					slog.Uint64("rss", s.RSS),
				)
			case <-done:
				return
			}
		}
	}()
}
