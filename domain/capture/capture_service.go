package capture

import (
	"image"
	"log/slog"
	"sync/atomic"
	"time"
)

const captureStatsLogInterval = 30 * time.Second

// CaptureService is a Source that records timing and failure counts for the
// wrapped source. Use NewCaptureService to construct an instance.
type CaptureService interface {
	Source
	Stats() CaptureStats
}

type captureService struct {
	src          Source
	logger       *slog.Logger
	captures     atomic.Uint64
	failures     atomic.Uint64
	captureNanos atomic.Uint64
	lastArea     atomic.Int64
	lastAt       atomic.Int64
	lastLog      atomic.Int64
}

// NewCaptureService wraps src with instrumentation.
func NewCaptureService(src Source, logger *slog.Logger) CaptureService {
	return &captureService{src: src, logger: logger}
}

func (s *captureService) ScreenBounds() image.Rectangle { return s.src.ScreenBounds() }

func (s *captureService) Capture(r image.Rectangle) (FrameBuffer, error) {
	start := time.Now()
	fb, err := s.src.Capture(r)
	if err != nil {
		s.failures.Add(1)
		if s.logger != nil {
			s.logger.Warn("capture failed", "rect", r.String(), "error", err)
		}
		return FrameBuffer{}, err
	}
	s.captureNanos.Add(uint64(time.Since(start).Nanoseconds()))
	s.captures.Add(1)
	s.lastArea.Store(int64(fb.Width * fb.Height))
	now := time.Now()
	s.lastAt.Store(now.UnixNano())
	if last := s.lastLog.Load(); now.UnixNano()-last >= int64(captureStatsLogInterval) && s.lastLog.CompareAndSwap(last, now.UnixNano()) {
		s.logStats()
	}
	return fb, nil
}

func (s *captureService) Stats() CaptureStats {
	captures := s.captures.Load()
	total := s.captureNanos.Load()
	var avg time.Duration
	avgMicros := 0.0
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
		avgMicros = float64(avg) / float64(time.Microsecond)
	}
	var last time.Time
	if ns := s.lastAt.Load(); ns > 0 {
		last = time.Unix(0, ns)
	}
	return CaptureStats{
		Captures:         captures,
		Failures:         s.failures.Load(),
		AvgCapture:       avg,
		AvgCaptureMicros: avgMicros,
		LastCapture:      last,
		LastArea:         int(s.lastArea.Load()),
	}
}

func (s *captureService) logStats() {
	if s.logger == nil {
		return
	}
	stats := s.Stats()
	s.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"failures", stats.Failures,
		"avg_capture", stats.AvgCapture,
		"last_area", stats.LastArea,
	)
}
