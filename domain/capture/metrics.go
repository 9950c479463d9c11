package capture

import "time"

// CaptureStats summarises capture behaviour for instrumentation.
type CaptureStats struct {
	Captures         uint64        `json:"captures"`
	Failures         uint64        `json:"failures"`
	AvgCapture       time.Duration `json:"avg_capture"`
	AvgCaptureMicros float64       `json:"avg_capture_micros"`
	LastCapture      time.Time     `json:"last_capture"`
	LastArea         int           `json:"last_area"`
}
