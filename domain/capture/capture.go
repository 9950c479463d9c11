package capture

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/vova616/screenshot"
)

// ScreenSource captures from the primary display.
type ScreenSource struct{}

// NewScreenSource returns a Source backed by the screenshot library.
func NewScreenSource() *ScreenSource { return &ScreenSource{} }

// ScreenBounds returns the primary display rectangle, or an empty rectangle
// when it cannot be determined.
func (ScreenSource) ScreenBounds() image.Rectangle {
	r, err := screenshot.ScreenRect()
	if err != nil {
		return image.Rectangle{}
	}
	return r
}

// Capture grabs r (clipped to the screen).
func (s ScreenSource) Capture(r image.Rectangle) (FrameBuffer, error) {
	if r.Empty() {
		return FrameBuffer{}, errors.New("capture: empty rect")
	}
	screen := s.ScreenBounds()
	if !screen.Empty() {
		r = r.Intersect(screen)
		if r.Empty() {
			return FrameBuffer{}, fmt.Errorf("capture: rect out of bounds screen=%v", screen)
		}
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return FrameBuffer{}, fmt.Errorf("capture: %w", err)
	}
	return FromRGBA(img, r.Min, time.Now()), nil
}

// CaptureFull grabs the whole primary display.
func CaptureFull(src Source) (FrameBuffer, error) {
	b := src.ScreenBounds()
	if b.Empty() {
		return FrameBuffer{}, errors.New("capture: unknown screen bounds")
	}
	return src.Capture(b)
}

// NewSource returns the capture source for backend ("screenshot" or "gdi").
func NewSource(backend string) (Source, error) {
	switch backend {
	case "", "screenshot":
		return NewScreenSource(), nil
	case "gdi":
		return NewGDISource()
	default:
		return nil, fmt.Errorf("capture: unknown backend %q", backend)
	}
}
