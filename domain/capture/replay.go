package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // recorded frames may be JPEG
	"image/png"
	"os"
	"sync"
	"time"
)

// ReplaySource serves captures from a recorded full-screen frame. It backs
// offline runs against saved screenshots and synthetic test screens.
type ReplaySource struct {
	mu    sync.RWMutex
	frame FrameBuffer
}

// NewReplaySource serves crops of img, whose bounds define the screen.
func NewReplaySource(img *image.RGBA) *ReplaySource {
	s := &ReplaySource{}
	s.Set(img)
	return s
}

// LoadReplaySource decodes a PNG or JPEG screenshot from path.
func LoadReplaySource(path string) (*ReplaySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("replay: decode %s: %w", path, err)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Bounds().Min != (image.Point{}) {
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return NewReplaySource(rgba), nil
}

// Set swaps the recorded frame. In-flight captures keep the frame they copied from.
func (s *ReplaySource) Set(img *image.RGBA) {
	fb := FromRGBA(img, image.Point{}, time.Now())
	s.mu.Lock()
	s.frame = fb
	s.mu.Unlock()
}

// ScreenBounds returns the recorded frame bounds.
func (s *ReplaySource) ScreenBounds() image.Rectangle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame.Bounds()
}

// Capture returns a copy of r clipped to the recorded frame.
func (s *ReplaySource) Capture(r image.Rectangle) (FrameBuffer, error) {
	s.mu.RLock()
	frame := s.frame
	s.mu.RUnlock()
	if frame.Empty() {
		return FrameBuffer{}, errors.New("replay: no frame")
	}
	r = r.Intersect(frame.Bounds())
	if r.Empty() {
		return FrameBuffer{}, fmt.Errorf("replay: rect out of bounds screen=%v", frame.Bounds())
	}
	out := frame.Crop(r)
	out.CapturedAt = time.Now()
	return out, nil
}

// SavePNG writes region r of fb to path; used when dumping debug frames.
func SavePNG(fb FrameBuffer, r image.Rectangle, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.Image(r))
}
