package capture

import (
	"image"
	"time"
)

// FrameBuffer is an immutable captured RGBA region. Pix holds 4 bytes per
// pixel (alpha ignored); Origin is the screen position of pixel (0,0).
// Consumers only read or Crop it; nothing retains a FrameBuffer past the
// analysis pass that acquired it.
type FrameBuffer struct {
	Pix        []byte
	Width      int
	Height     int
	Stride     int
	Origin     image.Point
	CapturedAt time.Time
}

// Source captures arbitrary screen rectangles on demand.
type Source interface {
	Capture(r image.Rectangle) (FrameBuffer, error)
	ScreenBounds() image.Rectangle
}

// FromRGBA wraps img without copying. The caller hands over ownership.
func FromRGBA(img *image.RGBA, origin image.Point, at time.Time) FrameBuffer {
	if img == nil {
		return FrameBuffer{Origin: origin, CapturedAt: at}
	}
	b := img.Bounds()
	off := img.PixOffset(b.Min.X, b.Min.Y)
	return FrameBuffer{
		Pix:        img.Pix[off:],
		Width:      b.Dx(),
		Height:     b.Dy(),
		Stride:     img.Stride,
		Origin:     origin,
		CapturedAt: at,
	}
}

// Empty reports whether the frame has no pixels.
func (f FrameBuffer) Empty() bool { return f.Width <= 0 || f.Height <= 0 || len(f.Pix) == 0 }

// Bounds returns the frame-local rectangle (0,0)-(Width,Height).
func (f FrameBuffer) Bounds() image.Rectangle { return image.Rect(0, 0, f.Width, f.Height) }

// RGB returns the colour at frame-local (x, y). Callers keep x, y in bounds.
func (f FrameBuffer) RGB(x, y int) (r, g, b uint8) {
	i := y*f.Stride + x*4
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Luma returns the integer luminance at (x, y).
func (f FrameBuffer) Luma(x, y int) uint8 {
	r, g, b := f.RGB(x, y)
	return Luma(r, g, b)
}

// Luma is the fixed-point BT.601 luminance used across the recognizer.
func Luma(r, g, b uint8) uint8 {
	return uint8((77*uint32(r) + 150*uint32(g) + 29*uint32(b)) >> 8)
}

// Crop copies r (clipped to the frame) into a new FrameBuffer.
func (f FrameBuffer) Crop(r image.Rectangle) FrameBuffer {
	r = r.Intersect(f.Bounds())
	if r.Empty() {
		return FrameBuffer{Origin: f.Origin.Add(r.Min), CapturedAt: f.CapturedAt}
	}
	w, h := r.Dx(), r.Dy()
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		src := (r.Min.Y+y)*f.Stride + r.Min.X*4
		copy(pix[y*w*4:(y+1)*w*4], f.Pix[src:src+w*4])
	}
	return FrameBuffer{Pix: pix, Width: w, Height: h, Stride: w * 4, Origin: f.Origin.Add(r.Min), CapturedAt: f.CapturedAt}
}

// Image copies region r into an *image.RGBA anchored at (0,0).
func (f FrameBuffer) Image(r image.Rectangle) *image.RGBA {
	c := f.Crop(r)
	out := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+c.Width*4], c.Pix[y*c.Stride:y*c.Stride+c.Width*4])
	}
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xFF
	}
	return out
}

// ScreenRect converts a frame-local rectangle to screen coordinates.
func (f FrameBuffer) ScreenRect(r image.Rectangle) image.Rectangle { return r.Add(f.Origin) }

// ToLocal converts a screen point to frame-local coordinates.
func (f FrameBuffer) ToLocal(p image.Point) image.Point { return p.Sub(f.Origin) }

// RelRect maps fractional coordinates (0..1) of the frame to a pixel rectangle.
func (f FrameBuffer) RelRect(x0, y0, x1, y1 float64) image.Rectangle {
	return image.Rect(
		int(x0*float64(f.Width)), int(y0*float64(f.Height)),
		int(x1*float64(f.Width)), int(y1*float64(f.Height)),
	).Intersect(f.Bounds())
}
