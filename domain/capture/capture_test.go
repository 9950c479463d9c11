package capture

import (
	"image"
	"image/color"
	"testing"
)

func patternImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), uint8(x + y), 255})
		}
	}
	return img
}

func TestFrameBufferCropCopiesAndOffsets(t *testing.T) {
	fb := FromRGBA(patternImage(50, 40), image.Pt(100, 200), timeZero)
	c := fb.Crop(image.Rect(10, 5, 30, 25))
	if c.Width != 20 || c.Height != 20 {
		t.Fatalf("unexpected crop size %dx%d", c.Width, c.Height)
	}
	if c.Origin != image.Pt(110, 205) {
		t.Fatalf("unexpected origin %v", c.Origin)
	}
	r, g, b := c.RGB(0, 0)
	if r != 10 || g != 5 || b != 15 {
		t.Fatalf("unexpected pixel %d,%d,%d", r, g, b)
	}
	c.Pix[0] = 99
	if r2, _, _ := fb.RGB(10, 5); r2 != 10 {
		t.Fatalf("crop aliases source pixels")
	}
}

func TestScreenRectAndToLocalAreInverse(t *testing.T) {
	fb := FromRGBA(patternImage(50, 40), image.Pt(100, 200), timeZero)
	r := image.Rect(5, 6, 25, 30)
	sr := fb.ScreenRect(r)
	if sr != image.Rect(105, 206, 125, 230) {
		t.Fatalf("screen rect %v", sr)
	}
	if p := fb.ToLocal(sr.Min); p != r.Min {
		t.Fatalf("to local %v", p)
	}
}

func TestFrameBufferCropClipsToBounds(t *testing.T) {
	fb := FromRGBA(patternImage(20, 20), image.Point{}, timeZero)
	c := fb.Crop(image.Rect(15, 15, 40, 40))
	if c.Width != 5 || c.Height != 5 {
		t.Fatalf("expected 5x5 got %dx%d", c.Width, c.Height)
	}
	if !fb.Crop(image.Rect(30, 30, 40, 40)).Empty() {
		t.Fatalf("expected empty crop outside frame")
	}
}

func TestFromSubImageHonoursOffset(t *testing.T) {
	src := patternImage(30, 30)
	sub := src.SubImage(image.Rect(5, 7, 15, 17)).(*image.RGBA)
	fb := FromRGBA(sub, image.Point{}, timeZero)
	if fb.Width != 10 || fb.Height != 10 {
		t.Fatalf("unexpected size %dx%d", fb.Width, fb.Height)
	}
	if r, g, _ := fb.RGB(0, 0); r != 5 || g != 7 {
		t.Fatalf("sub image offset ignored: %d,%d", r, g)
	}
}

func TestImageForcesOpaque(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	fb := FromRGBA(img, image.Point{}, timeZero)
	out := fb.Image(fb.Bounds())
	if out.RGBAAt(2, 2).A != 255 {
		t.Fatalf("expected opaque copy")
	}
}

func TestRegionAroundCentersAndClamps(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)
	r := RegionAround(image.Pt(50, 50), 40, 40, bounds)
	if r != image.Rect(30, 30, 70, 70) {
		t.Fatalf("unexpected rect %v", r)
	}
	r = RegionAround(image.Pt(2, 2), 10, 10, bounds)
	if r.Min != (image.Point{}) || r.Dx() != 10 {
		t.Fatalf("expected clamp to origin, got %v", r)
	}
	r = RegionAround(image.Pt(99, 99), 10, 10, bounds)
	if r.Max != image.Pt(100, 100) || r.Dx() != 10 {
		t.Fatalf("expected clamp to far corner, got %v", r)
	}
}

func TestRegionAroundSizeAdjustedWhenTooLarge(t *testing.T) {
	r := RegionAround(image.Pt(5, 5), 50, 50, image.Rect(0, 0, 30, 30))
	if r != image.Rect(0, 0, 30, 30) {
		t.Fatalf("unexpected rect %v", r)
	}
	r = RegionAround(image.Pt(0, 0), 0, 0, image.Rect(0, 0, 10, 10))
	if r.Dx() != 1 || r.Dy() != 1 {
		t.Fatalf("expected 1x1 got %v", r)
	}
}

func TestInset(t *testing.T) {
	if got := Inset(image.Rect(0, 0, 10, 10), 2); got != image.Rect(2, 2, 8, 8) {
		t.Fatalf("got %v", got)
	}
	if got := Inset(image.Rect(0, 0, 4, 10), 2); !got.Empty() {
		t.Fatalf("expected empty, got %v", got)
	}
}

func TestReplaySourceCaptures(t *testing.T) {
	src := NewReplaySource(patternImage(64, 48))
	if src.ScreenBounds() != image.Rect(0, 0, 64, 48) {
		t.Fatalf("unexpected bounds %v", src.ScreenBounds())
	}
	fb, err := src.Capture(image.Rect(60, 40, 80, 60))
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if fb.Width != 4 || fb.Height != 8 || fb.Origin != image.Pt(60, 40) {
		t.Fatalf("unexpected capture %dx%d at %v", fb.Width, fb.Height, fb.Origin)
	}
	if _, err := src.Capture(image.Rect(100, 100, 110, 110)); err == nil {
		t.Fatalf("expected out of bounds error")
	}
}

func TestCaptureServiceCountsFailures(t *testing.T) {
	svc := NewCaptureService(NewReplaySource(patternImage(10, 10)), nil)
	if _, err := svc.Capture(image.Rect(0, 0, 5, 5)); err != nil {
		t.Fatal(err)
	}
	_, _ = svc.Capture(image.Rect(50, 50, 60, 60))
	st := svc.Stats()
	if st.Captures != 1 || st.Failures != 1 || st.LastArea != 25 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestNewSourceRejectsUnknownBackend(t *testing.T) {
	if _, err := NewSource("vnc"); err == nil {
		t.Fatalf("unknown backend accepted")
	}
	src, err := NewSource("")
	if err != nil {
		t.Fatalf("default backend: %v", err)
	}
	if _, ok := src.(*ScreenSource); !ok {
		t.Fatalf("default backend %T", src)
	}
}
