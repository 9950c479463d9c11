package segment

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
	"time"
)

var timeZero = time.Time{}

func TestPredicates(t *testing.T) {
	cases := []struct {
		name      string
		c         color.RGBA
		warm      bool
		white     bool
		highlight bool
	}{
		{"cream", color.RGBA{230, 222, 200, 255}, true, false, false},
		{"neutral light", color.RGBA{220, 218, 214, 255}, true, true, false},
		{"near white", color.RGBA{250, 250, 248, 255}, false, true, true},
		{"dark", background, false, false, false},
		{"blue glow", color.RGBA{120, 190, 255, 255}, false, false, true},
		{"saturated orange", color.RGBA{240, 140, 30, 255}, false, false, false},
	}
	for _, c := range cases {
		if got := WarmTooltip(c.c.R, c.c.G, c.c.B); got != c.warm {
			t.Errorf("%s: warm=%v want %v", c.name, got, c.warm)
		}
		if got := NearWhiteTooltip(c.c.R, c.c.G, c.c.B); got != c.white {
			t.Errorf("%s: white=%v want %v", c.name, got, c.white)
		}
		if got := Highlight(c.c.R, c.c.G, c.c.B); got != c.highlight {
			t.Errorf("%s: highlight=%v want %v", c.name, got, c.highlight)
		}
	}
}

func TestComponentsBoundsAreTight(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	img := solidFrame(120, 90, background)
	on := color.RGBA{255, 255, 255, 255}
	for i := 0; i < 25; i++ {
		x, y := rng.Intn(110), rng.Intn(80)
		fillRect(img, image.Rect(x, y, x+1+rng.Intn(12), y+1+rng.Intn(9)), on)
	}
	for i := 0; i < 200; i++ {
		img.SetRGBA(rng.Intn(120), rng.Intn(90), on)
	}
	fb := frameOf(img)
	pred := ColorNear(255, 255, 255, 0)
	segs := Components(fb, pred, fb.Bounds(), 1)
	if len(segs) == 0 {
		t.Fatalf("expected components")
	}
	total := 0
	for _, s := range segs {
		total += s.PixelCount
		// every side of the bounds must touch a matched pixel of this component
		var top, bottom, left, right bool
		for y := s.Bounds.Min.Y; y < s.Bounds.Max.Y; y++ {
			for x := s.Bounds.Min.X; x < s.Bounds.Max.X; x++ {
				if !pred(fb.RGB(x, y)) {
					continue
				}
				top = top || y == s.Bounds.Min.Y
				bottom = bottom || y == s.Bounds.Max.Y-1
				left = left || x == s.Bounds.Min.X
				right = right || x == s.Bounds.Max.X-1
			}
		}
		if !(top && bottom && left && right) {
			t.Fatalf("bounds %v not tight", s.Bounds)
		}
		if !s.Bounds.In(fb.Bounds()) {
			t.Fatalf("bounds %v outside frame", s.Bounds)
		}
		cx, cy := int(s.CentroidX), int(s.CentroidY)
		if !(image.Point{cx, cy}).In(s.Bounds) {
			t.Fatalf("centroid (%d,%d) outside %v", cx, cy, s.Bounds)
		}
	}
	matched := 0
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			if pred(fb.RGB(x, y)) {
				matched++
			}
		}
	}
	if total != matched {
		t.Fatalf("components cover %d pixels, frame has %d matches", total, matched)
	}
}

func TestComponentsFourConnectivity(t *testing.T) {
	img := solidFrame(10, 10, background)
	on := color.RGBA{255, 255, 255, 255}
	img.SetRGBA(2, 2, on)
	img.SetRGBA(3, 3, on) // diagonal only
	fb := frameOf(img)
	segs := Components(fb, ColorNear(255, 255, 255, 0), fb.Bounds(), 1)
	if len(segs) != 2 {
		t.Fatalf("expected 2 diagonal components, got %d", len(segs))
	}
}

func TestComponentsRespectsArea(t *testing.T) {
	img := solidFrame(40, 40, background)
	on := color.RGBA{255, 255, 255, 255}
	fillRect(img, image.Rect(5, 5, 35, 10), on)
	fb := frameOf(img)
	segs := Components(fb, ColorNear(255, 255, 255, 0), image.Rect(0, 0, 20, 40), 1)
	if len(segs) != 1 || segs[0].Bounds != image.Rect(5, 5, 20, 10) {
		t.Fatalf("unexpected segments %+v", segs)
	}
}

func TestNearestPrefersComponentUnderPoint(t *testing.T) {
	img := solidFrame(200, 100, background)
	on := color.RGBA{255, 255, 255, 255}
	fillRect(img, image.Rect(10, 10, 70, 70), on)   // large, far
	fillRect(img, image.Rect(150, 40, 170, 60), on) // small, under point
	fb := frameOf(img)
	s, ok := Nearest(fb, Highlight, fb.Bounds(), image.Pt(160, 50), 10)
	if !ok || s.Bounds != image.Rect(150, 40, 170, 60) {
		t.Fatalf("unexpected nearest %+v ok=%v", s, ok)
	}
}

func TestLargestNotFound(t *testing.T) {
	fb := frameOf(solidFrame(30, 30, background))
	if _, ok := Largest(fb, Highlight, fb.Bounds(), 1); ok {
		t.Fatalf("expected not found")
	}
}
