package segment

import (
	"image"
	"image/color"
	"testing"
)

var cream = color.RGBA{230, 222, 200, 255}

func TestFindTooltipCreamRectangle(t *testing.T) {
	img := solidFrame(800, 600, background)
	fillRect(img, image.Rect(300, 200, 500, 350), cream)
	fb := frameOf(img)
	opts := TooltipOptionsFrom(nil)
	tt, ok := FindTooltip(fb, opts)
	if !ok {
		t.Fatalf("expected tooltip")
	}
	if tt.Fallback {
		t.Fatalf("cream should match the warm predicate")
	}
	if tt.Segment.Bounds != image.Rect(300, 200, 500, 350) {
		t.Fatalf("segment bounds %v", tt.Segment.Bounds)
	}
	m := opts.Inflate
	want := image.Rect(300-m, 200-m, 500+m, 350+m)
	if tt.Box != want {
		t.Fatalf("box %v want %v", tt.Box, want)
	}
}

func TestFindTooltipRejectsSmallAndThin(t *testing.T) {
	img := solidFrame(800, 600, background)
	fillRect(img, image.Rect(600, 100, 630, 140), cream) // 1200 px
	fillRect(img, image.Rect(50, 500, 750, 540), cream)  // aspect 17.5
	fb := frameOf(img)
	if tt, ok := FindTooltip(fb, TooltipOptionsFrom(nil)); ok {
		t.Fatalf("expected no tooltip, got %+v", tt)
	}
}

func TestFindTooltipNearWhiteFallback(t *testing.T) {
	img := solidFrame(800, 600, background)
	fillRect(img, image.Rect(420, 100, 620, 260), color.RGBA{244, 244, 246, 255})
	fb := frameOf(img)
	tt, ok := FindTooltip(fb, TooltipOptionsFrom(nil))
	if !ok || !tt.Fallback {
		t.Fatalf("expected near-white fallback, got %+v ok=%v", tt, ok)
	}
}

func TestFindTooltipPrefersRightmost(t *testing.T) {
	img := solidFrame(1000, 600, background)
	fillRect(img, image.Rect(40, 100, 240, 260), cream)  // left card
	fillRect(img, image.Rect(700, 100, 900, 260), cream) // same size, right
	fb := frameOf(img)
	tt, ok := FindTooltip(fb, TooltipOptionsFrom(nil))
	if !ok || tt.Segment.Bounds.Min.X != 700 {
		t.Fatalf("expected right card, got %+v", tt)
	}
}

func TestFindTooltipExtendsAcrossNameStrip(t *testing.T) {
	img := solidFrame(800, 600, background)
	fillRect(img, image.Rect(300, 200, 500, 350), cream)
	fillRect(img, image.Rect(500, 200, 502, 350), color.RGBA{60, 50, 40, 255})
	fillRect(img, image.Rect(502, 200, 560, 350), cream)
	fb := frameOf(img)
	opts := TooltipOptionsFrom(nil)
	tt, ok := FindTooltip(fb, opts)
	if !ok {
		t.Fatalf("expected tooltip")
	}
	if tt.Box.Max.X != 560 {
		t.Fatalf("expected box extended to 560, got %v", tt.Box)
	}
}

func TestFindTooltipEmptyFrame(t *testing.T) {
	if _, ok := FindTooltip(frameOf(solidFrame(0, 0, background)), TooltipOptionsFrom(nil)); ok {
		t.Fatalf("expected not found on empty frame")
	}
}
