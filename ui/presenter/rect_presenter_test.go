package presenter

import (
	"image"
	"testing"
)

func TestParseGeometry(t *testing.T) {
	cases := []struct {
		in   string
		want image.Rectangle
		ok   bool
	}{
		{"120x80+300+200", image.Rect(300, 200, 420, 280), true},
		{" 64x64+-10+5 ", image.Rect(-10, 5, 54, 69), true},
		{"0x80+1+1", image.Rectangle{}, false},
		{"120x80", image.Rectangle{}, false},
		{"garbage", image.Rectangle{}, false},
	}
	for _, c := range cases {
		got, ok := ParseGeometry(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("%q: got %v %v want %v %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

type fakeRectScanner struct{ got []image.Rectangle }

func (s *fakeRectScanner) IconScanRect(r image.Rectangle) { s.got = append(s.got, r) }

func TestRectPresenterConfirm(t *testing.T) {
	sc := &fakeRectScanner{}
	view := &fakeScanningView{}
	p := NewRectPresenter(sc, view)
	if !p.Confirm("96x96+900+500") {
		t.Fatalf("valid geometry refused")
	}
	if len(sc.got) != 1 || sc.got[0] != image.Rect(900, 500, 996, 596) || p.Last() != sc.got[0] {
		t.Fatalf("scanned %v", sc.got)
	}
	if p.Confirm("nope") || len(sc.got) != 1 {
		t.Fatalf("invalid geometry scanned")
	}
	if view.label != "Scan (icon_rect): scan failed: bad selection" {
		t.Fatalf("label %q", view.label)
	}
}
