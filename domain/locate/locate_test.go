package locate

import (
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/soocke/loot-lens-go/domain/capture"
	"github.com/soocke/loot-lens-go/domain/catalog"
	"github.com/soocke/loot-lens-go/domain/failure"
	"github.com/soocke/loot-lens-go/domain/ocr"
)

func testRefine() RefineOptions {
	o := OptionsFrom(nil).Refine
	o.Template.StopOnScore = 0
	return o
}

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestRefineDenseClusterSkipsTemplate(t *testing.T) {
	area := image.Rect(0, 0, 400, 400)
	var pts []image.Point
	for y := 200; y < 205; y++ {
		for x := 100; x < 104; x++ {
			pts = append(pts, image.Pt(x, y))
		}
	}
	m := NewMask(area, pts)
	if m.Count != 20 {
		t.Fatalf("mask count %d", m.Count)
	}
	r, err := Refine(m, image.Pt(101, 202), testRefine())
	if err != nil {
		t.Fatalf("refine: %v", err)
	}
	if r.Strategy != StrategyCluster || r.ScalesEvaluated != 0 {
		t.Fatalf("expected cluster without template search, got %+v", r)
	}
	if !near(r.X, 101.5, 1e-9) || !near(r.Y, 202, 1e-9) {
		t.Fatalf("centroid (%v,%v)", r.X, r.Y)
	}
}

func TestRefineTooFewPixels(t *testing.T) {
	m := NewMask(image.Rect(0, 0, 50, 50), []image.Point{{1, 1}, {2, 2}, {3, 3}})
	if _, err := Refine(m, image.Pt(2, 2), testRefine()); !failure.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// noiseGrid returns isolated pixels spaced 30 apart, skipping a box.
func noiseGrid(n int, skip image.Rectangle) []image.Point {
	var pts []image.Point
	for y := 5; y < 400 && len(pts) < n; y += 30 {
		for x := 5; x < 400 && len(pts) < n; x += 30 {
			p := image.Pt(x, y)
			if !p.In(skip) {
				pts = append(pts, p)
			}
		}
	}
	return pts
}

func TestRefineFallsBackToArrowTemplate(t *testing.T) {
	area := image.Rect(0, 0, 400, 400)
	origin := image.Pt(196, 195)
	var pts []image.Point
	for _, p := range arrowBase.on {
		pts = append(pts, origin.Add(p))
	}
	pts = append(pts, noiseGrid(60, image.Rect(160, 160, 240, 240))...)
	m := NewMask(area, pts)
	r, err := Refine(m, image.Pt(200, 200), testRefine())
	if err != nil {
		t.Fatalf("refine: %v", err)
	}
	if r.Strategy != StrategyTemplate {
		t.Fatalf("expected template strategy, got %+v", r)
	}
	if !near(r.X, 200.5, 1) || !near(r.Y, 200.5, 1) || r.Confidence < 0.99 {
		t.Fatalf("unexpected placement %+v", r)
	}
	if r.ScalesEvaluated == 0 {
		t.Fatalf("expected scales to be evaluated")
	}
}

func TestRefineFallsBackToCentroid(t *testing.T) {
	pts := noiseGrid(20, image.Rectangle{})
	m := NewMask(image.Rect(0, 0, 400, 400), pts)
	r, err := Refine(m, image.Pt(100, 50), testRefine())
	if err != nil {
		t.Fatalf("refine: %v", err)
	}
	cx, cy := Centroid(pts)
	if r.Strategy != StrategyCentroid || !near(r.X, cx, 1e-9) || !near(r.Y, cy, 1e-9) {
		t.Fatalf("unexpected %+v", r)
	}
}

func TestScaledArrowCache(t *testing.T) {
	a := scaledArrow(1.2)
	b := scaledArrow(1.2)
	if a == nil || a != b {
		t.Fatalf("expected cached template")
	}
	if scaledArrow(1.0) != arrowBase {
		t.Fatalf("1.0 should be the base template")
	}
	if scaledArrow(0.1) != nil {
		t.Fatalf("tiny scale should be rejected")
	}
}

func TestLocationScore(t *testing.T) {
	if s := LocationScore("CONTROL TOWER", "Control Tower"); s != 22 {
		t.Fatalf("full score %v", s)
	}
	if s := LocationScore("contrl tower", "Control Tower"); s != 7.5 {
		t.Fatalf("partial score %v", s)
	}
	if s := LocationScore("", "Control Tower"); s != 0 {
		t.Fatalf("empty text score %v", s)
	}
}

func TestBestLocation(t *testing.T) {
	m := catalog.Map{ID: "m", Locations: []catalog.MapLocation{
		{Name: "Water Treatment", XPct: 0.3, YPct: 0.6},
		{Name: "Control Tower", XPct: 0.5, YPct: 0.4},
	}}
	loc, _, ok := BestLocation("EXTRACTION\nCONTROL TOWER\n", m, 2)
	if !ok || loc.Name != "Control Tower" {
		t.Fatalf("unexpected %+v ok=%v", loc, ok)
	}
	if _, _, ok := BestLocation("zz qq", m, 2); ok {
		t.Fatalf("garbage should not locate")
	}
}

type fakeReader struct {
	text  string
	calls int
}

func (f *fakeReader) Read(capture.FrameBuffer, image.Rectangle, ocr.Options) string {
	f.calls++
	return f.text
}

func mapFrame() capture.FrameBuffer {
	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			img.SetRGBA(x, y, color.RGBA{50, 60, 55, 255})
		}
	}
	for y := 150; y < 156; y++ {
		for x := 100; x < 106; x++ {
			img.SetRGBA(x, y, color.RGBA{250, 210, 40, 255})
		}
	}
	return capture.FromRGBA(img, image.Point{}, time.Time{})
}

func TestLocalizerPrefersLocationName(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	m, _ := cat.Map("dam_battlegrounds")
	rd := &fakeReader{text: "WATER TREATMENT"}
	l := NewLocalizer(OptionsFrom(nil), rd, nil)
	fb := mapFrame()
	d, err := l.Locate(fb, fb.Bounds(), m)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if d.Strategy != StrategyLocationName || d.Location != "Water Treatment" || d.XPct != 0.31 {
		t.Fatalf("unexpected %+v", d)
	}
	if rd.calls != len(locationPSMs) {
		t.Fatalf("expected one read per PSM, got %d", rd.calls)
	}
}

func TestLocalizerFallsBackToMarker(t *testing.T) {
	l := NewLocalizer(OptionsFrom(nil), &fakeReader{}, nil)
	fb := mapFrame()
	d, err := l.Locate(fb, fb.Bounds(), catalog.Map{ID: "x", Locations: []catalog.MapLocation{{Name: "Village"}}})
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if d.Strategy != StrategyCluster || !near(d.XPct, 102.5/400, 1e-9) || !near(d.YPct, 152.5/300, 1e-9) {
		t.Fatalf("unexpected %+v", d)
	}
}
