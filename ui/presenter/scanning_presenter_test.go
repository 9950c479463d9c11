package presenter

import (
	"image"
	"strings"
	"testing"

	"github.com/soocke/loot-lens-go/ui/model"
)

type fakeScanner struct {
	icon, tooltip []image.Point
	names         int
}

func (s *fakeScanner) IconScan(p image.Point)    { s.icon = append(s.icon, p) }
func (s *fakeScanner) TooltipScan(p image.Point) { s.tooltip = append(s.tooltip, p) }
func (s *fakeScanner) NameScanAtScreen()         { s.names++ }

type fakeScanningView struct {
	scanningCalls int
	scanning      bool
	label         string
}

func (v *fakeScanningView) SetScanning(b bool)    { v.scanningCalls++; v.scanning = b }
func (v *fakeScanningView) SetScanLabel(s string) { v.label = s }

func TestScanningPresenter_EnableDisable_Idempotent(t *testing.T) {
	m := &model.ScanningModel{}
	view := &fakeScanningView{}
	p := NewScanningPresenter(m, nil, nil, view, nil)

	p.Enable()
	p.Enable()
	if !m.Enabled() || view.scanningCalls != 1 || !view.scanning {
		t.Fatalf("enable: enabled=%v calls=%d", m.Enabled(), view.scanningCalls)
	}
	p.Disable()
	p.Disable()
	if m.Enabled() || view.scanningCalls != 2 || view.scanning {
		t.Fatalf("disable: enabled=%v calls=%d", m.Enabled(), view.scanningCalls)
	}
	p.Toggle()
	if !m.Enabled() {
		t.Fatalf("toggle did not enable")
	}
	p.Toggle()
	if m.Enabled() {
		t.Fatalf("toggle did not disable")
	}
}

func TestScanningPresenter_ScansAtPointer(t *testing.T) {
	sc := &fakeScanner{}
	view := &fakeScanningView{}
	pt := image.Pt(640, 360)
	p := NewScanningPresenter(&model.ScanningModel{}, sc, func() (image.Point, bool) { return pt, true }, view, nil)

	p.IconScan()
	p.TooltipScan()
	p.NameScan()
	if len(sc.icon) != 1 || sc.icon[0] != pt || len(sc.tooltip) != 1 || sc.tooltip[0] != pt || sc.names != 1 {
		t.Fatalf("scanner calls %+v", sc)
	}
	if view.label != "Scan (name): scanning..." {
		t.Fatalf("label %q", view.label)
	}
}

func TestScanningPresenter_NoPointer(t *testing.T) {
	sc := &fakeScanner{}
	view := &fakeScanningView{}
	p := NewScanningPresenter(&model.ScanningModel{}, sc, func() (image.Point, bool) { return image.Point{}, false }, view, nil)
	p.IconScan()
	if len(sc.icon) != 0 {
		t.Fatalf("scan dispatched without a pointer")
	}
	if !strings.Contains(view.label, "scan failed: pointer position unavailable") {
		t.Fatalf("label %q", view.label)
	}
}
