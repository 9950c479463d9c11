package core

import (
	"image"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/soocke/loot-lens-go/config"
	"github.com/soocke/loot-lens-go/domain/capture"
	"github.com/soocke/loot-lens-go/domain/events"
	"github.com/soocke/loot-lens-go/domain/ocr"
)

func testCore(t *testing.T, pointer func() (image.Point, bool)) *Core {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.FrameGate = false
	blank := image.NewRGBA(image.Rect(0, 0, 800, 600))
	engine := ocr.EngineFunc(func(*image.Gray, ocr.Options) (string, error) { return "", nil })
	c, err := Build(cfg, nil, Options{
		Source:     capture.NewReplaySource(blank),
		Engine:     engine,
		Pointer:    pointer,
		Foreground: func() (string, error) { return "Notepad", nil },
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return c
}

func TestBuildPublishesScanResultsOnTheBus(t *testing.T) {
	c := testCore(t, func() (image.Point, bool) { return image.Pt(400, 300), true })
	var mu sync.Mutex
	var got []events.ScanResult
	c.Bus.Subscribe(func(ev events.Event) {
		if sr, ok := ev.(events.ScanResult); ok {
			mu.Lock()
			got = append(got, sr)
			mu.Unlock()
		}
	})

	res := c.Scanner.RunNameScan()
	if res.Found || res.Placeholder == "" {
		t.Fatalf("blank screen produced %+v", res)
	}
	c.Close()
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0].Kind != events.ScanName {
		t.Fatalf("bus delivered %+v", got)
	}
	if cs := c.Capture.Stats(); cs.Captures == 0 {
		t.Fatalf("capture service not in the path: %+v", cs)
	}
}

func TestBuildRejectsBadCatalogAndBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := Build(cfg, nil, Options{Source: capture.NewReplaySource(nil)}); err == nil {
		t.Fatalf("missing catalog accepted")
	}
	cfg = config.DefaultConfig()
	cfg.CaptureBackend = "vnc"
	if _, err := Build(cfg, nil, Options{}); err == nil {
		t.Fatalf("unknown capture backend accepted")
	}
}

func TestReloadCatalogKeepsPreviousOnError(t *testing.T) {
	c := testCore(t, nil)
	defer c.Close()
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("items:\n  - id: ''\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	before := c.Catalog.Version()
	c.Config.CatalogPath = bad
	if err := c.ReloadCatalog(); err == nil {
		t.Fatalf("bad catalog reloaded")
	}
	if c.Catalog.Version() != before {
		t.Fatalf("catalog swapped on error")
	}

	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte("items:\n  - id: ferro_ii\n    name: Ferro II\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c.Config.CatalogPath = good
	if err := c.ReloadCatalog(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if it, ok := c.Catalog.Get().Item("ferro_ii"); !ok || it.Name != "Ferro II" || len(c.Catalog.Get().Items) != 1 {
		t.Fatalf("reloaded catalog %+v", c.Catalog.Get().Items)
	}
}

func TestScanningGateFollowsFocus(t *testing.T) {
	c := testCore(t, nil)
	defer c.Close()
	c.Scanning.SetEnabled(true)
	if c.Scanning.Active() {
		t.Fatalf("active before any focus observation")
	}
	c.Scanning.SetFocused(true)
	if !c.Scanning.Active() {
		t.Fatalf("enabled and focused but not active")
	}
}
