// Package core wires the recognition pipeline without any UI: catalog, OCR,
// icon index, classifier, orchestrator, event bus and the passive ticker.
package core

import (
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/soocke/loot-lens-go/config"
	"github.com/soocke/loot-lens-go/domain/action"
	"github.com/soocke/loot-lens-go/domain/capture"
	"github.com/soocke/loot-lens-go/domain/catalog"
	"github.com/soocke/loot-lens-go/domain/events"
	"github.com/soocke/loot-lens-go/domain/iconhash"
	"github.com/soocke/loot-lens-go/domain/locate"
	"github.com/soocke/loot-lens-go/domain/ocr"
	"github.com/soocke/loot-lens-go/domain/ocr/tess"
	"github.com/soocke/loot-lens-go/domain/scan"
	"github.com/soocke/loot-lens-go/domain/textmatch"
	"github.com/soocke/loot-lens-go/domain/uistate"
	"github.com/soocke/loot-lens-go/ui/model"
)

// Options override the platform collaborators, mainly for tests and replay.
type Options struct {
	Source     capture.Source             // nil selects cfg.CaptureBackend
	Engine     ocr.Engine                 // nil opens Tesseract
	Pointer    func() (image.Point, bool) // nil uses the OS pointer
	Foreground func() (string, error)     // nil uses the OS foreground window
}

// Core holds the wired pipeline.
type Core struct {
	Config   *config.Config
	Logger   *slog.Logger
	Catalog  *catalog.Store
	Matcher  *textmatch.Matcher
	Icons    *iconhash.Index
	Reader   *ocr.Reader
	Capture  capture.CaptureService
	Bus      *events.Bus
	Scanner  *scan.Orchestrator
	Scanning *model.ScanningModel
	Ticker   *Ticker

	Foreground func() (string, error)

	closers []io.Closer
}

// Build constructs the pipeline. Missing optional data (icon directory,
// Tesseract) degrades to "nothing found" and is logged; a bad catalog file
// or capture backend is an error.
func Build(cfg *config.Config, logger *slog.Logger, opts Options) (*Core, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &Core{Config: cfg, Logger: logger, Scanning: &model.ScanningModel{}}

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	c.Catalog = catalog.NewStore(cat)

	src := opts.Source
	if src == nil {
		if src, err = capture.NewSource(cfg.CaptureBackend); err != nil {
			return nil, err
		}
	}
	c.Capture = capture.NewCaptureService(src, logger)

	engine := opts.Engine
	if engine == nil {
		te, err := tess.New(cfg.OCRLanguage)
		if err != nil {
			if logger != nil {
				logger.Warn("ocr unavailable; text recognition disabled", "language", cfg.OCRLanguage, "error", err)
			}
		} else {
			engine = te
			c.closers = append(c.closers, te)
		}
	}
	c.Reader = ocr.NewReader(engine, logger)

	c.Matcher = textmatch.NewMatcher(c.Catalog, cfg.MinMatchConfidence, cfg.MatchCacheSize, logger)
	c.Icons = iconhash.NewIndex(iconhash.DirLoader(cfg.IconDir, cfg.HashCachePath, logger), logger)
	localizer := locate.NewLocalizer(locate.OptionsFrom(cfg), c.Reader, logger)
	c.Bus = events.NewBus(logger)

	pointer := opts.Pointer
	if pointer == nil {
		pointer = action.PointerPosition
	}
	c.Foreground = opts.Foreground
	if c.Foreground == nil {
		c.Foreground = action.ForegroundWindowTitle
	}

	c.Scanner = scan.New(scan.Deps{
		Source:     c.Capture,
		Pointer:    pointer,
		Reader:     c.Reader,
		Matcher:    c.Matcher,
		Icons:      c.Icons,
		Catalog:    c.Catalog,
		Classifier: uistate.NewClassifier(c.Reader, c.Catalog, logger),
		Extractor:  uistate.NewExtractor(c.Reader, c.Matcher, c.Catalog, localizer, logger),
		Sink:       c.Bus,
		Logger:     logger,
		Config:     cfg,
	})
	c.Ticker = NewTicker(cfg.TickMillis, c.Scanning.Active, c.Scanner.Tick, logger)
	return c, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return cat, nil
}

// ReloadCatalog re-reads the catalog file and rebuilds the icon index. The
// previous catalog stays active when the file is bad.
func (c *Core) ReloadCatalog() error {
	cat, err := loadCatalog(c.Config.CatalogPath)
	if err != nil {
		return err
	}
	c.Catalog.Swap(cat)
	c.Icons.Rebuild()
	if c.Logger != nil {
		c.Logger.Info("catalog reloaded", "items", len(cat.Items), "version", c.Catalog.Version())
	}
	return nil
}

// Close stops the bus after in-flight scans finish and releases the OCR
// engine.
func (c *Core) Close() {
	if c == nil {
		return
	}
	if c.Ticker != nil {
		c.Ticker.Stop()
	}
	c.Scanner.Wait()
	c.Bus.Close()
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && c.Logger != nil {
			c.Logger.Warn("close failed", "error", err)
		}
	}
}
