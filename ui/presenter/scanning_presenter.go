package presenter

import (
	"image"
	"log/slog"
)

// ScanningModel provides the passive scanning toggle.
type ScanningModel interface {
	Enabled() bool
	SetEnabled(bool)
}

// Scanner is the subset of the scan orchestrator driven by the buttons.
type Scanner interface {
	IconScan(p image.Point)
	TooltipScan(p image.Point)
	NameScanAtScreen()
}

// ScanningView updates UI elements affected by scanning.
type ScanningView interface {
	SetScanning(enabled bool)
	SetScanLabel(string)
}

// ScanningPresenter owns the passive scanning toggle and the explicit scan
// buttons.
type ScanningPresenter struct {
	model   ScanningModel
	scanner Scanner
	pointer func() (image.Point, bool)
	view    ScanningView
	logger  *slog.Logger
}

func NewScanningPresenter(m ScanningModel, scanner Scanner, pointer func() (image.Point, bool), view ScanningView, logger *slog.Logger) *ScanningPresenter {
	return &ScanningPresenter{model: m, scanner: scanner, pointer: pointer, view: view, logger: logger}
}

// Enable turns passive scanning on. Idempotent.
func (c *ScanningPresenter) Enable() {
	if c == nil || c.model == nil || c.view == nil {
		return
	}
	if c.model.Enabled() {
		return
	}
	c.model.SetEnabled(true)
	c.view.SetScanning(true)
	if c.logger != nil {
		c.logger.Info("passive scanning enabled")
	}
}

// Disable turns passive scanning off. Idempotent.
func (c *ScanningPresenter) Disable() {
	if c == nil || c.model == nil || c.view == nil {
		return
	}
	if !c.model.Enabled() {
		return
	}
	c.model.SetEnabled(false)
	c.view.SetScanning(false)
	if c.logger != nil {
		c.logger.Info("passive scanning disabled")
	}
}

// Toggle flips passive scanning.
func (c *ScanningPresenter) Toggle() {
	if c == nil || c.model == nil {
		return
	}
	if c.model.Enabled() {
		c.Disable()
		return
	}
	c.Enable()
}

// IconScan scans the icon under the pointer. The result arrives on the bus.
func (c *ScanningPresenter) IconScan() { c.atPointer("icon", Scanner.IconScan) }

// TooltipScan scans the tooltip beside the pointer.
func (c *ScanningPresenter) TooltipScan() { c.atPointer("tooltip", Scanner.TooltipScan) }

// NameScan reads the item name around the pointer.
func (c *ScanningPresenter) NameScan() {
	if c == nil || c.scanner == nil {
		return
	}
	c.pendingLabel("name")
	c.scanner.NameScanAtScreen()
}

func (c *ScanningPresenter) atPointer(kind string, scan func(Scanner, image.Point)) {
	if c == nil || c.scanner == nil || c.pointer == nil {
		return
	}
	p, ok := c.pointer()
	if !ok {
		if c.view != nil {
			c.view.SetScanLabel("Scan (" + kind + "): scan failed: pointer position unavailable")
		}
		return
	}
	c.pendingLabel(kind)
	scan(c.scanner, p)
}

func (c *ScanningPresenter) pendingLabel(kind string) {
	if c.view != nil {
		c.view.SetScanLabel("Scan (" + kind + "): scanning...")
	}
}
