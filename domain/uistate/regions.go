package uistate

import (
	"image"

	"github.com/soocke/loot-lens-go/domain/capture"
	"github.com/soocke/loot-lens-go/domain/ocr"
)

// Region is a fractional screen area read with fixed OCR options.
type Region struct {
	Name           string
	X0, Y0, X1, Y1 float64
	OCR            ocr.Options
}

// Rect maps the region onto fb.
func (r Region) Rect(fb capture.FrameBuffer) image.Rectangle {
	return fb.RelRect(r.X0, r.Y0, r.X1, r.Y1)
}

// Screen regions used by the state checks and extractors.
var (
	// Nav tabs and menu banners.
	TopStrip = Region{Name: "top", X0: 0, Y0: 0, X1: 1, Y1: 0.09,
		OCR: ocr.Options{Whitelist: ocr.Upper, PSM: ocr.PSMSparse}}
	// Matchmaking banner.
	CenterBanner = Region{Name: "center", X0: 0.25, Y0: 0.40, X1: 0.75, Y1: 0.60,
		OCR: ocr.Options{Whitelist: ocr.Upper, PSM: ocr.PSMSparse}}
	// Ammo counter and weapon name.
	HUD = Region{Name: "hud", X0: 0.75, Y0: 0.85, X1: 1, Y1: 1,
		OCR: ocr.Options{Whitelist: ocr.Upper + ocr.Digits, PSM: ocr.PSMSparse}}
	// Workbench cards with their roman level badges.
	BadgeStrip = Region{Name: "badges", X0: 0.04, Y0: 0.80, X1: 0.96, Y1: 0.97,
		OCR: ocr.Options{Whitelist: ocr.Letters, PSM: ocr.PSMSparse}}
	// Blueprint list body.
	ListBody = Region{Name: "list", X0: 0.15, Y0: 0.15, X1: 0.70, Y1: 0.90,
		OCR: ocr.Options{Whitelist: ocr.Item, PSM: ocr.PSMSingleColumn}}
	// Tracked resources side panel.
	TrackedPanel = Region{Name: "tracked", X0: 0.62, Y0: 0.15, X1: 0.98, Y1: 0.85,
		OCR: ocr.Options{Whitelist: ocr.Item + ocr.Digits, PSM: ocr.PSMSingleColumn}}
	// Map title above the map view.
	MapTitle = Region{Name: "map_title", X0: 0.30, Y0: 0.02, X1: 0.70, Y1: 0.10,
		OCR: ocr.Options{Whitelist: ocr.Letters, PSM: ocr.PSMSingleLine}}
	// Map body searched for labels and the player marker.
	MapBody = Region{Name: "map_body", X0: 0.08, Y0: 0.10, X1: 0.92, Y1: 0.95}
)
