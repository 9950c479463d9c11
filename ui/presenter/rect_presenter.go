package presenter

import (
	"image"
	"regexp"
	"strconv"
	"strings"
)

// RectScanner runs the rectangle-drag icon scan.
type RectScanner interface {
	IconScanRect(r image.Rectangle)
}

// RectPresenter turns a confirmed overlay geometry into a rectangle scan.
type RectPresenter struct {
	scanner RectScanner
	view    ScanningView
	last    image.Rectangle
}

func NewRectPresenter(scanner RectScanner, view ScanningView) *RectPresenter {
	return &RectPresenter{scanner: scanner, view: view}
}

// Confirm scans the screen rectangle described by the Tk geometry string.
// It reports false when the geometry cannot be parsed.
func (p *RectPresenter) Confirm(geometry string) bool {
	if p == nil || p.scanner == nil {
		return false
	}
	r, ok := ParseGeometry(geometry)
	if !ok {
		if p.view != nil {
			p.view.SetScanLabel("Scan (icon_rect): scan failed: bad selection")
		}
		return false
	}
	p.last = r
	if p.view != nil {
		p.view.SetScanLabel("Scan (icon_rect): scanning...")
	}
	p.scanner.IconScanRect(r)
	return true
}

// Last returns the last confirmed rectangle.
func (p *RectPresenter) Last() image.Rectangle {
	if p == nil {
		return image.Rectangle{}
	}
	return p.last
}

// geomRe matches window geometry strings in the format "WIDTHxHEIGHT+X+Y".
var geomRe = regexp.MustCompile(`^(\d+)x(\d+)\+(-?\d+)\+(-?\d+)$`)

// ParseGeometry parses a Tk geometry string into a screen rectangle.
func ParseGeometry(g string) (image.Rectangle, bool) {
	m := geomRe.FindStringSubmatch(strings.TrimSpace(g))
	if len(m) != 5 {
		return image.Rectangle{}, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	x, _ := strconv.Atoi(m[3])
	y, _ := strconv.Atoi(m[4])
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(x, y, x+w, y+h), true
}
