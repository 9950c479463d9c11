package view

import (
	"fmt"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// RectOverlay is a transparent, topmost window the user drags and resizes
// over an icon; confirming hands its geometry to onConfirm.
type RectOverlay interface {
	OpenOrFocus()
}

type rectOverlay struct {
	onConfirm func(geometry string) bool
	win       *ToplevelWidget
}

// NewRectOverlay creates the overlay manager.
func NewRectOverlay(onConfirm func(geometry string) bool) RectOverlay {
	return &rectOverlay{onConfirm: onConfirm}
}

func (v *rectOverlay) OpenOrFocus() {
	if v.win != nil {
		WmGeometry(v.win.Window)
		return
	}
	win := App.Toplevel(Borderwidth(2), Background("#008080"))
	win.WmTitle("Icon Selection")
	v.win = win
	const size = 128
	x, y := (screenW-size)/2, (screenH-size)/2
	WmGeometry(win.Window, fmt.Sprintf("%dx%d+%d+%d", size, size, x, y))
	WmAttributes(win.Window, "-topmost", 1)
	WmAttributes(win.Window, "-toolwindow", true)
	WmAttributes(win.Window, "-transparentcolor", "#008080")
	GridRowConfigure(win.Window, 0, Weight(1))
	GridColumnConfigure(win.Window, 0, Weight(0))
	GridColumnConfigure(win.Window, 1, Weight(1))
	GridColumnConfigure(win.Window, 2, Weight(0))
	left := win.Frame(Width(4), Background("#FFFFFF"))
	Grid(left, Row(0), Column(0), Sticky("ns"))
	center := win.Frame(Background("#008080"))
	Grid(center, Row(0), Column(1), Sticky("nsew"))
	right := win.Frame(Width(4), Background("#FFFFFF"))
	Grid(right, Row(0), Column(2), Sticky("ns"))
	controls := win.Frame()
	Grid(controls, Row(1), Column(0), Columnspan(3), Sticky("we"))
	scan := win.Button(Txt("Scan [Enter]"), Command(v.confirm))
	Grid(scan, In(controls), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	cancel := win.Button(Txt("Close [Esc]"), Command(v.destroy))
	Grid(cancel, In(controls), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Bind(win, "<Return>", Command(v.confirm))
	Bind(win, "<Escape>", Command(v.destroy))
}

// confirm scans the current geometry; the overlay stays open so the user
// can move it to the next icon.
func (v *rectOverlay) confirm() {
	if v.win == nil || v.onConfirm == nil {
		return
	}
	v.onConfirm(WmGeometry(v.win.Window))
}

func (v *rectOverlay) destroy() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
	}
}

// screen size used to centre new overlays.
// TODO: query winfo screenwidth/screenheight once multi-monitor offsets are handled.
const screenW, screenH = 1920, 1080
