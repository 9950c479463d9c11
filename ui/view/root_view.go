package view

import (
	"log/slog"
	"strings"
	"time"

	"github.com/soocke/loot-lens-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are the user actions wired by the app.
type Handlers struct {
	ToggleScanning func()
	IconScan       func()
	TooltipScan    func()
	NameScan       func()
	RectScan       func(geometry string) bool
	Exit           func()
}

// RootView composes the status window layout. It satisfies the presenter
// view contracts (StatusView, ScanningView, RaidView).
type RootView struct {
	logger *slog.Logger

	Raid    RaidStats
	Overlay RectOverlay

	StateLabel    *TLabelWidget
	ScanLabel     *LabelWidget
	MarkerLabel   *LabelWidget
	LevelsLabel   *LabelWidget
	ScanningLabel *LabelWidget
	toggleBtn     *TButtonWidget
}

func NewRootView(logger *slog.Logger) *RootView {
	return &RootView{logger: logger}
}

// Build constructs the layout and wires h.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	// Row 0: raid clock and state
	rv.Raid = NewRaidStats(nil, 0, 0)
	rv.StateLabel = TLabel(Txt("State: unknown"), Style(theme.StyleStateLabel))
	Grid(rv.StateLabel, Row(0), Column(3), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	// Rows 1-4: recognition results
	row := 1
	line := func(text string) *LabelWidget {
		l := Label(Txt(text), Anchor("w"), Borderwidth(1), Relief("ridge"), Width(60))
		Grid(l, Row(row), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		row++
		return l
	}
	rv.ScanLabel = line("Scan: <none>")
	rv.MarkerLabel = line("Marker: <none>")
	rv.LevelsLabel = line("Workbenches: <none>")
	rv.ScanningLabel = line("Passive scanning: off")

	// Buttons
	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(4), Rowspan(row), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	rv.toggleBtn = TButton(Txt("Start Scanning"), Style(theme.StylePrimaryButton), Command(h.ToggleScanning))
	Grid(rv.toggleBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	buttons := []struct {
		text string
		fn   func()
	}{
		{"Scan Icon", h.IconScan},
		{"Scan Tooltip", h.TooltipScan},
		{"Scan Name", h.NameScan},
	}
	for i, b := range buttons {
		btn := Button(Txt(b.text), Command(b.fn))
		Grid(btn, In(btnFrame), Row(i+1), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	}
	rv.Overlay = NewRectOverlay(h.RectScan)
	rectBtn := Button(Txt("Icon Selection"), Command(rv.Overlay.OpenOrFocus))
	Grid(rectBtn, In(btnFrame), Row(len(buttons)+1), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	exitBtn := TButton(Txt("Exit"), Style(theme.StyleDangerButton), Command(h.Exit))
	Grid(exitBtn, In(btnFrame), Row(len(buttons)+2), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
}

// SetStateLabel updates the state label and switches its style in raids.
func (rv *RootView) SetStateLabel(text string) {
	if rv == nil || rv.StateLabel == nil {
		return
	}
	rv.StateLabel.Configure(Txt(text), Style(theme.StateStyle(strings.HasSuffix(text, "(raid)"))))
}

func (rv *RootView) SetScanLabel(text string)   { setText(rv, rv.scanLabel(), text) }
func (rv *RootView) SetMarkerLabel(text string) { setText(rv, rv.markerLabel(), text) }
func (rv *RootView) SetLevelsLabel(text string) { setText(rv, rv.levelsLabel(), text) }

// SetScanning reflects the passive scanning toggle.
func (rv *RootView) SetScanning(enabled bool) {
	if rv == nil || rv.toggleBtn == nil {
		return
	}
	if enabled {
		rv.toggleBtn.Configure(Txt("Stop Scanning"))
		setText(rv, rv.ScanningLabel, "Passive scanning: on")
		return
	}
	rv.toggleBtn.Configure(Txt("Start Scanning"))
	setText(rv, rv.ScanningLabel, "Passive scanning: off")
}

// SetFocus shows whether passive scanning is paused for focus.
func (rv *RootView) SetFocus(focused bool) {
	if rv == nil || rv.ScanningLabel == nil {
		return
	}
	if focused {
		rv.ScanningLabel.Configure(Foreground(theme.ColorText))
		return
	}
	rv.ScanningLabel.Configure(Foreground(theme.ColorTextMuted))
}

// SetRaid forwards to the raid clock.
func (rv *RootView) SetRaid(raid, total time.Duration, raids int) {
	if rv == nil || rv.Raid == nil {
		return
	}
	rv.Raid.SetRaid(raid, total, raids)
}

func (rv *RootView) scanLabel() *LabelWidget {
	if rv == nil {
		return nil
	}
	return rv.ScanLabel
}

func (rv *RootView) markerLabel() *LabelWidget {
	if rv == nil {
		return nil
	}
	return rv.MarkerLabel
}

func (rv *RootView) levelsLabel() *LabelWidget {
	if rv == nil {
		return nil
	}
	return rv.LevelsLabel
}

// setText configures l, logging instead of crashing when the widget is gone.
func setText(rv *RootView, l *LabelWidget, text string) {
	if l == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil && rv != nil && rv.logger != nil {
			rv.logger.Warn("label update failed", "error", r)
		}
	}()
	l.Configure(Txt(text))
}
