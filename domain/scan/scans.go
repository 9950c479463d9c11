package scan

import (
	"image"
	"time"

	"github.com/soocke/loot-lens-go/domain/capture"
	"github.com/soocke/loot-lens-go/domain/events"
	"github.com/soocke/loot-lens-go/domain/failure"
	"github.com/soocke/loot-lens-go/domain/iconhash"
	"github.com/soocke/loot-lens-go/domain/ocr"
	"github.com/soocke/loot-lens-go/domain/segment"
	"github.com/soocke/loot-lens-go/domain/textmatch"
)

// highlightBorder is the width of the selection frame drawn around a
// cursor-highlighted inventory slot.
const highlightBorder = 3

var (
	tooltipText = ocr.Options{Whitelist: ocr.Item, PSM: ocr.PSMSingleBlock}
	nameText    = ocr.Options{Whitelist: ocr.Item, PSM: ocr.PSMSparse}
)

// outcome is what a scan implementation found; region is in screen space.
type outcome struct {
	match    textmatch.MatchCandidate
	region   image.Rectangle
	fallback bool
}

// IconScan identifies the highlighted icon at p on a worker goroutine.
func (o *Orchestrator) IconScan(p image.Point) {
	o.dispatch("icon scan", func() { o.RunIconScan(p) })
}

// TooltipScan identifies the item tooltip beside p on a worker goroutine.
func (o *Orchestrator) TooltipScan(p image.Point) {
	o.dispatch("tooltip scan", func() { o.RunTooltipScan(p) })
}

// NameScanAtScreen reads the item name around the pointer on a worker
// goroutine.
func (o *Orchestrator) NameScanAtScreen() {
	o.dispatch("name scan", func() { o.RunNameScan() })
}

// IconScanRect identifies the icon inside a dragged screen rectangle on a
// worker goroutine.
func (o *Orchestrator) IconScanRect(r image.Rectangle) {
	o.dispatch("icon rect scan", func() { o.RunIconScanRect(r) })
}

// RunIconScan is the synchronous IconScan.
func (o *Orchestrator) RunIconScan(p image.Point) events.ScanResult {
	return o.run(events.ScanIcon, p, func() (outcome, error) {
		h := o.iconLock.lock(0)
		defer o.iconLock.unlock()
		return o.iconScan(h, p)
	})
}

// RunTooltipScan is the synchronous TooltipScan.
func (o *Orchestrator) RunTooltipScan(p image.Point) events.ScanResult {
	return o.run(events.ScanTooltip, p, func() (outcome, error) {
		h := o.tooltipLock.lock(0)
		defer o.tooltipLock.unlock()
		return o.tooltipScan(h, p)
	})
}

// RunNameScan is the synchronous NameScanAtScreen.
func (o *Orchestrator) RunNameScan() events.ScanResult {
	p, ok := o.PointerPosition()
	return o.run(events.ScanName, p, func() (outcome, error) {
		if !ok {
			return outcome{}, failure.NotFound("name scan", "pointer position unavailable")
		}
		h := o.nameLock.lock(0)
		defer o.nameLock.unlock()
		return o.nameScan(h, p)
	})
}

// RunIconScanRect is the synchronous IconScanRect.
func (o *Orchestrator) RunIconScanRect(r image.Rectangle) events.ScanResult {
	c := r.Min.Add(r.Max).Div(2)
	return o.run(events.ScanIconRect, c, func() (outcome, error) {
		h := o.iconLock.lock(0)
		defer o.iconLock.unlock()
		return o.iconRectScan(h, r)
	})
}

// PointerPosition returns the injected pointer position.
func (o *Orchestrator) PointerPosition() (image.Point, bool) {
	if o.pointer == nil {
		return image.Point{}, false
	}
	return o.pointer()
}

// run executes one scan and turns whatever happened into a published result.
func (o *Orchestrator) run(kind events.ScanKind, p image.Point, fn func() (outcome, error)) (res events.ScanResult) {
	start := o.now()
	defer func() {
		if r := recover(); r != nil {
			o.recovered(kind, r)
			res = o.result(kind, p, outcome{}, internalError{r}, start)
		}
	}()
	out, err := fn()
	return o.result(kind, p, out, err, start)
}

func (o *Orchestrator) recovered(kind events.ScanKind, r any) {
	o.stats.panics.Add(1)
	if o.logger != nil {
		o.logger.Error("scan panic", "scan_kind", kind.String(), "error", r)
	}
}

func (o *Orchestrator) result(kind events.ScanKind, p image.Point, out outcome, err error, start time.Time) events.ScanResult {
	now := o.now()
	res := events.ScanResult{
		Kind:     kind,
		Found:    err == nil,
		Match:    out.match,
		Point:    p,
		Region:   out.region,
		Fallback: out.fallback,
		Duration: now.Sub(start),
		At:       now,
	}
	o.stats.scans.Add(1)
	if out.fallback {
		o.stats.fallbacks.Add(1)
	}
	if err != nil {
		o.stats.scanFailures.Add(1)
		res.Match = textmatch.MatchCandidate{}
		res.Placeholder = "scan failed: " + failure.Reason(err)
		if o.logger != nil {
			lvl := o.logger.Debug
			if failure.IsExternal(err) {
				lvl = o.logger.Warn
			}
			lvl("scan failed", "scan_kind", kind.String(), "reason", failure.Reason(err), "error", err)
		}
	} else if o.logger != nil {
		o.logger.Info("scan", "scan_kind", kind.String(), "item", res.Match.ItemID,
			"method", res.Match.Method.String(), "confidence", res.Match.Confidence, "fallback", out.fallback)
	}
	o.mu.Lock()
	o.status.LastScan = &res
	o.mu.Unlock()
	o.publish(res)
	return res
}

func (o *Orchestrator) grab(r image.Rectangle) (capture.FrameBuffer, error) {
	if o.src == nil {
		return capture.FrameBuffer{}, failure.External("capture", errNoSource)
	}
	if r.Empty() {
		return capture.FrameBuffer{}, failure.NotFound("capture", "region outside screen")
	}
	fb, err := o.src.Capture(r)
	if err != nil {
		return capture.FrameBuffer{}, failure.External("capture", err)
	}
	return fb, nil
}

func (o *Orchestrator) screen() image.Rectangle {
	if o.src == nil {
		return image.Rectangle{}
	}
	return o.src.ScreenBounds()
}

// iconScan matches the cursor-highlighted slot around p. The caller holds
// the icon lock, or the tooltip lock when falling back.
func (o *Orchestrator) iconScan(_ held, p image.Point) (outcome, error) {
	const op = "icon scan"
	size := o.cfg.IconCaptureSize
	fb, err := o.grab(capture.RegionAround(p, size, size, o.screen()))
	if err != nil {
		return outcome{}, err
	}
	local := fb.ToLocal(p)
	var lastErr error = failure.NotFound(op, "no highlighted slot")
	if seg, ok := segment.Nearest(fb, segment.Highlight, fb.Bounds(), local, o.cfg.HighlightMinPix); ok {
		box := capture.Inset(seg.Bounds, highlightBorder)
		if box.Empty() {
			box = seg.Bounds
		}
		m, err := o.lookup(fb.Image(box), o.cursorPolicy)
		if err == nil {
			return o.iconOutcome(m, fb, box), nil
		}
		lastErr = err
	}
	m, box, err := o.bestWindow(fb, fb.Bounds(), o.cursorPolicy)
	if err != nil {
		if failure.KindOf(lastErr) == failure.KindLowConfidence {
			return outcome{}, lastErr
		}
		return outcome{}, err
	}
	return o.iconOutcome(m, fb, box), nil
}

// tooltipScan reads the tooltip title beside p, then the icon inside the
// tooltip, and without a tooltip falls through to the icon scan while
// still holding the tooltip lock.
func (o *Orchestrator) tooltipScan(h held, p image.Point) (outcome, error) {
	c := o.cfg
	fb, err := o.grab(capture.RegionBeside(p, c.TooltipCaptureLeft, c.TooltipCaptureW, c.TooltipCaptureH, o.screen()))
	if err != nil {
		return outcome{}, err
	}
	tt, ok := segment.FindTooltip(fb, o.tooltipOpts)
	if !ok {
		if o.logger != nil {
			o.logger.Debug("no tooltip, falling back to icon scan", "point", p.String())
		}
		out, err := o.iconScan(h, p)
		out.fallback = true
		return out, err
	}
	region := fb.ScreenRect(tt.Box)
	if mc, err := o.matchText(o.read(fb, tt.Box, tooltipText)); err == nil {
		return outcome{match: mc, region: region, fallback: tt.Fallback}, nil
	}
	// the icon sits inside the tooltip; the inflated margin only holds the
	// tooltip's own border
	inner := capture.Inset(tt.Box, c.InflateMargin+1)
	if inner.Empty() {
		inner = tt.Box
	}
	m, box, err := o.bestWindow(fb, inner, o.tooltipPolicy)
	if err != nil {
		return outcome{region: region}, err
	}
	out := o.iconOutcome(m, fb, box)
	out.fallback = true
	return out, nil
}

// nameScan reads the text around p and, when it names nothing, runs the
// tooltip scan under the tooltip lock.
func (o *Orchestrator) nameScan(h held, p image.Point) (outcome, error) {
	c := o.cfg
	fb, err := o.grab(capture.RegionAround(p, c.NameCaptureW, c.NameCaptureH, o.screen()))
	if err == nil {
		if mc, err := o.matchText(o.read(fb, fb.Bounds(), nameText)); err == nil {
			return outcome{match: mc, region: fb.ScreenRect(fb.Bounds())}, nil
		}
	}
	h = o.tooltipLock.lock(h)
	defer o.tooltipLock.unlock()
	out, err := o.tooltipScan(h, p)
	out.fallback = true
	return out, err
}

// iconRectScan matches a user-dragged rectangle, first as one crop and then
// window by window.
func (o *Orchestrator) iconRectScan(_ held, r image.Rectangle) (outcome, error) {
	fb, err := o.grab(r.Intersect(o.screen()))
	if err != nil {
		return outcome{}, err
	}
	if m, err := o.lookup(fb.Image(fb.Bounds()), o.rectPolicy); err == nil {
		return o.iconOutcome(m, fb, fb.Bounds()), nil
	}
	m, box, err := o.bestWindow(fb, fb.Bounds(), o.rectPolicy)
	if err != nil {
		return outcome{}, err
	}
	return o.iconOutcome(m, fb, box), nil
}

func (o *Orchestrator) lookup(img image.Image, p iconhash.Policy) (iconhash.Match, error) {
	if o.icons == nil {
		return iconhash.Match{}, failure.NotFound("icon match", "no icon index")
	}
	return o.icons.Lookup(img, p)
}

// bestWindow hashes every prefiltered window of area and keeps the closest
// accepted icon.
func (o *Orchestrator) bestWindow(fb capture.FrameBuffer, area image.Rectangle, p iconhash.Policy) (iconhash.Match, image.Rectangle, error) {
	const op = "icon search"
	var (
		best    iconhash.Match
		bestBox image.Rectangle
		found   bool
	)
	for _, w := range iconhash.Candidates(fb, area, o.windowOpts) {
		m, err := o.lookup(fb.Image(w), p)
		if err != nil {
			continue
		}
		if !found || m.Distance < best.Distance {
			best, bestBox, found = m, w, true
		}
	}
	if !found {
		return iconhash.Match{}, image.Rectangle{}, failure.NotFound(op, "no icon matched")
	}
	return best, bestBox, nil
}

func (o *Orchestrator) iconOutcome(m iconhash.Match, fb capture.FrameBuffer, box image.Rectangle) outcome {
	name := m.ID
	if it, ok := o.catalog.Get().Item(m.ID); ok {
		name = it.Name
	}
	return outcome{
		match: textmatch.MatchCandidate{
			ItemID:     m.ID,
			Name:       name,
			Confidence: m.Score,
			Method:     textmatch.MethodHash,
		},
		region: fb.ScreenRect(box),
	}
}

func (o *Orchestrator) read(fb capture.FrameBuffer, r image.Rectangle, opts ocr.Options) string {
	if o.reader == nil {
		return ""
	}
	return o.reader.Read(fb, r, opts)
}

func (o *Orchestrator) matchText(text string) (textmatch.MatchCandidate, error) {
	if o.matcher == nil {
		return textmatch.MatchCandidate{}, failure.NotFound("text match", "no matcher")
	}
	return o.matcher.MatchText(text)
}

type constError string

func (e constError) Error() string { return string(e) }

const errNoSource = constError("no capture source")
