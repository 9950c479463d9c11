package segment

import (
	"image"

	"github.com/soocke/loot-lens-go/config"
	"github.com/soocke/loot-lens-go/domain/capture"
)

// TooltipOptions are the size/shape envelope and growth rules for tooltip boxes.
type TooltipOptions struct {
	MinPixels     int
	MinW, MaxW    int
	MinH, MaxH    int
	MaxAspect     float64
	MinFill       float64
	Inflate       int
	ExtendDensity float64
	ExtendMax     int
	SeedStride    int
}

// TooltipOptionsFrom builds options from cfg; nil uses defaults.
func TooltipOptionsFrom(cfg *config.Config) TooltipOptions {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return TooltipOptions{
		MinPixels:     cfg.TooltipMinPixels,
		MinW:          cfg.TooltipMinW,
		MaxW:          cfg.TooltipMaxW,
		MinH:          cfg.TooltipMinH,
		MaxH:          cfg.TooltipMaxH,
		MaxAspect:     cfg.TooltipMaxAspect,
		MinFill:       cfg.TooltipMinFill,
		Inflate:       cfg.InflateMargin,
		ExtendDensity: cfg.ExtendDensity,
		ExtendMax:     cfg.ExtendMaxPixels,
		SeedStride:    2,
	}
}

// Tooltip is a detected tooltip: the winning component and the grown box.
type Tooltip struct {
	Segment  Segment
	Box      image.Rectangle
	Fallback bool // found with the near-white predicate
}

// FindTooltip looks for a warm tooltip background, then for a near-white one.
func FindTooltip(fb capture.FrameBuffer, opts TooltipOptions) (Tooltip, bool) {
	if seg, box, ok := FindBox(fb, WarmTooltip, opts); ok {
		return Tooltip{Segment: seg, Box: box}, true
	}
	if seg, box, ok := FindBox(fb, NearWhiteTooltip, opts); ok {
		return Tooltip{Segment: seg, Box: box, Fallback: true}, true
	}
	return Tooltip{}, false
}

// FindBox returns the best-scoring component for pred that passes the
// envelope, with its box inflated and right-extended. Seeds run right to
// left, top to bottom, over the right half of the frame first; the left half
// is only seeded when the right half yields nothing.
func FindBox(fb capture.FrameBuffer, pred Predicate, opts TooltipOptions) (Segment, image.Rectangle, bool) {
	if fb.Empty() || pred == nil {
		return Segment{}, image.Rectangle{}, false
	}
	stride := max(1, opts.SeedStride)
	f := newFiller(fb, pred, fb.Bounds())
	vis := acquireVisited(fb.Width * fb.Height)
	defer releaseVisited(vis)
	f.visited = *vis

	half := fb.Width / 2
	best, found := scanSeeds(f, half, fb.Width, stride, opts)
	if !found {
		best, found = scanSeeds(f, 0, half, stride, opts)
	}
	if !found {
		return Segment{}, image.Rectangle{}, false
	}
	box := inflate(best.Bounds, opts.Inflate, fb.Bounds())
	box = extendRight(fb, pred, box, opts)
	return best, box, true
}

func scanSeeds(f *filler, x0, x1, stride int, opts TooltipOptions) (Segment, bool) {
	var best Segment
	bestScore := -1.0
	w := float64(f.fb.Width)
	for y := 0; y < f.fb.Height; y += stride {
		for x := x1 - 1; x >= x0; x -= stride {
			s, ok := f.seed(x, y)
			if !ok || !acceptable(s, f.fb, opts) {
				continue
			}
			score := float64(s.PixelCount) * (0.6 + s.CentroidX/w)
			if score > bestScore {
				best, bestScore = s, score
			}
		}
	}
	return best, bestScore >= 0
}

func acceptable(s Segment, fb capture.FrameBuffer, opts TooltipOptions) bool {
	if s.PixelCount < opts.MinPixels {
		return false
	}
	w, h := s.Bounds.Dx(), s.Bounds.Dy()
	if w < opts.MinW || w > opts.MaxW || h < opts.MinH || h > opts.MaxH {
		return false
	}
	aspect := float64(w) / float64(h)
	if aspect < 1 {
		aspect = 1 / aspect
	}
	if aspect > opts.MaxAspect {
		return false
	}
	// Containment: a tooltip is a mostly solid card that does not span the frame.
	if float64(s.PixelCount)/float64(w*h) < opts.MinFill {
		return false
	}
	if w >= fb.Width-1 && h >= fb.Height-1 {
		return false
	}
	return true
}

func inflate(r image.Rectangle, m int, bounds image.Rectangle) image.Rectangle {
	return image.Rect(r.Min.X-m, r.Min.Y-m, r.Max.X+m, r.Max.Y+m).Intersect(bounds)
}

// extendRight grows the right edge while the next column (sampled every
// second row) still matches pred densely enough. Item names drawn near the
// edge split the background into a lighter strip the fill cannot cross.
func extendRight(fb capture.FrameBuffer, pred Predicate, box image.Rectangle, opts TooltipOptions) image.Rectangle {
	for ext := 0; ext < opts.ExtendMax && box.Max.X < fb.Width; ext++ {
		x := box.Max.X
		matches, samples := 0, 0
		for y := box.Min.Y; y < box.Max.Y; y += 2 {
			samples++
			if pred(fb.RGB(x, y)) {
				matches++
			}
		}
		if samples == 0 || float64(matches)/float64(samples) < opts.ExtendDensity {
			break
		}
		box.Max.X++
	}
	return box
}
