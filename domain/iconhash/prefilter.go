package iconhash

import (
	"image"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/soocke/loot-lens-go/domain/capture"
)

// Contrast returns interior mean luminance minus border mean luminance of r.
// The border band is an eighth of the shorter side, at least two pixels.
func Contrast(fb capture.FrameBuffer, r image.Rectangle) float64 {
	r = r.Intersect(fb.Bounds())
	band := max(2, min(r.Dx(), r.Dy())/8)
	inner := capture.Inset(r, band)
	if inner.Empty() {
		return 0
	}
	border := make([]float64, 0, 2*band*(r.Dx()+r.Dy()))
	interior := make([]float64, 0, inner.Dx()*inner.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			v := float64(fb.Luma(x, y))
			if (image.Point{X: x, Y: y}).In(inner) {
				interior = append(interior, v)
			} else {
				border = append(border, v)
			}
		}
	}
	return stat.Mean(interior, nil) - stat.Mean(border, nil)
}

// LooksLikeIcon reports whether r is a lighter sprite on a darker slot.
func LooksLikeIcon(fb capture.FrameBuffer, r image.Rectangle, minContrast float64) bool {
	return Contrast(fb, r) > minContrast
}

// WindowOptions controls the sliding candidate search.
type WindowOptions struct {
	MinSize, MaxSize, Step int
	Stride                 int
	MinContrast            float64
	MaxCandidates          int
}

// Candidates slides square windows over area and returns those that pass the
// icon prefilter, highest contrast first, capped at MaxCandidates. Window
// means come from a summed-area table so each placement costs O(1).
func Candidates(fb capture.FrameBuffer, area image.Rectangle, opts WindowOptions) []image.Rectangle {
	area = area.Intersect(fb.Bounds())
	if area.Empty() || opts.MinSize <= 0 {
		return nil
	}
	step := max(1, opts.Step)
	stride := max(1, opts.Stride)
	sat := newSummedArea(fb, area)
	type scored struct {
		r image.Rectangle
		c float64
	}
	var found []scored
	for size := opts.MinSize; size <= opts.MaxSize; size += step {
		band := max(2, size/8)
		for y := area.Min.Y; y+size <= area.Max.Y; y += stride {
			for x := area.Min.X; x+size <= area.Max.X; x += stride {
				r := image.Rect(x, y, x+size, y+size)
				inner := capture.Inset(r, band)
				if inner.Empty() {
					continue
				}
				total, in := sat.sum(r), sat.sum(inner)
				nIn := float64(inner.Dx() * inner.Dy())
				nBorder := float64(r.Dx()*r.Dy()) - nIn
				c := in/nIn - (total-in)/nBorder
				if c > opts.MinContrast {
					found = append(found, scored{r, c})
				}
			}
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].c > found[j].c })
	if opts.MaxCandidates > 0 && len(found) > opts.MaxCandidates {
		found = found[:opts.MaxCandidates]
	}
	out := make([]image.Rectangle, len(found))
	for i, s := range found {
		out[i] = s.r
	}
	return out
}

// summedArea is an integral image of luminance over a frame region.
type summedArea struct {
	origin image.Point
	w      int
	table  []float64 // (w+1)*(h+1)
}

func newSummedArea(fb capture.FrameBuffer, area image.Rectangle) *summedArea {
	w, h := area.Dx(), area.Dy()
	s := &summedArea{origin: area.Min, w: w, table: make([]float64, (w+1)*(h+1))}
	for y := 0; y < h; y++ {
		var row float64
		for x := 0; x < w; x++ {
			row += float64(fb.Luma(area.Min.X+x, area.Min.Y+y))
			s.table[(y+1)*(w+1)+x+1] = s.table[y*(w+1)+x+1] + row
		}
	}
	return s
}

func (s *summedArea) sum(r image.Rectangle) float64 {
	r = r.Sub(s.origin)
	at := func(x, y int) float64 { return s.table[y*(s.w+1)+x] }
	return at(r.Max.X, r.Max.Y) - at(r.Min.X, r.Max.Y) - at(r.Max.X, r.Min.Y) + at(r.Min.X, r.Min.Y)
}
