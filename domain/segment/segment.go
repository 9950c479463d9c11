// Package segment finds connected colour regions in captured frames.
package segment

import (
	"image"
	"sort"
	"sync"

	"github.com/soocke/loot-lens-go/domain/capture"
)

// Segment is one 4-connected component. Bounds is the tight bounding box of
// every matched pixel; Centroid is the mean pixel position (frame-local).
type Segment struct {
	Bounds     image.Rectangle
	PixelCount int
	CentroidX  float64
	CentroidY  float64
}

// Empty reports whether s holds no pixels.
func (s Segment) Empty() bool { return s.PixelCount == 0 }

// visitedPool recycles visited bitmaps between passes; frames of similar size
// are segmented every tick.
var visitedPool sync.Pool // stores *[]bool

func acquireVisited(n int) *[]bool {
	if v, ok := visitedPool.Get().(*[]bool); ok && cap(*v) >= n {
		s := (*v)[:n]
		clear(s)
		*v = s
		return v
	}
	s := make([]bool, n)
	return &s
}

func releaseVisited(v *[]bool) {
	if v != nil {
		visitedPool.Put(v)
	}
}

// filler runs flood fills over one frame with a shared visited bitmap and stack.
type filler struct {
	fb      capture.FrameBuffer
	pred    Predicate
	area    image.Rectangle
	visited []bool
	stack   []int
}

func (f *filler) match(x, y int) bool {
	r, g, b := f.fb.RGB(x, y)
	return f.pred(r, g, b)
}

// fill grows the component containing (sx, sy) and marks it visited.
func (f *filler) fill(sx, sy int) Segment {
	w := f.fb.Width
	minX, minY, maxX, maxY := sx, sy, sx, sy
	var sumX, sumY float64
	count := 0
	f.stack = append(f.stack[:0], sy*w+sx)
	f.visited[sy*w+sx] = true
	for len(f.stack) > 0 {
		idx := f.stack[len(f.stack)-1]
		f.stack = f.stack[:len(f.stack)-1]
		x, y := idx%w, idx/w
		count++
		sumX += float64(x)
		sumY += float64(y)
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
		f.push(x-1, y)
		f.push(x+1, y)
		f.push(x, y-1)
		f.push(x, y+1)
	}
	return Segment{
		Bounds:     image.Rect(minX, minY, maxX+1, maxY+1),
		PixelCount: count,
		CentroidX:  sumX / float64(count),
		CentroidY:  sumY / float64(count),
	}
}

func (f *filler) push(x, y int) {
	if x < f.area.Min.X || y < f.area.Min.Y || x >= f.area.Max.X || y >= f.area.Max.Y {
		return
	}
	i := y*f.fb.Width + x
	if f.visited[i] || !f.match(x, y) {
		return
	}
	f.visited[i] = true
	f.stack = append(f.stack, i)
}

// seed starts a fill at (x, y) when it is an unvisited matching pixel.
func (f *filler) seed(x, y int) (Segment, bool) {
	i := y*f.fb.Width + x
	if f.visited[i] {
		return Segment{}, false
	}
	f.visited[i] = true
	if !f.match(x, y) {
		return Segment{}, false
	}
	return f.fill(x, y), true
}

func newFiller(fb capture.FrameBuffer, pred Predicate, area image.Rectangle) *filler {
	return &filler{fb: fb, pred: pred, area: area.Intersect(fb.Bounds())}
}

// Components returns every 4-connected component of pixels in area matching
// pred with at least minPixels pixels, largest first (ties by position).
func Components(fb capture.FrameBuffer, pred Predicate, area image.Rectangle, minPixels int) []Segment {
	if fb.Empty() || pred == nil {
		return nil
	}
	f := newFiller(fb, pred, area)
	if f.area.Empty() {
		return nil
	}
	vis := acquireVisited(fb.Width * fb.Height)
	defer releaseVisited(vis)
	f.visited = *vis
	var out []Segment
	for y := f.area.Min.Y; y < f.area.Max.Y; y++ {
		for x := f.area.Min.X; x < f.area.Max.X; x++ {
			s, ok := f.seed(x, y)
			if ok && s.PixelCount >= minPixels {
				out = append(out, s)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PixelCount > out[j].PixelCount })
	return out
}

// Largest returns the biggest component in area, or false when none has minPixels.
func Largest(fb capture.FrameBuffer, pred Predicate, area image.Rectangle, minPixels int) (Segment, bool) {
	segs := Components(fb, pred, area, minPixels)
	if len(segs) == 0 {
		return Segment{}, false
	}
	return segs[0], true
}

// Nearest returns the component closest to p (distance from p to the
// component bounds, then pixel count), or false when none qualifies.
func Nearest(fb capture.FrameBuffer, pred Predicate, area image.Rectangle, p image.Point, minPixels int) (Segment, bool) {
	best := Segment{}
	bestD := -1
	for _, s := range Components(fb, pred, area, minPixels) {
		d := rectDistSq(s.Bounds, p)
		if bestD < 0 || d < bestD || (d == bestD && s.PixelCount > best.PixelCount) {
			best, bestD = s, d
		}
	}
	return best, bestD >= 0
}

func rectDistSq(r image.Rectangle, p image.Point) int {
	dx, dy := 0, 0
	if p.X < r.Min.X {
		dx = r.Min.X - p.X
	} else if p.X >= r.Max.X {
		dx = p.X - r.Max.X + 1
	}
	if p.Y < r.Min.Y {
		dy = r.Min.Y - p.Y
	} else if p.Y >= r.Max.Y {
		dy = p.Y - r.Max.Y + 1
	}
	return dx*dx + dy*dy
}
