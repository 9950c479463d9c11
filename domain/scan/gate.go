package scan

import (
	"image"
	"sync"

	"github.com/corona10/goimagehash"
	xdraw "golang.org/x/image/draw"

	"github.com/soocke/loot-lens-go/domain/capture"
)

const gateThumb = 128

// frameGate reports when a full frame is perceptually the same as the last
// reference frame, so the tick can reuse the previous classification and
// skip its OCR passes. The reference only moves when a frame differs, so
// slow drift still registers eventually.
type frameGate struct {
	mu      sync.Mutex
	maxDist int
	last    *goimagehash.ImageHash
}

func newFrameGate(maxDist int) *frameGate { return &frameGate{maxDist: maxDist} }

func (g *frameGate) unchanged(fb capture.FrameBuffer) bool {
	if fb.Empty() {
		return false
	}
	src := &image.RGBA{Pix: fb.Pix, Stride: fb.Stride, Rect: fb.Bounds()}
	thumb := image.NewRGBA(image.Rect(0, 0, gateThumb, gateThumb))
	xdraw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	hash, err := goimagehash.PerceptionHash(thumb)
	if err != nil {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last == nil {
		g.last = hash
		return false
	}
	dist, err := g.last.Distance(hash)
	if err != nil || dist > g.maxDist {
		g.last = hash
		return false
	}
	return true
}

func (g *frameGate) reset() {
	g.mu.Lock()
	g.last = nil
	g.mu.Unlock()
}
