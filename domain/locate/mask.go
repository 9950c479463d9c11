// Package locate finds the player marker on the map view, by reading
// location labels or by segmenting and refining marker pixels.
package locate

import (
	"image"

	"github.com/soocke/loot-lens-go/domain/capture"
	"github.com/soocke/loot-lens-go/domain/segment"
)

// Mask is a boolean pixel mask over a frame area.
type Mask struct {
	Area  image.Rectangle // frame-local area the mask covers
	Bits  []bool          // row-major, Area.Dx()*Area.Dy()
	Count int
}

// MarkerColor matches the saturated yellow of the player arrow.
func MarkerColor(r, g, b uint8) bool {
	return r >= 200 && g >= 160 && b <= 100 && int(r)-int(b) >= 120
}

// BuildMask marks every pixel of area matching pred.
func BuildMask(fb capture.FrameBuffer, pred segment.Predicate, area image.Rectangle) Mask {
	area = area.Intersect(fb.Bounds())
	m := Mask{Area: area, Bits: make([]bool, area.Dx()*area.Dy())}
	w := area.Dx()
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			if pred(fb.RGB(x, y)) {
				m.Bits[(y-area.Min.Y)*w+x-area.Min.X] = true
				m.Count++
			}
		}
	}
	return m
}

// NewMask builds a mask of the given size from frame-local points.
func NewMask(area image.Rectangle, pts []image.Point) Mask {
	m := Mask{Area: area, Bits: make([]bool, area.Dx()*area.Dy())}
	for _, p := range pts {
		m.Set(p)
	}
	return m
}

// Set marks p; points outside the area are ignored.
func (m *Mask) Set(p image.Point) {
	if !p.In(m.Area) {
		return
	}
	i := (p.Y-m.Area.Min.Y)*m.Area.Dx() + p.X - m.Area.Min.X
	if !m.Bits[i] {
		m.Bits[i] = true
		m.Count++
	}
}

// At reports whether frame-local (x, y) is set.
func (m Mask) At(x, y int) bool {
	if x < m.Area.Min.X || y < m.Area.Min.Y || x >= m.Area.Max.X || y >= m.Area.Max.Y {
		return false
	}
	return m.Bits[(y-m.Area.Min.Y)*m.Area.Dx()+x-m.Area.Min.X]
}

// Points lists the set pixels in frame-local coordinates.
func (m Mask) Points() []image.Point {
	pts := make([]image.Point, 0, m.Count)
	w := m.Area.Dx()
	for i, on := range m.Bits {
		if on {
			pts = append(pts, image.Pt(m.Area.Min.X+i%w, m.Area.Min.Y+i/w))
		}
	}
	return pts
}
