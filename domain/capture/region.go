package capture

import "image"

// RegionAround returns a w×h rectangle centred at c, shifted to stay inside
// bounds and shrunk only when bounds is smaller. The result is at least 1×1
// when bounds is non-empty.
func RegionAround(c image.Point, w, h int, bounds image.Rectangle) image.Rectangle {
	if bounds.Empty() {
		return image.Rectangle{}
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	w = min(w, bounds.Dx())
	h = min(h, bounds.Dy())
	x0 := c.X - w/2
	y0 := c.Y - h/2
	x0 = max(bounds.Min.X, min(x0, bounds.Max.X-w))
	y0 = max(bounds.Min.Y, min(y0, bounds.Max.Y-h))
	return image.Rect(x0, y0, x0+w, y0+h)
}

// RegionBeside returns the rectangle starting left pixels left of c and
// extending w pixels wide, vertically centred on c, clipped to bounds.
// Tooltips render to the right of the pointer so the window is skewed right.
func RegionBeside(c image.Point, left, w, h int, bounds image.Rectangle) image.Rectangle {
	r := image.Rect(c.X-left, c.Y-h/2, c.X-left+w, c.Y+h/2)
	return r.Intersect(bounds)
}

// Inset shrinks r by d on every side; an over-inset returns an empty rectangle.
func Inset(r image.Rectangle, d int) image.Rectangle {
	if r.Dx() <= 2*d || r.Dy() <= 2*d {
		return image.Rectangle{}
	}
	return image.Rectangle{Min: r.Min.Add(image.Pt(d, d)), Max: r.Max.Sub(image.Pt(d, d))}
}
