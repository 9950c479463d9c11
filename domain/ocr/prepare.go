package ocr

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/soocke/loot-lens-go/domain/capture"
)

// Prepare crops r from fb, upsamples it by scale (default 2), binarizes with
// Otsu's threshold and makes sure text is dark on a light background.
func Prepare(fb capture.FrameBuffer, r image.Rectangle, scale float64) *image.Gray {
	r = r.Intersect(fb.Bounds())
	if r.Empty() {
		return nil
	}
	if scale <= 0 {
		scale = 2
	}
	g := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			g.Pix[y*g.Stride+x] = fb.Luma(r.Min.X+x, r.Min.Y+y)
		}
	}
	if scale != 1 {
		w := max(1, int(float64(r.Dx())*scale))
		h := max(1, int(float64(r.Dy())*scale))
		up := image.NewGray(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(up, up.Bounds(), g, g.Bounds(), draw.Src, nil)
		g = up
	}
	Binarize(g)
	return g
}

// Binarize thresholds g in place at its Otsu level and inverts it when the
// foreground (the minority class) is light.
func Binarize(g *image.Gray) {
	t := OtsuThreshold(g.Pix)
	light := 0
	for i, v := range g.Pix {
		if v > t {
			g.Pix[i] = 255
			light++
		} else {
			g.Pix[i] = 0
		}
	}
	if light*2 < len(g.Pix) {
		for i := range g.Pix {
			g.Pix[i] = 255 - g.Pix[i]
		}
	}
}

// OtsuThreshold returns the level maximizing between-class variance.
func OtsuThreshold(pix []uint8) uint8 {
	var hist [256]int
	for _, v := range pix {
		hist[v]++
	}
	total := len(pix)
	if total == 0 {
		return 127
	}
	var sum float64
	for i, c := range hist {
		sum += float64(i * c)
	}
	var sumB float64
	wB := 0
	best, level := -1.0, 0
	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)
		between := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if between > best {
			best, level = between, t
		}
	}
	return uint8(level)
}
