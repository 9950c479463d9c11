package segment

import (
	"image"
	"image/color"

	"github.com/soocke/loot-lens-go/domain/capture"
)

var background = color.RGBA{22, 24, 28, 255}

// solidFrame creates a w×h frame filled with c.
func solidFrame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, 255
	}
	return img
}

// fillRect paints r with c (clamped to the image).
func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func frameOf(img *image.RGBA) capture.FrameBuffer {
	return capture.FromRGBA(img, image.Point{}, timeZero)
}
