// Package iconhash fingerprints icon crops with an edge-map difference hash
// and matches them against a memoized index of known icons.
package iconhash

import (
	"image"
	"image/color"
	"math"

	"github.com/corona10/goimagehash"
	"golang.org/x/image/draw"
)

// Size is the side of the normalized icon canvas.
const Size = 64

// EdgeFloor zeroes gradient magnitudes below it so sensor-level noise on flat
// slots does not reach the hash.
const EdgeFloor = 48

// Background is the slot colour odd-aspect and transparent icons are
// composited onto before hashing.
var Background = color.RGBA{R: 28, G: 30, B: 34, A: 255}

// Compute hashes an arbitrarily sized icon crop. Equal inputs always give
// equal hashes. Crops without horizontal edge structure (flat slots,
// horizontal stripes) hash to 0.
func Compute(img image.Image) uint64 {
	if img == nil || img.Bounds().Empty() {
		return 0
	}
	return DHash(EdgeMap(Normalize(img)))
}

// Normalize fits img into a Size×Size canvas filled with Background,
// preserving aspect ratio and compositing alpha.
func Normalize(img image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)
	sb := img.Bounds()
	w, h := sb.Dx(), sb.Dy()
	if w <= 0 || h <= 0 {
		return dst
	}
	if w == Size && h == Size {
		draw.Draw(dst, dst.Bounds(), img, sb.Min, draw.Over)
		return dst
	}
	fw, fh := Size, Size
	if w > h {
		fh = max(1, int(math.Round(float64(Size*h)/float64(w))))
	} else if h > w {
		fw = max(1, int(math.Round(float64(Size*w)/float64(h))))
	}
	x0, y0 := (Size-fw)/2, (Size-fh)/2
	draw.BiLinear.Scale(dst, image.Rect(x0, y0, x0+fw, y0+fh), img, sb, draw.Over, nil)
	return dst
}

// EdgeMap runs a 3×3 Sobel operator over the luminance of img and returns the
// clamped gradient magnitude. Border pixels replicate their neighbours.
func EdgeMap(img *image.RGBA) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	lum := make([]int, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			i := x * 4
			lum[y*w+x] = int((77*uint32(row[i]) + 150*uint32(row[i+1]) + 29*uint32(row[i+2])) >> 8)
		}
	}
	at := func(x, y int) int {
		x = max(0, min(w-1, x))
		y = max(0, min(h-1, y))
		return lum[y*w+x]
	}
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			m := int(math.Sqrt(float64(gx*gx + gy*gy)))
			if m < EdgeFloor {
				m = 0
			}
			out.Pix[y*out.Stride+x] = uint8(min(255, m))
		}
	}
	return out
}

// DHash downsamples edges to 9×8 and sets bit i when the left sample of the
// i-th horizontal pair is darker than the right one.
func DHash(edges *image.Gray) uint64 {
	small := image.NewGray(image.Rect(0, 0, 9, 8))
	draw.BiLinear.Scale(small, small.Bounds(), edges, edges.Bounds(), draw.Src, nil)
	var h uint64
	idx := 0
	for y := 0; y < 8; y++ {
		row := small.Pix[y*small.Stride:]
		for x := 0; x < 8; x++ {
			if row[x] < row[x+1] {
				h |= 1 << (63 - idx)
			}
			idx++
		}
	}
	return h
}

// Distance is the Hamming distance between two hashes, in [0,64].
func Distance(a, b uint64) int {
	ha := goimagehash.NewImageHash(a, goimagehash.DHash)
	hb := goimagehash.NewImageHash(b, goimagehash.DHash)
	d, err := ha.Distance(hb)
	if err != nil {
		return 64
	}
	return d
}

// Score maps a distance to a similarity in [0,1].
func Score(distance int) float64 {
	return 1 - float64(distance)/64
}
