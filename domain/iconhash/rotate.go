package iconhash

import (
	"image"

	"github.com/disintegration/imaging"
)

// Rotations returns img rotated by 0, 90, 180 and 270 degrees, in that order.
func Rotations(img image.Image) [4]image.Image {
	return [4]image.Image{
		img,
		imaging.Rotate90(img),
		imaging.Rotate180(img),
		imaging.Rotate270(img),
	}
}

// RotatedHashes hashes every rotation of img.
func RotatedHashes(img image.Image) [4]uint64 {
	var out [4]uint64
	for i, r := range Rotations(img) {
		out[i] = Compute(r)
	}
	return out
}
