package segment

import "github.com/soocke/loot-lens-go/domain/capture"

// Predicate reports whether a pixel belongs to the region being segmented.
type Predicate func(r, g, b uint8) bool

func spread(r, g, b uint8) int {
	hi, lo := r, r
	for _, c := range [2]uint8{g, b} {
		if c > hi {
			hi = c
		}
		if c < lo {
			lo = c
		}
	}
	return int(hi) - int(lo)
}

// nearWhite pixels are excluded from the warm test: they belong to bright
// highlights, not to tooltip paper.
func nearWhite(r, g, b uint8) bool {
	return r >= 236 && g >= 236 && b >= 236 && spread(r, g, b) <= 10
}

// WarmTooltip matches the beige tooltip background: a light neutral band with
// low channel spread, or a cream tone where red >= green >= blue.
func WarmTooltip(r, g, b uint8) bool {
	if nearWhite(r, g, b) {
		return false
	}
	l := capture.Luma(r, g, b)
	if l >= 205 && l <= 235 && spread(r, g, b) <= 18 {
		return true
	}
	warm := int(r) - int(b)
	return r >= 190 && r >= g && g >= b && warm >= 12 && warm <= 60 && l >= 185 && l <= 240
}

// NearWhiteTooltip is the fallback used only when WarmTooltip finds nothing.
func NearWhiteTooltip(r, g, b uint8) bool {
	return capture.Luma(r, g, b) >= 210 && spread(r, g, b) <= 22
}

// Highlight matches cursor-selection colours: very bright, or bright with a
// blue lean.
func Highlight(r, g, b uint8) bool {
	if r >= 235 && g >= 235 && b >= 235 {
		return true
	}
	return b >= 200 && int(b)-int(r) >= 30 && capture.Luma(r, g, b) >= 150
}

// ColorNear returns a predicate accepting pixels within tol of (r0,g0,b0) on every channel.
func ColorNear(r0, g0, b0 uint8, tol int) Predicate {
	return func(r, g, b uint8) bool {
		return absInt(int(r)-int(r0)) <= tol && absInt(int(g)-int(g0)) <= tol && absInt(int(b)-int(b0)) <= tol
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
