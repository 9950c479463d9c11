package locate

import (
	"strings"

	"github.com/soocke/loot-lens-go/domain/catalog"
	"github.com/soocke/loot-lens-go/domain/textmatch"
)

// LocationScore rates how well OCR text names a location: +10 when the whole
// name appears, +len(token) for every name token found as a word, and
// +len(overlap)/2 for tokens only partially present (overlap ≥ 3).
func LocationScore(text, name string) float64 {
	t := textmatch.Normalize(text)
	n := textmatch.Normalize(name)
	if t == "" || n == "" {
		return 0
	}
	score := 0.0
	if strings.Contains(t, n) {
		score += 10
	}
	words := strings.Fields(t)
	for _, tok := range strings.Fields(n) {
		if len(tok) < 3 {
			continue
		}
		best := 0
		for _, w := range words {
			if w == tok {
				best = len(tok)
				break
			}
			best = max(best, commonSubstring(tok, w))
		}
		switch {
		case best == len(tok):
			score += float64(len(tok))
		case best >= 3:
			score += float64(best) / 2
		}
	}
	return score
}

// BestLocation scores every location of m against text and returns the
// highest, if it reaches minScore. Ties keep the earlier location.
func BestLocation(text string, m catalog.Map, minScore float64) (catalog.MapLocation, float64, bool) {
	var best catalog.MapLocation
	bestScore := -1.0
	for _, loc := range m.Locations {
		if s := LocationScore(text, loc.Name); s > bestScore {
			best, bestScore = loc, s
		}
	}
	if bestScore < minScore {
		return catalog.MapLocation{}, bestScore, false
	}
	return best, bestScore, true
}

// commonSubstring returns the length of the longest common substring.
func commonSubstring(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	best := 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				best = max(best, cur[j])
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return best
}
