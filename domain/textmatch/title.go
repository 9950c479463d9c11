package textmatch

import (
	"strings"
	"unicode"
)

var descriptionWords = []string{
	"fires", "damage", "durability", "magazine", "weight", "reload", "range",
	"stack", "sell", "recycle", "craft", "use to", "used to", "can be", "effect",
	"seconds", "capacity", "per shot",
}

// LineScore rates how title-like a single OCR line is:
// 2×uppercase ratio + min(1, len/18) − penalty. Lines without letters score
// below zero.
func LineScore(line string) float64 {
	line = strings.TrimSpace(line)
	letters, upper := 0, 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return -1
	}
	score := 2*float64(upper)/float64(letters) + min(1, float64(len(line))/18)
	lower := strings.ToLower(line)
	for _, w := range descriptionWords {
		if strings.Contains(lower, w) {
			score -= 1.5
			break
		}
	}
	if letters < 3 {
		score -= 1
	}
	return score
}

// TitleLine picks the most title-like non-banner line of multi-line OCR
// output. Ties keep the earlier line.
func TitleLine(text string) (string, bool) {
	best, bestScore := "", -1.0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || IsBanner(line) {
			continue
		}
		if s := LineScore(line); s > bestScore {
			best, bestScore = line, s
		}
	}
	return best, bestScore > 0
}

func splitLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
