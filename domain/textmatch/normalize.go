// Package textmatch cleans OCR text and matches it against catalog names.
package textmatch

import (
	"strings"
	"unicode"
)

var confusables = map[rune]rune{
	'|': 'i',
	'1': 'i',
	'0': 'o',
}

// Normalize lowercases s, maps OCR-confusable glyphs, drops characters
// outside [a-z0-9 -'] and collapses whitespace.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := true // suppresses leading spaces
	for _, r := range strings.ToLower(s) {
		if m, ok := confusables[r]; ok {
			r = m
		}
		switch {
		case unicode.IsSpace(r):
			if !space {
				b.WriteByte(' ')
				space = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '\'':
			b.WriteRune(r)
			space = false
		}
	}
	return strings.TrimRight(b.String(), " ")
}

var romanNumerals = map[string]bool{
	"i": true, "ii": true, "iii": true, "iv": true, "v": true,
	"vi": true, "vii": true, "viii": true, "ix": true, "x": true,
}

// RomanSuffix returns the trailing standalone roman numeral (i..x) of a
// normalized string.
func RomanSuffix(norm string) (string, bool) {
	i := strings.LastIndexByte(norm, ' ')
	if i < 0 {
		return "", false
	}
	last := norm[i+1:]
	if romanNumerals[last] {
		return last, true
	}
	return "", false
}

// ParseRoman converts i..x to 1..10.
func ParseRoman(s string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "i":
		return 1, true
	case "ii":
		return 2, true
	case "iii":
		return 3, true
	case "iv":
		return 4, true
	case "v":
		return 5, true
	case "vi":
		return 6, true
	case "vii":
		return 7, true
	case "viii":
		return 8, true
	case "ix":
		return 9, true
	case "x":
		return 10, true
	}
	return 0, false
}

var rarityWords = map[string]bool{
	"common": true, "uncommon": true, "rare": true, "epic": true, "legendary": true,
}

var categoryWords = map[string]bool{
	"scrap": true, "material": true, "materials": true, "weapon": true, "shield": true,
	"augment": true, "mod": true, "ammo": true, "ammunition": true, "key": true,
	"trinket": true, "nature": true, "recyclable": true, "gadget": true, "consumable": true,
	"quick": true, "blueprint": true, "topside": true, "refined": true, "basic": true,
}

// IsBanner reports whether line looks like a rarity/category classifier
// rather than an item name: a rarity word plus a category word, or a rarity
// word in a line of at most three words.
func IsBanner(line string) bool {
	words := strings.Fields(Normalize(line))
	rarity, category := false, false
	for _, w := range words {
		rarity = rarity || rarityWords[w]
		category = category || categoryWords[w]
	}
	return rarity && (category || len(words) <= 3)
}
