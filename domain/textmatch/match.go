package textmatch

import (
	"sort"
	"strings"
)

// Method is the ladder tier (or hash path) that produced a match.
type Method int

const (
	MethodExact Method = iota + 1
	MethodSubstring
	MethodWordSet
	MethodFuzzy
	MethodHash
)

func (m Method) String() string {
	switch m {
	case MethodExact:
		return "exact"
	case MethodSubstring:
		return "substring"
	case MethodWordSet:
		return "word_set"
	case MethodFuzzy:
		return "fuzzy"
	case MethodHash:
		return "hash"
	default:
		return "none"
	}
}

// Tier confidences.
const (
	ExactConfidence     = 1.0
	SubstringConfidence = 0.9
	WordSetConfidence   = 0.85
)

// Candidate is one matchable name for an item. Items with a short name
// contribute two candidates.
type Candidate struct {
	ItemID string
	Name   string
}

// MatchCandidate is the best match for one query.
type MatchCandidate struct {
	ItemID      string  `json:"item_id"`
	Name        string  `json:"name"`
	Confidence  float64 `json:"confidence"`
	Method      Method  `json:"method"`
	MatchedText string  `json:"matched_text"`
}

type prepared struct {
	Candidate
	norm   string
	roman  string
	hasRom bool
	tokens []string
}

// prepare normalizes candidates once and orders them longest normalized name
// first, so the first substring hit is the most specific.
func prepare(cands []Candidate) []prepared {
	out := make([]prepared, 0, len(cands))
	for _, c := range cands {
		n := Normalize(c.Name)
		if n == "" {
			continue
		}
		r, ok := RomanSuffix(n)
		out = append(out, prepared{Candidate: c, norm: n, roman: r, hasRom: ok, tokens: strings.Fields(n)})
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i].norm) > len(out[j].norm) })
	return out
}

// Match runs the ladder exact → substring → all-words → fuzzy over cands and
// returns the first hit of the highest tier. Fuzzy hits below minFuzzy are
// dropped.
func Match(query string, cands []Candidate, minFuzzy float64) (MatchCandidate, bool) {
	return matchPrepared(query, prepare(cands), minFuzzy)
}

func matchPrepared(query string, cands []prepared, minFuzzy float64) (MatchCandidate, bool) {
	q := Normalize(query)
	if q == "" || len(cands) == 0 {
		return MatchCandidate{}, false
	}
	qRomans := romanTokens(q)
	allowed := func(c *prepared) bool {
		return !c.hasRom || len(qRomans) == 0 || qRomans[c.roman]
	}
	hit := func(c *prepared, conf float64, m Method) MatchCandidate {
		return MatchCandidate{ItemID: c.ItemID, Name: c.Name, Confidence: conf, Method: m, MatchedText: query}
	}

	for i := range cands {
		if c := &cands[i]; allowed(c) && c.norm == q {
			return hit(c, ExactConfidence, MethodExact), true
		}
	}
	for i := range cands {
		if c := &cands[i]; allowed(c) && len(c.norm) >= 3 && containsWords(q, c.norm) {
			return hit(c, SubstringConfidence, MethodSubstring), true
		}
	}
	// A query inside several names belongs to the shortest of them.
	if len(q) >= 3 {
		var within *prepared
		for i := range cands {
			c := &cands[i]
			if allowed(c) && containsWords(c.norm, q) && (within == nil || len(c.norm) < len(within.norm)) {
				within = c
			}
		}
		if within != nil {
			return hit(within, SubstringConfidence, MethodSubstring), true
		}
	}
	for i := range cands {
		if c := &cands[i]; allowed(c) && allWordsPresent(q, c.tokens) {
			return hit(c, WordSetConfidence, MethodWordSet), true
		}
	}

	var best *prepared
	bestConf := -1.0
	lq := len([]rune(q))
	for i := range cands {
		c := &cands[i]
		if !allowed(c) {
			continue
		}
		ln := len([]rune(c.norm))
		d := Levenshtein(q, c.norm)
		if d > max(4, min(lq, ln)*2/5) {
			continue
		}
		conf := max(0, 1-float64(d)/float64(max(lq, ln)))
		if conf > bestConf {
			best, bestConf = c, conf
		}
	}
	if best == nil || bestConf < minFuzzy {
		return MatchCandidate{}, false
	}
	return hit(best, bestConf, MethodFuzzy), true
}

// containsWords reports whether needle occurs in hay on word boundaries.
func containsWords(hay, needle string) bool {
	return strings.Contains(" "+hay+" ", " "+needle+" ")
}

// romanTokens returns every standalone roman numeral in a normalized string.
// A candidate with a roman suffix is only compared against a query that
// carries the same numeral, wherever it sits in the query.
func romanTokens(norm string) map[string]bool {
	var out map[string]bool
	for _, w := range strings.Fields(norm) {
		if romanNumerals[w] {
			if out == nil {
				out = map[string]bool{}
			}
			out[w] = true
		}
	}
	return out
}

func allWordsPresent(q string, tokens []string) bool {
	long := false
	n := 0
	for _, t := range tokens {
		if len(t) < 2 {
			continue
		}
		n++
		if !strings.Contains(q, t) {
			return false
		}
		if len(t) >= 3 {
			long = true
		}
	}
	return n > 0 && long
}
