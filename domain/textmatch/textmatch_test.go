package textmatch

import (
	"testing"

	"github.com/soocke/loot-lens-go/domain/catalog"
	"github.com/soocke/loot-lens-go/domain/failure"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Rusted   COMPONENT ": "rusted component",
		"Ferro |||":             "ferro iii",
		"Stitcher 1":            "stitcher i",
		"B0ttle, (cap)!":        "bottle cap",
		"Tom's  smart-watch":    "tom's smart-watch",
		"":                      "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRomanSuffix(t *testing.T) {
	if r, ok := RomanSuffix("weapon iii"); !ok || r != "iii" {
		t.Fatalf("expected iii, got %q %v", r, ok)
	}
	if _, ok := RomanSuffix("weapon"); ok {
		t.Fatalf("single word has no suffix")
	}
	if _, ok := RomanSuffix("mark xi"); ok {
		t.Fatalf("xi is outside i..x")
	}
	if n, ok := ParseRoman("IV"); !ok || n != 4 {
		t.Fatalf("ParseRoman(IV) = %d %v", n, ok)
	}
}

func TestIsBanner(t *testing.T) {
	cases := map[string]bool{
		"COMMON  SCRAP":            true,
		"Rare":                     true,
		"Epic Weapon Blueprint":    true,
		"Rusted Component":         false,
		"Uncommon find in the old": false,
	}
	for in, want := range cases {
		if got := IsBanner(in); got != want {
			t.Errorf("IsBanner(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		d    int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"same", "same", 0},
	}
	for _, c := range cases {
		if got := Levenshtein(c.a, c.b); got != c.d {
			t.Errorf("Levenshtein(%q,%q) = %d, want %d", c.a, c.b, got, c.d)
		}
		if got := Levenshtein(c.b, c.a); got != c.d {
			t.Errorf("Levenshtein not symmetric for %q,%q", c.a, c.b)
		}
	}
}

var sample = []Candidate{
	{ItemID: "heat", Name: "Damaged Heat Sink"},
	{ItemID: "flash", Name: "Broken Flashlight"},
	{ItemID: "rusted", Name: "Rusted Component"},
	{ItemID: "mech", Name: "Mechanical Components"},
	{ItemID: "w1", Name: "Weapon I"},
	{ItemID: "w3", Name: "Weapon III"},
}

func TestExactMatchHasFullConfidence(t *testing.T) {
	for _, c := range sample {
		m, ok := Match(c.Name, sample, 0.5)
		if !ok || m.ItemID != c.ItemID || m.Confidence != 1 || m.Method != MethodExact {
			t.Fatalf("%s: got %+v ok=%v", c.Name, m, ok)
		}
	}
}

func TestOneEditStillMatchesViaFuzzy(t *testing.T) {
	cases := map[string]string{
		"Damaged Heat Sinc": "heat",
		"Brokem Flashlight": "flash",
		"Rusted Componemt":  "rusted",
	}
	for q, id := range cases {
		m, ok := Match(q, sample, 0.5)
		if !ok || m.ItemID != id {
			t.Fatalf("%q: got %+v ok=%v", q, m, ok)
		}
		if m.Method != MethodFuzzy || m.Confidence < 0.85 {
			t.Fatalf("%q: expected fuzzy tier, got %+v", q, m)
		}
	}
}

func TestRomanSuffixGuard(t *testing.T) {
	only3 := []Candidate{{ItemID: "w3", Name: "Weapon III"}}
	if m, ok := Match("Weapon I", only3, 0); ok {
		t.Fatalf("Weapon I matched %+v", m)
	}
	only1 := []Candidate{{ItemID: "w1", Name: "Weapon I"}}
	if m, ok := Match("Weapon III", only1, 0); ok {
		t.Fatalf("Weapon III matched %+v", m)
	}
	if m, ok := Match("Weapon I", sample, 0.5); !ok || m.ItemID != "w1" {
		t.Fatalf("expected Weapon I, got %+v", m)
	}
}

func TestRomanGuardInsideLongerLine(t *testing.T) {
	weapons := []Candidate{{ItemID: "w1", Name: "Weapon I"}, {ItemID: "w3", Name: "Weapon III"}}
	if m, ok := Match("Weapon II Blueprint", weapons, 0.5); ok {
		t.Fatalf("Weapon II Blueprint matched %+v", m)
	}
	m, ok := Match("Weapon III Blueprint", weapons, 0.5)
	if !ok || m.ItemID != "w3" || m.Method != MethodSubstring {
		t.Fatalf("expected Weapon III substring, got %+v ok=%v", m, ok)
	}
	if m, ok := Match("rustedcomponent", []Candidate{{ItemID: "c", Name: "Component"}}, 0.5); ok && m.Method == MethodSubstring {
		t.Fatalf("substring matched inside a word: %+v", m)
	}
}

func TestLadderTiers(t *testing.T) {
	m, ok := Match("component", sample, 0.5)
	if !ok || m.Method != MethodSubstring || m.ItemID != "rusted" || m.Confidence != 0.9 {
		t.Fatalf("substring: %+v", m)
	}
	m, ok = Match("heat sink damaged slightly", sample, 0.5)
	if !ok || m.Method != MethodWordSet || m.ItemID != "heat" || m.Confidence != 0.85 {
		t.Fatalf("word set: %+v", m)
	}
	if _, ok := Match("zzzz qqqq", sample, 0.5); ok {
		t.Fatalf("nonsense matched")
	}
}

func TestTitleLine(t *testing.T) {
	line, ok := TitleLine("RUSTED\nCOMPONENT\nCOMMON  SCRAP")
	if !ok || line != "COMPONENT" {
		t.Fatalf("title %q ok=%v", line, ok)
	}
	line, _ = TitleLine("Ferro II\nFires heavy rounds with high damage\n")
	if line != "Ferro II" {
		t.Fatalf("description won over title: %q", line)
	}
	if _, ok := TitleLine("\n 123 \n"); ok {
		t.Fatalf("digits only should not give a title")
	}
}

func newMatcher(t *testing.T) *Matcher {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	return NewMatcher(catalog.NewStore(cat), 0.5, 16, nil)
}

func TestMatcherTooltipText(t *testing.T) {
	m := newMatcher(t)
	mc, err := m.MatchText("RUSTED\nCOMPONENT\nCOMMON  SCRAP")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if mc.ItemID != "rusted_component" || mc.Method != MethodSubstring || mc.Confidence != 0.9 {
		t.Fatalf("unexpected %+v", mc)
	}
}

func TestMatcherRejectsBannerLine(t *testing.T) {
	m := newMatcher(t)
	if _, err := m.MatchLine("COMMON SCRAP"); !failure.IsNotFound(err) {
		t.Fatalf("expected banner rejection, got %v", err)
	}
}

func TestMatcherCachesPerSnapshot(t *testing.T) {
	cat, _ := catalog.Parse([]byte("items:\n  - {id: a, name: Alpha Widget}\n"))
	store := catalog.NewStore(cat)
	m := NewMatcher(store, 0.5, 8, nil)
	if _, err := m.MatchLine("Alpha Widget"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.MatchLine("alpha  widget"); err != nil {
		t.Fatal(err)
	}
	if hits, misses := m.CacheStats(); hits != 1 || misses != 1 {
		t.Fatalf("hits=%d misses=%d", hits, misses)
	}
	next, _ := catalog.Parse([]byte("items:\n  - {id: b, name: Zebra Crossing}\n"))
	store.Swap(next)
	if _, err := m.MatchLine("Alpha Widget"); !failure.IsNotFound(err) {
		t.Fatalf("stale cache served after swap: %v", err)
	}
}

func TestMatchAnyDeduplicates(t *testing.T) {
	m := newMatcher(t)
	got := m.MatchAny("Metal Parts\nRare\nMETAL PARTS\nFabric")
	if len(got) != 2 || got[0].ItemID != "metal_parts" || got[1].ItemID != "fabric" {
		t.Fatalf("unexpected %+v", got)
	}
}
