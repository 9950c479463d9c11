package uistate

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/soocke/loot-lens-go/domain/capture"
	"github.com/soocke/loot-lens-go/domain/catalog"
	"github.com/soocke/loot-lens-go/domain/ocr"
	"github.com/soocke/loot-lens-go/domain/textmatch"
)

// Classification is the raw result of one pass.
type Classification struct {
	State State
	Map   string            // catalog map id when State is MapView
	Texts map[string]string // region name → text read during the pass
}

// pass reads each region at most once.
type pass struct {
	fb     capture.FrameBuffer
	reader ocr.TextReader
	texts  map[string]string
}

func (p *pass) text(r Region) string {
	if t, ok := p.texts[r.Name]; ok {
		return t
	}
	t := p.reader.Read(p.fb, r.Rect(p.fb), r.OCR)
	p.texts[r.Name] = t
	return t
}

// words returns the normalized text of r padded with spaces for whole-word
// containment tests.
func (p *pass) words(r Region) string {
	return " " + textmatch.Normalize(p.text(r)) + " "
}

func hasWord(padded string, kws ...string) bool {
	for _, kw := range kws {
		if strings.Contains(padded, " "+kw+" ") {
			return true
		}
	}
	return false
}

func countWords(padded string, kws ...string) int {
	n := 0
	for _, kw := range kws {
		if strings.Contains(padded, " "+kw+" ") {
			n++
		}
	}
	return n
}

var ammoPattern = regexp.MustCompile(`\b\d{1,3}\s*/\s*\d{1,4}\b`)

// check is one state predicate; mapID is only set by the map check.
type check struct {
	state State
	test  func(c *Classifier, p *pass) (mapID string, ok bool)
}

// checks run in priority order; the first match wins.
var checks = []check{
	{MatchmakingQueue, func(_ *Classifier, p *pass) (string, bool) {
		w := p.words(CenterBanner)
		return "", hasWord(w, "matchmaking", "searching for", "joining", "deploying")
	}},
	{MapView, func(c *Classifier, p *pass) (string, bool) {
		title := p.words(MapTitle)
		for _, m := range c.catalog.Get().Maps {
			if n := textmatch.Normalize(m.Name); n != "" && strings.Contains(title, " "+n+" ") {
				return m.ID, true
			}
		}
		return "", false
	}},
	{InRaid, func(_ *Classifier, p *pass) (string, bool) {
		return "", ammoPattern.MatchString(p.text(HUD))
	}},
	{BlueprintMenu, func(_ *Classifier, p *pass) (string, bool) {
		return "", hasWord(p.words(TopStrip), "blueprints")
	}},
	{TrackedResourcesMenu, func(_ *Classifier, p *pass) (string, bool) {
		return "", hasWord(p.words(TopStrip), "tracked")
	}},
	{SkillTreeMenu, func(_ *Classifier, p *pass) (string, bool) {
		return "", hasWord(p.words(TopStrip), "skill tree", "skills")
	}},
	{WorkshopMenu, func(c *Classifier, p *pass) (string, bool) {
		if !hasWord(p.words(TopStrip), "workshop") {
			return "", false
		}
		badges := p.words(BadgeStrip)
		for _, wb := range c.catalog.Get().Workbenches {
			if n := textmatch.Normalize(wb.Name); n != "" && strings.Contains(badges, " "+n+" ") {
				return "", true
			}
		}
		return "", false
	}},
	{MainMenu, func(_ *Classifier, p *pass) (string, bool) {
		return "", countWords(p.words(TopStrip), "play", "workshop", "inventory", "store", "traders", "character") >= 2
	}},
}

// Classifier evaluates the prioritized state checks over a full frame.
type Classifier struct {
	reader  ocr.TextReader
	catalog *catalog.Store
	logger  *slog.Logger
}

// NewClassifier creates a classifier.
func NewClassifier(reader ocr.TextReader, store *catalog.Store, logger *slog.Logger) *Classifier {
	if store == nil {
		store = catalog.NewStore(nil)
	}
	return &Classifier{reader: reader, catalog: store, logger: logger}
}

// Classify returns the first satisfied state, or Unknown.
func (c *Classifier) Classify(fb capture.FrameBuffer) Classification {
	p := &pass{fb: fb, reader: c.reader, texts: map[string]string{}}
	if fb.Empty() || c.reader == nil {
		return Classification{State: Unknown, Texts: p.texts}
	}
	for _, ch := range checks {
		if mapID, ok := ch.test(c, p); ok {
			return Classification{State: ch.state, Map: mapID, Texts: p.texts}
		}
	}
	return Classification{State: Unknown, Texts: p.texts}
}
