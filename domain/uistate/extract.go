package uistate

import (
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/soocke/loot-lens-go/domain/capture"
	"github.com/soocke/loot-lens-go/domain/catalog"
	"github.com/soocke/loot-lens-go/domain/failure"
	"github.com/soocke/loot-lens-go/domain/locate"
	"github.com/soocke/loot-lens-go/domain/ocr"
	"github.com/soocke/loot-lens-go/domain/textmatch"
)

// TrackedResource is one row of the tracked resources panel.
type TrackedResource struct {
	ItemID string `json:"item_id"`
	Name   string `json:"name"`
	Have   int    `json:"have"`
	Need   int    `json:"need"`
}

// Extractor pulls structured values out of confirmed screens.
type Extractor struct {
	reader    ocr.TextReader
	matcher   *textmatch.Matcher
	catalog   *catalog.Store
	localizer *locate.Localizer
	logger    *slog.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(reader ocr.TextReader, matcher *textmatch.Matcher, store *catalog.Store, localizer *locate.Localizer, logger *slog.Logger) *Extractor {
	if store == nil {
		store = catalog.NewStore(nil)
	}
	return &Extractor{reader: reader, matcher: matcher, catalog: store, localizer: localizer, logger: logger}
}

// WorkbenchLevels reads the roman level badge following each workbench name.
func (e *Extractor) WorkbenchLevels(fb capture.FrameBuffer) (map[string]int, error) {
	text := e.read(fb, BadgeStrip)
	levels := ParseLevels(text, e.catalog.Get().Workbenches)
	if len(levels) == 0 {
		return nil, failure.NotFound("workbench levels", "no level badges")
	}
	return levels, nil
}

// ParseLevels finds "<workbench name> <roman>" sequences in OCR text. Levels
// above a workbench's maximum are misreads and skipped.
func ParseLevels(text string, benches []catalog.Workbench) map[string]int {
	words := strings.Fields(textmatch.Normalize(text))
	levels := map[string]int{}
	for _, wb := range benches {
		name := strings.Fields(textmatch.Normalize(wb.Name))
		if len(name) == 0 {
			continue
		}
		for i := 0; i+len(name) < len(words); i++ {
			if !equalWords(words[i:i+len(name)], name) {
				continue
			}
			lvl, ok := textmatch.ParseRoman(words[i+len(name)])
			if ok && (wb.MaxLevel == 0 || lvl <= wb.MaxLevel) {
				levels[wb.ID] = lvl
				break
			}
		}
	}
	return levels
}

func equalWords(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Blueprints returns the sorted ids of catalog items named in the blueprint
// list.
func (e *Extractor) Blueprints(fb capture.FrameBuffer) ([]string, error) {
	if e.matcher == nil {
		return nil, failure.NotFound("blueprints", "no matcher")
	}
	var ids []string
	for _, mc := range e.matcher.MatchAny(e.read(fb, ListBody)) {
		ids = append(ids, mc.ItemID)
	}
	if len(ids) == 0 {
		return nil, failure.NotFound("blueprints", "no known items listed")
	}
	sort.Strings(ids)
	return ids, nil
}

var countPattern = regexp.MustCompile(`(\d+)\s*/\s*(\d+)\s*$`)

// Tracked parses "<item name> <have>/<need>" rows of the tracked panel.
func (e *Extractor) Tracked(fb capture.FrameBuffer) ([]TrackedResource, error) {
	if e.matcher == nil {
		return nil, failure.NotFound("tracked resources", "no matcher")
	}
	rows := ParseTracked(e.read(fb, TrackedPanel), e.matcher)
	if len(rows) == 0 {
		return nil, failure.NotFound("tracked resources", "no rows")
	}
	return rows, nil
}

// ParseTracked matches every counted row of text against the catalog.
func ParseTracked(text string, matcher *textmatch.Matcher) []TrackedResource {
	var rows []TrackedResource
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		m := countPattern.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		have, _ := strconv.Atoi(line[m[2]:m[3]])
		need, _ := strconv.Atoi(line[m[4]:m[5]])
		mc, err := matcher.MatchLine(strings.TrimSpace(line[:m[0]]))
		if err != nil {
			continue
		}
		rows = append(rows, TrackedResource{ItemID: mc.ItemID, Name: mc.Name, Have: have, Need: need})
	}
	return rows
}

// Map locates the player on the given map.
func (e *Extractor) Map(fb capture.FrameBuffer, mapID string) (locate.Detection, error) {
	if e.localizer == nil {
		return locate.Detection{}, failure.NotFound("map", "no localizer")
	}
	m, ok := e.catalog.Get().Map(mapID)
	if !ok {
		m = catalog.Map{ID: mapID}
	}
	return e.localizer.Locate(fb, MapBody.Rect(fb), m)
}

func (e *Extractor) read(fb capture.FrameBuffer, r Region) string {
	if e.reader == nil {
		return ""
	}
	return e.reader.Read(fb, r.Rect(fb), r.OCR)
}
