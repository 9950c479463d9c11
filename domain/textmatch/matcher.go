package textmatch

import (
	"log/slog"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/soocke/loot-lens-go/domain/catalog"
	"github.com/soocke/loot-lens-go/domain/failure"
)

type cachedResult struct {
	version uint64
	match   MatchCandidate
	ok      bool
}

type preparedSet struct {
	version uint64
	cands   []prepared
}

// Matcher matches OCR text against the items of a catalog store. Prepared
// candidates are rebuilt whenever the store publishes a new snapshot; results
// are memoized per snapshot in a bounded LRU.
type Matcher struct {
	store   *catalog.Store
	minConf float64
	logger  *slog.Logger

	buildMu sync.Mutex
	set     atomic.Pointer[preparedSet]
	cache   *lru.Cache[string, cachedResult]

	hits, misses atomic.Int64
}

// NewMatcher creates a matcher. cacheSize ≤ 0 disables memoization.
func NewMatcher(store *catalog.Store, minConf float64, cacheSize int, logger *slog.Logger) *Matcher {
	m := &Matcher{store: store, minConf: minConf, logger: logger}
	if cacheSize > 0 {
		c, err := lru.New[string, cachedResult](cacheSize)
		if err == nil {
			m.cache = c
		}
	}
	return m
}

func (m *Matcher) candidates() *preparedSet {
	v := m.store.Version()
	if s := m.set.Load(); s != nil && s.version == v {
		return s
	}
	m.buildMu.Lock()
	defer m.buildMu.Unlock()
	if s := m.set.Load(); s != nil && s.version == v {
		return s
	}
	cat := m.store.Get()
	var cands []Candidate
	for _, it := range cat.Items {
		cands = append(cands, Candidate{ItemID: it.ID, Name: it.Name})
		if it.ShortName != "" {
			cands = append(cands, Candidate{ItemID: it.ID, Name: it.ShortName})
		}
	}
	s := &preparedSet{version: v, cands: prepare(cands)}
	m.set.Store(s)
	if m.cache != nil {
		m.cache.Purge()
	}
	if m.logger != nil {
		m.logger.Debug("match candidates prepared", "candidates", len(s.cands), "catalog_version", v)
	}
	return s
}

// MatchLine matches a single line. Banner lines are rejected as not found.
func (m *Matcher) MatchLine(line string) (MatchCandidate, error) {
	const op = "text match"
	if IsBanner(line) {
		return MatchCandidate{}, failure.NotFoundf(op, "%q is a category banner", line)
	}
	set := m.candidates()
	key := Normalize(line)
	if key == "" {
		return MatchCandidate{}, failure.NotFound(op, "no text")
	}
	if m.cache != nil {
		if r, ok := m.cache.Get(key); ok && r.version == set.version {
			m.hits.Add(1)
			return finish(op, line, r.match, r.ok)
		}
	}
	m.misses.Add(1)
	mc, ok := matchPrepared(line, set.cands, m.minConf)
	if m.cache != nil {
		m.cache.Add(key, cachedResult{version: set.version, match: mc, ok: ok})
	}
	return finish(op, line, mc, ok)
}

func finish(op, line string, mc MatchCandidate, ok bool) (MatchCandidate, error) {
	if !ok {
		return MatchCandidate{}, failure.NotFoundf(op, "no catalog item for %q", line)
	}
	mc.MatchedText = line
	return mc, nil
}

// MatchText extracts the title line of multi-line OCR output and matches it.
func (m *Matcher) MatchText(text string) (MatchCandidate, error) {
	line, ok := TitleLine(text)
	if !ok {
		return MatchCandidate{}, failure.NotFound("text match", "no title line")
	}
	return m.MatchLine(line)
}

// MatchAny matches every non-banner line of text and returns one result per
// distinct item, in line order.
func (m *Matcher) MatchAny(text string) []MatchCandidate {
	var out []MatchCandidate
	seen := map[string]bool{}
	for _, line := range splitLines(text) {
		mc, err := m.MatchLine(line)
		if err != nil || seen[mc.ItemID] {
			continue
		}
		seen[mc.ItemID] = true
		out = append(out, mc)
	}
	return out
}

// CacheStats returns memoization hits and misses.
func (m *Matcher) CacheStats() (hits, misses int64) { return m.hits.Load(), m.misses.Load() }
