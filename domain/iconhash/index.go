package iconhash

import (
	"image"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/soocke/loot-lens-go/domain/failure"
)

// Entry is one known icon fingerprint.
type Entry struct {
	ID   string
	Hash uint64
}

// LoadFunc produces the full set of known icons. It is called at most once per
// build.
type LoadFunc func() ([]Entry, error)

// Match is the best index hit for a query.
type Match struct {
	ID       string
	Distance int
	Score    float64
	Rotation int // degrees
}

// Policy is the acceptance rule for one matching context.
type Policy struct {
	MaxDistance int
	MinScore    float64
	Rotations   bool
}

type snapshot struct {
	entries []Entry
}

// Index is the process-wide icon fingerprint table. It is built lazily under
// a single lock and published as an immutable snapshot; Rebuild swaps in a
// fresh snapshot so readers never observe a partial table.
type Index struct {
	load   LoadFunc
	logger *slog.Logger

	buildMu sync.Mutex
	snap    atomic.Pointer[snapshot]
	builds  atomic.Int64
}

// NewIndex creates an index that builds itself from load on first use.
func NewIndex(load LoadFunc, logger *slog.Logger) *Index {
	return &Index{load: load, logger: logger}
}

// NewStaticIndex creates an index over a fixed set of entries. Featureless
// entries are dropped as in a loaded build.
func NewStaticIndex(entries []Entry) *Index {
	ix := &Index{}
	ix.snap.Store(&snapshot{entries: ix.usable(entries)})
	return ix
}

// usable drops entries whose hash is zero. A zero hash means the icon has no
// horizontal edge structure, and it would match every flat or striped window
// at distance 0.
func (ix *Index) usable(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Hash == 0 {
			if ix.logger != nil {
				ix.logger.Warn("skipping featureless icon", "icon", e.ID)
			}
			continue
		}
		out = append(out, e)
	}
	return out
}

func (ix *Index) current() *snapshot {
	if s := ix.snap.Load(); s != nil {
		return s
	}
	ix.buildMu.Lock()
	defer ix.buildMu.Unlock()
	if s := ix.snap.Load(); s != nil {
		return s
	}
	s := ix.build()
	ix.snap.Store(s)
	return s
}

func (ix *Index) build() *snapshot {
	ix.builds.Add(1)
	if ix.load == nil {
		return &snapshot{}
	}
	entries, err := ix.load()
	if err != nil {
		if ix.logger != nil {
			ix.logger.Warn("icon index load failed", "error", err)
		}
		return &snapshot{}
	}
	entries = ix.usable(entries)
	if ix.logger != nil {
		ix.logger.Info("icon index built", "icons", len(entries))
	}
	return &snapshot{entries: entries}
}

// Rebuild reloads every entry and atomically replaces the current snapshot.
func (ix *Index) Rebuild() {
	ix.buildMu.Lock()
	defer ix.buildMu.Unlock()
	ix.snap.Store(ix.build())
}

// Len returns the number of indexed icons, building the index if needed.
func (ix *Index) Len() int { return len(ix.current().entries) }

// Builds returns how many times the table has been loaded.
func (ix *Index) Builds() int64 { return ix.builds.Load() }

// Nearest returns the closest entry to h. Ties keep the first entry.
func (ix *Index) Nearest(h uint64) (Match, bool) {
	entries := ix.current().entries
	if len(entries) == 0 {
		return Match{}, false
	}
	best := Match{Distance: 65}
	for _, e := range entries {
		if d := Distance(h, e.Hash); d < best.Distance {
			best = Match{ID: e.ID, Distance: d}
		}
	}
	best.Score = Score(best.Distance)
	return best, true
}

// Lookup hashes crop (and its rotations when the policy asks) and returns the
// best entry that satisfies p.
func (ix *Index) Lookup(crop image.Image, p Policy) (Match, error) {
	const op = "icon match"
	if crop == nil || crop.Bounds().Empty() {
		return Match{}, failure.NotFound(op, "empty crop")
	}
	base := Compute(crop)
	if base == 0 {
		return Match{}, failure.NotFound(op, "featureless crop")
	}
	hashes := []uint64{base}
	if p.Rotations {
		r := RotatedHashes(crop)
		hashes = r[:]
	}
	best := Match{Distance: 65}
	found := false
	for i, h := range hashes {
		m, ok := ix.Nearest(h)
		if !ok {
			return Match{}, failure.NotFound(op, "icon index is empty")
		}
		if m.Distance < best.Distance {
			best = m
			best.Rotation = i * 90
			found = true
		}
	}
	if !found {
		return Match{}, failure.NotFound(op, "no icon")
	}
	if best.Distance > p.MaxDistance {
		return best, failure.NotFoundf(op, "closest icon %s at distance %d", best.ID, best.Distance)
	}
	if best.Score < p.MinScore {
		return best, failure.LowConfidence(op, best.Score, p.MinScore)
	}
	return best, nil
}
