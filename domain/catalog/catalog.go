// Package catalog holds the read-only item, workbench and map-location
// reference data the recognizer matches against.
package catalog

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/soocke/loot-lens-go/assets"
)

// Item is one matchable catalog entry.
type Item struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	ShortName string `yaml:"short_name"`
	Category  string `yaml:"category"`
}

// Workbench is a craftable station with roman-numeral levels.
type Workbench struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	MaxLevel int    `yaml:"max_level"`
}

// MapLocation is a static, labelled waypoint on one map, in map fractions.
type MapLocation struct {
	Name string  `yaml:"name"`
	XPct float64 `yaml:"x_pct"`
	YPct float64 `yaml:"y_pct"`
}

// Map is one playable map and its known locations.
type Map struct {
	ID        string        `yaml:"id"`
	Name      string        `yaml:"name"`
	Locations []MapLocation `yaml:"locations"`
}

// Catalog is an immutable snapshot of the reference data.
type Catalog struct {
	Items       []Item      `yaml:"items"`
	Workbenches []Workbench `yaml:"workbenches"`
	Maps        []Map       `yaml:"maps"`

	byID map[string]int
}

// Parse decodes a YAML catalog and validates ids.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c.byID = make(map[string]int, len(c.Items))
	for i, it := range c.Items {
		if it.ID == "" || strings.TrimSpace(it.Name) == "" {
			return nil, fmt.Errorf("parse catalog: item %d has no id or name", i)
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate item id %q", it.ID)
		}
		c.byID[it.ID] = i
	}
	for _, m := range c.Maps {
		for _, l := range m.Locations {
			if l.XPct < 0 || l.XPct > 1 || l.YPct < 0 || l.YPct > 1 {
				return nil, fmt.Errorf("parse catalog: location %q on %s outside map", l.Name, m.ID)
			}
		}
	}
	return &c, nil
}

// Load reads a catalog file; an empty path loads the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) { return Parse(assets.CatalogYAML) }

// Item returns the item with id.
func (c *Catalog) Item(id string) (Item, bool) {
	if c == nil {
		return Item{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.Items[i], true
}

// Map returns the map with id or (case-insensitively) name.
func (c *Catalog) Map(key string) (Map, bool) {
	if c == nil {
		return Map{}, false
	}
	for _, m := range c.Maps {
		if m.ID == key || strings.EqualFold(m.Name, key) {
			return m, true
		}
	}
	return Map{}, false
}

// Workbench returns the workbench with id.
func (c *Catalog) Workbench(id string) (Workbench, bool) {
	if c == nil {
		return Workbench{}, false
	}
	for _, w := range c.Workbenches {
		if w.ID == id {
			return w, true
		}
	}
	return Workbench{}, false
}

// Store publishes catalog snapshots. Readers always see a complete catalog;
// Swap replaces it wholesale.
type Store struct {
	cur     atomic.Pointer[Catalog]
	version atomic.Uint64
}

// NewStore creates a store holding c.
func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.Swap(c)
	return s
}

// Get returns the current snapshot (never nil).
func (s *Store) Get() *Catalog {
	if c := s.cur.Load(); c != nil {
		return c
	}
	return &Catalog{}
}

// Swap publishes c as the new snapshot and bumps the version.
func (s *Store) Swap(c *Catalog) {
	if c == nil {
		c = &Catalog{}
	}
	s.cur.Store(c)
	s.version.Add(1)
}

// Version increments on every Swap; caches keyed on the catalog use it to
// notice replacement.
func (s *Store) Version() uint64 { return s.version.Load() }
