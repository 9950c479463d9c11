package iconhash

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type cacheRecord struct {
	Size    int64  `json:"size"`
	ModTime int64  `json:"mod_time"`
	Hash    uint64 `json:"hash"`
}

// Cache persists computed hashes keyed by icon file name, size and
// modification time so restarts skip decoding unchanged icons.
type Cache struct {
	path    string
	records map[string]cacheRecord
	dirty   bool
}

// OpenCache reads the cache at path. A missing or unreadable file yields an
// empty cache; an empty path disables persistence.
func OpenCache(path string) *Cache {
	c := &Cache{path: path, records: map[string]cacheRecord{}}
	if path == "" {
		return c
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	if err := json.Unmarshal(data, &c.records); err != nil {
		c.records = map[string]cacheRecord{}
	}
	return c
}

func (c *Cache) get(name string, fi os.FileInfo) (uint64, bool) {
	if c == nil {
		return 0, false
	}
	r, ok := c.records[name]
	if !ok || r.Size != fi.Size() || r.ModTime != fi.ModTime().UnixNano() {
		return 0, false
	}
	return r.Hash, true
}

func (c *Cache) put(name string, fi os.FileInfo, h uint64) {
	if c == nil {
		return
	}
	c.records[name] = cacheRecord{Size: fi.Size(), ModTime: fi.ModTime().UnixNano(), Hash: h}
	c.dirty = true
}

// Save writes the cache back when it changed.
func (c *Cache) Save() error {
	if c == nil || c.path == "" || !c.dirty {
		return nil
	}
	data, err := json.MarshalIndent(c.records, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// DirLoader returns a LoadFunc hashing every PNG/JPEG in dir. The icon id is
// the file name without extension. Files that fail to decode are skipped.
func DirLoader(dir, cachePath string, logger *slog.Logger) LoadFunc {
	return func() ([]Entry, error) {
		if dir == "" {
			return nil, nil
		}
		files, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read icon dir: %w", err)
		}
		cache := OpenCache(cachePath)
		var entries []Entry
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			name := f.Name()
			ext := strings.ToLower(filepath.Ext(name))
			if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
				continue
			}
			fi, err := f.Info()
			if err != nil {
				continue
			}
			id := strings.TrimSuffix(name, filepath.Ext(name))
			if h, ok := cache.get(name, fi); ok {
				entries = append(entries, Entry{ID: id, Hash: h})
				continue
			}
			img, err := decodeFile(filepath.Join(dir, name))
			if err != nil {
				if logger != nil {
					logger.Debug("skipping icon", "file", name, "error", err)
				}
				continue
			}
			h := Compute(img)
			cache.put(name, fi, h)
			entries = append(entries, Entry{ID: id, Hash: h})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
		if err := cache.Save(); err != nil && logger != nil {
			logger.Warn("icon hash cache not saved", "path", cachePath, "error", err)
		}
		return entries, nil
	}
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}
