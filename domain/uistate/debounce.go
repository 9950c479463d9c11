package uistate

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Signature renders a mapping as sorted "key:value" pairs joined by "|".
func Signature(values map[string]int) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s:%d", k, values[k])
	}
	return strings.Join(parts, "|")
}

// SetSignature renders a set of ids as a sorted "|"-joined string.
func SetSignature(ids []string) string {
	s := append([]string(nil), ids...)
	sort.Strings(s)
	return strings.Join(s, "|")
}

// Debouncer commits a structured extraction only when the same signature is
// seen on two consecutive attempts. An already applied signature is never
// committed again.
type Debouncer struct {
	mu      sync.Mutex
	pending string
	applied string
}

// Offer feeds one extraction attempt and reports whether sig should be
// applied now. An empty signature (failed extraction) breaks the streak.
func (d *Debouncer) Offer(sig string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case sig == "":
		d.pending = ""
		return false
	case sig == d.applied:
		d.pending = ""
		return false
	case sig == d.pending:
		d.applied = sig
		d.pending = ""
		return true
	default:
		d.pending = sig
		return false
	}
}

// Applied returns the last committed signature.
func (d *Debouncer) Applied() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.applied
}
