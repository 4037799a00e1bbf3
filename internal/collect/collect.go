// Package collect accumulates documented entries across every file of one
// build.
package collect

import (
	"sync"

	"github.com/phobologic/minidoc/internal/model"
)

// Collector is an append-only, insertion-ordered log of entries for one build
// run. It is safe for concurrent use. Call Reset before reusing it for a new
// build; entries from a previous run otherwise leak into the next document.
type Collector struct {
	mu      sync.Mutex
	entries []model.Entry
}

// New returns an empty Collector.
func New() *Collector {
	return &Collector{}
}

// Append adds entries to the end of the log.
func (c *Collector) Append(entries ...model.Entry) {
	if len(entries) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entries...)
}

// Entries returns a copy of all entries in insertion order.
func (c *Collector) Entries() []model.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of collected entries.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reset discards all entries.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}
