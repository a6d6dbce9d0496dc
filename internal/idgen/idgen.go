// Package idgen generates the textual monotonic ids spec.md pins for
// persisted records (lecture_<n>, room_<n>), as opposed to the opaque uuids
// used for ephemeral connection ids.
package idgen

import (
	"fmt"
	"sync/atomic"
)

// Generator produces strictly increasing, prefixed ids. The zero value is
// ready to use and starts counting from 1.
type Generator struct {
	prefix string
	next   atomic.Uint64
}

// New returns a Generator producing ids of the form "<prefix><n>".
func New(prefix string) *Generator {
	return &Generator{prefix: prefix}
}

// NewFrom returns a Generator that will not produce an id numerically
// <= highestSeen, for resuming numbering after a reload from Store.
func NewFrom(prefix string, highestSeen uint64) *Generator {
	g := &Generator{prefix: prefix}
	g.next.Store(highestSeen)
	return g
}

// Next returns the next id in sequence.
func (g *Generator) Next() string {
	n := g.next.Add(1)
	return fmt.Sprintf("%s%d", g.prefix, n)
}
