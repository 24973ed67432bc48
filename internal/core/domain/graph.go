package domain

import (
	"bytes"
	"encoding/json"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"go.trai.ch/zerr"
)

// DepGraph accumulates per-module metadata across build passes. Entries are
// keyed by module identity; pruning keeps the graph exactly in step with the
// files still present in the live key set.
type DepGraph struct {
	modules map[string]ModuleInfo
}

// NewDepGraph creates an empty dependency graph.
func NewDepGraph() *DepGraph {
	return &DepGraph{modules: make(map[string]ModuleInfo)}
}

// Update inserts or replaces the entry for info.ID.
func (g *DepGraph) Update(info ModuleInfo) {
	g.modules[info.ID] = info
}

// Prune deletes every entry whose originating file key is not in live.
// Deletions are explicit so stale modules never leak into serialized output.
// It returns the removed module identities in sorted order.
func (g *DepGraph) Prune(live mapset.Set[string]) []string {
	var removed []string
	for id, info := range g.modules {
		if !live.Contains(info.FileKey) {
			delete(g.modules, id)
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	return removed
}

// Len returns the number of modules in the graph.
func (g *DepGraph) Len() int {
	return len(g.modules)
}

// Lookup returns the entry for the given module identity, if present.
func (g *DepGraph) Lookup(id string) (ModuleInfo, bool) {
	info, ok := g.modules[id]
	return info, ok
}

// Serialize emits the graph as JSON with module identities in sorted order.
// The explicit ordering is a hard invariant: two graphs describing the same
// module set serialize identically regardless of update order.
func (g *DepGraph) Serialize() ([]byte, error) {
	ids := make([]string, 0, len(g.modules))
	for id := range g.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, id := range ids {
		key, err := json.Marshal(id)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to marshal module id")
		}
		val, err := json.Marshal(g.modules[id])
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to marshal module entry"), "module", id)
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
		if i < len(ids)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
