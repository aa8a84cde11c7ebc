// Package depgraph holds the in-memory dependency graph snapshot and the
// traversal algorithms that run against it.
//
// A [Snapshot] is built once per resolution call by fetching the full
// reachable subgraph from a [registry.Source] and is discarded when the call
// returns. All graph algorithms (cycle detection, install ordering,
// reachability) run purely in memory against the snapshot, so the data source
// is hit once per module instead of once per traversal step.
//
// Snapshots are not safe for concurrent mutation, but since every resolution
// call owns its own snapshot this never matters in practice.
package depgraph

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dramac-main/dramac-cms-sub010/pkg/registry"
)

var (
	// ErrCycleDuringSort is returned by [Snapshot.InstallOrder] when a cycle
	// is reached mid-sort. The cycle detector runs before ordering, so this
	// surfacing indicates a bug in the detector rather than a normal graph
	// condition.
	ErrCycleDuringSort = errors.New("cycle encountered during install ordering")
)

// Snapshot is an immutable in-memory view of the dependency subgraph
// reachable from one or more root modules.
//
// Modules referenced by an edge but absent from the data source appear in
// outgoing maps but not in the modules map; Module reports them as missing so
// the classifier can flag dangling references.
type Snapshot struct {
	modules  map[string]registry.Module
	outgoing map[string][]registry.Dependency
}

// Load builds a snapshot by breadth-first expansion from rootID, following
// outgoing edges of every dependency type. Each module and its edge list is
// fetched exactly once.
//
// A dangling edge target (present in an edge, missing from the source) is not
// an error at load time; it is recorded as missing and classified later.
func Load(ctx context.Context, src registry.Source, rootIDs ...string) (*Snapshot, error) {
	snap := &Snapshot{
		modules:  make(map[string]registry.Module),
		outgoing: make(map[string][]registry.Dependency),
	}

	queue := slices.Clone(rootIDs)
	seen := make(map[string]bool, len(rootIDs))

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true

		mod, err := src.Module(ctx, id)
		switch {
		case errors.Is(err, registry.ErrModuleNotFound):
			// Dangling reference, classified downstream.
			continue
		case err != nil:
			return nil, fmt.Errorf("load module %s: %w", id, err)
		}
		snap.modules[id] = mod

		edges, err := src.Edges(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load edges for %s: %w", id, err)
		}
		// Sources are free to return edges in any order (the memory store
		// iterates a map, mongo has no sort on the find). Canonicalize here so
		// every traversal, and with it the install order, is stable for a
		// given graph.
		slices.SortFunc(edges, func(a, b registry.Dependency) int {
			return strings.Compare(a.ToID, b.ToID)
		})
		snap.outgoing[id] = edges

		for _, e := range edges {
			if !seen[e.ToID] {
				queue = append(queue, e.ToID)
			}
		}
	}

	return snap, nil
}

// Module returns the module with the given ID and true, or the zero value and
// false for a dangling reference.
func (s *Snapshot) Module(id string) (registry.Module, bool) {
	m, ok := s.modules[id]
	return m, ok
}

// Edges returns the outgoing dependency edges of the module, sorted by target
// module ID. Returns nil for unknown modules.
func (s *Snapshot) Edges(id string) []registry.Dependency { return s.outgoing[id] }

// ModuleCount returns the number of resolvable modules in the snapshot.
func (s *Snapshot) ModuleCount() int { return len(s.modules) }

// Name returns the display name for a module ID, falling back to the ID when
// the module is unknown. Used for diagnostics.
func (s *Snapshot) Name(id string) string {
	if m, ok := s.modules[id]; ok && m.Name != "" {
		return m.Name
	}
	return id
}
