package depgraph

import "slices"

// Cycle describes a dependency cycle found by [Snapshot.FindCycle].
// Path lists module IDs from the oldest ancestor on the offending branch down
// to the node that closed the cycle.
type Cycle struct {
	Path  []string // module IDs, oldest ancestor first
	Names []string // display names resolved for diagnostics
}

// FindCycle runs a depth-first search from startID over edges of every
// dependency type and reports the first cycle found, if any.
//
// The traversal uses the classic white/gray/black coloring: gray nodes are on
// the active recursion stack, black nodes are fully drained with no cycle
// downstream and are never revisited. Reaching a gray node closes a cycle;
// the returned path is the DFS stack at the moment of detection plus the
// closing node.
//
// All edge types participate here on purpose: the detector guards against any
// malformed graph shape, not just required-type cycles, and runs before
// install-order concerns.
func (s *Snapshot) FindCycle(startID string) (Cycle, bool) {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(s.modules))
	var stack []string
	var found []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		stack = append(stack, id)

		for _, e := range s.outgoing[id] {
			switch color[e.ToID] {
			case white:
				if dfs(e.ToID) {
					return true
				}
			case gray:
				found = append(slices.Clone(stack), e.ToID)
				return true
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	if !dfs(startID) {
		return Cycle{}, false
	}

	c := Cycle{Path: found, Names: make([]string, len(found))}
	for i, id := range found {
		c.Names[i] = s.Name(id)
	}
	return c, true
}
