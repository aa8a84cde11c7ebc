package depgraph

// Reaches reports whether toID is reachable from fromID by following
// outgoing edges of any dependency type. Breadth-first; each module is
// expanded at most once.
//
// The mutation guard uses this before persisting a new edge a→b: if a is
// already reachable from b, the new edge would close a cycle.
func (s *Snapshot) Reaches(fromID, toID string) bool {
	if fromID == toID {
		return true
	}

	queue := []string{fromID}
	seen := map[string]bool{fromID: true}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, e := range s.outgoing[id] {
			if e.ToID == toID {
				return true
			}
			if !seen[e.ToID] {
				seen[e.ToID] = true
				queue = append(queue, e.ToID)
			}
		}
	}
	return false
}
