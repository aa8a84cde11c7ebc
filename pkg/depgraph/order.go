package depgraph

import "github.com/dramac-main/dramac-cms-sub010/pkg/registry"

// InstallOrder computes a valid install sequence for startID and its
// transitive required dependencies: DFS post-order, appending each module
// only after all of its required dependencies have been appended. The
// requested module is therefore always last, and every module appears at most
// once.
//
// Only required-type edges participate. Optional and peer dependencies may be
// installed independently, before or after, so they never constrain the
// order. Dangling required targets are skipped here; the conflict classifier
// reports them separately.
//
// Returns [ErrCycleDuringSort] if a required-edge cycle is reached. The cycle
// detector runs first in every resolution, so hitting this is an invariant
// violation, not a user-facing conflict.
//
// The order includes required dependencies that are already installed on the
// target; filtering those out is the installation workflow's decision, not
// the resolver's.
func (s *Snapshot) InstallOrder(startID string) ([]string, error) {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(s.modules))
	var order []string

	var visit func(id string) error
	visit = func(id string) error {
		color[id] = gray
		for _, e := range s.outgoing[id] {
			if e.Type != registry.DependencyRequired {
				continue
			}
			if _, ok := s.modules[e.ToID]; !ok {
				continue // dangling reference, reported by the classifier
			}
			switch color[e.ToID] {
			case white:
				if err := visit(e.ToID); err != nil {
					return err
				}
			case gray:
				return ErrCycleDuringSort
			}
		}
		color[id] = black
		order = append(order, id)
		return nil
	}

	if err := visit(startID); err != nil {
		return nil, err
	}
	return order, nil
}

// MultiInstallOrder unions the install orders of several root modules,
// preserving each root's relative order and keeping the first occurrence of
// every module.
func (s *Snapshot) MultiInstallOrder(rootIDs []string) ([]string, error) {
	seen := make(map[string]bool)
	var combined []string

	for _, root := range rootIDs {
		order, err := s.InstallOrder(root)
		if err != nil {
			return nil, err
		}
		for _, id := range order {
			if !seen[id] {
				seen[id] = true
				combined = append(combined, id)
			}
		}
	}
	return combined, nil
}
