package resolve

import (
	"context"
	"fmt"

	"github.com/dramac-main/dramac-cms-sub010/pkg/depgraph"
	"github.com/dramac-main/dramac-cms-sub010/pkg/observability"
	"github.com/dramac-main/dramac-cms-sub010/pkg/registry"
)

// WouldCreateCycle reports whether persisting the edge fromID→toID would
// close a cycle: true exactly when fromID is already reachable from toID via
// existing edges. A self-edge trivially reports true.
func (e *Engine) WouldCreateCycle(ctx context.Context, fromID, toID string) (bool, error) {
	if fromID == toID {
		return true, nil
	}
	snap, err := depgraph.Load(ctx, e.store, toID)
	if err != nil {
		return false, fmt.Errorf("load dependency graph: %w", err)
	}
	return snap.Reaches(toID, fromID), nil
}

// AddDependency validates and persists a dependency edge.
//
// Self-dependencies are rejected before any I/O. Cycle-closing edges are
// rejected with [registry.ErrEdgeCycle] and nothing is written. On success
// the edge is upserted (last write wins on the (from, to) pair) and cached
// resolution results for both endpoints are invalidated.
//
// If the storage layer supports optimistic concurrency, the cycle pre-check
// must be re-validated at write time: two concurrent additions can each pass
// the guard before either commits.
func (e *Engine) AddDependency(ctx context.Context, dep registry.Dependency) error {
	if dep.FromID == dep.ToID {
		return fmt.Errorf("%w: %s", registry.ErrSelfDependency, dep.FromID)
	}
	if dep.Type == "" {
		dep.Type = registry.DependencyRequired
	}

	cyclic, err := e.WouldCreateCycle(ctx, dep.FromID, dep.ToID)
	if err != nil {
		return err
	}
	if cyclic {
		observability.Resolver().OnCycleDetected(ctx, dep.FromID, []string{dep.FromID, dep.ToID})
		return fmt.Errorf("%w: %s already depends on %s",
			registry.ErrEdgeCycle, dep.ToID, dep.FromID)
	}

	if err := e.store.UpsertEdge(ctx, dep); err != nil {
		return fmt.Errorf("persist dependency %s → %s: %w", dep.FromID, dep.ToID, err)
	}

	e.invalidateModule(ctx, dep.FromID)
	e.invalidateModule(ctx, dep.ToID)
	e.opts.Logger.Debug("dependency added",
		"from", dep.FromID, "to", dep.ToID, "type", dep.Type)
	return nil
}

// RemoveDependency deletes the edge fromID→toID and invalidates cached
// results for both endpoints. Removing a missing edge is not an error.
func (e *Engine) RemoveDependency(ctx context.Context, fromID, toID string) error {
	if err := e.store.DeleteEdge(ctx, fromID, toID); err != nil {
		return fmt.Errorf("delete dependency %s → %s: %w", fromID, toID, err)
	}
	e.invalidateModule(ctx, fromID)
	e.invalidateModule(ctx, toID)
	return nil
}
