package resolve

import (
	"context"
	"fmt"

	"github.com/dramac-main/dramac-cms-sub010/pkg/depgraph"
	"github.com/dramac-main/dramac-cms-sub010/pkg/registry"
)

// DefaultTreeDepth bounds tree expansion when the caller passes maxDepth <= 0.
const DefaultTreeDepth = 10

// Tree builds a bounded-depth nested view of a module's dependencies for
// visualization. Edges of every type are expanded, independent of
// install-order semantics. A module already expanded further up the branch is
// emitted once more with Cyclic set and no children, so cyclic graphs render
// without recursing forever.
func (e *Engine) Tree(ctx context.Context, moduleID string, maxDepth int) (TreeNode, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultTreeDepth
	}

	snap, err := depgraph.Load(ctx, e.store, moduleID)
	if err != nil {
		return TreeNode{}, fmt.Errorf("load dependency graph: %w", err)
	}
	if _, ok := snap.Module(moduleID); !ok {
		return TreeNode{}, fmt.Errorf("%w: %s", registry.ErrModuleNotFound, moduleID)
	}

	onBranch := make(map[string]bool)
	return expandTree(snap, moduleID, "", maxDepth, onBranch), nil
}

func expandTree(snap *depgraph.Snapshot, id string, edgeType registry.DependencyType, depth int, onBranch map[string]bool) TreeNode {
	node := TreeNode{ModuleID: id, Type: edgeType}

	mod, ok := snap.Module(id)
	if !ok {
		node.ModuleName = id
		node.Missing = true
		return node
	}
	node.ModuleName = mod.Name
	node.Version = mod.Version
	node.Status = mod.Status

	if onBranch[id] {
		node.Cyclic = true
		return node
	}
	if depth == 0 {
		return node
	}

	onBranch[id] = true
	for _, edge := range snap.Edges(id) {
		node.Children = append(node.Children, expandTree(snap, edge.ToID, edge.Type, depth-1, onBranch))
	}
	delete(onBranch, id)

	return node
}
