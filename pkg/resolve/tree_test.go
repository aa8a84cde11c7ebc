package resolve_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dramac-main/dramac-cms-sub010/pkg/registry"
)

func TestTree(t *testing.T) {
	s := graph(t,
		[]registry.Module{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		[]registry.Dependency{
			{FromID: "a", ToID: "b"},
			{FromID: "b", ToID: "c", Type: registry.DependencyOptional},
		},
	)
	tree, err := newEngine(s).Tree(context.Background(), "a", 0)
	if err != nil {
		t.Fatalf("Tree(a) failed: %v", err)
	}

	if tree.ModuleID != "a" || tree.Type != "" {
		t.Errorf("root = %+v, want module a with no edge type", tree)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("root children = %+v, want one", tree.Children)
	}
	b := tree.Children[0]
	if b.ModuleID != "b" || b.Type != registry.DependencyRequired {
		t.Errorf("child = %+v, want b via required edge", b)
	}
	if len(b.Children) != 1 || b.Children[0].ModuleID != "c" || b.Children[0].Type != registry.DependencyOptional {
		t.Errorf("grandchildren = %+v, want c via optional edge", b.Children)
	}
}

func TestTreeUnknownRoot(t *testing.T) {
	s := graph(t, nil, nil)
	_, err := newEngine(s).Tree(context.Background(), "ghost", 0)
	if !errors.Is(err, registry.ErrModuleNotFound) {
		t.Errorf("Tree(ghost) error = %v, want ErrModuleNotFound", err)
	}
}

func TestTreeMissingChild(t *testing.T) {
	s := graph(t,
		[]registry.Module{{ID: "a"}},
		[]registry.Dependency{{FromID: "a", ToID: "ghost"}},
	)
	tree, err := newEngine(s).Tree(context.Background(), "a", 0)
	if err != nil {
		t.Fatalf("Tree(a) failed: %v", err)
	}
	if len(tree.Children) != 1 || !tree.Children[0].Missing {
		t.Errorf("children = %+v, want one missing node", tree.Children)
	}
}

func TestTreeCyclicMarker(t *testing.T) {
	s := graph(t,
		[]registry.Module{{ID: "a"}, {ID: "b"}},
		[]registry.Dependency{
			{FromID: "a", ToID: "b"},
			{FromID: "b", ToID: "a"},
		},
	)
	tree, err := newEngine(s).Tree(context.Background(), "a", 0)
	if err != nil {
		t.Fatalf("Tree(a) failed: %v", err)
	}

	b := tree.Children[0]
	if len(b.Children) != 1 {
		t.Fatalf("b children = %+v, want the cycle-closing node", b.Children)
	}
	back := b.Children[0]
	if back.ModuleID != "a" || !back.Cyclic {
		t.Errorf("cycle-closing node = %+v, want a marked Cyclic", back)
	}
	if len(back.Children) != 0 {
		t.Errorf("cyclic node has children %+v, want none", back.Children)
	}
}

func TestTreeDepthBound(t *testing.T) {
	mods := []registry.Module{{ID: "m0"}, {ID: "m1"}, {ID: "m2"}, {ID: "m3"}}
	edges := []registry.Dependency{
		{FromID: "m0", ToID: "m1"},
		{FromID: "m1", ToID: "m2"},
		{FromID: "m2", ToID: "m3"},
	}
	s := graph(t, mods, edges)

	tree, err := newEngine(s).Tree(context.Background(), "m0", 2)
	if err != nil {
		t.Fatalf("Tree(m0, 2) failed: %v", err)
	}

	depth := 0
	for node := tree; len(node.Children) > 0; node = node.Children[0] {
		depth++
	}
	if depth != 2 {
		t.Errorf("tree depth = %d, want expansion cut at 2", depth)
	}
}

func TestTreeSiblingRepeatIsNotCyclic(t *testing.T) {
	// The same module on two sibling branches is a repeat, not a cycle;
	// only an ancestor on the current branch sets Cyclic.
	s := graph(t,
		[]registry.Module{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
		[]registry.Dependency{
			{FromID: "a", ToID: "b"},
			{FromID: "a", ToID: "c"},
			{FromID: "b", ToID: "d"},
			{FromID: "c", ToID: "d"},
		},
	)
	tree, err := newEngine(s).Tree(context.Background(), "a", 0)
	if err != nil {
		t.Fatalf("Tree(a) failed: %v", err)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("root children = %+v, want two branches", tree.Children)
	}
	for _, branch := range tree.Children {
		if len(branch.Children) != 1 {
			t.Fatalf("branch %s children = %+v, want d", branch.ModuleID, branch.Children)
		}
		if d := branch.Children[0]; d.Cyclic {
			t.Errorf("node %s under %s marked Cyclic, want plain repeat", d.ModuleID, branch.ModuleID)
		}
	}
}
