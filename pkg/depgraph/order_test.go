package depgraph_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/dramac-main/dramac-cms-sub010/pkg/depgraph"
	"github.com/dramac-main/dramac-cms-sub010/pkg/registry"
)

// assertBefore fails unless a appears before b in order.
func assertBefore(t *testing.T, order []string, a, b string) {
	t.Helper()
	ia, ib := slices.Index(order, a), slices.Index(order, b)
	if ia < 0 || ib < 0 {
		t.Fatalf("order %v missing %q or %q", order, a, b)
	}
	if ia >= ib {
		t.Errorf("order %v places %q after %q", order, a, b)
	}
}

func TestInstallOrderChain(t *testing.T) {
	s := buildStore(t, []string{"a", "b", "c"}, []registry.Dependency{
		{FromID: "a", ToID: "b"},
		{FromID: "b", ToID: "c"},
	})
	snap := load(t, s, "a")

	order, err := snap.InstallOrder("a")
	if err != nil {
		t.Fatalf("InstallOrder(a) failed: %v", err)
	}
	want := []string{"c", "b", "a"}
	if !slices.Equal(order, want) {
		t.Errorf("InstallOrder(a) = %v, want %v", order, want)
	}
}

func TestInstallOrderDiamond(t *testing.T) {
	s := buildStore(t, []string{"a", "b", "c", "d"}, []registry.Dependency{
		{FromID: "a", ToID: "b"},
		{FromID: "a", ToID: "c"},
		{FromID: "b", ToID: "d"},
		{FromID: "c", ToID: "d"},
	})
	snap := load(t, s, "a")

	order, err := snap.InstallOrder("a")
	if err != nil {
		t.Fatalf("InstallOrder(a) failed: %v", err)
	}
	if len(order) != 4 {
		t.Fatalf("InstallOrder(a) = %v, want 4 modules exactly once", order)
	}
	assertBefore(t, order, "d", "b")
	assertBefore(t, order, "d", "c")
	assertBefore(t, order, "b", "a")
	assertBefore(t, order, "c", "a")
	if order[len(order)-1] != "a" {
		t.Errorf("InstallOrder(a) = %v, want requested module last", order)
	}
}

func TestInstallOrderSkipsOptionalAndPeer(t *testing.T) {
	s := buildStore(t, []string{"a", "b", "c", "d"}, []registry.Dependency{
		{FromID: "a", ToID: "b", Type: registry.DependencyRequired},
		{FromID: "a", ToID: "c", Type: registry.DependencyOptional},
		{FromID: "a", ToID: "d", Type: registry.DependencyPeer},
	})
	snap := load(t, s, "a")

	order, err := snap.InstallOrder("a")
	if err != nil {
		t.Fatalf("InstallOrder(a) failed: %v", err)
	}
	want := []string{"b", "a"}
	if !slices.Equal(order, want) {
		t.Errorf("InstallOrder(a) = %v, want %v", order, want)
	}
}

func TestInstallOrderSkipsDanglingTargets(t *testing.T) {
	s := buildStore(t, []string{"a", "b"}, []registry.Dependency{
		{FromID: "a", ToID: "b"},
		{FromID: "a", ToID: "ghost"},
	})
	snap := load(t, s, "a")

	order, err := snap.InstallOrder("a")
	if err != nil {
		t.Fatalf("InstallOrder(a) failed: %v", err)
	}
	if slices.Contains(order, "ghost") {
		t.Errorf("InstallOrder(a) = %v, want dangling target excluded", order)
	}
}

func TestInstallOrderStable(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	edges := []registry.Dependency{
		{FromID: "a", ToID: "b"},
		{FromID: "a", ToID: "c"},
		{FromID: "a", ToID: "d"},
		{FromID: "a", ToID: "e"},
	}

	// The memory store hands edges back in map order, so a fresh snapshot per
	// iteration is what shakes out any order dependence in the sort.
	want := []string{"b", "c", "d", "e", "a"}
	for i := 0; i < 50; i++ {
		s := buildStore(t, ids, edges)
		snap := load(t, s, "a")
		order, err := snap.InstallOrder("a")
		if err != nil {
			t.Fatalf("InstallOrder(a) failed: %v", err)
		}
		if !slices.Equal(order, want) {
			t.Fatalf("InstallOrder(a) = %v on run %d, want %v every run", order, i, want)
		}
	}
}

func TestInstallOrderCycle(t *testing.T) {
	s := buildStore(t, []string{"a", "b"}, []registry.Dependency{
		{FromID: "a", ToID: "b"},
		{FromID: "b", ToID: "a"},
	})
	snap := load(t, s, "a")

	_, err := snap.InstallOrder("a")
	if !errors.Is(err, depgraph.ErrCycleDuringSort) {
		t.Errorf("InstallOrder(a) error = %v, want ErrCycleDuringSort", err)
	}
}

func TestMultiInstallOrder(t *testing.T) {
	s := buildStore(t, []string{"a", "b", "shared", "x"}, []registry.Dependency{
		{FromID: "a", ToID: "shared"},
		{FromID: "b", ToID: "shared"},
		{FromID: "b", ToID: "x"},
	})
	snap := load(t, s, "a", "b")

	order, err := snap.MultiInstallOrder([]string{"a", "b"})
	if err != nil {
		t.Fatalf("MultiInstallOrder failed: %v", err)
	}
	if len(order) != 4 {
		t.Fatalf("MultiInstallOrder = %v, want every module exactly once", order)
	}
	assertBefore(t, order, "shared", "a")
	assertBefore(t, order, "shared", "b")
	assertBefore(t, order, "x", "b")
	assertBefore(t, order, "a", "b")
}
