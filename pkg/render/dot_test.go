package render

import (
	"strings"
	"testing"

	"github.com/dramac-main/dramac-cms-sub010/pkg/registry"
	"github.com/dramac-main/dramac-cms-sub010/pkg/resolve"
)

func sampleTree() resolve.TreeNode {
	return resolve.TreeNode{
		ModuleID:   "blog",
		ModuleName: "Blog",
		Version:    "2.0.0",
		Status:     registry.StatusPublished,
		Children: []resolve.TreeNode{
			{
				ModuleID:   "forms",
				ModuleName: "Forms",
				Version:    "1.2.0",
				Status:     registry.StatusPublished,
				Type:       registry.DependencyRequired,
			},
			{
				ModuleID:   "seo",
				ModuleName: "SEO",
				Version:    "0.9.0",
				Status:     registry.StatusDraft,
				Type:       registry.DependencyOptional,
			},
			{
				ModuleID:   "ghost",
				ModuleName: "ghost",
				Type:       registry.DependencyPeer,
				Missing:    true,
			},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleTree(), Options{})

	if !strings.HasPrefix(dot, "digraph deps {") {
		t.Errorf("output does not open a digraph:\n%s", dot)
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Errorf("output does not close the digraph:\n%s", dot)
	}

	for _, want := range []string{
		`"blog" -> "forms";`,
		`"blog" -> "seo" [style=dashed, color=gray50];`,
		`"blog" -> "ghost" [style=dotted, color=steelblue];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("output missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTTintsProblemNodes(t *testing.T) {
	dot := ToDOT(sampleTree(), Options{})

	if !strings.Contains(dot, "fillcolor=mistyrose") {
		t.Errorf("missing node not tinted:\n%s", dot)
	}
	if !strings.Contains(dot, "fillcolor=lightyellow") {
		t.Errorf("unpublished node not tinted:\n%s", dot)
	}
}

func TestToDOTDetailedLabels(t *testing.T) {
	plain := ToDOT(sampleTree(), Options{})
	if strings.Contains(plain, "v2.0.0") {
		t.Errorf("plain output carries version details:\n%s", plain)
	}

	detailed := ToDOT(sampleTree(), Options{Detailed: true})
	for _, want := range []string{"v2.0.0", "published", "draft"} {
		if !strings.Contains(detailed, want) {
			t.Errorf("detailed output missing %q:\n%s", want, detailed)
		}
	}
}

func TestToDOTEmitsSharedNodeOnce(t *testing.T) {
	shared := resolve.TreeNode{ModuleID: "shared", ModuleName: "Shared", Type: registry.DependencyRequired}
	tree := resolve.TreeNode{
		ModuleID:   "root",
		ModuleName: "Root",
		Children: []resolve.TreeNode{
			{ModuleID: "a", ModuleName: "A", Type: registry.DependencyRequired, Children: []resolve.TreeNode{shared}},
			{ModuleID: "b", ModuleName: "B", Type: registry.DependencyRequired, Children: []resolve.TreeNode{shared}},
		},
	}

	dot := ToDOT(tree, Options{})
	if got := strings.Count(dot, `"shared" [`); got != 1 {
		t.Errorf("shared node declared %d times, want 1:\n%s", got, dot)
	}
}
