// Package render exports dependency trees as Graphviz DOT and renders them
// to SVG for the dashboard's module-detail view.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/dramac-main/dramac-cms-sub010/pkg/registry"
	"github.com/dramac-main/dramac-cms-sub010/pkg/resolve"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes version and publication status in node labels.
	// When false, only the module name is shown.
	Detailed bool
}

// ToDOT converts a dependency tree to Graphviz DOT. Required edges are drawn
// solid, optional edges dashed, peer edges dotted. Nodes that are missing
// from the catalog or not published are tinted so problems stand out in the
// rendered graph. The result can be rendered with [RenderSVG].
func ToDOT(tree resolve.TreeNode, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph deps {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	emitted := make(map[string]bool)
	emitNodes(&buf, tree, opts, emitted)
	buf.WriteString("\n")
	emitEdges(&buf, tree, make(map[string]bool))

	buf.WriteString("}\n")
	return buf.String()
}

func emitNodes(buf *bytes.Buffer, n resolve.TreeNode, opts Options, emitted map[string]bool) {
	if !emitted[n.ModuleID] {
		emitted[n.ModuleID] = true
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n, opts.Detailed))}
		switch {
		case n.Missing:
			attrs = append(attrs, "fillcolor=mistyrose", "style=\"rounded,filled,dashed\"")
		case n.Status != "" && n.Status != registry.StatusPublished:
			attrs = append(attrs, "fillcolor=lightyellow")
		}
		fmt.Fprintf(buf, "  %q [%s];\n", n.ModuleID, strings.Join(attrs, ", "))
	}
	for _, c := range n.Children {
		emitNodes(buf, c, opts, emitted)
	}
}

func emitEdges(buf *bytes.Buffer, n resolve.TreeNode, visited map[string]bool) {
	if visited[n.ModuleID] {
		return
	}
	visited[n.ModuleID] = true
	for _, c := range n.Children {
		fmt.Fprintf(buf, "  %q -> %q%s;\n", n.ModuleID, c.ModuleID, edgeAttrs(c.Type))
		emitEdges(buf, c, visited)
	}
}

func nodeLabel(n resolve.TreeNode, detailed bool) string {
	name := n.ModuleName
	if name == "" {
		name = n.ModuleID
	}
	if !detailed {
		return name
	}
	parts := []string{name}
	if n.Version != "" {
		parts = append(parts, "v"+n.Version)
	}
	if n.Status != "" {
		parts = append(parts, string(n.Status))
	}
	if n.Missing {
		parts = append(parts, "missing")
	}
	return strings.Join(parts, "\n")
}

func edgeAttrs(t registry.DependencyType) string {
	switch t {
	case registry.DependencyOptional:
		return " [style=dashed, color=gray50]"
	case registry.DependencyPeer:
		return " [style=dotted, color=steelblue]"
	default:
		return ""
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
