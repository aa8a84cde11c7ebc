package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dramac-main/dramac-cms-sub010/pkg/resolve"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary values
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
)

// printResult renders a resolution result for terminal consumption.
func printResult(w io.Writer, res resolve.Result) {
	fmt.Fprintln(w, styleTitle.Render("Resolution: "+res.ModuleID))

	verdict := styleError.Render("✗ cannot install")
	if res.CanInstall {
		verdict = styleSuccess.Render("✓ can install")
	}
	fmt.Fprintln(w, verdict)

	printBucket(w, "Required", res.Required)
	printBucket(w, "Optional", res.Optional)
	printBucket(w, "Peer", res.Peer)

	if len(res.Conflicts) > 0 {
		fmt.Fprintln(w, styleTitle.Render("Conflicts"))
		for _, c := range res.Conflicts {
			style := styleWarning
			if c.Blocking() {
				style = styleError
			}
			fmt.Fprintf(w, "  %s %s\n", style.Render("["+string(c.Severity)+"]"), c.Reason)
			if c.Resolution != "" {
				fmt.Fprintf(w, "    %s\n", styleDim.Render("→ "+c.Resolution))
			}
		}
	}

	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "  %s %s\n", styleWarning.Render("note:"), warning)
	}

	if len(res.InstallOrder) > 0 {
		fmt.Fprintln(w, styleTitle.Render("Install order"))
		fmt.Fprintf(w, "  %s\n", styleValue.Render(strings.Join(res.InstallOrder, " → ")))
	}
}

func printBucket(w io.Writer, name string, nodes []resolve.DependencyNode) {
	if len(nodes) == 0 {
		return
	}
	fmt.Fprintln(w, styleTitle.Render(name+" dependencies"))
	for _, n := range nodes {
		fmt.Fprintf(w, "  %s %s\n",
			styleValue.Render(n.ModuleName),
			statusStyle(n.Status).Render("("+string(n.Status)+")"))
	}
}

func statusStyle(s resolve.DependencyStatus) lipgloss.Style {
	switch s {
	case resolve.StatusInstalled:
		return styleSuccess
	case resolve.StatusAvailable:
		return styleDim
	default:
		return styleError
	}
}

// printTree renders a dependency tree as an indented text outline.
func printTree(w io.Writer, node resolve.TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	label := node.ModuleName
	if node.Version != "" {
		label += styleDim.Render(" v" + node.Version)
	}
	if node.Type != "" {
		label += styleDim.Render(" [" + string(node.Type) + "]")
	}
	switch {
	case node.Missing:
		label += " " + styleError.Render("(missing)")
	case node.Cyclic:
		label += " " + styleWarning.Render("(cycle)")
	}
	fmt.Fprintf(w, "%s%s\n", indent, label)
	for _, c := range node.Children {
		printTree(w, c, depth+1)
	}
}
