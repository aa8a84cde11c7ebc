package cli

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dramac-main/dramac-cms-sub010/pkg/render"
)

// newTreeCmd creates the tree command, which inspects a module's dependency
// tree as text, JSON, DOT, or rendered SVG, or browses it interactively.
func newTreeCmd() *cobra.Command {
	var (
		depth       int
		format      string
		output      string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "tree <module-id>",
		Short: "Inspect a module's dependency tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			engine, cleanup, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			tree, err := engine.Tree(ctx, args[0], depth)
			if err != nil {
				return err
			}

			if interactive {
				_, err := tea.NewProgram(newTreeModel(tree)).Run()
				return err
			}

			switch format {
			case "text":
				printTree(os.Stdout, tree, 0)
				return nil
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(tree)
			case "dot":
				fmt.Print(render.ToDOT(tree, render.Options{Detailed: true}))
				return nil
			case "svg":
				svg, err := render.RenderSVG(render.ToDOT(tree, render.Options{Detailed: true}))
				if err != nil {
					return err
				}
				if output == "" {
					output = args[0] + ".svg"
				}
				if err := os.WriteFile(output, svg, 0644); err != nil {
					return err
				}
				loggerFromContext(ctx).Info("wrote dependency tree", "path", output)
				return nil
			default:
				return fmt.Errorf("unknown format %q (want text, json, dot, or svg)", format)
			}
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "maximum expansion depth (0 = default)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path for svg format")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the tree interactively")
	return cmd
}
