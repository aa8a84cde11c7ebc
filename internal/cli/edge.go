package cli

import (
	"github.com/spf13/cobra"

	"github.com/dramac-main/dramac-cms-sub010/pkg/registry"
)

// newEdgeCmd creates the edge command group for guarded graph mutations.
func newEdgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Add or remove dependency edges (cycle-guarded)",
	}
	cmd.AddCommand(newEdgeAddCmd())
	cmd.AddCommand(newEdgeRemoveCmd())
	return cmd
}

func newEdgeAddCmd() *cobra.Command {
	var (
		depType    string
		minVersion string
		maxVersion string
	)

	cmd := &cobra.Command{
		Use:   "add <from-module> <to-module>",
		Short: "Declare that one module depends on another",
		Long:  `Declares a dependency edge after checking that it would not close a cycle. Re-declaring an existing pair overwrites its type and version bounds.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			engine, cleanup, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			dep := registry.Dependency{
				FromID:     args[0],
				ToID:       args[1],
				Type:       registry.DependencyType(depType),
				MinVersion: minVersion,
				MaxVersion: maxVersion,
			}
			if err := engine.AddDependency(ctx, dep); err != nil {
				return err
			}
			loggerFromContext(ctx).Info("dependency added",
				"from", dep.FromID, "to", dep.ToID, "type", dep.Type)
			return nil
		},
	}

	cmd.Flags().StringVar(&depType, "type", string(registry.DependencyRequired), "dependency type: required, optional, peer")
	cmd.Flags().StringVar(&minVersion, "min", "", "minimum compatible version")
	cmd.Flags().StringVar(&maxVersion, "max", "", "maximum compatible version")
	return cmd
}

func newEdgeRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <from-module> <to-module>",
		Short: "Remove a dependency edge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			engine, cleanup, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := engine.RemoveDependency(ctx, args[0], args[1]); err != nil {
				return err
			}
			loggerFromContext(ctx).Info("dependency removed", "from", args[0], "to", args[1])
			return nil
		},
	}
}
