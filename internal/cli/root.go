package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dramac-main/dramac-cms-sub010/pkg/buildinfo"
)

// Execute runs the modgraph CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (resolve, order,
// tree, edge, serve), configures logging based on the --verbose flag, and
// executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "modgraph",
		Short:        "modgraph inspects and guards the module dependency graph",
		Long:         `modgraph is the operator tool for the module dependency resolution engine: it decides installability, computes install orders, inspects dependency trees, and guards edge mutations against cycles.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(withConfigPath(ctx, configPath))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "modgraph.toml", "path to the TOML config file")

	root.AddCommand(newResolveCmd())
	root.AddCommand(newOrderCmd())
	root.AddCommand(newTreeCmd())
	root.AddCommand(newEdgeCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}

// configPathKey is the context key for the --config flag value.
const configPathKey ctxKey = 1

func withConfigPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, configPathKey, path)
}

func configPathFromContext(ctx context.Context) string {
	if p, ok := ctx.Value(configPathKey).(string); ok {
		return p
	}
	return "modgraph.toml"
}
