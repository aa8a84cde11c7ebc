package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newResolveCmd creates the resolve command, which decides whether a module
// can be installed onto a target and prints the classified result.
func newResolveCmd() *cobra.Command {
	var (
		target string
		asJSON bool
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <module-id>",
		Short: "Decide whether a module can be installed onto a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			engine, cleanup, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			p := newProgress(logger)
			res := engine.Resolve(ctx, args[0], target)
			p.done(fmt.Sprintf("Resolved %s against target %s", args[0], target))

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(res)
			}
			if quiet {
				if !res.CanInstall {
					return fmt.Errorf("module %s cannot be installed", args[0])
				}
				return nil
			}
			printResult(os.Stdout, res)
			if !res.CanInstall {
				return fmt.Errorf("module %s cannot be installed", args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "target (site/client/agency) to evaluate install state against")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the raw resolution result as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress output, exit non-zero when install is blocked")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}
