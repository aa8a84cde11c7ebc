package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// newOrderCmd creates the order command, which prints the combined install
// order for one or more modules.
func newOrderCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "order <module-id> [module-id...]",
		Short: "Compute the install order for one or more modules",
		Long:  `Computes a topological install order over required dependencies: every module appears after all of its required dependencies, each module at most once, with per-module relative order preserved.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			engine, cleanup, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			p := newProgress(loggerFromContext(ctx))
			order, err := engine.MultiInstallOrder(ctx, args)
			if err != nil {
				return err
			}
			p.done(fmt.Sprintf("Ordered %d modules", len(order)))

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(map[string][]string{"install_order": order})
			}
			fmt.Println(strings.Join(order, " → "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the install order as JSON")
	return cmd
}
