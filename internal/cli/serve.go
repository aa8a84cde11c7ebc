package cli

import (
	"github.com/spf13/cobra"

	"github.com/dramac-main/dramac-cms-sub010/internal/service"
)

// newServeCmd creates the serve command, which runs the HTTP facade consumed
// by the installation workflow and the dashboard.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the resolver HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			engine, cleanup, err := buildEngine(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if addr == "" {
				addr, err = serveAddr(ctx)
				if err != nil {
					return err
				}
			}
			return service.New(engine, loggerFromContext(ctx)).ListenAndServe(addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")
	return cmd
}
