package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dramac-main/dramac-cms-sub010/internal/config"
	"github.com/dramac-main/dramac-cms-sub010/pkg/cache"
)

// newCacheCmd creates the cache command group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached resolution results",
	}
	cmd.AddCommand(newCacheClearCmd())
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [module-id...]",
		Short: "Drop cached resolution results",
		Long:  `Drops cached resolution results for the given modules, or every cached result when no module is named. Useful after out-of-band graph edits that bypass the mutation guard.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := config.Load(configPathFromContext(ctx))
			if err != nil {
				return err
			}
			c, closeCache, err := buildCache(ctx, cfg.Cache)
			if err != nil {
				return err
			}
			defer closeCache()

			pd, ok := c.(cache.PrefixDeleter)
			if !ok {
				return fmt.Errorf("cache backend %q does not support prefix deletion", cfg.Cache.Backend)
			}

			keyer := cache.NewDefaultKeyer()
			if len(args) == 0 {
				if err := pd.DeletePrefix(ctx, "resolve:"); err != nil {
					return err
				}
				logger.Info("cleared all cached resolution results")
				return nil
			}
			for _, id := range args {
				if err := pd.DeletePrefix(ctx, keyer.ModulePrefix(id)); err != nil {
					return err
				}
				logger.Info("cleared cached results", "module", id)
			}
			return nil
		},
	}
}
