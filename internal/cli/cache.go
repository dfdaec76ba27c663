package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/internal/config"
	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/httputil"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var responses bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts from the configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.CacheNone {
				printInfo(w, "Layout caching is disabled")
				if responses {
					return clearResponses(cmd, cfg)
				}
				return nil
			}
			store, err := cfg.OpenCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			ok, err := cache.Clear(ctx, store)
			switch {
			case err != nil:
				return fmt.Errorf("clear %s cache: %w", cfg.Cache.Backend, err)
			case ok:
				printSuccess(w, "Cleared %s layout cache", cfg.Cache.Backend)
			default:
				printWarning(w, "The %s cache backend cannot be cleared", cfg.Cache.Backend)
			}
			if fc, isFile := store.(*cache.FileCache); isFile {
				printDetail(w, "Directory: %s", fc.Dir())
			}

			if responses {
				return clearResponses(cmd, cfg)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&responses, "responses", false, "also clear cached remote classifier responses")

	return cmd
}

func clearResponses(cmd *cobra.Command, cfg config.Config) error {
	hc, err := httputil.NewCache("", cfg.Cache.TTL)
	if err != nil {
		return fmt.Errorf("open response cache: %w", err)
	}
	if err := hc.Clear(); err != nil {
		return fmt.Errorf("clear response cache: %w", err)
	}
	printSuccess(cmd.OutOrStdout(), "Cleared classifier responses")
	printDetail(cmd.OutOrStdout(), "Directory: %s", hc.Dir())
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the layout cache directory of the file backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir := cfg.Cache.Dir
			if dir == "" {
				dir = cache.DefaultFileCacheDir()
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
