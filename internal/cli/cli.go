// Package cli implements the archgraph command-line interface.
//
// # Commands
//
//   - generate: classify a file list or directory tree into a laid-out graph
//   - layout: recompute the positions of a graph file
//   - watch: re-layout a graph file every time it changes
//   - inspect: browse a laid-out graph rank by rank
//   - serve: run the HTTP API
//   - cache: manage the layout cache
//   - version: print build information
//
// # Configuration
//
// Settings come from archgraph.toml (or --config), then ARCHGRAPH_*
// environment variables, then command-line flags.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through the command context.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/internal/config"
	"github.com/matzehuels/archgraph/pkg/buildinfo"
	"github.com/matzehuels/archgraph/pkg/pipeline"
)

// appName is the application name used for commands and display.
const appName = "archgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "archgraph lays out architecture graphs",
		Long: `archgraph turns an architecture graph (components and the dependencies between
them) into a deterministic layered diagram. Graphs are generated from a
repository file list or read from JSON/YAML files, and every layout can be
recomputed without changing positions that are already stable.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: ./"+config.FileName+" if present)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute runs the CLI until ctx is cancelled. Logs go to stderr.
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}

// loadConfig reads the configuration. Its log level applies unless --verbose
// was given.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if !c.verbose {
		if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.SetLogLevel(level)
		}
	}
	return cfg, nil
}

// =============================================================================
// Layout Flags
// =============================================================================

// layoutFlags are the layout options shared by generate, layout, watch and
// inspect. Empty values keep the configured defaults.
type layoutFlags struct {
	direction string
	strategy  string
	sizing    string
	noCache   bool
	refresh   bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.direction, "direction", "d", "", "flow direction: TB (top to bottom) or LR (left to right)")
	cmd.Flags().StringVarP(&f.strategy, "strategy", "s", "", "layout strategy: layered or graphviz")
	cmd.Flags().StringVar(&f.sizing, "sizing", "", "node sizing policy: default or compact")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when a cached layout exists")
}

// apply overrides the configuration with the flags that were set.
func (f *layoutFlags) apply(cfg *config.Config) {
	if f.direction != "" {
		cfg.Layout.Direction = f.direction
	}
	if f.strategy != "" {
		cfg.Layout.Strategy = f.strategy
	}
	if f.sizing != "" {
		cfg.Layout.Sizing = f.sizing
	}
	if f.noCache {
		cfg.Cache.Backend = config.CacheNone
	}
}

func (f *layoutFlags) options(cfg config.Config) pipeline.Options {
	opts := cfg.Options()
	opts.Refresh = f.refresh
	return opts
}

// setup loads the configuration, applies f and opens a runner. The caller
// must close the runner.
func (c *CLI) setup(ctx context.Context, f *layoutFlags) (config.Config, *pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	f.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}
	runner, err := cfg.NewRunner(ctx, loggerFromContext(ctx))
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, runner, nil
}
