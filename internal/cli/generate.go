package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/internal/config"
	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/pipeline"
)

const defaultGenerateOutput = "architecture.json"

// generateOpts holds the flags of the generate command.
type generateOpts struct {
	layout    layoutFlags
	output    string
	filesFrom string
	name      string
	depth     int
}

// generateCommand creates the generate command, which classifies a file list
// into a graph and lays it out.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate [dir]",
		Short: "Generate a laid-out architecture graph from a repository file list",
		Long: `Generate a laid-out architecture graph from a repository file list.

Files are collected by walking dir (default "."), skipping hidden entries and
vendored directories, or read from --files-from, one path per line ("-" reads
stdin). The classifier turns the list into components and dependencies, and
the result is laid out like 'archgraph layout' would.

The directory classifier groups files by their leading --depth directories.
Set classifier.kind = "remote" in the config file (or ARCHGRAPH_CLASSIFIER=remote)
to call an external classifier service instead.`,
		Example: `  archgraph generate
  archgraph generate ./service --depth 2 -o service.yaml
  git ls-files | archgraph generate --files-from - -d LR`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return c.runGenerate(cmd, dir, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", defaultGenerateOutput, `output file (.json, .yaml or "-" for stdout)`)
	cmd.Flags().StringVar(&opts.filesFrom, "files-from", "", `read the file list from a file instead of walking dir ("-" for stdin)`)
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "root node label (default: directory name)")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "leading directories that form a component (directory classifier)")
	opts.layout.register(cmd)

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, dir string, opts *generateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	files, err := collectFiles(cmd, dir, opts.filesFrom)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no files found")
	}
	logger.Debug("collected files", "count", len(files))

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts.apply(&cfg, dir)
	opts.layout.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	runner, err := cfg.NewRunner(ctx, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Classifying %d files...", len(files)))
	spinner.Start()

	res, err := runner.Generate(ctx, pipeline.GenerateRequest{Files: files, Options: opts.layout.options(cfg)})
	if err != nil {
		spinner.StopWithError("Generate failed")
		return err
	}
	spinner.Stop()
	logger.Debug("generated graph",
		"classify", res.Stats.ClassifyTime.Round(time.Millisecond),
		"layout", res.Stats.LayoutTime.Round(time.Millisecond))

	if err := writeGraph(res.Graph, opts.output, cmd.OutOrStdout(), graph.FormatJSON); err != nil {
		return err
	}
	if opts.output == stdio {
		return nil
	}

	w := cmd.OutOrStdout()
	printSuccess(w, "Generated graph from %d files", len(files))
	printFile(w, opts.output)
	printStats(w, len(res.Graph.Nodes), len(res.Graph.Edges), rankCount(res), res.CacheHit)
	printNewline(w)
	printNextStep(w, "Inspect", appName+" inspect "+opts.output)
	return nil
}

// apply overrides the classifier settings with the flags that were set. The
// root label defaults to the name of the walked directory.
func (o *generateOpts) apply(cfg *config.Config, dir string) {
	if o.depth > 0 {
		cfg.Classifier.Depth = o.depth
	}
	switch {
	case o.name != "":
		cfg.Classifier.Name = o.name
	case cfg.Classifier.Name == "" && o.filesFrom == "":
		if abs, err := filepath.Abs(dir); err == nil {
			cfg.Classifier.Name = filepath.Base(abs)
		}
	}
}

// collectFiles returns the file list named by filesFrom, or walks dir when
// filesFrom is empty.
func collectFiles(cmd *cobra.Command, dir, filesFrom string) ([]string, error) {
	switch filesFrom {
	case "":
		info, err := os.Stat(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "directory %s", dir)
		}
		if !info.IsDir() {
			return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", dir)
		}
		return walkFiles(dir)
	case stdio:
		return readFileList(cmd.InOrStdin())
	}

	f, err := os.Open(filesFrom)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file list %s", filesFrom)
	}
	defer f.Close()
	return readFileList(f)
}
