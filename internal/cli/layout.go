package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/pipeline"
)

// layoutCommand creates the layout command for re-laying out a graph file.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout <graph.json|graph.yaml>",
		Short: "Recompute node positions of an architecture graph",
		Long: `Recompute node positions of an architecture graph.

The layout command reads a graph file (JSON or YAML, "-" for JSON on stdin),
sizes every node from its file count and places it with the layout engine.
Node data is kept as is; only positions and the flow direction change.

Running layout on its own output yields the same positions again. Results are
cached, so repeated runs on an unchanged graph are instant.`,
		Example: `  archgraph layout architecture.json
  archgraph layout architecture.yaml -d LR -o wide.yaml
  cat architecture.json | archgraph layout - -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], output, &flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file (default: <input>.layout.<ext>, "-" for stdout)`)
	flags.register(cmd)

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, input, output string, flags *layoutFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	g, err := readGraph(input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg, runner, err := c.setup(ctx, flags)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Laying out %d nodes...", len(g.Nodes)))
	spinner.Start()

	res, err := runner.Relayout(ctx, pipeline.RelayoutRequest{Graph: g, Options: flags.options(cfg)})
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()
	prog.done("layout computed", "nodes", len(g.Nodes), "cached", res.CacheHit)

	if output == "" {
		if input == stdio {
			output = stdio
		} else {
			output = defaultOutput(input)
		}
	}
	if err := writeGraph(res.Graph, output, cmd.OutOrStdout(), graph.FormatJSON); err != nil {
		return err
	}
	if output == stdio {
		return nil
	}

	w := cmd.OutOrStdout()
	printSuccess(w, "Layout complete")
	printFile(w, output)
	printStats(w, len(res.Graph.Nodes), len(res.Graph.Edges), rankCount(res), res.CacheHit)
	printKeyValue(w, "Direction", res.Graph.Direction)
	printNewline(w)
	printNextStep(w, "Inspect", appName+" inspect "+output)
	return nil
}

// rankCount returns the number of ranks in a pipeline result.
func rankCount(res *pipeline.Result) int {
	if res.Layout == nil {
		return 0
	}
	n := 0
	for _, r := range res.Layout.Ranks {
		n = max(n, r+1)
	}
	return n
}
