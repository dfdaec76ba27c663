package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/pipeline"
)

const defaultDebounce = 200 * time.Millisecond

// watchCommand creates the watch command, which re-lays out a graph file
// every time it is saved.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		flags    layoutFlags
		output   string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <graph.json|graph.yaml>",
		Short: "Re-layout a graph file whenever it changes",
		Long: `Re-layout a graph file whenever it changes.

The watch command lays out the graph once, then watches the file and writes a
fresh layout after every save. Bursts of events (editors often write a file in
several steps) are coalesced using --debounce. A graph that fails to parse or
lay out is reported and skipped; the previous output stays in place.

The output must differ from the input. Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd, args[0], output, debounce, &flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.<ext>)")
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before re-laying out")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runWatch(cmd *cobra.Command, input, output string, debounce time.Duration, flags *layoutFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if input == stdio {
		return errors.New(errors.ErrCodeInvalidPath, "watch needs a graph file, not stdin")
	}
	if output == "" {
		output = defaultOutput(input)
	}
	in, err := filepath.Abs(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", input)
	}
	out, err := filepath.Abs(output)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", output)
	}
	if in == out {
		return errors.New(errors.ErrCodeInvalidPath, "output %s must differ from the watched input", output)
	}

	cfg, runner, err := c.setup(ctx, flags)
	if err != nil {
		return err
	}
	defer runner.Close()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create file watcher")
	}
	defer fw.Close()

	// Watching the directory catches editors that save by renaming a
	// temporary file over the original.
	if err := fw.Add(filepath.Dir(in)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", filepath.Dir(in))
	}

	w := &watcher{
		runner:   runner,
		opts:     flags.options(cfg),
		input:    in,
		output:   out,
		debounce: debounce,
		logger:   logger,
	}
	printInfo(cmd.OutOrStdout(), "Watching %s", input)
	printFile(cmd.OutOrStdout(), output)
	return w.run(ctx, fw.Events, fw.Errors)
}

// watcher re-lays out one graph file in response to file system events.
type watcher struct {
	runner   *pipeline.Runner
	opts     pipeline.Options
	input    string
	output   string
	debounce time.Duration
	logger   *log.Logger
}

// run lays out the input once, then again after each burst of events that
// touch it. It returns nil when ctx is done or the event channel closes.
func (w *watcher) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	w.update(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if w.relevant(ev) {
				timer.Reset(w.debounce)
			}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "err", err)
		case <-timer.C:
			w.update(ctx)
		}
	}
}

// relevant reports whether ev may have changed the input's content.
func (w *watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.input {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create) != 0
}

// update lays out the input and writes the output, logging failures.
func (w *watcher) update(ctx context.Context) {
	start := time.Now()
	g, err := readGraph(w.input, nil)
	if err != nil {
		w.logger.Error("read graph", "err", errors.UserMessage(err))
		return
	}
	res, err := w.runner.Relayout(ctx, pipeline.RelayoutRequest{Graph: g, Options: w.opts})
	if err != nil {
		w.logger.Error("layout failed", "err", errors.UserMessage(err))
		return
	}
	if err := writeGraph(res.Graph, w.output, nil, ""); err != nil {
		w.logger.Error("write layout", "err", errors.UserMessage(err))
		return
	}
	w.logger.Info("Layout updated",
		"file", filepath.Base(w.output),
		"nodes", len(res.Graph.Nodes),
		"cached", res.CacheHit,
		"took", time.Since(start).Round(time.Millisecond))
}
