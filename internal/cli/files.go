package cli

import (
	"bufio"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
)

// stdio is the path that selects standard input or output.
const stdio = "-"

// defaultOutput derives "<base>.layout<ext>" from a graph file path.
func defaultOutput(input string) string {
	ext := filepath.Ext(input)
	if ext == "" {
		ext = ".json"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout" + ext
}

// writeGraph writes g to path, or to stdout when path is "-". Files are
// replaced atomically so watchers never observe a partial graph.
func writeGraph(g graph.Graph, path string, stdout io.Writer, stdoutFormat graph.Format) error {
	if path == stdio {
		return graph.Write(g, stdout, stdoutFormat)
	}

	data, err := graph.Marshal(g, graph.FormatFromPath(path))
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return errors.New(errors.ErrCodeInvalidPath, "write %s: %s is not a directory", path, dir)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

// readGraph reads a graph file, or stdin as JSON when path is "-".
func readGraph(path string, stdin io.Reader) (graph.Graph, error) {
	if path == stdio {
		return graph.Read(stdin, graph.FormatJSON)
	}
	if _, err := os.Stat(path); err != nil {
		return graph.Graph{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
	}
	g, err := graph.ReadFile(path)
	if err != nil {
		return graph.Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "graph file %s", path)
	}
	return g, nil
}

// skippedDirs are never descended into when walking a repository.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"target":       true,
	"dist":         true,
}

// walkFiles lists the regular files under root as slash-separated paths
// relative to root, in lexical order. Hidden entries and skippedDirs are
// ignored.
func walkFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") || skippedDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "walk %s", root)
	}
	return files, nil
}

// readFileList reads one path per line. Blank lines and lines starting with
// '#' are skipped.
func readFileList(r io.Reader) ([]string, error) {
	var files []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		files = append(files, filepath.ToSlash(line))
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read file list")
	}
	return files, nil
}
