// Package source finds Python files on disk and parses them into a forest.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/pyoutline/internal/doctree"
	"github.com/dgallion1/pyoutline/internal/parser"
)

// ErrUnsupported is returned when a file argument is not a Python source file.
var ErrUnsupported = errors.New("not a Python file")

// DefaultExcludes are directory names never descended into.
var DefaultExcludes = []string{"__pycache__", "venv", "env", "node_modules", "build", "dist", "site-packages"}

// Options controls which files Collect returns.
type Options struct {
	Exclude    []string // Extra directory names to skip
	Extensions []string // Overrides parser.SupportedExtensions when set, e.g. ".py"
}

func (o Options) skipDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	for _, ex := range DefaultExcludes {
		if name == ex {
			return true
		}
	}
	for _, ex := range o.Exclude {
		if name == ex {
			return true
		}
	}
	return false
}

func (o Options) wantFile(name string) bool {
	if len(o.Extensions) == 0 {
		return parser.IsSupportedExtension(name)
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range o.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// Collect returns the source files under root in lexical order. A root that names a file is
// returned as is when it has a wanted extension.
func Collect(root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if !opts.wantFile(root) {
			return nil, fmt.Errorf("%s: %w", root, ErrUnsupported)
		}
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && opts.skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && opts.wantFile(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// FileError records a file that could not be outlined.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e *FileError) Unwrap() error { return e.Err }

// ParseFile outlines a single file from disk.
func ParseFile(path string) (*doctree.File, error) {
	p, err := parser.ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.Parse(f, path)
}

// ParseFiles outlines paths with at most workers files in flight. Files that fail are logged and
// reported in the returned slice; they never stop the others. The forest keeps the order of paths.
// The error is non-nil only when ctx is cancelled.
func ParseFiles(ctx context.Context, paths []string, workers int, log *slog.Logger) (*doctree.Forest, []*FileError, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]*doctree.File, len(paths))
	failures := make([]*FileError, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file, err := ParseFile(path)
			if err != nil {
				log.Warn("skipping file", "path", path, "error", err)
				failures[i] = &FileError{Path: path, Err: err}
				return nil
			}
			log.Debug("parsed file", "path", path, "nodes", doctree.Count(file.Nodes))
			results[i] = file
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	forest := doctree.NewForest()
	var errs []*FileError
	for i := range paths {
		if results[i] != nil {
			forest.Add(results[i].Path, results[i].Nodes)
		}
		if failures[i] != nil {
			errs = append(errs, failures[i])
		}
	}
	return forest, errs, nil
}
