// Package commands holds the pyoutline subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgallion1/pyoutline/internal/config"
	"github.com/dgallion1/pyoutline/internal/doctree"
	"github.com/dgallion1/pyoutline/internal/source"
)

// Runtime carries the resolved configuration and logger into commands.
type Runtime struct {
	Config config.Config
	Log    *slog.Logger
}

type runtimeKey struct{}

// WithRuntime stores rt in ctx.
func WithRuntime(ctx context.Context, rt *Runtime) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, runtimeKey{}, rt)
}

// GetRuntime returns the runtime stored in ctx, or one built from the environment.
func GetRuntime(ctx context.Context) *Runtime {
	if ctx != nil {
		if rt, ok := ctx.Value(runtimeKey{}).(*Runtime); ok {
			return rt
		}
	}
	return &Runtime{
		Config: config.Load(),
		Log:    slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}
}

// loadForest collects the Python files named by args (default ".") and parses them.
func loadForest(ctx context.Context, rt *Runtime, args []string) (*doctree.Forest, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	opts := source.Options{Exclude: rt.Config.Exclude, Extensions: rt.Config.Extensions}

	var paths []string
	for _, arg := range args {
		found, err := source.Collect(arg, opts)
		if err != nil {
			return nil, fmt.Errorf("collect %s: %w", arg, err)
		}
		paths = append(paths, found...)
	}
	rt.Log.Debug("collected files", "count", len(paths))

	forest, failed, err := source.ParseFiles(ctx, paths, rt.Config.MaxConcurrentParse, rt.Log)
	if err != nil {
		return nil, err
	}
	if len(failed) > 0 {
		rt.Log.Warn("some files could not be outlined", "failed", len(failed))
	}
	return forest, nil
}

// createOutput opens path for writing; "-" selects stdout.
func createOutput(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}
