package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/pyoutline/internal/config"
)

const moduleSource = `class A:
    """Doc."""

    def method(self):
        """Method doc.

        More.
        """
        pass


def helper(x):
    return x
`

func writeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte(moduleSource), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "__pycache__"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "__pycache__", "a.py"), []byte("def cached(): pass\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("def not_python(): pass\n"), 0o644))
	return dir
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	cfg := config.Load()
	rt := &Runtime{Config: cfg, Log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	cmd.SetContext(WithRuntime(t.Context(), rt))

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestPrintCommand(t *testing.T) {
	dir := writeTree(t)

	out, err := run(t, NewPrintCommand(), "--color=never", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "File: "+filepath.Join(dir, "a.py"))
	assert.Contains(t, out, "class A: (base indent: 0 spaces)\n  -> Doc.\n")
	assert.Contains(t, out, "  def method(self: (base indent: 4 spaces)\n    -> Method doc.\n      More.\n")
	assert.Contains(t, out, "def helper(x: (base indent: 0 spaces)\n")
	assert.NotContains(t, out, "cached")
	assert.NotContains(t, out, "not_python")
	assert.NotContains(t, out, "\x1b[", "no ANSI escapes with --color=never")
}

func TestPrintCommand_InvalidColor(t *testing.T) {
	_, err := run(t, NewPrintCommand(), "--color=sometimes", writeTree(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--color")
}

func TestPrintCommand_MissingPath(t *testing.T) {
	_, err := run(t, NewPrintCommand(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestHTMLCommand(t *testing.T) {
	dir := writeTree(t)
	out := filepath.Join(t.TempDir(), "index.html")

	_, err := run(t, NewHTMLCommand(), "-o", out, "--title", "My Index", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	page := string(data)
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<h1>My Index</h1>")
	assert.Contains(t, page, "<strong>class A:</strong>")
	assert.Contains(t, page, `<div class="desc">Doc.</div>`)
}

func TestHTMLCommand_Stdout(t *testing.T) {
	out, err := run(t, NewHTMLCommand(), "-o", "-", "--markdown", writeTree(t))
	require.NoError(t, err)
	assert.Contains(t, out, `class="desc md"`)
	assert.Contains(t, out, "<p>Method doc.</p>")
}

func TestDOCXCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "outline.docx")
	_, err := run(t, NewDOCXCommand(), "-o", out, writeTree(t))
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.Equal(t, "PK", string(data[:2]), "docx is a zip archive")
}

func TestJSONCommand(t *testing.T) {
	dir := writeTree(t)
	out, err := run(t, NewJSONCommand(), dir)
	require.NoError(t, err)

	var doc struct {
		Files []struct {
			Path  string `json:"path"`
			Nodes []struct {
				Identifier struct {
					Name string `json:"name"`
					Type string `json:"type"`
				} `json:"identifier"`
				Line int `json:"line"`
			} `json:"nodes"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Files, 1)
	require.Len(t, doc.Files[0].Nodes, 2)
	assert.Equal(t, "A", doc.Files[0].Nodes[0].Identifier.Name)
	assert.Equal(t, "class", doc.Files[0].Nodes[0].Identifier.Type)
	assert.Equal(t, "helper", doc.Files[0].Nodes[1].Identifier.Name)
	assert.Equal(t, 12, doc.Files[0].Nodes[1].Line)
}

func TestIndexCommand(t *testing.T) {
	dir := writeTree(t)

	tests := []struct {
		format string
		want   []string
	}{
		{"table", []string{"A.method", "function", "Method doc.", "(3 definitions)"}},
		{"markdown", []string{"| Name |", "| A.method |"}},
		{"csv", []string{"Name,Kind,File,Line,Summary", "A.method,function,"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := run(t, NewIndexCommand(), "--format", tt.format, dir)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}

	_, err := run(t, NewIndexCommand(), "--format", "yaml", dir)
	assert.Error(t, err)
}

func TestIndexCommand_Empty(t *testing.T) {
	out, err := run(t, NewIndexCommand(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "(0 definitions)\n", out)
}

func TestPublishCommand_RequiresPathstore(t *testing.T) {
	t.Setenv("PATHSTORE_URL", "")
	_, err := run(t, NewPublishCommand(), writeTree(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PATHSTORE_URL")
}

func TestPublishCommand(t *testing.T) {
	var mu sync.Mutex
	var puts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/kv/") {
			mu.Lock()
			puts = append(puts, r.URL.Path)
			mu.Unlock()
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("PATHSTORE_URL", srv.URL)
	t.Setenv("PATHSTORE_API_KEY", "k")

	out, err := run(t, NewPublishCommand(), "--project", "demo", writeTree(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Project:     demo")
	assert.Contains(t, out, "Definitions: 3")
	assert.Contains(t, out, "Published:   3")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, puts, 3)
	for _, p := range puts {
		assert.True(t, strings.HasPrefix(p, "/kv/outlines/demo/"), p)
	}
}
