package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"print", "html", "docx", "json", "index", "publish", "serve"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCommand_ConfigFileExcludes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.py"), []byte("def keep(): pass\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "generated"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "generated", "gen.py"), []byte("def gen(): pass\n"), 0o644))

	cfgPath := filepath.Join(t.TempDir(), "pyoutline.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("exclude:\n  - generated\nworkers: 2\n"), 0o644))

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"--config", cfgPath, "json", dir})
	require.NoError(t, root.Execute())

	assert.Contains(t, buf.String(), `"keep"`)
	assert.NotContains(t, buf.String(), `"gen"`)
}

func TestRootCommand_ExcludeFlag(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "skip"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip", "s.py"), []byte("def s(): pass\n"), 0o644))

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"--exclude", "skip", "index", dir})
	require.NoError(t, root.Execute())
	assert.Equal(t, "(0 definitions)\n", buf.String())
}

func TestRootCommand_BadConfigFile(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "json", "."})
	assert.Error(t, root.Execute())
}
