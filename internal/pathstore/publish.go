package pathstore

import (
	"context"
	"path"
	"strings"

	"github.com/dgallion1/pyoutline/internal/index"
)

const keyRoot = "outlines"

// ProjectPrefix is the key under which a project's outlines live.
func ProjectPrefix(project string) string {
	return keyRoot + "/" + cleanSegments(project)
}

// FilePrefix is the key under which one source file's entries live.
func FilePrefix(project, file string) string {
	return ProjectPrefix(project) + "/" + cleanSegments(file)
}

// EntryKey is the key of a single index entry: the file prefix followed by the entry's unique
// path within the file.
func EntryKey(project string, e index.Entry) string {
	return FilePrefix(project, e.File) + "/" + cleanSegments(strings.Join(keyPath(e), "/"))
}

// ParentKey is the key of the entry's enclosing definition, or "" at top level.
func ParentKey(project string, e index.Entry) string {
	p := keyPath(e)
	if len(p) < 2 {
		return ""
	}
	return FilePrefix(project, e.File) + "/" + cleanSegments(strings.Join(p[:len(p)-1], "/"))
}

// keyPath falls back to the breadcrumb for entries built without a path.
func keyPath(e index.Entry) []string {
	if len(e.Path) > 0 {
		return e.Path
	}
	return e.Breadcrumb
}

// cleanSegments normalises a slash path into key segments, dropping empty, "." and ".." parts.
func cleanSegments(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	var out []string
	for _, seg := range strings.Split(path.Clean("/"+p), "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		out = append(out, seg)
	}
	if len(out) == 0 {
		return "_"
	}
	return strings.Join(out, "/")
}

// Publisher writes index entries into pathstore.
type Publisher struct {
	client *Client
}

func NewPublisher(c *Client) *Publisher {
	return &Publisher{client: c}
}

// Client returns the underlying pathstore client.
func (p *Publisher) Client() *Client {
	return p.client
}

// ClearFile removes everything previously published for file.
func (p *Publisher) ClearFile(ctx context.Context, project, file string) error {
	return p.client.DeleteNode(ctx, FilePrefix(project, file), true)
}

// PutEntry stores one entry.
func (p *Publisher) PutEntry(ctx context.Context, project string, e index.Entry) error {
	salience := 0.3
	if e.Depth == 0 {
		salience = 0.5
	}
	return p.client.PutNode(ctx, EntryKey(project, e), NodeRequest{
		Value: map[string]any{
			"file":           e.File,
			"name":           e.Name,
			"qualified_name": e.QualifiedName(),
			"kind":           e.Kind.String(),
			"signature":      e.Signature,
			"summary":        e.Summary,
			"line":           e.Line,
		},
		MemoryType: "semantic",
		Salience:   salience,
		Source:     "pyoutline:" + project,
	})
}

// LinkEntry connects a nested entry to its enclosing definition. Top-level entries are skipped.
func (p *Publisher) LinkEntry(ctx context.Context, project string, e index.Entry) error {
	parent := ParentKey(project, e)
	if parent == "" {
		return nil
	}
	return p.client.PutLink(ctx, LinkRequest{
		From:    parent,
		To:      EntryKey(project, e),
		Weight:  1,
		Summary: "defines " + e.Name,
	})
}

// List returns the published entries of a project.
func (p *Publisher) List(ctx context.Context, project string, limit int) ([]ListChildrenResponse, error) {
	return p.client.ListChildren(ctx, ProjectPrefix(project), limit)
}
