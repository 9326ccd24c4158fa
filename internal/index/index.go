// Package index flattens outline trees into breadcrumb-qualified entries for search and publishing.
package index

import (
	"fmt"
	"strings"

	"github.com/dgallion1/pyoutline/internal/doctree"
)

// Entry is one definition with its structural context.
type Entry struct {
	File       string            `json:"file"`
	Breadcrumb []string          `json:"breadcrumb"` // Enclosing definition names, outermost first, ending with Name
	Path       []string          `json:"path"`       // Breadcrumb made unique within the file; repeats get a "~N" suffix
	Name       string            `json:"name"`
	Kind       doctree.TokenType `json:"kind"`
	Signature  string            `json:"signature"`
	Summary    string            `json:"summary,omitempty"` // First line of the cleaned description
	Line       int               `json:"line"`
	Depth      int               `json:"depth"`
}

// QualifiedName joins the breadcrumb with dots, e.g. "MathUtils.compute_sqrt".
func (e Entry) QualifiedName() string {
	return strings.Join(e.Breadcrumb, ".")
}

// Parent returns the qualified name of the enclosing definition, or "" at top level.
func (e Entry) Parent() string {
	if len(e.Breadcrumb) < 2 {
		return ""
	}
	return strings.Join(e.Breadcrumb[:len(e.Breadcrumb)-1], ".")
}

// Build walks every file of the forest and returns entries in depth-first source order.
func Build(forest *doctree.Forest) []Entry {
	var entries []Entry
	for _, f := range forest.Files() {
		entries = append(entries, BuildFile(f)...)
	}
	return entries
}

// BuildFile returns the entries of a single file. Definitions sharing a breadcrumb, such as a
// property getter and its setter, get distinct paths: the second is "name~2", the third "name~3".
func BuildFile(f *doctree.File) []Entry {
	w := &walker{file: f.Path, seen: make(map[string]int)}
	for _, n := range f.Nodes {
		w.walk(n, nil, nil, 0)
	}
	return w.entries
}

type walker struct {
	file    string
	seen    map[string]int
	entries []Entry
}

func (w *walker) walk(n *doctree.DocumentNode, breadcrumb, path []string, depth int) {
	var bc []string
	bc = append(bc, breadcrumb...)
	bc = append(bc, n.Identifier.Name)

	segment := n.Identifier.Name
	key := strings.Join(append(path[:len(path):len(path)], segment), "/")
	w.seen[key]++
	if k := w.seen[key]; k > 1 {
		segment = fmt.Sprintf("%s~%d", segment, k)
	}
	var p []string
	p = append(p, path...)
	p = append(p, segment)

	w.entries = append(w.entries, Entry{
		File:       w.file,
		Breadcrumb: bc,
		Path:       p,
		Name:       n.Identifier.Name,
		Kind:       n.Identifier.Type,
		Signature:  n.Identifier.Signature(),
		Summary:    Summary(n.Description),
		Line:       n.Line,
		Depth:      depth,
	})

	for _, child := range n.Children {
		w.walk(child, bc, p, depth+1)
	}
}

// Summary returns the first non-blank line of a cleaned docstring.
func Summary(desc string) string {
	for _, line := range strings.Split(doctree.CleanDescription(desc), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
