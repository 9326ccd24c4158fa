// Package render turns parsed outlines into console text, HTML, DOCX and JSON.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgallion1/pyoutline/internal/doctree"
)

var (
	ruleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	fileStyle      = lipgloss.NewStyle().Bold(true)
	classStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	functionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	indentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	descStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	emptyFileStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240"))
)

var rule = strings.Repeat("=", 60)

// Console prints outlines as an indented tree.
type Console struct {
	w     *bufio.Writer
	color bool
}

// NewConsole returns a console renderer writing to w. With color set, output is styled with
// ANSI escapes.
func NewConsole(w io.Writer, color bool) *Console {
	return &Console{w: bufio.NewWriter(w), color: color}
}

// RenderForest prints every file of the forest in order.
func (c *Console) RenderForest(forest *doctree.Forest) error {
	for _, f := range forest.Files() {
		c.renderFile(f)
	}
	return c.w.Flush()
}

// RenderFile prints a single file.
func (c *Console) RenderFile(f *doctree.File) error {
	c.renderFile(f)
	return c.w.Flush()
}

func (c *Console) renderFile(f *doctree.File) {
	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w, c.paint(ruleStyle, rule))
	fmt.Fprintln(c.w, c.paint(fileStyle, "File: "+f.Path))
	fmt.Fprintln(c.w, c.paint(ruleStyle, rule))
	if len(f.Nodes) == 0 {
		fmt.Fprintln(c.w, c.paint(emptyFileStyle, "No classes or functions found."))
		return
	}
	doctree.Walk(f.Nodes, func(n *doctree.DocumentNode, depth int) bool {
		c.renderNode(n, depth)
		return true
	})
}

func (c *Console) renderNode(n *doctree.DocumentNode, depth int) {
	pad := strings.Repeat("  ", depth)

	sigStyle := functionStyle
	if n.Identifier.Type == doctree.Class {
		sigStyle = classStyle
	}
	sig := doctree.DisplaySignature(n.Identifier.Signature())
	fmt.Fprintf(c.w, "%s%s %s\n", pad, c.paint(sigStyle, sig),
		c.paint(indentStyle, fmt.Sprintf("(base indent: %d spaces)", n.IndentLevel)))

	desc := doctree.CleanDescription(n.Description)
	if desc == "" {
		return
	}
	for i, line := range strings.Split(desc, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		prefix := "  -> "
		if i > 0 {
			prefix = "    "
		}
		fmt.Fprintf(c.w, "%s%s%s\n", pad, prefix, c.paint(descStyle, line))
	}
}

func (c *Console) paint(s lipgloss.Style, text string) string {
	if !c.color {
		return text
	}
	return s.Render(text)
}
