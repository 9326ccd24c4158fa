package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/pyoutline/internal/doctree"
)

const styleSheet = `
body { font-family: Arial, sans-serif; }
ul { list-style-type: none; }
li { margin-bottom: 8px; }
.desc { color: gray; font-size: 0.9em; margin-left: 1em; white-space: pre-line; }
.desc.md { white-space: normal; }
h2 { border-bottom: 1px solid #ccc; padding-bottom: 4px; margin-top: 20px; }
`

// HTMLOptions controls the HTML index page.
type HTMLOptions struct {
	Title    string // Page title and top heading; "Code Index" when empty
	Markdown bool   // Render descriptions as Markdown instead of plain text
}

// WriteHTML writes a standalone HTML index of the forest.
func WriteHTML(w io.Writer, forest *doctree.Forest, opts HTMLOptions) error {
	if opts.Title == "" {
		opts.Title = "Code Index"
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "UTF-8"}))
	head.AppendChild(withText(element(atom.Title), opts.Title))
	head.AppendChild(withText(element(atom.Style), styleSheet))
	root.AppendChild(head)

	body := element(atom.Body)
	body.AppendChild(withText(element(atom.H1), opts.Title))
	for _, f := range forest.Files() {
		body.AppendChild(withText(element(atom.H2), f.Path))
		list, err := nodeList(f.Nodes, opts)
		if err != nil {
			return fmt.Errorf("render %s: %w", f.Path, err)
		}
		body.AppendChild(list)
	}
	root.AppendChild(body)

	return html.Render(w, doc)
}

func nodeList(nodes []*doctree.DocumentNode, opts HTMLOptions) (*html.Node, error) {
	ul := element(atom.Ul)
	for _, n := range nodes {
		li := element(atom.Li, html.Attribute{Key: "data-line", Val: fmt.Sprint(n.Line)})
		li.AppendChild(withText(element(atom.Strong), n.Identifier.Signature()))

		if desc := doctree.CleanDescription(n.Description); desc != "" {
			div, err := description(desc, opts.Markdown)
			if err != nil {
				return nil, err
			}
			li.AppendChild(div)
		}

		if len(n.Children) > 0 {
			child, err := nodeList(n.Children, opts)
			if err != nil {
				return nil, err
			}
			li.AppendChild(child)
		}
		ul.AppendChild(li)
	}
	return ul, nil
}

func description(desc string, markdown bool) (*html.Node, error) {
	if !markdown {
		return withText(element(atom.Div, html.Attribute{Key: "class", Val: "desc"}), desc), nil
	}

	div := element(atom.Div, html.Attribute{Key: "class", Val: "desc md"})
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(desc), &buf); err != nil {
		return nil, fmt.Errorf("markdown: %w", err)
	}
	frag, err := html.ParseFragment(&buf, element(atom.Div))
	if err != nil {
		return nil, fmt.Errorf("parse markdown output: %w", err)
	}
	for _, n := range frag {
		div.AppendChild(n)
	}
	return div, nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func withText(n *html.Node, text string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
