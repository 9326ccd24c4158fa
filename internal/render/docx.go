package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/pyoutline/internal/doctree"
)

// WriteDOCX writes the forest as a Word document: a heading per file, one paragraph per
// definition indented by depth, and grey paragraphs for descriptions.
func WriteDOCX(w io.Writer, forest *doctree.Forest, title string) error {
	if title == "" {
		title = "Code Index"
	}
	doc := docx.New().WithDefaultTheme()
	doc.AddParagraph().AddText(title).Bold().Size("36")

	for _, f := range forest.Files() {
		doc.AddParagraph().AddText(f.Path).Bold().Size("28")
		if len(f.Nodes) == 0 {
			doc.AddParagraph().AddText("No classes or functions found.").Color("808080")
			continue
		}
		doctree.Walk(f.Nodes, func(n *doctree.DocumentNode, depth int) bool {
			pad := strings.Repeat("    ", depth)
			doc.AddParagraph().AddText(pad + n.Identifier.Signature()).Bold()
			desc := doctree.CleanDescription(n.Description)
			for _, line := range strings.Split(desc, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					doc.AddParagraph().AddText(pad + "    " + line).Color("808080")
				}
			}
			return true
		})
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}
