package render

import (
	"encoding/json"
	"io"

	"github.com/dgallion1/pyoutline/internal/doctree"
)

// Document is the JSON shape of a forest.
type Document struct {
	Files []*doctree.File `json:"files"`
}

// WriteJSON encodes the forest as indented JSON.
func WriteJSON(w io.Writer, forest *doctree.Forest) error {
	files := forest.Files()
	if files == nil {
		files = []*doctree.File{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document{Files: files})
}
