package doctree

import (
	"fmt"
	"strings"
)

// TokenType tags a definition line as a function or a class.
type TokenType int

const (
	Function TokenType = iota + 1
	Class
)

func (t TokenType) String() string {
	switch t {
	case Function:
		return "function"
	case Class:
		return "class"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

// MarshalText encodes the tag as "function" or "class".
func (t TokenType) MarshalText() ([]byte, error) {
	switch t {
	case Function, Class:
		return []byte(t.String()), nil
	}
	return nil, fmt.Errorf("unknown token type %d", int(t))
}

// UnmarshalText decodes "function" or "class".
func (t *TokenType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "function":
		*t = Function
	case "class":
		*t = Class
	default:
		return fmt.Errorf("unknown token type %q", string(b))
	}
	return nil
}

// Token is the signature line of a definition.
type Token struct {
	Content string    `json:"content"` // Definition line as it appeared in the source
	Type    TokenType `json:"type"`
	Name    string    `json:"name"` // Function or class identifier
}

// Signature returns the definition line without surrounding whitespace.
func (t Token) Signature() string {
	return strings.TrimSpace(t.Content)
}

// DocumentNode is a function or class definition with its docstring and nested definitions.
type DocumentNode struct {
	Identifier  Token           `json:"identifier"`
	Description string          `json:"description,omitempty"` // Raw docstring block, delimiters included
	Children    []*DocumentNode `json:"children,omitempty"`
	IndentLevel int             `json:"indent_level"`
	Line        int             `json:"line"` // 1-based source line of the definition
}

// File is the outline of one source file.
type File struct {
	Path  string          `json:"path"`
	Nodes []*DocumentNode `json:"nodes"`
}

// Forest maps source files to their top-level nodes, preserving insertion order.
type Forest struct {
	files []*File
	index map[string]int
}

func NewForest() *Forest {
	return &Forest{index: make(map[string]int)}
}

// Add records the nodes for path. Adding the same path twice replaces the earlier entry in place.
func (f *Forest) Add(path string, nodes []*DocumentNode) {
	if f.index == nil {
		f.index = make(map[string]int)
	}
	if nodes == nil {
		nodes = []*DocumentNode{}
	}
	if i, ok := f.index[path]; ok {
		f.files[i] = &File{Path: path, Nodes: nodes}
		return
	}
	f.index[path] = len(f.files)
	f.files = append(f.files, &File{Path: path, Nodes: nodes})
}

// Files returns the files in insertion order.
func (f *Forest) Files() []*File {
	if f == nil {
		return nil
	}
	return f.files
}

// Lookup returns the top-level nodes for path.
func (f *Forest) Lookup(path string) ([]*DocumentNode, bool) {
	if f == nil {
		return nil, false
	}
	i, ok := f.index[path]
	if !ok {
		return nil, false
	}
	return f.files[i].Nodes, true
}

// Len returns the number of files.
func (f *Forest) Len() int {
	if f == nil {
		return 0
	}
	return len(f.files)
}

// Walk visits nodes depth-first in source order. Returning false from fn skips the node's children.
func Walk(nodes []*DocumentNode, fn func(node *DocumentNode, depth int) bool) {
	walk(nodes, 0, fn)
}

func walk(nodes []*DocumentNode, depth int, fn func(*DocumentNode, int) bool) {
	for _, n := range nodes {
		if fn(n, depth) {
			walk(n.Children, depth+1, fn)
		}
	}
}

// Count returns the total number of nodes in the tree.
func Count(nodes []*DocumentNode) int {
	n := 0
	Walk(nodes, func(*DocumentNode, int) bool {
		n++
		return true
	})
	return n
}

var quoteDelimiters = []string{`"""`, `'''`}

// CleanDescription strips the outer delimiter markers and surrounding whitespace from a raw docstring.
func CleanDescription(desc string) string {
	d := strings.TrimSpace(desc)
	for _, q := range quoteDelimiters {
		if strings.HasPrefix(d, q) {
			d = d[len(q):]
			break
		}
	}
	for _, q := range quoteDelimiters {
		if strings.HasSuffix(d, q) {
			d = d[:len(d)-len(q)]
			break
		}
	}
	return strings.TrimSpace(d)
}

// DisplaySignature drops the closing parenthesis of a signature ending in "):".
func DisplaySignature(sig string) string {
	if strings.HasSuffix(sig, "):") {
		return sig[:len(sig)-2] + ":"
	}
	return sig
}
