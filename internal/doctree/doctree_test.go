package doctree

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCleanDescription(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"""doc"""`, "doc"},
		{`'''doc'''`, "doc"},
		{"\"\"\"\n    Summary.\n\n    Details.\n\"\"\"", "Summary.\n\n    Details."},
		{`"""unterminated`, "unterminated"},
		{`""""""`, ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanDescription(tt.in); got != tt.want {
			t.Errorf("CleanDescription(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplaySignature(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"def f(x):", "def f(x:"},
		{"class A(Base):", "class A(Base:"},
		{"class A:", "class A:"},
		{"def f(x) -> int:", "def f(x) -> int:"},
	}
	for _, tt := range tests {
		if got := DisplaySignature(tt.in); got != tt.want {
			t.Errorf("DisplaySignature(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func sampleNodes() []*DocumentNode {
	return []*DocumentNode{
		{
			Identifier: Token{Content: "class A:", Type: Class, Name: "A"},
			Children: []*DocumentNode{
				{
					Identifier:  Token{Content: "    def m(self):", Type: Function, Name: "m"},
					IndentLevel: 4,
					Children: []*DocumentNode{
						{Identifier: Token{Content: "        def inner():", Type: Function, Name: "inner"}, IndentLevel: 8},
					},
				},
			},
		},
		{Identifier: Token{Content: "def f():", Type: Function, Name: "f"}},
	}
}

func TestWalk(t *testing.T) {
	var got []string
	Walk(sampleNodes(), func(n *DocumentNode, depth int) bool {
		got = append(got, strings.Repeat(".", depth)+n.Identifier.Name)
		return true
	})
	want := "A,.m,..inner,f"
	if strings.Join(got, ",") != want {
		t.Errorf("expected %q, got %q", want, strings.Join(got, ","))
	}
}

func TestWalk_Prune(t *testing.T) {
	var got []string
	Walk(sampleNodes(), func(n *DocumentNode, depth int) bool {
		got = append(got, n.Identifier.Name)
		return n.Identifier.Type == Class
	})
	if strings.Join(got, ",") != "A,m,f" {
		t.Errorf("expected pruned walk A,m,f, got %v", got)
	}
	if n := Count(sampleNodes()); n != 4 {
		t.Errorf("expected 4 nodes, got %d", n)
	}
}

func TestForest_Order(t *testing.T) {
	f := NewForest()
	f.Add("b.py", sampleNodes())
	f.Add("a.py", nil)
	f.Add("b.py", sampleNodes()[1:])

	if f.Len() != 2 {
		t.Fatalf("expected 2 files, got %d", f.Len())
	}
	files := f.Files()
	if files[0].Path != "b.py" || files[1].Path != "a.py" {
		t.Errorf("expected insertion order b.py, a.py, got %s, %s", files[0].Path, files[1].Path)
	}
	nodes, ok := f.Lookup("b.py")
	if !ok || len(nodes) != 1 {
		t.Errorf("expected replaced entry with 1 node, got %d (ok=%v)", len(nodes), ok)
	}
	nodes, ok = f.Lookup("a.py")
	if !ok || nodes == nil {
		t.Errorf("expected empty non-nil nodes for a.py")
	}
	if _, ok := f.Lookup("missing.py"); ok {
		t.Error("expected missing file lookup to fail")
	}
}

func TestTokenTypeJSON(t *testing.T) {
	b, err := json.Marshal(Token{Content: "class A:", Type: Class, Name: "A"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"type":"class"`) {
		t.Errorf("expected type encoded as text, got %s", b)
	}
	var tok Token
	if err := json.Unmarshal([]byte(`{"content":"def f():","type":"function","name":"f"}`), &tok); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tok.Type != Function {
		t.Errorf("expected function, got %v", tok.Type)
	}
	if err := json.Unmarshal([]byte(`{"type":"module"}`), &tok); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestTokenSignature(t *testing.T) {
	tok := Token{Content: "    def m(self):  "}
	if tok.Signature() != "def m(self):" {
		t.Errorf("unexpected signature %q", tok.Signature())
	}
}
