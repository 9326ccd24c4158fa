package parser

import (
	"strings"
	"testing"
)

func TestSourceParser_Parse(t *testing.T) {
	input := "class A:\r\n    \"\"\"Doc.\"\"\"\r\n    def m(self):\r\n        pass\r\n"
	p := &SourceParser{}
	file, err := p.Parse(strings.NewReader(input), "pkg/a.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.Path != "pkg/a.py" {
		t.Errorf("expected path %q, got %q", "pkg/a.py", file.Path)
	}
	if len(file.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(file.Nodes))
	}
	if file.Nodes[0].Description != `"""Doc."""` {
		t.Errorf("expected CRLF to be stripped, got %q", file.Nodes[0].Description)
	}
	if len(file.Nodes[0].Children) != 1 {
		t.Errorf("expected 1 child, got %d", len(file.Nodes[0].Children))
	}
}

func TestSourceParser_EmptyInput(t *testing.T) {
	p := &SourceParser{}
	file, err := p.Parse(strings.NewReader(""), "empty.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.Nodes == nil || len(file.Nodes) != 0 {
		t.Errorf("expected empty non-nil node list, got %#v", file.Nodes)
	}
}

func TestReadLines_ByteOrderMark(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("\ufeffdef f():\n    pass"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "def f():" {
		t.Errorf("expected BOM to be stripped, got %q", lines[0])
	}
}

func TestReadLines_TooLong(t *testing.T) {
	long := strings.Repeat("x", maxLineBytes+1)
	if _, err := ReadLines(strings.NewReader(long)); err == nil {
		t.Error("expected error for over-long line")
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"main.py", false},
		{"stubs.pyi", false},
		{"UPPER.PY", false},
		{"notes.txt", true},
		{"Makefile", true},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename)
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q) error = %v, wantErr %v", tt.filename, err, tt.wantErr)
		}
		if !tt.wantErr && p == nil {
			t.Errorf("ForFile(%q) returned nil parser", tt.filename)
		}
		if IsSupportedExtension(tt.filename) == tt.wantErr {
			t.Errorf("IsSupportedExtension(%q) disagrees with ForFile", tt.filename)
		}
	}
}
