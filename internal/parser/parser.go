package parser

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/pyoutline/internal/doctree"
)

// Parser converts raw source bytes into a file outline.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.File, error)
}

// SupportedExtensions lists file extensions this tool can outline.
var SupportedExtensions = map[string]bool{
	".py":  true,
	".pyi": true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".py", ".pyi":
		return &SourceParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// SourceParser outlines Python source.
type SourceParser struct{}

func (p *SourceParser) Parse(r io.Reader, filename string) (*doctree.File, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	nodes := Parse(lines)
	if nodes == nil {
		nodes = []*doctree.DocumentNode{}
	}
	return &doctree.File{Path: filename, Nodes: nodes}, nil
}

const maxLineBytes = 1024 * 1024

// ReadLines splits r into lines without their terminators. A trailing "\r" and a leading
// UTF-8 byte order mark are dropped.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
