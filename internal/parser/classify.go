package parser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/dgallion1/pyoutline/internal/doctree"
)

const (
	ident = `[\p{L}_][\p{L}\p{N}_]*`

	// Leading whitespace, including Unicode spaces such as U+00A0.
	lead = `([\s\v\p{Zs}]*)`
)

var (
	// def name(...) or async def name(...), anything up to a colon.
	funcPattern = regexp.MustCompile(`^` + lead + `(?:async\s+)?def\s+(` + ident + `)\s*\(.*\).*:`)

	// class Name: or class Name(Base, ...):
	classPattern = regexp.MustCompile(`^` + lead + `class\s+(` + ident + `)\s*(?:\(.*\))?\s*:`)
)

// Definition is a line the classifier recognized as a function or class.
type Definition struct {
	Indent int
	Type   doctree.TokenType
	Name   string
}

// Classify reports whether line opens a function or class definition.
// Blank and comment lines never match.
func Classify(line string) (Definition, bool) {
	if isBlank(line) || isComment(line) {
		return Definition{}, false
	}
	if m := funcPattern.FindStringSubmatch(line); m != nil {
		return Definition{Indent: indentOf(m[1]), Type: doctree.Function, Name: m[2]}, true
	}
	if m := classPattern.FindStringSubmatch(line); m != nil {
		return Definition{Indent: indentOf(m[1]), Type: doctree.Class, Name: m[2]}, true
	}
	return Definition{}, false
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// indentOf counts leading whitespace runes. Tabs and spaces count the same.
func indentOf(line string) int {
	n := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}
