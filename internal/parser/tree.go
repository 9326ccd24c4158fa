package parser

import "github.com/dgallion1/pyoutline/internal/doctree"

// NoFloor parses a line range without an indentation floor.
const NoFloor = -1

// Parse builds the outline of a whole source file.
func Parse(lines []string) []*doctree.DocumentNode {
	return ParseFrom(lines, NoFloor)
}

// ParseFrom builds sibling definitions from the front of lines. With floor >= 0, parsing stops at
// the first definition indented floor columns or less; that line and everything after it is left
// for the caller.
func ParseFrom(lines []string, floor int) []*doctree.DocumentNode {
	return parseRange(lines, 0, floor)
}

// parseRange does the work for ParseFrom. offset is the index of lines[0] in the whole file and
// only feeds the recorded line numbers.
func parseRange(lines []string, offset, floor int) []*doctree.DocumentNode {
	var nodes []*doctree.DocumentNode

	i := 0
	for i < len(lines) {
		line := lines[i]
		def, ok := Classify(line)
		if !ok {
			i++
			continue
		}
		if floor >= 0 && def.Indent <= floor {
			break
		}

		node := &doctree.DocumentNode{
			Identifier: doctree.Token{
				Content: line,
				Type:    def.Type,
				Name:    def.Name,
			},
			IndentLevel: def.Indent,
			Line:        offset + i + 1,
		}

		bodyStart := i + 1

		// The docstring candidate is the first non-blank line after the definition.
		cand := i + 1
		for cand < len(lines) && isBlank(lines[cand]) {
			cand++
		}
		if cand < len(lines) && indentOf(lines[cand]) > def.Indent && hasDelimiter(lines[cand]) {
			if doc, next, found := ExtractDocstring(lines, cand); found {
				node.Description = doc
				bodyStart = next
			}
		}

		// Body: everything indented deeper than the definition. Blank lines never end it.
		end := bodyStart
		for end < len(lines) {
			if !isBlank(lines[end]) && indentOf(lines[end]) <= def.Indent {
				break
			}
			end++
		}

		if body := lines[bodyStart:end]; hasContent(body) {
			node.Children = parseRange(body, offset+bodyStart, def.Indent)
		}

		nodes = append(nodes, node)
		i = end
	}

	return nodes
}

func hasContent(lines []string) bool {
	for _, l := range lines {
		if !isBlank(l) {
			return true
		}
	}
	return false
}
