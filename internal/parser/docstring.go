package parser

import "strings"

// Docstring delimiters, in the order they are tried.
var delimiters = []string{`"""`, `'''`}

func hasDelimiter(line string) bool {
	for _, q := range delimiters {
		if strings.Contains(line, q) {
			return true
		}
	}
	return false
}

// ExtractDocstring reads a docstring that opens at lines[start].
//
// A line that opens and closes with the same delimiter is a single-line docstring. A line that
// only opens one extends through the first later line ending in that delimiter, or to the end of
// input when none does. The block keeps its delimiters; lines are trimmed and joined with "\n".
// It returns the block, the index of the first line after it, and whether a docstring was found.
// When none is found next equals start.
func ExtractDocstring(lines []string, start int) (doc string, next int, ok bool) {
	if start < 0 || start >= len(lines) {
		return "", start, false
	}
	line := strings.TrimSpace(lines[start])

	for _, q := range delimiters {
		if len(line) >= 2*len(q) && strings.HasPrefix(line, q) && strings.HasSuffix(line, q) {
			return line, start + 1, true
		}
	}

	for _, q := range delimiters {
		if !strings.HasPrefix(line, q) {
			continue
		}
		block := []string{line}
		i := start + 1
		for ; i < len(lines); i++ {
			cur := strings.TrimSpace(lines[i])
			block = append(block, cur)
			if strings.HasSuffix(cur, q) {
				i++
				break
			}
		}
		// Unterminated blocks close at end of input.
		return strings.Join(block, "\n"), i, true
	}

	return "", start, false
}
