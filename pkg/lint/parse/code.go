package parse

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

var (
	// PEP 263 encoding declaration; only honoured on the first two lines.
	codingPattern = regexp.MustCompile(`^[ \t\f]*#.*?coding[:=][ \t]*([-_.a-zA-Z0-9]+)`)
	importPattern = regexp.MustCompile(`^\s*import\s+(.+)$`)
	fromPattern   = regexp.MustCompile(`^\s*from\s+(\.*)([\w.]*)\s+import\s+(.+)$`)
)

// Code builds the line-level tree of a source module: its lines, encoding
// declaration and import statements. Invalid UTF-8 and unterminated
// triple-quoted strings are syntax errors.
func Code(path string, src []byte) (*lint.CodeTree, error) {
	lines := splitLines(src)
	for i, line := range lines {
		if !utf8.ValidString(line) {
			return nil, newError(lint.FormatCode, path, i+1, errors.New("invalid UTF-8 sequence"))
		}
	}

	tree := &lint.CodeTree{Lines: lines}
	for i := 0; i < len(lines) && i < 2; i++ {
		if m := codingPattern.FindStringSubmatch(lines[i]); m != nil {
			tree.Coding = strings.ToLower(m[1])
			tree.CodingLine = i + 1
			break
		}
	}

	inString, openLine := tripleQuotedLines(strings.Join(lines, "\n"))
	if openLine > 0 {
		return nil, newError(lint.FormatCode, path, openLine, errors.New("unterminated triple-quoted string"))
	}
	for i := 0; i < len(lines); i++ {
		if inString[i] {
			continue
		}
		line := lines[i]
		stmt, start := stripComment(line), i+1
		// Parenthesized import lists may span several lines.
		if strings.Contains(stmt, "import") && strings.Contains(stmt, "(") && !strings.Contains(stmt, ")") {
			for i+1 < len(lines) {
				i++
				stmt += " " + stripComment(lines[i])
				if strings.Contains(lines[i], ")") {
					break
				}
			}
		}
		tree.Imports = append(tree.Imports, parseImports(stmt, start)...)
	}
	return tree, nil
}

// tripleQuotedLines marks the zero-based lines touched by a triple-quoted
// literal spanning several lines. openLine is the one-based line of a
// triple-quoted literal left open, or 0.
func tripleQuotedLines(text string) (inString map[int]bool, openLine int) {
	inString = make(map[int]bool)
	line := 0
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == '\n':
			line++
		case c == '#':
			i = lineEnd(text, i) - 1
		case isQuote(c):
			triple := strings.HasPrefix(text[i:], strings.Repeat(text[i:i+1], 3))
			end := literalEnd(text, i)
			if end < 0 {
				if triple {
					return inString, line + 1
				}
				// Unterminated single-quoted literals end with their line.
				i = lineEnd(text, i) - 1
				continue
			}
			last := line + strings.Count(text[i:end], "\n")
			if last > line {
				for l := line; l <= last; l++ {
					inString[l] = true
				}
			}
			line = last
			i = end - 1
		}
	}
	return inString, 0
}

func stripComment(line string) string {
	if i := strings.Index(line, "#"); i >= 0 && !strings.ContainsAny(line[:i], `"'`) {
		return line[:i]
	}
	return line
}

func parseImports(stmt string, line int) []lint.Import {
	if m := fromPattern.FindStringSubmatch(stmt); m != nil {
		names := splitNames(strings.Trim(strings.TrimSpace(m[3]), "()"))
		return []lint.Import{{Module: m[2], Names: names, Level: len(m[1]), Line: line}}
	}
	if m := importPattern.FindStringSubmatch(stmt); m != nil {
		var out []lint.Import
		for _, name := range splitNames(m[1]) {
			out = append(out, lint.Import{Module: name, Line: line})
		}
		return out
	}
	return nil
}

func splitNames(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		names = append(names, strings.Trim(fields[0], "()"))
	}
	return names
}

func splitLines(src []byte) []string {
	text := strings.TrimPrefix(string(src), "\ufeff")
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
