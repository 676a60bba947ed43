package parse

import "strings"

func isQuote(c byte) bool {
	return c == '"' || c == '\''
}

// literalEnd returns the index just past the string literal whose opening
// quote is at src[i], or -1 when the literal is not closed. Single-quoted
// literals end at the first unescaped newline.
func literalEnd(src string, i int) int {
	delim := src[i : i+1]
	if strings.HasPrefix(src[i:], strings.Repeat(delim, 3)) {
		delim = strings.Repeat(delim, 3)
	}
	for j := i + len(delim); j < len(src); j++ {
		switch {
		case src[j] == '\\':
			j++
		case src[j] == '\n' && len(delim) == 1:
			return -1
		case strings.HasPrefix(src[j:], delim):
			return j + len(delim)
		}
	}
	return -1
}

// lineEnd returns the index of the newline ending the line at i, or len(src).
func lineEnd(src string, i int) int {
	if n := strings.IndexByte(src[i:], '\n'); n >= 0 {
		return i + n
	}
	return len(src)
}

// skipTrivia skips whitespace, line continuations and comments.
func skipTrivia(src string, i int) int {
	for i < len(src) {
		switch c := src[i]; {
		case c == ' ' || c == '\t' || c == '\f' || c == '\r' || c == '\n':
			i++
		case c == '\\' && i+1 < len(src) && src[i+1] == '\n':
			i += 2
		case c == '#':
			i = lineEnd(src, i)
		default:
			return i
		}
	}
	return i
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 0x80 ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// stringStart returns the index of the opening quote when src[i:] is a
// string literal with an optional prefix such as u, r, b or rb, or -1.
func stringStart(src string, i int) int {
	j := i
	for j < len(src) && j-i < 2 && strings.IndexByte("uUrRbB", src[j]) >= 0 {
		j++
	}
	if j < len(src) && isQuote(src[j]) {
		return j
	}
	return -1
}
