package parse

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"go.starlark.net/syntax"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

// Manifest parses a module manifest: a single dict literal in Python syntax.
// Values must be literals (strings, numbers, booleans, None, lists, tuples
// and dicts); anything else is a syntax error.
func Manifest(path string, src []byte) (*lint.ManifestMap, error) {
	opts := &syntax.FileOptions{}
	expr, err := opts.ParseExpr(path, normalizeManifest(string(src)), 0)
	if err != nil {
		line := 0
		var serr syntax.Error
		if errors.As(err, &serr) {
			line = int(serr.Pos.Line)
		}
		return nil, newError(lint.FormatManifest, path, line, errors.New(syntaxMessage(err)))
	}

	for {
		paren, ok := expr.(*syntax.ParenExpr)
		if !ok {
			break
		}
		expr = paren.X
	}
	dict, ok := expr.(*syntax.DictExpr)
	if !ok {
		return nil, newError(lint.FormatManifest, path, exprLine(expr), errors.New("manifest is not a dict literal"))
	}

	m := &lint.ManifestMap{
		Values: make(map[string]any, len(dict.List)),
		Lines:  make(map[string]int, len(dict.List)),
	}
	for _, item := range dict.List {
		entry := item.(*syntax.DictEntry)
		key, ok := literalString(entry.Key)
		if !ok {
			return nil, newError(lint.FormatManifest, path, exprLine(entry.Key), errors.New("manifest keys must be strings"))
		}
		value, err := literalValue(entry.Value)
		if err != nil {
			return nil, newError(lint.FormatManifest, path, exprLine(entry.Value), fmt.Errorf("key %q: %w", key, err))
		}
		if _, dup := m.Values[key]; !dup {
			m.Keys = append(m.Keys, key)
		}
		m.Values[key] = value
		m.Lines[key] = exprLine(entry.Key)
	}
	return m, nil
}

type literalSpan struct {
	start, quote, end int
}

// normalizeManifest rewrites the Python string forms the Starlark scanner
// rejects. The u prefix is dropped, other prefixes are lowercased and
// adjacent literals are folded into one. Line numbers are preserved.
func normalizeManifest(src string) string {
	var b strings.Builder
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '#':
			j := lineEnd(src, i)
			b.WriteString(src[i:j])
			i = j
		case isQuote(c) || isIdentByte(c):
			var group []literalSpan
			for j := i; stringStart(src, j) >= 0; {
				q := stringStart(src, j)
				end := literalEnd(src, q)
				if end < 0 {
					break
				}
				group = append(group, literalSpan{start: j, quote: q, end: end})
				j = skipTrivia(src, end)
			}
			if len(group) > 0 {
				b.WriteString(foldLiterals(src, group))
				i = group[len(group)-1].end
				continue
			}
			if isQuote(c) {
				// Unterminated; the parser reports it.
				b.WriteString(src[i:])
				return b.String()
			}
			j := i
			for j < len(src) && isIdentByte(src[j]) {
				j++
			}
			b.WriteString(src[i:j])
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// foldLiterals renders a run of adjacent literals as one literal followed by
// the newlines the run spanned. Runs that do not decode are kept as written
// apart from their prefixes.
func foldLiterals(src string, group []literalSpan) string {
	if len(group) > 1 {
		var value strings.Builder
		folded := true
		for _, s := range group {
			expr, err := syntax.ParseExpr("", literalText(src, s), 0)
			lit, ok := expr.(*syntax.Literal)
			if err != nil || !ok || lit.Token != syntax.STRING {
				folded = false
				break
			}
			value.WriteString(lit.Value.(string))
		}
		if folded {
			lines := strings.Count(src[group[0].start:group[len(group)-1].end], "\n")
			return syntax.Quote(value.String(), false) + strings.Repeat("\n", lines)
		}
	}

	var b strings.Builder
	for k, s := range group {
		if k > 0 {
			b.WriteString(src[group[k-1].end:s.start])
		}
		b.WriteString(literalText(src, s))
	}
	return b.String()
}

// literalText returns the literal with its prefix in Starlark form.
func literalText(src string, s literalSpan) string {
	prefix := strings.ToLower(src[s.start:s.quote])
	raw, bytes := strings.Contains(prefix, "r"), strings.Contains(prefix, "b")
	switch {
	case raw && bytes:
		prefix = "rb"
	case raw:
		prefix = "r"
	case bytes:
		prefix = "b"
	default:
		prefix = ""
	}
	return prefix + src[s.quote:s.end]
}

func syntaxMessage(err error) string {
	var serr syntax.Error
	if errors.As(err, &serr) {
		return serr.Msg
	}
	return err.Error()
}

func exprLine(e syntax.Expr) int {
	start, _ := e.Span()
	return int(start.Line)
}

func literalString(e syntax.Expr) (string, bool) {
	lit, ok := e.(*syntax.Literal)
	if !ok || lit.Token != syntax.STRING {
		return "", false
	}
	s, ok := lit.Value.(string)
	return s, ok
}

// literalValue converts a literal expression to plain Go values:
// string, int, float64, bool, nil, []any and map[string]any.
func literalValue(e syntax.Expr) (any, error) {
	switch x := e.(type) {
	case *syntax.Literal:
		switch v := x.Value.(type) {
		case int64:
			return int(v), nil
		case *big.Int:
			return v.String(), nil
		default:
			return v, nil
		}
	case *syntax.Ident:
		switch x.Name {
		case "True":
			return true, nil
		case "False":
			return false, nil
		case "None":
			return nil, nil
		}
		return nil, fmt.Errorf("unsupported name %s", x.Name)
	case *syntax.UnaryExpr:
		if x.Op == syntax.MINUS {
			v, err := literalValue(x.X)
			if err != nil {
				return nil, err
			}
			switch n := v.(type) {
			case int:
				return -n, nil
			case float64:
				return -n, nil
			}
		}
		return nil, errors.New("unsupported unary expression")
	case *syntax.ParenExpr:
		return literalValue(x.X)
	case *syntax.ListExpr:
		return literalList(x.List)
	case *syntax.TupleExpr:
		return literalList(x.List)
	case *syntax.DictExpr:
		out := make(map[string]any, len(x.List))
		for _, item := range x.List {
			entry := item.(*syntax.DictEntry)
			key, ok := literalString(entry.Key)
			if !ok {
				return nil, errors.New("dict keys must be strings")
			}
			v, err := literalValue(entry.Value)
			if err != nil {
				return nil, err
			}
			out[key] = v
		}
		return out, nil
	default:
		return nil, errors.New("value is not a literal")
	}
}

func literalList(items []syntax.Expr) ([]any, error) {
	out := make([]any, 0, len(items))
	for _, item := range items {
		v, err := literalValue(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
