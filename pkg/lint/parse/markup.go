package parse

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

// Markup parses an XML document into a element tree with line numbers.
func Markup(path string, src []byte) (*lint.MarkupTree, error) {
	dec := xml.NewDecoder(bytes.NewReader(src))
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	var (
		root  *lint.Node
		stack []*lint.Node
	)
	for {
		line, _ := dec.InputPos()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newError(lint.FormatMarkup, path, syntaxLine(err, line), err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &lint.Node{Name: t.Name.Local, Line: line}
			for _, a := range t.Attr {
				node.Attrs = append(node.Attrs, lint.Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, newError(lint.FormatMarkup, path, line, errors.New("extra content at the end of the document"))
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				if text := strings.TrimSpace(string(t)); text != "" {
					stack[len(stack)-1].Text += text
				}
			} else if strings.TrimSpace(string(t)) != "" {
				return nil, newError(lint.FormatMarkup, path, line, errors.New("text outside the document element"))
			}
		}
	}

	if root == nil {
		return nil, newError(lint.FormatMarkup, path, 0, errors.New("document is empty"))
	}
	return &lint.MarkupTree{Root: root}, nil
}

func syntaxLine(err error, fallback int) int {
	var serr *xml.SyntaxError
	if errors.As(err, &serr) {
		return serr.Line
	}
	return fallback
}
