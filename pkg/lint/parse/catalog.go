package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

// catalogParser is the state machine behind Catalog.
type catalogParser struct {
	path    string
	entries []lint.CatalogEntry
	cur     *lint.CatalogEntry
	pending lint.CatalogEntry // comments seen before the next msgid
	field   *string           // target of continuation lines
	sawID   bool
}

// Catalog parses a gettext PO/POT file.
func Catalog(path string, src []byte) (*lint.CatalogEntries, error) {
	p := &catalogParser{path: path}
	for i, raw := range splitLines(src) {
		lineNo := i + 1
		if !utf8.ValidString(raw) {
			return nil, p.errorf(lineNo, "invalid UTF-8 sequence")
		}
		line := strings.TrimSpace(raw)

		obsolete := false
		if strings.HasPrefix(line, "#~") {
			obsolete = true
			line = strings.TrimSpace(strings.TrimPrefix(line, "#~"))
		}

		if line == "" || (strings.HasPrefix(line, "#") && !obsolete) {
			if err := p.flush(); err != nil {
				return nil, err
			}
		}

		switch {
		case line == "":
		case strings.HasPrefix(line, "#,"):
			for _, flag := range strings.Split(line[2:], ",") {
				if flag = strings.TrimSpace(flag); flag != "" {
					p.pending.Flags = append(p.pending.Flags, flag)
				}
			}
		case strings.HasPrefix(line, "#:"):
			p.pending.References = append(p.pending.References, strings.Fields(line[2:])...)
		case strings.HasPrefix(line, "#"):
		case strings.HasPrefix(line, `"`):
			if p.field == nil {
				return nil, p.errorf(lineNo, "string continuation without keyword")
			}
			s, err := unquotePO(line)
			if err != nil {
				return nil, p.errorf(lineNo, "%v", err)
			}
			*p.field += s
		default:
			if err := p.keyword(line, lineNo, obsolete); err != nil {
				return nil, err
			}
		}
	}
	if err := p.flush(); err != nil {
		return nil, err
	}

	out := &lint.CatalogEntries{Header: map[string]string{}}
	for _, e := range p.entries {
		if e.ID == "" && e.Context == "" && !e.Obsolete {
			if len(e.Strs) > 0 {
				out.Header = parseHeader(e.Strs[0])
			}
			continue
		}
		out.Entries = append(out.Entries, e)
	}
	return out, nil
}

func (p *catalogParser) keyword(line string, lineNo int, obsolete bool) error {
	kw, rest, ok := strings.Cut(line, " ")
	if !ok {
		return p.errorf(lineNo, "keyword %q without string", line)
	}
	s, err := unquotePO(strings.TrimSpace(rest))
	if err != nil {
		return p.errorf(lineNo, "%v", err)
	}

	switch {
	case kw == "msgctxt":
		if err := p.flush(); err != nil {
			return err
		}
		p.start(lineNo, obsolete)
		p.cur.Context = s
		p.field = &p.cur.Context
	case kw == "msgid":
		if p.cur == nil || p.sawID {
			if err := p.flush(); err != nil {
				return err
			}
			p.start(lineNo, obsolete)
		}
		p.cur.Line = lineNo
		p.cur.ID = s
		p.sawID = true
		p.field = &p.cur.ID
	case kw == "msgid_plural":
		if p.cur == nil || !p.sawID {
			return p.errorf(lineNo, "msgid_plural before msgid")
		}
		p.cur.IDPlural = s
		p.field = &p.cur.IDPlural
	case kw == "msgstr" || strings.HasPrefix(kw, "msgstr["):
		if p.cur == nil || !p.sawID {
			return p.errorf(lineNo, "msgstr before msgid")
		}
		idx := 0
		if kw != "msgstr" {
			n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(kw, "msgstr["), "]"))
			if err != nil || n != len(p.cur.Strs) {
				return p.errorf(lineNo, "bad plural index in %q", kw)
			}
			idx = n
		} else if len(p.cur.Strs) > 0 {
			return p.errorf(lineNo, "duplicate msgstr")
		}
		p.cur.Strs = append(p.cur.Strs, s)
		p.field = &p.cur.Strs[idx]
	default:
		return p.errorf(lineNo, "unknown keyword %q", kw)
	}
	return nil
}

func (p *catalogParser) start(lineNo int, obsolete bool) {
	e := p.pending
	e.Line = lineNo
	e.Obsolete = obsolete
	p.cur = &e
	p.pending = lint.CatalogEntry{}
	p.sawID = false
}

// flush closes the current entry. Comment lines belong to the next entry,
// so they close the current one too.
func (p *catalogParser) flush() error {
	if p.cur != nil {
		if !p.sawID {
			return p.errorf(p.cur.Line, "msgctxt without msgid")
		}
		if len(p.cur.Strs) == 0 {
			return p.errorf(p.cur.Line, "missing msgstr for msgid %q", p.cur.ID)
		}
		p.entries = append(p.entries, *p.cur)
	}
	p.cur = nil
	p.field = nil
	p.sawID = false
	return nil
}

func (p *catalogParser) errorf(line int, format string, args ...any) error {
	return newError(lint.FormatCatalog, p.path, line, fmt.Errorf(format, args...))
}

func unquotePO(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("malformed string %s", s)
	}
	out, err := strconv.Unquote(s)
	if err != nil {
		return "", errors.New("invalid escape in string " + s)
	}
	return out, nil
}

func parseHeader(s string) map[string]string {
	header := map[string]string{}
	for _, line := range strings.Split(s, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		header[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return header
}
