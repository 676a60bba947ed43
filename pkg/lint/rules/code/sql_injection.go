package code

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(SQLInjection)
}

// SQLInjection flags cursor.execute calls whose query is built with string
// interpolation instead of query parameters.
var SQLInjection = lint.RuleDef{
	ID:             "sql-injection",
	Group:          group,
	Description:    "SQL query built by string interpolation",
	Severity:       lint.SeverityError,
	Formats:        []lint.Format{lint.FormatCode},
	Message:        "SQL injection risk. Use parameters if you can. More info https://github.com/OCA/odoo-community.org/blob/master/website/Contribution/CONTRIBUTING.rst#no-sql-injection",
	DefaultEnabled: true,
	Check:          lint.OnTree(checkSQLInjection),
}

var (
	executePattern = regexp.MustCompile(`\.execute\(`)
	fstringPattern = regexp.MustCompile(`^[fF][rR]?["']`)
)

func checkSQLInjection(_ *lint.Artifact, tree *lint.CodeTree, _ lint.Options) []lint.Violation {
	var violations []lint.Violation
	for i, line := range tree.Lines {
		loc := executePattern.FindStringIndex(line)
		if loc == nil || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if interpolated(firstArgument(line[loc[1]:])) {
			violations = append(violations, lint.Violation{Line: i + 1})
		}
	}
	return violations
}

// firstArgument returns the text of the first call argument, up to the
// top-level comma or the closing parenthesis.
func firstArgument(s string) string {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			if depth == 0 {
				return s[:i]
			}
			depth--
		case c == ',' && depth == 0:
			return s[:i]
		}
	}
	return s
}

// interpolated reports whether a query expression formats values into the
// SQL text: an f-string, the % operator, str.format or concatenation.
func interpolated(arg string) bool {
	arg = strings.TrimSpace(arg)
	if fstringPattern.MatchString(arg) {
		return true
	}
	code := stripStrings(arg)
	return strings.Contains(code, "%") ||
		strings.Contains(code, ".format(") ||
		strings.Contains(code, "+")
}

// stripStrings blanks out the contents of string literals.
func stripStrings(s string) string {
	var b strings.Builder
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
				b.WriteByte(c)
			}
		case c == '"' || c == '\'':
			quote = c
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
