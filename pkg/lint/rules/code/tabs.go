package code

import (
	"strings"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(WrongTabsInsteadOfSpaces)
}

// WrongTabsInsteadOfSpaces flags tab characters in indentation.
var WrongTabsInsteadOfSpaces = lint.RuleDef{
	ID:             "wrong-tabs-instead-of-spaces",
	Group:          group,
	Description:    "Tab used for indentation",
	Severity:       lint.SeverityWarning,
	Formats:        []lint.Format{lint.FormatCode},
	Message:        "Use wrong tabs indentation instead of four spaces",
	DefaultEnabled: true,
	Check:          lint.OnTree(checkTabs),
}

func checkTabs(_ *lint.Artifact, tree *lint.CodeTree, _ lint.Options) []lint.Violation {
	var violations []lint.Violation
	for i, line := range tree.Lines {
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if strings.Contains(indent, "\t") {
			violations = append(violations, lint.Violation{Line: i + 1})
		}
	}
	return violations
}
