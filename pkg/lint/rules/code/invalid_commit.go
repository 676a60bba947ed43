package code

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(InvalidCommit)
}

// InvalidCommit flags explicit transaction commits on the ORM cursor.
var InvalidCommit = lint.RuleDef{
	ID:             "invalid-commit",
	Group:          group,
	Description:    "Explicit cursor commit",
	Severity:       lint.SeverityError,
	Formats:        []lint.Format{lint.FormatCode},
	Message:        "Use of cr.commit() directly. More info https://github.com/OCA/odoo-community.org/blob/master/website/Contribution/CONTRIBUTING.rst#never-commit-the-transaction",
	DefaultEnabled: true,
	Check:          lint.OnTree(checkInvalidCommit),
}

var commitPattern = regexp.MustCompile(`\b(?:cr|cursor|_cr)\.commit\(\s*\)`)

func checkInvalidCommit(_ *lint.Artifact, tree *lint.CodeTree, _ lint.Options) []lint.Violation {
	var violations []lint.Violation
	for i, line := range tree.Lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if commitPattern.MatchString(line) {
			violations = append(violations, lint.Violation{Line: i + 1})
		}
	}
	return violations
}
