package code

import (
	"regexp"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(UseVimComment)
}

// UseVimComment flags editor modelines.
var UseVimComment = lint.RuleDef{
	ID:             "use-vim-comment",
	Group:          group,
	Description:    "Editor modeline in source",
	Severity:       lint.SeverityInfo,
	Formats:        []lint.Format{lint.FormatCode},
	Message:        "Use of vim comment",
	DefaultEnabled: true,
	Check:          lint.OnTree(checkVimComment),
}

var vimPattern = regexp.MustCompile(`#\s*vim\s*:`)

func checkVimComment(_ *lint.Artifact, tree *lint.CodeTree, _ lint.Options) []lint.Violation {
	var violations []lint.Violation
	for i, line := range tree.Lines {
		if vimPattern.MatchString(line) {
			violations = append(violations, lint.Violation{Line: i + 1})
		}
	}
	return violations
}
