package code

import (
	"strings"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(NoUTF8CodingComment)
}

// NoUTF8CodingComment requires a utf-8 encoding declaration on non-empty files.
var NoUTF8CodingComment = lint.RuleDef{
	ID:             "no-utf8-coding-comment",
	Group:          group,
	Description:    "Missing utf-8 coding comment",
	Severity:       lint.SeverityWarning,
	Formats:        []lint.Format{lint.FormatCode},
	Message:        "No UTF-8 coding comment found: use `# -*- coding: utf-8 -*-` in the first or second line",
	DefaultEnabled: true,
	Check:          lint.OnTree(checkCodingComment),
}

func checkCodingComment(_ *lint.Artifact, tree *lint.CodeTree, _ lint.Options) []lint.Violation {
	switch tree.Coding {
	case "utf-8", "utf8":
		return nil
	}
	for _, line := range tree.Lines {
		if strings.TrimSpace(line) != "" {
			return []lint.Violation{{Line: 1, Detail: tree.Coding}}
		}
	}
	return nil
}
