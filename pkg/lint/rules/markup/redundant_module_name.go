package markup

import (
	"strings"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(RedundantModuleName)
}

// RedundantModuleName flags ids prefixed with their own module name.
var RedundantModuleName = lint.RuleDef{
	ID:             "redundant-modulename-xml",
	Group:          group,
	Description:    "XML id repeats its module name",
	Severity:       lint.SeverityInfo,
	Formats:        []lint.Format{lint.FormatMarkup},
	Message:        `Redundant module name <record id="{obj}" />`,
	DefaultEnabled: true,
	Check:          lint.OnTree(checkRedundantModuleName),
}

func checkRedundantModuleName(a *lint.Artifact, tree *lint.MarkupTree, _ lint.Options) []lint.Violation {
	if a.Module == "" {
		return nil
	}
	var violations []lint.Violation
	for _, n := range records(tree) {
		if id, ok := n.Get("id"); ok && strings.HasPrefix(id, a.Module+".") {
			violations = append(violations, lint.Violation{Line: n.Line, Object: id})
		}
	}
	return violations
}
