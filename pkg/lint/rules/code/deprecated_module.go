package code

import (
	"strings"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(DeprecatedModule)
}

// DeprecatedModule flags imports of configured deprecated modules. It is
// off unless selected explicitly.
var DeprecatedModule = lint.RuleDef{
	ID:          "deprecated-module",
	Group:       group,
	Description: "Import of a deprecated module",
	Severity:    lint.SeverityWarning,
	Formats:     []lint.Format{lint.FormatCode},
	ConfigKeys:  []string{"modules"},
	Validate:    lint.StringSliceOptions("modules"),
	Message:     "Uses of a deprecated module {obj}",
	Check:       lint.OnTree(checkDeprecatedModule),
}

var defaultDeprecatedModules = []string{"openerp.osv"}

func checkDeprecatedModule(_ *lint.Artifact, tree *lint.CodeTree, opts lint.Options) []lint.Violation {
	deprecated := lint.GetStringSliceOption(opts, "modules", defaultDeprecatedModules)

	var violations []lint.Violation
	for _, imp := range tree.Imports {
		if imp.Level > 0 {
			continue
		}
		candidates := []string{imp.Module}
		for _, name := range imp.Names {
			candidates = append(candidates, imp.Module+"."+name)
		}
		if name, ok := matchModule(candidates, deprecated); ok {
			violations = append(violations, lint.Violation{Line: imp.Line, Object: name})
		}
	}
	return violations
}

func matchModule(candidates, deprecated []string) (string, bool) {
	for _, c := range candidates {
		for _, d := range deprecated {
			if c == d || strings.HasPrefix(c, d+".") {
				return d, true
			}
		}
	}
	return "", false
}
