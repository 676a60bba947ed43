package code

import (
	"strings"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(AddonsRelativeImport)
}

// AddonsRelativeImport flags absolute imports of the module's own package.
var AddonsRelativeImport = lint.RuleDef{
	ID:             "odoo-addons-relative-import",
	Group:          group,
	Description:    "Absolute import of the current module",
	Severity:       lint.SeverityWarning,
	Formats:        []lint.Format{lint.FormatCode},
	Message:        `Same Odoo module absolute import. You should use relative import with "." instead of "{detail}"`,
	DefaultEnabled: true,
	Check:          lint.OnTree(checkRelativeImport),
}

func checkRelativeImport(a *lint.Artifact, tree *lint.CodeTree, _ lint.Options) []lint.Violation {
	if a.Module == "" {
		return nil
	}
	var violations []lint.Violation
	for _, imp := range tree.Imports {
		if imp.Level > 0 {
			continue
		}
		for _, prefix := range []string{"odoo.addons.", "openerp.addons."} {
			own := prefix + a.Module
			if imp.Module == own || strings.HasPrefix(imp.Module, own+".") {
				violations = append(violations, lint.Violation{Line: imp.Line, Object: imp.Module, Detail: own})
				break
			}
		}
	}
	return violations
}
