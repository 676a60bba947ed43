package markup

import "github.com/leapstack-labs/modlint/pkg/lint"

func init() {
	lint.Register(DeprecatedOpenerpNode)
}

// DeprecatedOpenerpNode flags the legacy <openerp> document element.
var DeprecatedOpenerpNode = lint.RuleDef{
	ID:             "deprecated-openerp-xml-node",
	Group:          group,
	Description:    "Deprecated <openerp> root node",
	Severity:       lint.SeverityWarning,
	Formats:        []lint.Format{lint.FormatMarkup},
	Message:        "Deprecated <openerp> xml node",
	DefaultEnabled: true,
	Check:          lint.OnTree(checkOpenerpNode),
}

func checkOpenerpNode(_ *lint.Artifact, tree *lint.MarkupTree, _ lint.Options) []lint.Violation {
	if tree.Root.Name != "openerp" {
		return nil
	}
	return []lint.Violation{{Line: tree.Root.Line}}
}
