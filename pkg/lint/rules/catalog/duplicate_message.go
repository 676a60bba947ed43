package catalog

import (
	"strconv"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(PODuplicateMessage)
}

// PODuplicateMessage flags entries repeating the context and msgid of an
// earlier entry.
var PODuplicateMessage = lint.RuleDef{
	ID:             "po-duplicate-message",
	Group:          group,
	Description:    "Duplicate catalog entry",
	Severity:       lint.SeverityError,
	Formats:        []lint.Format{lint.FormatCatalog},
	Message:        `Duplicate message definition "{obj}", first defined on line {detail}`,
	DefaultEnabled: true,
	Check:          lint.OnTree(checkDuplicateMessage),
}

func checkDuplicateMessage(_ *lint.Artifact, cat *lint.CatalogEntries, _ lint.Options) []lint.Violation {
	type key struct{ context, id string }
	first := make(map[key]int)

	var violations []lint.Violation
	for _, e := range cat.Entries {
		if e.Obsolete {
			continue
		}
		k := key{e.Context, e.ID}
		if line, seen := first[k]; seen {
			violations = append(violations, lint.Violation{
				Line:   e.Line,
				Object: e.ID,
				Detail: strconv.Itoa(line),
			})
			continue
		}
		first[k] = e.Line
	}
	return violations
}
