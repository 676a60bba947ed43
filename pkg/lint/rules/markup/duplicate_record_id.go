package markup

import (
	"strings"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(DuplicateRecordID)
}

// DuplicateRecordID flags XML ids declared more than once in a file.
var DuplicateRecordID = lint.RuleDef{
	ID:             "duplicate-xml-record-id",
	Group:          group,
	Description:    "Duplicate XML record id",
	Severity:       lint.SeverityError,
	Formats:        []lint.Format{lint.FormatMarkup},
	Message:        `Duplicate xml record id "{obj}" in {file}:{detail}`,
	DefaultEnabled: true,
	Check:          lint.OnTree(checkDuplicateRecordID),
}

func checkDuplicateRecordID(a *lint.Artifact, tree *lint.MarkupTree, _ lint.Options) []lint.Violation {
	first := make(map[string]int)
	var violations []lint.Violation
	for _, n := range records(tree) {
		id, ok := n.Get("id")
		if !ok || id == "" {
			continue
		}
		// module.id and id name the same record inside the module.
		id = strings.TrimPrefix(id, a.Module+".")
		if line, seen := first[id]; seen {
			violations = append(violations, lint.Violation{
				Line:   n.Line,
				Object: id,
				Detail: itoa(line),
			})
			continue
		}
		first[id] = n.Line
	}
	return violations
}
