package markup

import (
	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(DuplicateFields)
}

// DuplicateFields flags a field set twice within one record.
var DuplicateFields = lint.RuleDef{
	ID:             "duplicate-xml-fields",
	Group:          group,
	Description:    "Field declared twice in a record",
	Severity:       lint.SeverityError,
	Formats:        []lint.Format{lint.FormatMarkup},
	Message:        `Duplicate xml field "{obj}" in lines {detail}`,
	DefaultEnabled: true,
	Check:          lint.OnTree(checkDuplicateFields),
}

func checkDuplicateFields(_ *lint.Artifact, tree *lint.MarkupTree, _ lint.Options) []lint.Violation {
	var violations []lint.Violation
	for _, rec := range records(tree) {
		if rec.Name != "record" {
			continue
		}
		first := make(map[string]int)
		for _, field := range rec.Children {
			if field.Name != "field" {
				continue
			}
			name, ok := field.Get("name")
			if !ok {
				continue
			}
			if line, seen := first[name]; seen {
				violations = append(violations, lint.Violation{
					Line:   field.Line,
					Object: name,
					Detail: itoa(line) + ", " + itoa(field.Line),
				})
				continue
			}
			first[name] = field.Line
		}
	}
	return violations
}
