// Package tabular contains the rules for CSV data files.
package tabular

import (
	"strconv"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(DuplicateIDCSV)
}

// DuplicateIDCSV flags rows repeating the xml id of an earlier row.
var DuplicateIDCSV = lint.RuleDef{
	ID:             "duplicate-id-csv",
	Group:          "odoolint",
	Description:    "Duplicate id in CSV data",
	Severity:       lint.SeverityError,
	Formats:        []lint.Format{lint.FormatTabular},
	Message:        `Duplicate csv record "{obj}" in {file}:{detail}`,
	DefaultEnabled: true,
	Check:          lint.OnTree(checkDuplicateID),
}

func checkDuplicateID(_ *lint.Artifact, rows *lint.TabularRows, _ lint.Options) []lint.Violation {
	col := rows.Column("id")
	if col < 0 {
		return nil
	}
	first := make(map[string]int)
	var violations []lint.Violation
	for _, row := range rows.Rows {
		if col >= len(row.Fields) || row.Fields[col] == "" {
			continue
		}
		id := row.Fields[col]
		if line, seen := first[id]; seen {
			violations = append(violations, lint.Violation{
				Line:   row.Line,
				Object: id,
				Detail: strconv.Itoa(line),
			})
			continue
		}
		first[id] = row.Line
	}
	return violations
}
