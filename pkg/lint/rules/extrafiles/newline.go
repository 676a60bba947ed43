// Package extrafiles contains raw rules for the non-code files of a module.
// Raw rules read file bytes, so they also run on files that fail to parse.
package extrafiles

import (
	"bytes"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(MissingNewline)
}

// MissingNewline flags data files whose last line is not terminated.
var MissingNewline = lint.RuleDef{
	ID:          "missing-newline-extrafiles",
	Group:       "odoolint",
	Description: "Missing newline at end of file",
	Severity:    lint.SeverityInfo,
	Formats: []lint.Format{
		lint.FormatMarkup,
		lint.FormatTabular,
		lint.FormatCatalog,
		lint.FormatScript,
	},
	Message:        "Missing newline",
	DefaultEnabled: true,
	Raw:            true,
	Check:          checkMissingNewline,
}

func checkMissingNewline(a *lint.Artifact, _ lint.Options) []lint.Violation {
	if len(a.Content) == 0 || bytes.HasSuffix(a.Content, []byte("\n")) {
		return nil
	}
	return []lint.Violation{{Line: bytes.Count(a.Content, []byte("\n")) + 1}}
}
