package catalog

import (
	"golang.org/x/text/language"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(POInvalidLanguage)
}

// POInvalidLanguage checks the catalog's Language header is a well-formed
// language tag.
var POInvalidLanguage = lint.RuleDef{
	ID:             "po-invalid-language",
	Group:          group,
	Description:    "Malformed Language header",
	Severity:       lint.SeverityError,
	Formats:        []lint.Format{lint.FormatCatalog},
	Message:        `Invalid language "{obj}" in catalog header: {detail}`,
	DefaultEnabled: true,
	Check:          lint.OnTree(checkLanguage),
}

func checkLanguage(_ *lint.Artifact, cat *lint.CatalogEntries, _ lint.Options) []lint.Violation {
	lang := cat.Header["Language"]
	if lang == "" {
		return nil
	}
	if _, err := language.Parse(lang); err != nil {
		return []lint.Violation{{Object: lang, Detail: err.Error()}}
	}
	return nil
}
