package manifest

import (
	"strings"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(RequiredAuthor)
	lint.Register(AuthorString)
}

// RequiredAuthor requires the configured author among the manifest authors.
var RequiredAuthor = lint.RuleDef{
	ID:             "manifest-required-author",
	Group:          group,
	Description:    "Manifest lacks the required author",
	Severity:       lint.SeverityError,
	Formats:        []lint.Format{lint.FormatManifest},
	ConfigKeys:     []string{"author"},
	Validate:       lint.StringOptions("author"),
	Message:        `One of the following authors must be present in manifest key "author": "{obj}"`,
	DefaultEnabled: true,
	Check:          lint.OnTree(checkRequiredAuthor),
}

// AuthorString requires the author key to be a string.
var AuthorString = lint.RuleDef{
	ID:             "manifest-author-string",
	Group:          group,
	Description:    "Manifest author is not a string",
	Severity:       lint.SeverityError,
	Formats:        []lint.Format{lint.FormatManifest},
	Message:        `The author key in the manifest file must be a string (with comma separated values)`,
	DefaultEnabled: true,
	Check:          lint.OnTree(checkAuthorString),
}

const defaultAuthor = "Odoo Community Association (OCA)"

func checkRequiredAuthor(_ *lint.Artifact, m *lint.ManifestMap, opts lint.Options) []lint.Violation {
	required := lint.GetStringOption(opts, "author", defaultAuthor)
	if required == "" {
		return nil
	}
	authors, ok := m.String("author")
	if !ok {
		return nil
	}
	for _, author := range strings.Split(authors, ",") {
		if strings.TrimSpace(author) == required {
			return nil
		}
	}
	return []lint.Violation{{Line: m.Line("author"), Object: required}}
}

func checkAuthorString(_ *lint.Artifact, m *lint.ManifestMap, _ lint.Options) []lint.Violation {
	if !m.Has("author") {
		return nil
	}
	if _, ok := m.String("author"); ok {
		return nil
	}
	return []lint.Violation{{Line: m.Line("author")}}
}
