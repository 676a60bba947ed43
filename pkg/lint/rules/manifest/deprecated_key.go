package manifest

import "github.com/leapstack-labs/modlint/pkg/lint"

func init() {
	lint.Register(DeprecatedKey)
}

// DeprecatedKey flags manifest keys that should no longer be used.
var DeprecatedKey = lint.RuleDef{
	ID:             "manifest-deprecated-key",
	Group:          group,
	Description:    "Deprecated manifest key",
	Severity:       lint.SeverityWarning,
	Formats:        []lint.Format{lint.FormatManifest},
	ConfigKeys:     []string{"keys"},
	Validate:       lint.StringSliceOptions("keys"),
	Message:        `Deprecated key "{obj}" in manifest file`,
	DefaultEnabled: true,
	Check:          lint.OnTree(checkDeprecatedKey),
}

var defaultDeprecatedKeys = []string{"description", "active"}

func checkDeprecatedKey(_ *lint.Artifact, m *lint.ManifestMap, opts lint.Options) []lint.Violation {
	deprecated := lint.GetStringSliceOption(opts, "keys", defaultDeprecatedKeys)

	var violations []lint.Violation
	for _, key := range m.Keys {
		for _, d := range deprecated {
			if key == d {
				violations = append(violations, lint.Violation{Line: m.Line(key), Object: key})
				break
			}
		}
	}
	return violations
}
