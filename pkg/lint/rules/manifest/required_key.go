package manifest

import "github.com/leapstack-labs/modlint/pkg/lint"

func init() {
	lint.Register(RequiredKey)
}

// RequiredKey flags manifests missing a required key.
var RequiredKey = lint.RuleDef{
	ID:             "manifest-required-key",
	Group:          group,
	Description:    "Manifest lacks a required key",
	Severity:       lint.SeverityError,
	Formats:        []lint.Format{lint.FormatManifest},
	ConfigKeys:     []string{"keys"},
	Validate:       lint.StringSliceOptions("keys"),
	Message:        `Missing required key "{obj}" in manifest file`,
	DefaultEnabled: true,
	Check:          lint.OnTree(checkRequiredKey),
}

var defaultRequiredKeys = []string{"license"}

func checkRequiredKey(_ *lint.Artifact, m *lint.ManifestMap, opts lint.Options) []lint.Violation {
	var violations []lint.Violation
	for _, key := range lint.GetStringSliceOption(opts, "keys", defaultRequiredKeys) {
		if !m.Has(key) {
			violations = append(violations, lint.Violation{Line: 1, Object: key})
		}
	}
	return violations
}
