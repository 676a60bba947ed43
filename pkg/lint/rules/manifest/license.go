package manifest

import (
	"slices"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(LicenseAllowed)
}

// LicenseAllowed checks the manifest license against an allow list.
var LicenseAllowed = lint.RuleDef{
	ID:             "license-allowed",
	Group:          group,
	Description:    "License not in the allowed list",
	Severity:       lint.SeverityError,
	Formats:        []lint.Format{lint.FormatManifest},
	ConfigKeys:     []string{"licenses"},
	Validate:       lint.StringSliceOptions("licenses"),
	Message:        `License "{obj}" not allowed in manifest file`,
	DefaultEnabled: true,
	Check:          lint.OnTree(checkLicense),
}

var defaultLicenses = []string{
	"AGPL-3",
	"GPL-2",
	"GPL-2 or any later version",
	"GPL-3",
	"GPL-3 or any later version",
	"LGPL-3",
	"OEEL-1",
	"OPL-1",
	"Other OSI approved licence",
	"Other proprietary",
}

func checkLicense(_ *lint.Artifact, m *lint.ManifestMap, opts lint.Options) []lint.Violation {
	if !m.Has("license") {
		return nil
	}
	license, _ := m.String("license")
	if slices.Contains(lint.GetStringSliceOption(opts, "licenses", defaultLicenses), license) {
		return nil
	}
	return []lint.Violation{{Line: m.Line("license"), Object: license}}
}
