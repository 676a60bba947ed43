package manifest

import (
	"fmt"
	"regexp"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(VersionFormat)
}

// VersionFormat checks the manifest version against a pattern.
var VersionFormat = lint.RuleDef{
	ID:             "manifest-version-format",
	Group:          group,
	Description:    "Manifest version has the wrong format",
	Severity:       lint.SeverityError,
	Formats:        []lint.Format{lint.FormatManifest},
	ConfigKeys:     []string{"pattern"},
	Validate:       validateVersionPattern,
	Message:        `Wrong Version Format "{obj}" in manifest file. Regex to match: "{detail}"`,
	DefaultEnabled: true,
	Check:          lint.OnTree(checkVersionFormat),
}

// defaultVersionPattern is <series>.<major>.<minor>.<patch>, with a
// two-part series such as 16.0.
const defaultVersionPattern = `^\d+\.\d+\.\d+\.\d+\.\d+$`

func validateVersionPattern(opts lint.Options) error {
	if err := lint.StringOptions("pattern")(opts); err != nil {
		return err
	}
	_, err := regexp.Compile(lint.GetStringOption(opts, "pattern", defaultVersionPattern))
	return err
}

func checkVersionFormat(_ *lint.Artifact, m *lint.ManifestMap, opts lint.Options) []lint.Violation {
	if !m.Has("version") {
		return nil
	}
	pattern := lint.GetStringOption(opts, "pattern", defaultVersionPattern)
	re := regexp.MustCompile(pattern)

	version, ok := m.String("version")
	if !ok {
		version = fmt.Sprint(m.Values["version"])
	}
	if ok && re.MatchString(version) {
		return nil
	}
	return []lint.Violation{{Line: m.Line("version"), Object: version, Detail: pattern}}
}
