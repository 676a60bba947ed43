// Package module contains rules that look at a module as a whole: its file
// list and its manifest.
package module

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

const group = "odoolint"

func init() {
	lint.Register(MissingReadme)
	lint.Register(FileNotUsed)
}

// MissingReadme requires a README at the root of every module that has a
// manifest.
var MissingReadme = lint.RuleDef{
	ID:             "missing-readme",
	Group:          group,
	Description:    "Module has no README",
	Severity:       lint.SeverityWarning,
	Formats:        []lint.Format{lint.FormatModule},
	Message:        "Missing {obj} file. Template here: https://github.com/OCA/maintainer-tools/blob/master/template/module/README.rst",
	DefaultEnabled: true,
	Check:          lint.OnTree(checkMissingReadme),
}

// FileNotUsed flags data files that no manifest list loads.
var FileNotUsed = lint.RuleDef{
	ID:             "file-not-used",
	Group:          group,
	Description:    "Data file not referenced by the manifest",
	Severity:       lint.SeverityWarning,
	Formats:        []lint.Format{lint.FormatModule},
	Message:        `File not used "{obj}"`,
	DefaultEnabled: true,
	Check:          lint.OnTree(checkFileNotUsed),
}

var readmeNames = []string{"README.rst", "README.md", "README.txt"}

func checkMissingReadme(_ *lint.Artifact, m *lint.ModuleTree, _ lint.Options) []lint.Violation {
	if !hasManifest(m) {
		return nil
	}
	for _, f := range m.Files {
		if slices.Contains(readmeNames, f.RelPath) {
			return nil
		}
	}
	return []lint.Violation{{
		Path:   filepath.Join(m.Dir, readmeNames[0]),
		Object: readmeNames[0],
	}}
}

// dataKeys are the manifest lists that load data files.
var dataKeys = []string{"data", "demo", "demo_xml", "init_xml", "update_xml", "test", "qweb"}

func checkFileNotUsed(_ *lint.Artifact, m *lint.ModuleTree, _ lint.Options) []lint.Violation {
	if m.Manifest == nil {
		return nil
	}
	used := make(map[string]bool)
	for _, key := range dataKeys {
		for _, path := range m.Manifest.Strings(key) {
			used[filepath.ToSlash(filepath.Clean(path))] = true
		}
	}

	var violations []lint.Violation
	for _, f := range m.Files {
		if f.Format != lint.FormatMarkup && f.Format != lint.FormatTabular {
			continue
		}
		if used[f.RelPath] || loadedElsewhere(f.RelPath) {
			continue
		}
		violations = append(violations, lint.Violation{
			Path:   filepath.Join(m.Dir, filepath.FromSlash(f.RelPath)),
			Object: f.RelPath,
		})
	}
	return violations
}

// loadedElsewhere reports files loaded by means other than the manifest
// lists: static assets, tests and migration scripts.
func loadedElsewhere(rel string) bool {
	first, _, _ := strings.Cut(rel, "/")
	switch first {
	case "static", "tests", "migrations", "i18n", "i18n_extra":
		return true
	}
	return false
}

func hasManifest(m *lint.ModuleTree) bool {
	if m.Manifest != nil {
		return true
	}
	for _, f := range m.Files {
		if f.Format == lint.FormatManifest && !strings.Contains(f.RelPath, "/") {
			return true
		}
	}
	return false
}
