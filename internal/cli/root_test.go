package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/modlint/internal/cli/commands"
	"github.com/leapstack-labs/modlint/internal/cli/output"
	"github.com/leapstack-labs/modlint/internal/cli/testutil"
	roottestutil "github.com/leapstack-labs/modlint/internal/testutil"
	"github.com/leapstack-labs/modlint/pkg/lint"
)

// execute runs the root command from an empty working directory so no
// stray modlint.yaml is picked up.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Chdir(t.TempDir())

	cmd := NewRootCmd()
	outBuf, errBuf := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

// writeConfig writes a modlint.yaml whose script linter cannot be found,
// so runs do not depend on the host having eslint installed.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "modlint.yaml")
	content := "external:\n  script:\n    binary: modlint-test-no-such-linter\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func decodeLint(t *testing.T, stdout string) output.LintOutput {
	t.Helper()
	var doc output.LintOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc), stdout)
	return doc
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "modlint", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"lint", "rules", "version", "completion"})

	for _, flag := range []string{"config", "verbose", "output"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestLint_JSON(t *testing.T) {
	addons := testutil.SetupAddons(t)
	cfg := writeConfig(t, "")

	stdout, stderr, err := execute(t, "--config", cfg, "lint", addons, "--format", "json")
	require.ErrorIs(t, err, commands.ErrLintIssues)

	doc := decodeLint(t, stdout)
	assert.Equal(t, map[string]int{"duplicate-xml-record-id": 1, "missing-readme": 1}, doc.Counts)
	assert.Equal(t, 2, doc.Summary.TotalIssues)
	assert.Equal(t, 2, doc.Summary.Modules)
	assert.Equal(t, []string{"javascript-lint"}, doc.Summary.Skipped)
	assert.NotContains(t, doc.Summary.Effective, "javascript-lint")
	assert.NotContains(t, doc.Summary.Effective, "deprecated-module")
	assert.Contains(t, stderr, "rule javascript-lint skipped")

	require.Len(t, doc.Files, 2)
	assert.Equal(t, filepath.Join(addons, "sale_ext", "README.rst"), doc.Files[0].Path)
	assert.Equal(t, "missing-readme", doc.Files[0].Diagnostics[0].RuleID)
	assert.Equal(t, "duplicate-xml-record-id", doc.Files[1].Diagnostics[0].RuleID)
}

func TestLint_DisableWins(t *testing.T) {
	addons := testutil.SetupAddons(t)
	cfg := writeConfig(t, "")

	stdout, _, err := execute(t, "--config", cfg, "lint", addons,
		"--enable", "all", "--disable", "odoolint", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No lint issues found")
}

func TestLint_ConfigFileSelection(t *testing.T) {
	addons := testutil.SetupAddons(t)
	cfg := writeConfig(t, "disable: [missing-readme]\nworkers: 4\n")

	stdout, _, err := execute(t, "--config", cfg, "-o", "json", "lint", addons)
	require.ErrorIs(t, err, commands.ErrLintIssues)
	assert.Equal(t, map[string]int{"duplicate-xml-record-id": 1}, decodeLint(t, stdout).Counts)
}

func TestLint_EnvSelection(t *testing.T) {
	addons := testutil.SetupAddons(t)
	cfg := writeConfig(t, "")
	t.Setenv("MODLINT_ENABLE", "missing-readme")

	stdout, _, err := execute(t, "--config", cfg, "lint", addons, "--format", "json")
	require.ErrorIs(t, err, commands.ErrLintIssues)

	doc := decodeLint(t, stdout)
	assert.Equal(t, map[string]int{"missing-readme": 1}, doc.Counts)
	assert.Equal(t, []string{"missing-readme"}, doc.Summary.Effective)
}

func TestLint_MissingPath(t *testing.T) {
	cfg := writeConfig(t, "")
	missing := filepath.Join(t.TempDir(), "nope")

	stdout, _, err := execute(t, "--config", cfg, "lint", missing)
	require.ErrorIs(t, err, lint.ErrPathNotFound)
	assert.Contains(t, err.Error(), missing)
	assert.Empty(t, stdout)
}

func TestLint_InvalidSelection(t *testing.T) {
	addons := testutil.SetupAddons(t)

	stdout, _, err := execute(t, "lint", addons, "--enable", "not valid!")
	require.Error(t, err)
	assert.True(t, errors.Is(err, lint.ErrInvalidSelection), err.Error())
	assert.Empty(t, stdout)
}

func TestLint_RuleOptionsFromConfig(t *testing.T) {
	addons := roottestutil.WriteTree(t, `
-- legacy/__manifest__.py --
{'name': 'Legacy', 'license': 'AGPL-3', 'author': 'Odoo Community Association (OCA)', 'version': '17.0.1.0.0'}
-- legacy/README.rst --
Legacy
-- legacy/models.py --
from openerp.tools import config
`)
	cfg := writeConfig(t, "enable: [deprecated-module]\nrules:\n  deprecated-module:\n    modules: [openerp.tools]\n")

	stdout, _, err := execute(t, "--config", cfg, "lint", addons, "--format", "json")
	require.ErrorIs(t, err, commands.ErrLintIssues)
	assert.Equal(t, map[string]int{"deprecated-module": 1}, decodeLint(t, stdout).Counts)
}

func TestLint_InvalidRuleOptions(t *testing.T) {
	tests := []struct {
		name    string
		rules   string
		wantErr string
	}{
		{"map for a list", "  po-lint:\n    enable:\n      endpunc: true\n", "rule po-lint"},
		{"unknown key", "  deprecated-module:\n    module: [openerp.tools]\n", `unknown option "module"`},
		{"unknown severity", "  missing-readme:\n    severity: fatal\n", "unknown severity fatal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addons := testutil.SetupAddons(t)
			cfg := writeConfig(t, "rules:\n"+tt.rules)

			stdout, _, err := execute(t, "--config", cfg, "lint", addons, "--format", "json")
			require.ErrorIs(t, err, lint.ErrInvalidOptions)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, stdout)
		})
	}
}

func TestLint_SeverityOverride(t *testing.T) {
	addons := testutil.SetupAddons(t)
	cfg := writeConfig(t, "rules:\n  missing-readme:\n    severity: hint\n")

	stdout, _, err := execute(t, "--config", cfg, "lint", addons, "--format", "json")
	require.ErrorIs(t, err, commands.ErrLintIssues)

	severities := map[string]string{}
	for _, f := range decodeLint(t, stdout).Files {
		for _, d := range f.Diagnostics {
			severities[d.RuleID] = d.Severity
		}
	}
	assert.Equal(t, "hint", severities["missing-readme"])
	assert.Equal(t, "error", severities["duplicate-xml-record-id"])
}

func TestLint_ScriptLinter(t *testing.T) {
	roottestutil.RequireShell(t)

	addons := roottestutil.WriteTree(t, `
-- web_ext/__manifest__.py --
{'name': 'Web Ext', 'license': 'AGPL-3', 'author': 'Odoo Community Association (OCA)', 'version': '17.0.1.0.0'}
-- web_ext/README.rst --
Web Ext
-- web_ext/static/src/app.js --
var a = 1;
`)
	bin := roottestutil.WriteExecutable(t, t.TempDir(), "fake-eslint", "#!/bin/sh\necho \"$1:1:5: Unexpected var\"\nexit 1\n")
	cfgPath := filepath.Join(t.TempDir(), "modlint.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("enable: [javascript-lint]\nexternal:\n  script:\n    binary: "+bin+"\n"), 0o600))

	stdout, _, err := execute(t, "--config", cfgPath, "lint", addons, "--format", "json")
	require.ErrorIs(t, err, commands.ErrLintIssues)

	doc := decodeLint(t, stdout)
	assert.Equal(t, map[string]int{"javascript-lint": 1}, doc.Counts)
	require.Len(t, doc.Files, 1)
	assert.Equal(t, 1, doc.Files[0].Diagnostics[0].Line)
	assert.Contains(t, doc.Files[0].Diagnostics[0].Message, "Unexpected var")
}

func TestLint_VerboseLogsToStderr(t *testing.T) {
	addons := testutil.SetupAddons(t)
	cfg := writeConfig(t, "")

	_, stderr, err := execute(t, "--config", cfg, "-v", "lint", addons, "--format", "json")
	require.ErrorIs(t, err, commands.ErrLintIssues)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "using config file")
	assert.Contains(t, stderr, "run_id=")
}

func TestBadConfigFile(t *testing.T) {
	cfg := writeConfig(t, "workers: -3\n")

	_, _, err := execute(t, "--config", cfg, "rules")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers must not be negative")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "modlint v"+Version)
}

func TestCompletionCommand(t *testing.T) {
	stdout, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "modlint")
}
