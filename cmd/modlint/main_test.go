// Package main provides tests for the modlint command.
package main

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/leapstack-labs/modlint/internal/cli"
	"github.com/leapstack-labs/modlint/internal/cli/commands"
	"github.com/leapstack-labs/modlint/internal/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	output, err := run(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(output, "modlint") {
		t.Errorf("version output should contain 'modlint', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	output, err := run(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}
	for _, expected := range []string{"lint", "rules", "version", "completion"} {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestLintCommand(t *testing.T) {
	clean := testutil.WriteTree(t, `
-- clean/__manifest__.py --
{
    'name': 'Clean',
    'license': 'LGPL-3',
    'author': 'Odoo Community Association (OCA)',
    'version': '17.0.1.0.0',
    'data': ['data/data.xml'],
}
-- clean/README.rst --
Clean
-- clean/data/data.xml --
<?xml version="1.0" encoding="utf-8"?>
<odoo>
    <record id="partner_a" model="res.partner">
        <field name="name">A</field>
    </record>
</odoo>
`)
	broken := testutil.WriteTree(t, `
-- broken/__manifest__.py --
{'name': 'Broken', 'license': 'LGPL-3', 'author': 'Odoo Community Association (OCA)', 'version': '17.0.1.0.0'}
-- broken/README.rst --
Broken
-- broken/data.csv --
id,name
a,x
a,y
`)

	output, err := run(t, "lint", clean, "--format", "markdown", "--disable", "javascript-lint")
	if err != nil {
		t.Fatalf("lint of a clean tree returned %v: %s", err, output)
	}
	if !strings.Contains(output, "No lint issues found") {
		t.Errorf("expected a clean result, got: %s", output)
	}

	output, err = run(t, "lint", broken, "--format", "markdown", "--disable", "javascript-lint")
	if !errors.Is(err, commands.ErrLintIssues) {
		t.Fatalf("expected lint issues, got %v: %s", err, output)
	}
	for _, expected := range []string{"duplicate-id-csv", "file-not-used", "Summary:"} {
		if !strings.Contains(output, expected) {
			t.Errorf("lint output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			if _, err := run(t, "completion", shell); err != nil {
				t.Errorf("completion %s command error = %v", shell, err)
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := run(t, "unknown-command"); err == nil {
		t.Error("unknown command should return an error")
	}
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
