package all_test

import (
	"context"
	"errors"
	"maps"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/modlint/internal/testutil"
	"github.com/leapstack-labs/modlint/pkg/lint"
	"github.com/leapstack-labs/modlint/pkg/lint/engine"
	"github.com/leapstack-labs/modlint/pkg/lint/external"
	_ "github.com/leapstack-labs/modlint/pkg/lint/rules/all"
)

const addons = `
-- broken_module/__openerp__.py --
{
    'name': 'Broken module',
    'version': '8.0.1.0',
    'author': 'Vauxoo',
    'description': 'Old style description',
    'license': 'Beerware',
    'data': ['views/views.xml'],
}
-- broken_module/models/broken.py --
import os
from openerp.addons.broken_module.models import other


def f(cr, x):
	cr.commit()
    cr.execute("SELECT %s" % x)
-- broken_module/views/views.xml --
<?xml version="1.0" encoding="utf-8"?>
<openerp>
    <data>
        <record id="rec_a" model="res.partner">
            <field name="name">A</field>
            <field name="name">B</field>
        </record>
        <record id="rec_a" model="res.partner"/>
    </data>
</openerp>
-- broken_module/views/unused.xml --
<odoo><broken></odoo>
-- broken_module/data/dup.csv --
id,name
a,1
a,2
-- broken_module/i18n/es.po --
msgid ""
msgstr ""
"Language: es\n"

msgid "Hello"
msgstr ""
-- broken_module/static/src/js/app.js --
var a = 1;
-- good_module/__manifest__.py --
{
    'name': 'Good module',
    'version': '16.0.1.0.0',
    'author': 'Odoo Community Association (OCA)',
    'license': 'AGPL-3',
    'data': ['views/views.xml'],
}
-- good_module/README.rst --
Good module
-- good_module/__init__.py --
# -*- coding: utf-8 -*-
from . import models
-- good_module/views/views.xml --
<odoo>
    <record id="view_x" model="ir.ui.view">
        <field name="name">x</field>
    </record>
</odoo>
`

var expected = map[string]int{
	"deprecated-openerp-xml-node":  1,
	"duplicate-id-csv":             1,
	"duplicate-xml-fields":         1,
	"duplicate-xml-record-id":      1,
	"file-not-used":                2,
	"invalid-commit":               1,
	"javascript-lint":              4,
	"license-allowed":              1,
	"manifest-deprecated-key":      1,
	"manifest-required-author":     1,
	"manifest-version-format":      1,
	"missing-newline-extrafiles":   1,
	"missing-readme":               1,
	"no-utf8-coding-comment":       1,
	"odoo-addons-relative-import":  1,
	"po-lint":                      1,
	"sql-injection":                1,
	"wrong-tabs-instead-of-spaces": 1,
	"xml-syntax-error":             1,
}

func writeAddons(t *testing.T) string {
	t.Helper()
	root := testutil.WriteTree(t, addons)
	css := filepath.Join(root, "broken_module", "static", "src", "css", "style.css")
	require.NoError(t, os.MkdirAll(filepath.Dir(css), 0o755))
	require.NoError(t, os.WriteFile(css, []byte("a { color: red; }"), 0o644))
	return root
}

// fakeESLint reports two diagnostics for every file.
func fakeESLint(t *testing.T) external.Resolver {
	t.Helper()
	testutil.RequireShell(t)
	bin := testutil.WriteExecutable(t, t.TempDir(), "eslint", `#!/bin/sh
echo "$1:1:1: first [Error/no-undef]"
echo "$1:1:5: second [Warning/semi]"
exit 1
`)
	return external.ResolverFunc(func(string) (string, error) { return bin, nil })
}

var notInstalled = external.ResolverFunc(func(name string) (string, error) {
	return "", errors.New(name + ": executable file not found in $PATH")
})

func run(t *testing.T, resolver external.Resolver, sel lint.Selection) *lint.Report {
	t.Helper()
	e, err := engine.New(engine.Config{
		Logger:    testutil.NewTestLogger(t),
		Externals: []lint.ExternalChecker{external.NewScriptChecker(external.Config{Resolver: resolver})},
	})
	require.NoError(t, err)

	report, err := e.Run(context.Background(), writeAddons(t), sel)
	require.NoError(t, err)

	sum := 0
	for _, n := range report.Counts {
		sum += n
	}
	require.Equal(t, report.Total, sum)
	return report
}

func without(counts map[string]int, ids ...string) map[string]int {
	out := maps.Clone(counts)
	for _, id := range ids {
		delete(out, id)
	}
	return out
}

func total(counts map[string]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}

func TestBuiltinRules_All(t *testing.T) {
	report := run(t, fakeESLint(t), lint.Selection{Enable: lint.AllRules()})

	assert.Equal(t, expected, report.Counts)
	assert.Equal(t, total(expected), report.Total)
	assert.Equal(t, 2, report.Modules)
	assert.Empty(t, report.Skipped)
	assert.True(t, report.Evaluated("deprecated-module"))
}

func TestBuiltinRules_ScriptLinterNotInstalled(t *testing.T) {
	report := run(t, notInstalled, lint.Selection{Enable: lint.AllRules()})

	want := without(expected, "javascript-lint")
	assert.Equal(t, want, report.Counts)
	assert.Equal(t, total(expected)-4, report.Total)
	assert.Equal(t, []string{"javascript-lint"}, report.Skipped)
}

func TestBuiltinRules_GroupSelection(t *testing.T) {
	report := run(t, notInstalled, lint.Selection{Enable: lint.RuleIDs("odoolint")})

	// Syntax errors are their own group.
	assert.Equal(t, without(expected, "javascript-lint", "xml-syntax-error"), report.Counts)
	assert.False(t, report.Evaluated("xml-syntax-error"))
}

func TestBuiltinRules_Disable(t *testing.T) {
	report := run(t, notInstalled, lint.Selection{
		Enable:  lint.AllRules(),
		Disable: lint.RuleIDs("sql-injection", "po-lint", "javascript-lint"),
	})

	assert.Equal(t, without(expected, "sql-injection", "po-lint", "javascript-lint"), report.Counts)
	assert.Empty(t, report.Skipped)
}

func TestBuiltinRules_Registered(t *testing.T) {
	reg := lint.Default()
	for id := range expected {
		_, ok := reg.Get(id)
		assert.True(t, ok, id)
	}
	for _, id := range []string{"po-syntax-error", "javascript-lint-error", "po-invalid-language", "deprecated-module"} {
		_, ok := reg.Get(id)
		assert.True(t, ok, id)
	}

	defaults := reg.DefaultEnabledIDs()
	assert.NotContains(t, defaults, "deprecated-module")
	assert.Contains(t, defaults, "javascript-lint")

	syntax, ok := reg.Group(lint.SyntaxGroup)
	require.True(t, ok)
	assert.Contains(t, syntax, "javascript-lint-error")
	assert.Contains(t, syntax, "xml-syntax-error")
}
