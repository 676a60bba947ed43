// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/modlint/internal/cli/output"
	roottestutil "github.com/leapstack-labs/modlint/internal/testutil"
)

// Addons is a small addons directory: sale_ext has a duplicated record id
// and no README, good_ext is clean.
const Addons = `
-- sale_ext/__manifest__.py --
{
    'name': 'Sale Ext',
    'license': 'AGPL-3',
    'author': 'Odoo Community Association (OCA)',
    'version': '17.0.1.0.0',
    'data': ['views/views.xml'],
}
-- sale_ext/views/views.xml --
<?xml version="1.0" encoding="utf-8"?>
<odoo>
    <record id="view_a" model="ir.ui.view">
        <field name="name">a</field>
    </record>
    <record id="view_a" model="ir.ui.view">
        <field name="name">b</field>
    </record>
</odoo>
-- good_ext/__manifest__.py --
{
    'name': 'Good Ext',
    'license': 'LGPL-3',
    'author': 'Odoo Community Association (OCA)',
    'version': '17.0.1.0.0',
    'data': [],
}
-- good_ext/README.rst --
Good Ext
`

// SetupAddons writes Addons to a temp dir and returns it.
func SetupAddons(t *testing.T) string {
	t.Helper()
	return roottestutil.WriteTree(t, Addons)
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer captures both streams of a renderer in the given mode.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText renders text as if attached to a terminal.
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI fails when s carries terminal escape sequences.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown rejects unbalanced code fences and empty headings.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if n := strings.Count(md, "```"); n%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", n)
	}

	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
