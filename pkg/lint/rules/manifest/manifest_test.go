package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/modlint/pkg/lint"
	"github.com/leapstack-labs/modlint/pkg/lint/rules/internal/rulestest"
)

const good = `{
    'name': 'Sale Extension',
    'version': '16.0.1.0.0',
    'author': 'Vauxoo, Odoo Community Association (OCA)',
    'license': 'AGPL-3',
    'depends': ['sale'],
}
`

const bad = `{
    'name': 'Sale Extension',
    'version': '16.0.1',
    'author': ['Vauxoo'],
    'description': 'Use a README instead',
    'license': 'Beerware',
    'active': True,
}
`

func run(t *testing.T, rule lint.RuleDef, src string, opts lint.Options) []lint.Violation {
	t.Helper()
	return rulestest.Run(t, rule, lint.FormatManifest, "__manifest__.py", src, opts)
}

func TestRequiredKey(t *testing.T) {
	assert.Empty(t, run(t, RequiredKey, good, nil))

	got := run(t, RequiredKey, `{'name': 'x'}`, nil)
	assert.Equal(t, []string{"license"}, rulestest.Objects(got))

	got = run(t, RequiredKey, good, lint.Options{"keys": []any{"name", "website", "installable"}})
	assert.Equal(t, []string{"website", "installable"}, rulestest.Objects(got))
}

func TestRequiredAuthor(t *testing.T) {
	assert.Empty(t, run(t, RequiredAuthor, good, nil))
	assert.Empty(t, run(t, RequiredAuthor, bad, nil), "non-string authors are reported by manifest-author-string")

	got := run(t, RequiredAuthor, `{'author': 'Vauxoo'}`, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Odoo Community Association (OCA)", got[0].Object)
	assert.Equal(t, 1, got[0].Line)

	assert.Empty(t, run(t, RequiredAuthor, `{'author': 'Vauxoo'}`, lint.Options{"author": "Vauxoo"}))
}

func TestAuthorString(t *testing.T) {
	assert.Empty(t, run(t, AuthorString, good, nil))
	assert.Equal(t, []int{4}, rulestest.Lines(run(t, AuthorString, bad, nil)))
}

func TestDeprecatedKey(t *testing.T) {
	assert.Empty(t, run(t, DeprecatedKey, good, nil))

	got := run(t, DeprecatedKey, bad, nil)
	assert.Equal(t, []string{"description", "active"}, rulestest.Objects(got))
	assert.Equal(t, []int{5, 7}, rulestest.Lines(got))
}

func TestVersionFormat(t *testing.T) {
	assert.Empty(t, run(t, VersionFormat, good, nil))
	assert.Empty(t, run(t, VersionFormat, `{'name': 'x'}`, nil))

	got := run(t, VersionFormat, bad, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "16.0.1", got[0].Object)
	assert.Equal(t, 3, got[0].Line)

	got = run(t, VersionFormat, `{'version': 8}`, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "8", got[0].Object)

	assert.Empty(t, run(t, VersionFormat, bad, lint.Options{"pattern": `^\d+\.\d+\.\d+$`}))
}

func TestManifestRules_InvalidOptions(t *testing.T) {
	tests := []struct {
		name    string
		rule    lint.RuleDef
		opts    lint.Options
		wantErr string
	}{
		{"pattern does not compile", VersionFormat, lint.Options{"pattern": `^(\d+$`}, "missing closing )"},
		{"pattern not a string", VersionFormat, lint.Options{"pattern": 16}, `option "pattern": want a string`},
		{"author list", RequiredAuthor, lint.Options{"author": []any{"Vauxoo"}}, `option "author": want a string`},
		{"licenses map", LicenseAllowed, lint.Options{"licenses": map[string]any{"MIT": true}}, `option "licenses"`},
		{"keys with numbers", RequiredKey, lint.Options{"keys": []any{"name", 1}}, `option "keys": item 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.ValidateOptions(tt.opts)
			require.ErrorIs(t, err, lint.ErrInvalidOptions)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLicenseAllowed(t *testing.T) {
	assert.Empty(t, run(t, LicenseAllowed, good, nil))

	got := run(t, LicenseAllowed, bad, nil)
	assert.Equal(t, []string{"Beerware"}, rulestest.Objects(got))
	assert.Equal(t, []int{6}, rulestest.Lines(got))

	assert.Empty(t, run(t, LicenseAllowed, bad, lint.Options{"licenses": []string{"Beerware"}}))
}
