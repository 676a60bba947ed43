package discover_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/modlint/internal/testutil"
	"github.com/leapstack-labs/modlint/pkg/lint"
	"github.com/leapstack-labs/modlint/pkg/lint/discover"
)

const tree = `
-- sale_ext/__manifest__.py --
{"name": "Sale"}
-- sale_ext/models/sale.py --
import os
-- sale_ext/views/sale.xml --
<odoo/>
-- sale_ext/security/ir.model.access.csv --
id,name
-- sale_ext/i18n/es.po --
msgid ""
-- sale_ext/static/src/js/app.js --
var a = 1;
-- sale_ext/static/src/css/app.CSS --
a {}
-- sale_ext/README.rst --
Sale
-- sale_ext/.git/config --
ignored
-- account_ext/__openerp__.py --
{}
-- .hidden_module/__manifest__.py --
{}
-- loose_file.py --
print(1)
`

func TestClassify(t *testing.T) {
	root := testutil.WriteTree(t, tree)

	modules, err := discover.Classify(root)
	require.NoError(t, err)
	require.Len(t, modules, 2)

	assert.Equal(t, "account_ext", modules[0].Name)
	assert.Equal(t, "sale_ext", modules[1].Name)
	assert.True(t, filepath.IsAbs(modules[1].Dir))

	got := map[string]lint.Format{}
	for _, a := range modules[1].Artifacts {
		got[a.RelPath] = a.Format
		assert.Equal(t, "sale_ext", a.Module)
	}
	assert.Equal(t, map[string]lint.Format{
		"README.rst":                   lint.FormatIgnored,
		"__manifest__.py":              lint.FormatManifest,
		"i18n/es.po":                   lint.FormatCatalog,
		"models/sale.py":               lint.FormatCode,
		"security/ir.model.access.csv": lint.FormatTabular,
		"static/src/css/app.CSS":       lint.FormatScript,
		"static/src/js/app.js":         lint.FormatScript,
		"views/sale.xml":               lint.FormatMarkup,
	}, got)

	// Artifacts are ordered by relative path.
	var order []string
	for _, a := range modules[1].Artifacts {
		order = append(order, a.RelPath)
	}
	assert.IsIncreasing(t, order)

	require.Len(t, modules[0].Artifacts, 1)
	assert.Equal(t, lint.FormatManifest, modules[0].Artifacts[0].Format)
}

func TestClassify_MissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "____unexist______")

	modules, err := discover.Classify(missing)
	require.ErrorIs(t, err, lint.ErrPathNotFound)
	assert.Contains(t, err.Error(), missing)
	assert.Nil(t, modules)
}

func TestClassifyRoots_ChecksAllRootsFirst(t *testing.T) {
	root := testutil.WriteTree(t, tree)

	_, err := (&discover.Classifier{}).ClassifyRoots([]string{root, filepath.Join(root, "nope")})
	require.ErrorIs(t, err, lint.ErrPathNotFound)
}

func TestClassifier_FormatOf(t *testing.T) {
	c := &discover.Classifier{
		ManifestNames: []string{"module.py"},
		Extensions:    map[string]lint.Format{".xml": lint.FormatMarkup},
	}

	assert.Equal(t, lint.FormatManifest, c.FormatOf("/x/module.py"))
	assert.Equal(t, lint.FormatIgnored, c.FormatOf("/x/__manifest__.py"))
	assert.Equal(t, lint.FormatMarkup, c.FormatOf("/x/a.XML"))
	assert.Equal(t, lint.FormatIgnored, c.FormatOf("/x/a.js"))
}
