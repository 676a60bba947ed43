// Package rulestest builds parsed artifacts for rule tests.
package rulestest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/modlint/pkg/lint"
	"github.com/leapstack-labs/modlint/pkg/lint/parse"
)

// Module is the module name given to artifacts built here.
const Module = "sale_ext"

// Artifact parses src as format f. Parsing must succeed.
func Artifact(t testing.TB, f lint.Format, relPath, src string) *lint.Artifact {
	t.Helper()
	a := &lint.Artifact{
		Module:  Module,
		Path:    "/addons/" + Module + "/" + relPath,
		RelPath: relPath,
		Format:  f,
		Content: []byte(src),
	}
	tree, err := parse.Parse(a)
	require.NoError(t, err)
	a.Tree = tree
	return a
}

// Run parses src and applies the rule's check with opts, which must be
// valid for the rule.
func Run(t testing.TB, rule lint.RuleDef, f lint.Format, relPath, src string, opts lint.Options) []lint.Violation {
	t.Helper()
	require.True(t, rule.Handles(f), "%s does not handle %s", rule.ID, f)
	require.NoError(t, rule.ValidateOptions(opts))
	return rule.Check(Artifact(t, f, relPath, src), opts)
}

// Lines returns the line of each violation.
func Lines(vs []lint.Violation) []int {
	out := make([]int, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Line)
	}
	return out
}

// Objects returns the object of each violation.
func Objects(vs []lint.Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Object)
	}
	return out
}
