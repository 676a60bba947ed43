package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/modlint/internal/cli/testutil"
	"github.com/leapstack-labs/modlint/pkg/lint"
)

func runRules(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRulesCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestNewRulesCommand(t *testing.T) {
	cmd := NewRulesCommand()

	assert.Equal(t, "rules [rule-id]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	for _, flag := range []string{"group", "format", "long"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRulesCommand_ListAll(t *testing.T) {
	out, err := runRules(t, "--format", "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "# Lint Rules")
	assert.Contains(t, out, "## Odoolint")
	assert.Contains(t, out, "## Syntax")
	assert.Contains(t, out, "- **duplicate-xml-record-id** (`error`, check, on)")
	assert.Contains(t, out, "- **deprecated-module**")
	assert.Contains(t, out, "off)")
	testutil.AssertValidMarkdown(t, out)
	testutil.AssertNoANSI(t, out)
}

func TestRulesCommand_FilterByGroup(t *testing.T) {
	out, err := runRules(t, "--group", "syntax", "--format", "json")
	require.NoError(t, err)

	var doc RulesOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, len(doc.Rules), doc.Count)
	for _, rule := range doc.Rules {
		assert.Equal(t, lint.SyntaxGroup, rule.Group)
		assert.Equal(t, "synthetic", rule.Kind)
	}

	_, err = runRules(t, "--group", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no rules in group "nope"`)
}

func TestRulesCommand_ShowSpecificRule(t *testing.T) {
	out, err := runRules(t, "dangerous-view-replace-wo-priority", "--format", "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "# dangerous-view-replace-wo-priority")
	assert.Contains(t, out, "**Formats:** markup")
	assert.Contains(t, out, "min_priority")
	testutil.AssertValidMarkdown(t, out)
}

func TestRulesCommand_TextOutput(t *testing.T) {
	out, err := runRules(t, "--format", "text", "--long")
	require.NoError(t, err)

	assert.Contains(t, out, "Lint Rules (")
	assert.Contains(t, out, "javascript-lint")
	assert.Contains(t, out, "[external, on]")
	assert.Contains(t, out, "Options: modules")
}

func TestRulesCommand_YAML(t *testing.T) {
	out, err := runRules(t, "--format", "yaml")
	require.NoError(t, err)

	var doc struct {
		Rules []lint.RuleInfo `yaml:"rules"`
		Count int             `yaml:"count"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, lint.Default().Count(), doc.Count)

	out, err = runRules(t, "po-lint", "--format", "yaml")
	require.NoError(t, err)
	var rule lint.RuleInfo
	require.NoError(t, yaml.Unmarshal([]byte(out), &rule))
	assert.Equal(t, "po-lint", rule.ID)
	assert.Equal(t, []lint.Format{lint.FormatCatalog}, rule.Formats)
}

func TestRulesCommand_Errors(t *testing.T) {
	_, err := runRules(t, "no-such-rule")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `rule "no-such-rule" not found`)

	_, err = runRules(t, "--format", "html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
