package commands

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/modlint/internal/cli/output"
	"github.com/leapstack-labs/modlint/internal/cli/testutil"
	"github.com/leapstack-labs/modlint/pkg/lint"
)

func TestNewLintCommand(t *testing.T) {
	cmd := NewLintCommand()

	assert.Equal(t, "lint [path...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Example)

	for _, flag := range []string{"enable", "disable", "workers", "format", "watch"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestSortViolations(t *testing.T) {
	vs := []lint.Violation{
		{RuleID: "b", Path: "/m/b.xml", Line: 2},
		{RuleID: "z", Path: "/m/a.xml", Line: 9},
		{RuleID: "c", Path: "/m/a.xml", Line: 1},
		{RuleID: "a", Path: "/m/a.xml", Line: 1},
	}
	sortViolations(vs)

	var got []string
	for _, v := range vs {
		got = append(got, v.RuleID)
	}
	assert.Equal(t, []string{"a", "c", "z", "b"}, got)
}

func TestGroupByFile(t *testing.T) {
	vs := []lint.Violation{
		{RuleID: "r1", Path: "/abs/a.xml", Line: 1, Severity: lint.SeverityError, Message: "m1"},
		{RuleID: "r2", Path: "/abs/a.xml", Line: 3, Severity: lint.SeverityWarning, Message: "m2", Object: "obj"},
		{RuleID: "r1", Path: "/abs/b.xml", Severity: lint.SeverityError, Message: "m3"},
	}
	files := groupByFile(vs)

	require.Len(t, files, 2)
	assert.Equal(t, "/abs/a.xml", files[0].Path)
	assert.Equal(t, []output.LintDiagnostic{
		{RuleID: "r1", Severity: "error", Message: "m1", Line: 1},
		{RuleID: "r2", Severity: "warning", Message: "m2", Line: 3, Object: "obj"},
	}, files[0].Diagnostics)
	assert.Len(t, files[1].Diagnostics, 1)
}

func TestDisplayPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	cwd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("sale_ext", "views.xml"), displayPath(filepath.Join(cwd, "sale_ext", "views.xml")))
	assert.Equal(t, "/elsewhere/x.py", displayPath("/elsewhere/x.py"))
}

func sampleResult() *lintResult {
	return &lintResult{
		report: &lint.Report{
			Counts:    map[string]int{"duplicate-xml-record-id": 1, "missing-readme": 1},
			Total:     2,
			Effective: []string{"duplicate-xml-record-id", "missing-readme"},
			Modules:   2,
			Artifacts: 4,
		},
		violations: []lint.Violation{
			{RuleID: "missing-readme", Severity: lint.SeverityWarning, Path: "/addons/sale_ext/README.rst", Message: "Missing README.rst file"},
			{RuleID: "duplicate-xml-record-id", Severity: lint.SeverityError, Path: "/addons/sale_ext/views/views.xml", Line: 6, Message: "Duplicate xml record id view_a"},
		},
	}
}

func TestRenderLintResult(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		tr := testutil.NewTestRendererMarkdown()
		require.NoError(t, renderLintResult(tr.Renderer, sampleResult()))
		out := tr.Output()

		assert.Contains(t, out, "# Lint Results")
		assert.Contains(t, out, "## /addons/sale_ext/views/views.xml")
		assert.Contains(t, out, "- `6` **duplicate-xml-record-id** (error): Duplicate xml record id view_a")
		assert.Contains(t, out, "- `-` **missing-readme** (warning)")
		assert.Contains(t, out, "| duplicate-xml-record-id | 1 |")
		assert.Contains(t, out, "Summary: 2 issues, 1 errors, 1 warnings in 2 of 4 files")
		testutil.AssertValidMarkdown(t, out)
		testutil.AssertNoANSI(t, out)
	})

	t.Run("text", func(t *testing.T) {
		tr := testutil.NewTestRenderer(output.ModeText, false)
		require.NoError(t, renderLintResult(tr.Renderer, sampleResult()))
		out := tr.Output()

		assert.Contains(t, out, "/addons/sale_ext/views/views.xml")
		assert.Contains(t, out, "6      error    duplicate-xml-record-id  Duplicate xml record id view_a")
		assert.Contains(t, out, "-      warning  missing-readme")
	})

	t.Run("json", func(t *testing.T) {
		tr := testutil.NewTestRendererJSON()
		require.NoError(t, renderLintResult(tr.Renderer, sampleResult()))

		var doc output.LintOutput
		require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &doc))
		assert.Equal(t, 2, doc.Summary.TotalIssues)
		assert.Equal(t, 1, doc.Summary.Errors)
		assert.Equal(t, 2, doc.Summary.FilesFailing)
		assert.Equal(t, map[string]int{"duplicate-xml-record-id": 1, "missing-readme": 1}, doc.Counts)
		require.Len(t, doc.Files, 2)
		assert.Equal(t, "/addons/sale_ext/README.rst", doc.Files[0].Path)
	})

	t.Run("clean", func(t *testing.T) {
		tr := testutil.NewTestRendererMarkdown()
		require.NoError(t, renderLintResult(tr.Renderer, &lintResult{report: &lint.Report{Modules: 1, Artifacts: 3}}))
		assert.Equal(t, "**No lint issues found (3 files in 1 modules)**\n", tr.Output())
	})

	t.Run("clean json", func(t *testing.T) {
		tr := testutil.NewTestRendererJSON()
		require.NoError(t, renderLintResult(tr.Renderer, &lintResult{report: &lint.Report{}}))
		assert.Contains(t, tr.Output(), `"files": []`)
		assert.Contains(t, tr.Output(), `"counts": {}`)
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderLintResult_WriteError(t *testing.T) {
	r := output.NewRenderer(failingWriter{}, io.Discard, output.ModeJSON)

	err := renderLintResult(r, sampleResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write lint report: disk full")
}

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, checkFormat("", lintFormats...))
	assert.NoError(t, checkFormat("json", lintFormats...))
	assert.Error(t, checkFormat("yaml", lintFormats...))
}

func TestWatchLoop(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sale_ext"), 0o750))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	passes := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, []string{dir}, 20*time.Millisecond, slog.New(slog.DiscardHandler), func(context.Context) error {
			passes <- struct{}{}
			return nil
		})
	}()

	waitPass := func() {
		t.Helper()
		select {
		case <-passes:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for a lint pass")
		}
	}

	// Initial pass runs after the watches are in place.
	waitPass()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sale_ext", "views.xml"), []byte("<odoo/>\n"), 0o600))
	waitPass()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop")
	}
}

func TestWatchLoop_PassError(t *testing.T) {
	err := watchLoop(context.Background(), []string{t.TempDir()}, time.Millisecond, slog.New(slog.DiscardHandler), func(context.Context) error {
		return lint.ErrInvalidSelection
	})
	assert.ErrorIs(t, err, lint.ErrInvalidSelection)
}

func TestWatchLoop_MissingRoot(t *testing.T) {
	err := watchLoop(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, time.Millisecond, slog.New(slog.DiscardHandler), func(context.Context) error {
		t.Fatal("pass must not run")
		return nil
	})
	assert.Error(t, err)
}
