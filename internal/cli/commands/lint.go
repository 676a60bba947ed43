package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/modlint/internal/cli/config"
	"github.com/leapstack-labs/modlint/internal/cli/output"
	"github.com/leapstack-labs/modlint/pkg/lint"
	"github.com/leapstack-labs/modlint/pkg/lint/discover"
	"github.com/leapstack-labs/modlint/pkg/lint/engine"
	_ "github.com/leapstack-labs/modlint/pkg/lint/rules/all" // register built-in rules
)

// ErrLintIssues is returned when a lint run records at least one violation.
var ErrLintIssues = errors.New("lint issues found")

var lintFormats = []string{"text", "markdown", "json"}

// LintOptions holds the lint options that are not config keys. The
// enable, disable and workers flags are read through the config loader.
type LintOptions struct {
	Format string // Output format override: text, markdown, json
	Watch  bool   // Re-run on file changes
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [path...]",
		Short: "Lint the Odoo modules under the given directories",
		Long: `Check every module found directly under each path.

Each immediate subdirectory of a path is a module. Files are classified by
extension (Python, XML, CSV, PO, manifest, scripts) and every enabled rule
that handles a file's format runs against it.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format

The command exits with status 1 when any violation is found.`,
		Example: `  # Lint the addons in the current directory
  modlint lint

  # Lint two addons directories with four workers
  modlint lint ./addons ./oca --workers 4

  # Only manifest rules, except the license check
  modlint lint --enable manifest-required-key,manifest-version-format --disable license-allowed

  # Everything, as JSON
  modlint lint --enable all --format json

  # Re-run whenever a file changes
  modlint lint --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			if opts.Watch {
				return watchLint(cmd, args, opts)
			}
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringSlice("enable", nil, "Rule ids or groups to enable (default: rules enabled by default)")
	cmd.Flags().StringSlice("disable", nil, "Rule ids or groups to disable; always wins over --enable")
	cmd.Flags().Int("workers", config.DefaultWorkers, "Files checked in parallel")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run when files change")

	return cmd
}

func runLint(cmd *cobra.Command, paths []string, opts *LintOptions) error {
	if err := checkFormat(opts.Format, lintFormats...); err != nil {
		return err
	}
	cmdCtx := NewCommandContext(cmd, opts.Format)

	result, err := executeLint(cmd.Context(), cmdCtx, paths)
	if err != nil {
		return err
	}

	if err := renderLintResult(cmdCtx.Renderer, result); err != nil {
		return err
	}
	if result.report.Failed() {
		return ErrLintIssues
	}
	return nil
}

// lintResult is one pass: the report plus the violations streamed to the sink.
type lintResult struct {
	report     *lint.Report
	violations []lint.Violation
}

// executeLint runs one engine pass over paths. A fresh engine and checker
// are built each time so nothing carries over between passes.
func executeLint(ctx context.Context, cmdCtx *CommandContext, paths []string) (*lintResult, error) {
	cfg := cmdCtx.Cfg
	reg := lint.Default()
	sel, err := cfg.Selection(reg)
	if err != nil {
		return nil, err
	}

	result := &lintResult{}
	eng, err := engine.New(engine.Config{
		Registry:    reg,
		Classifier:  &discover.Classifier{ManifestNames: cfg.ManifestNames},
		Externals:   []lint.ExternalChecker{cfg.ScriptChecker(nil, cmdCtx.Logger)},
		Workers:     cfg.Workers,
		RuleOptions: cfg.Rules,
		Sink: func(v lint.Violation) {
			result.violations = append(result.violations, v)
		},
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return nil, err
	}

	report, err := eng.RunRoots(ctx, paths, sel)
	if err != nil {
		return nil, err
	}
	result.report = report

	for _, id := range report.Skipped {
		cmdCtx.Renderer.Warning(fmt.Sprintf("rule %s skipped: %s is not available", id, cfg.External.Script.Binary))
	}

	sortViolations(result.violations)
	return result, nil
}

func sortViolations(vs []lint.Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		if vs[i].Path != vs[j].Path {
			return vs[i].Path < vs[j].Path
		}
		if vs[i].Line != vs[j].Line {
			return vs[i].Line < vs[j].Line
		}
		if vs[i].RuleID != vs[j].RuleID {
			return vs[i].RuleID < vs[j].RuleID
		}
		return vs[i].Message < vs[j].Message
	})
}

// groupByFile groups sorted violations by path, keeping path order.
func groupByFile(vs []lint.Violation) []output.LintFileResult {
	var files []output.LintFileResult
	for _, v := range vs {
		path := displayPath(v.Path)
		if len(files) == 0 || files[len(files)-1].Path != path {
			files = append(files, output.LintFileResult{Path: path})
		}
		last := &files[len(files)-1]
		last.Diagnostics = append(last.Diagnostics, output.LintDiagnostic{
			RuleID:   v.RuleID,
			Severity: v.Severity.String(),
			Message:  v.Message,
			Line:     v.Line,
			Object:   v.Object,
		})
	}
	return files
}

// displayPath shortens paths under the working directory.
func displayPath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func summarize(result *lintResult, files []output.LintFileResult) output.LintSummary {
	summary := output.LintSummary{
		TotalIssues:   result.report.Total,
		FilesAnalyzed: result.report.Artifacts,
		FilesFailing:  len(files),
		Modules:       result.report.Modules,
		Effective:     result.report.Effective,
		Skipped:       result.report.Skipped,
	}
	for _, v := range result.violations {
		switch v.Severity {
		case lint.SeverityError:
			summary.Errors++
		case lint.SeverityWarning:
			summary.Warnings++
		case lint.SeverityInfo:
			summary.Info++
		case lint.SeverityHint:
			summary.Hints++
		}
	}
	return summary
}

func renderLintResult(r *output.Renderer, result *lintResult) error {
	files := groupByFile(result.violations)
	summary := summarize(result, files)

	if r.EffectiveMode() == output.ModeJSON {
		counts := result.report.Counts
		if counts == nil {
			counts = map[string]int{}
		}
		if files == nil {
			files = []output.LintFileResult{}
		}
		if err := r.JSON(output.LintOutput{Summary: summary, Counts: counts, Files: files}); err != nil {
			return fmt.Errorf("write lint report: %w", err)
		}
		return nil
	}

	if summary.TotalIssues == 0 {
		r.Success(fmt.Sprintf("No lint issues found (%d files in %d modules)", summary.FilesAnalyzed, summary.Modules))
		return nil
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		renderLintMarkdown(r, files)
	} else {
		renderLintText(r, files)
	}

	rows := make([][]string, 0, len(result.report.Counts))
	for _, id := range result.report.Fired() {
		rows = append(rows, []string{id, strconv.Itoa(result.report.Count(id))})
	}
	r.Table([]string{"Rule", "Count"}, rows)
	r.Println("")

	parts := []string{fmt.Sprintf("%d issues", summary.TotalIssues)}
	if summary.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", summary.Info))
	}
	if summary.Hints > 0 {
		parts = append(parts, fmt.Sprintf("%d hints", summary.Hints))
	}
	r.Printf("Summary: %s in %d of %d files\n", strings.Join(parts, ", "), summary.FilesFailing, summary.FilesAnalyzed)
	return nil
}

func renderLintText(r *output.Renderer, files []output.LintFileResult) {
	styles := r.Styles()
	for _, f := range files {
		r.Println(styles.Path.Render(f.Path))
		for _, d := range f.Diagnostics {
			r.Printf("  %s  %s  %s  %s\n",
				styles.Muted.Render(fmt.Sprintf("%-5s", lineLabel(d.Line))),
				severityLabel(styles, d.Severity),
				styles.Bold.Render(d.RuleID),
				d.Message,
			)
		}
		r.Println("")
	}
}

func renderLintMarkdown(r *output.Renderer, files []output.LintFileResult) {
	r.Println("# Lint Results")
	r.Println("")
	for _, f := range files {
		r.Printf("## %s\n\n", f.Path)
		for _, d := range f.Diagnostics {
			r.Printf("- `%s` **%s** (%s): %s\n", lineLabel(d.Line), d.RuleID, d.Severity, d.Message)
		}
		r.Println("")
	}
}

func lineLabel(line int) string {
	if line == 0 {
		return "-"
	}
	return strconv.Itoa(line)
}

func severityLabel(styles *output.Styles, sev string) string {
	label := fmt.Sprintf("%-7s", sev)
	switch sev {
	case "error":
		return styles.Error.Render(label)
	case "warning":
		return styles.Warning.Render(label)
	case "info":
		return styles.Info.Render(label)
	default:
		return styles.Muted.Render(label)
	}
}
