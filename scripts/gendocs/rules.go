package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/modlint/pkg/lint"
	_ "github.com/leapstack-labs/modlint/pkg/lint/rules/all"
)

var groupDescriptions = map[string]string{
	"odoolint":       "Checks on manifests, Python code, XML and CSV data, translation catalogs and module layout.",
	lint.SyntaxGroup: "Reported when a file cannot be parsed or an external checker fails; the file is skipped by every other rule of its format.",
}

// generateRuleDocs writes index.md and one page per rule group.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	grouped := groupRules(lint.Default().All())
	groups := make([]string, 0, len(grouped))
	for g := range grouped {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	if err := generateRulesIndex(outDir, groups, grouped); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, g := range groups {
		if err := generateGroupPage(outDir, g, grouped[g]); err != nil {
			return err
		}
		log.Printf("  Generated %s.md", g)
	}
	return nil
}

func generateRulesIndex(outDir string, groups []string, grouped map[string][]lint.RuleDef) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Rules", "Rules checked by modlint")
	w.GeneratedMarker()

	total := 0
	for _, defs := range grouped {
		total += len(defs)
	}
	w.Header(1, "Rules")
	w.Paragraph(fmt.Sprintf("modlint ships **%d rules** in %d groups.", total, len(groups)))

	var rows [][]string
	for _, g := range groups {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/rules/%s)", capitalizeFirst(g), g),
			fmt.Sprint(len(grouped[g])),
			groupDescriptions[g],
		})
	}
	w.Table([]string{"Group", "Rules", "Description"}, rows)

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Almost certainly a bug"},
			{InlineCode("warning"), "Likely problem that should be reviewed"},
			{InlineCode("info"), "Informational feedback"},
			{InlineCode("hint"), "Suggestion for improvement"},
		},
	)

	w.Header(2, "Selecting Rules")
	w.Paragraph("Entries are rule ids, group names or `all`. Disabling always wins over enabling. With no `enable` list, the rules marked on by default run.")
	w.CodeBlock("yaml", `enable: [odoolint]
disable: [missing-readme]
rules:
  deprecated-module:
    modules: [openerp.osv]`)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

func generateGroupPage(outDir, group string, defs []lint.RuleDef) error {
	w := NewMarkdownWriter()

	title := capitalizeFirst(group) + " Rules"
	w.Frontmatter(title, groupDescriptions[group])
	w.GeneratedMarker()

	w.Header(1, title)
	if desc, ok := groupDescriptions[group]; ok {
		w.Paragraph(desc)
	}
	for _, def := range defs {
		writeRuleDoc(w, def)
	}

	return os.WriteFile(filepath.Join(outDir, group+".md"), w.Bytes(), 0600)
}

// groupRules organizes rules by group, sorted by id within each group.
func groupRules(defs []lint.RuleDef) map[string][]lint.RuleDef {
	grouped := make(map[string][]lint.RuleDef)
	for _, d := range defs {
		grouped[d.Group] = append(grouped[d.Group], d)
	}
	for group := range grouped {
		sort.Slice(grouped[group], func(i, j int) bool {
			return grouped[group][i].ID < grouped[group][j].ID
		})
	}
	return grouped
}

// writeRuleDoc writes detailed documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, def lint.RuleDef) {
	info := def.Info()

	w.Line(fmt.Sprintf("## %s {#%s}", info.ID, info.ID))
	w.Newline()

	enabled := "no"
	if info.DefaultEnabled {
		enabled = "yes"
	}
	formats := make([]string, len(info.Formats))
	for i, f := range info.Formats {
		formats[i] = string(f)
	}
	w.Line(fmt.Sprintf("**Severity:** %s · **Kind:** %s · **Default:** %s",
		InlineCode(info.Severity), info.Kind, enabled))
	w.Newline()
	if len(formats) > 0 {
		w.Line("**Formats:** " + strings.Join(formats, ", "))
		w.Newline()
	}

	w.Paragraph(info.Description)

	if def.Message != "" {
		w.Header(4, "Message")
		w.CodeBlock("text", def.Message)
	}

	if len(info.ConfigKeys) > 0 {
		w.Header(4, "Configuration")
		w.Paragraph(fmt.Sprintf("This rule accepts the following options under `rules.%s`: %s",
			info.ID, InlineCode(strings.Join(info.ConfigKeys, ", "))))
	}

	w.Line("---")
	w.Newline()
}
