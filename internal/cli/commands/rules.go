package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/modlint/internal/cli/output"
	"github.com/leapstack-labs/modlint/pkg/lint"
	_ "github.com/leapstack-labs/modlint/pkg/lint/rules/all" // register built-in rules
)

var rulesFormats = []string{"text", "markdown", "json", "yaml"}

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group  string // Filter by group
	Format string // Output format
	Long   bool   // Show descriptions and options
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List the registered lint rules, or describe one.

Rules are organized by group. Rules marked "off" only run when enabled
explicitly, by id, by group or with --enable all.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # List all rules
  modlint rules

  # Show details for a specific rule
  modlint rules duplicate-xml-record-id

  # List the synthetic syntax-error rules
  modlint rules --group syntax

  # Export the catalog
  modlint rules --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(opts.Format, rulesFormats...); err != nil {
				return err
			}
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.Flags().BoolVarP(&opts.Long, "long", "l", false, "Show descriptions and options")

	return cmd
}

func catalog(group string) []lint.RuleInfo {
	var rules []lint.RuleInfo
	for _, def := range lint.Default().All() {
		if group != "" && def.Group != group {
			continue
		}
		rules = append(rules, def.Info())
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Group != rules[j].Group {
			return rules[i].Group < rules[j].Group
		}
		return rules[i].ID < rules[j].ID
	})
	return rules
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	rules := catalog(opts.Group)
	if opts.Group != "" && len(rules) == 0 {
		return fmt.Errorf("no rules in group %q", opts.Group)
	}

	if opts.Format == "yaml" {
		return writeYAML(cmd, RulesOutput{Rules: rules, Count: len(rules)})
	}

	r := NewCommandContext(cmd, opts.Format).Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(RulesOutput{Rules: rules, Count: len(rules)})
	case output.ModeMarkdown:
		listRulesMarkdown(r, rules, opts.Long)
	default:
		listRulesText(r, rules, opts.Long)
	}
	return nil
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	def, ok := lint.Default().Get(ruleID)
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	rule := def.Info()

	if opts.Format == "yaml" {
		return writeYAML(cmd, rule)
	}

	r := NewCommandContext(cmd, opts.Format).Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rule)
	case output.ModeMarkdown:
		showRuleMarkdown(r, rule)
	default:
		showRuleText(r, rule)
	}
	return nil
}

// RulesOutput is the JSON and YAML document for a rule listing.
type RulesOutput struct {
	Rules []lint.RuleInfo `json:"rules" yaml:"rules"`
	Count int             `json:"count" yaml:"count"`
}

func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func enabledLabel(rule lint.RuleInfo) string {
	if rule.DefaultEnabled {
		return "on"
	}
	return "off"
}

// listRulesText outputs rules in styled text format.
func listRulesText(r *output.Renderer, rules []lint.RuleInfo, long bool) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Lint Rules (%d)", len(rules))))
	r.Println("")

	currentGroup := ""
	for _, rule := range rules {
		if rule.Group != currentGroup {
			currentGroup = rule.Group
			r.Println(styles.Header2.Render(capitalizeFirst(currentGroup)))
		}

		r.Printf("    %s  %s  %s\n",
			styles.Bold.Render(rule.ID),
			getSeverityStyle(styles, rule.Severity).Render(rule.Severity),
			styles.Muted.Render(fmt.Sprintf("[%s, %s]", rule.Kind, enabledLabel(rule))),
		)
		if long {
			r.Println(styles.Muted.Render("        " + rule.Description))
			if len(rule.ConfigKeys) > 0 {
				r.Println(styles.Muted.Render("        Options: " + strings.Join(rule.ConfigKeys, ", ")))
			}
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'modlint rules <rule-id>' for detailed documentation"))
	r.Println("")
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []lint.RuleInfo, long bool) {
	r.Println("# Lint Rules")
	r.Println("")

	currentGroup := ""
	for _, rule := range rules {
		if rule.Group != currentGroup {
			if currentGroup != "" {
				r.Println("")
			}
			currentGroup = rule.Group
			r.Println("## " + capitalizeFirst(currentGroup))
			r.Println("")
		}

		r.Printf("- **%s** (`%s`, %s, %s)\n", rule.ID, rule.Severity, rule.Kind, enabledLabel(rule))
		if long {
			r.Println("  " + rule.Description)
		}
	}

	r.Println("")
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule lint.RuleInfo) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(rule.ID))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), getSeverityStyle(styles, rule.Severity).Render(rule.Severity))
	r.Printf("  %s: %s\n", styles.Bold.Render("Kind"), rule.Kind)
	r.Printf("  %s: %s\n", styles.Bold.Render("Formats"), joinFormats(rule.Formats))
	r.Printf("  %s: %s\n", styles.Bold.Render("Enabled by default"), enabledLabel(rule))
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options: %s\n", strings.Join(rule.ConfigKeys, ", "))
		r.Println("")
	}
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule lint.RuleInfo) {
	r.Printf("# %s\n\n", rule.ID)
	r.Printf("**Group:** %s | **Severity:** `%s` | **Kind:** %s | **Default:** %s\n\n",
		rule.Group, rule.Severity, rule.Kind, enabledLabel(rule))
	r.Printf("**Formats:** %s\n\n", joinFormats(rule.Formats))
	r.Println(rule.Description)
	r.Println("")

	if len(rule.ConfigKeys) > 0 {
		r.Println("## Configuration")
		r.Println("")
		r.Println("```yaml")
		r.Println("rules:")
		r.Printf("  %s:\n", rule.ID)
		for _, key := range rule.ConfigKeys {
			r.Printf("    %s: ...\n", key)
		}
		r.Println("```")
		r.Println("")
	}
}

// Helper functions

func getSeverityStyle(styles *output.Styles, sev string) lipgloss.Style {
	switch sev {
	case "error":
		return styles.Error
	case "warning":
		return styles.Warning
	case "info":
		return styles.Info
	default:
		return styles.Muted
	}
}

func joinFormats(formats []lint.Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
