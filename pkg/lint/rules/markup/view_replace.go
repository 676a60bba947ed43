package markup

import (
	"strconv"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(DangerousViewReplace)
}

// DangerousViewReplace flags inherited views that replace nodes of their
// parent without a priority high enough to run after other extensions.
var DangerousViewReplace = lint.RuleDef{
	ID:             "dangerous-view-replace-wo-priority",
	Group:          group,
	Description:    "View replaces content without a high priority",
	Severity:       lint.SeverityWarning,
	Formats:        []lint.Format{lint.FormatMarkup},
	ConfigKeys:     []string{"min_priority"},
	Validate:       lint.DecodedBy[viewReplaceOptions](),
	Message:        `Dangerous use of "replace" from view with priority {detail} < {obj}`,
	DefaultEnabled: true,
	Check:          lint.OnTree(checkViewReplace),
}

const defaultMinPriority = 99

type viewReplaceOptions struct {
	MinPriority int `koanf:"min_priority"`
}

func checkViewReplace(_ *lint.Artifact, tree *lint.MarkupTree, opts lint.Options) []lint.Violation {
	cfg := viewReplaceOptions{MinPriority: defaultMinPriority}
	lint.MustDecodeOptions(opts, &cfg)

	var violations []lint.Violation
	for _, rec := range records(tree) {
		if model, _ := rec.Get("model"); rec.Name != "record" || model != "ir.ui.view" {
			continue
		}
		priority := 16
		var arch *lint.Node
		for _, field := range rec.Children {
			switch name, _ := field.Get("name"); name {
			case "priority":
				if p, err := strconv.Atoi(field.Text); err == nil {
					priority = p
				} else if v, ok := field.Get("eval"); ok {
					if p, err := strconv.Atoi(v); err == nil {
						priority = p
					}
				}
			case "arch":
				arch = field
			}
		}
		if arch == nil || priority >= cfg.MinPriority {
			continue
		}
		arch.Walk(func(n *lint.Node) bool {
			if pos, _ := n.Get("position"); pos == "replace" {
				violations = append(violations, lint.Violation{
					Line:   n.Line,
					Object: itoa(cfg.MinPriority),
					Detail: itoa(priority),
				})
			}
			return true
		})
	}
	return violations
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
