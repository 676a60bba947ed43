package lint

import (
	"strconv"
	"strings"
)

// RuleDef is a data-driven rule definition.
// Rules are stateless - all context comes via the Check function parameters.
type RuleDef struct {
	ID          string    // Unique identifier, e.g., "duplicate-xml-record-id"
	Group       string    // Category, e.g., "markup", "manifest"
	Description string    // Human-readable description
	Severity    Severity  // Default severity
	Formats     []Format  // Formats the rule runs against
	Check       CheckFunc // The check function; nil for synthetic and external rules
	ConfigKeys  []string  // Option keys this rule accepts

	// Validate rejects option values the rule cannot use. It runs once per
	// engine, after the keys were checked against ConfigKeys.
	Validate func(opts Options) error

	// Message is the template used when a checker leaves Violation.Message
	// empty. Supported placeholders: {file}, {line}, {obj}, {module}, {detail}.
	Message string

	// DefaultEnabled marks rules run when no enable set is configured.
	DefaultEnabled bool

	// Raw rules run on the artifact bytes and do not need a parse tree, so a
	// parse failure does not suppress them.
	Raw bool

	// Synthetic rules are emitted by the engine itself (parse or subprocess
	// failures) and have no Check function.
	Synthetic bool

	// External rules are evaluated by a registered ExternalChecker.
	External bool
}

// CheckFunc analyzes an artifact and returns violations.
// The opts parameter contains rule-specific options from configuration.
type CheckFunc func(a *Artifact, opts Options) []Violation

// OnTree adapts a checker for a single parsed representation. The dispatcher
// only invokes a rule on formats it declared, so the assertion fails only when
// a rule declares a format whose tree differs from T; such calls yield nothing.
func OnTree[T Tree](check func(a *Artifact, tree T, opts Options) []Violation) CheckFunc {
	return func(a *Artifact, opts Options) []Violation {
		tree, ok := a.Tree.(T)
		if !ok {
			return nil
		}
		return check(a, tree, opts)
	}
}

// Handles reports whether the rule declared format f.
func (d RuleDef) Handles(f Format) bool {
	for _, declared := range d.Formats {
		if declared == f {
			return true
		}
	}
	return false
}

// Violation is one reported instance of a rule firing against an artifact.
type Violation struct {
	RuleID   string   `json:"rule_id"`
	Severity Severity `json:"-"`
	Path     string   `json:"path"`
	Line     int      `json:"line,omitempty"` // 0 for file-scope findings
	Object   string   `json:"object,omitempty"`
	Detail   string   `json:"-"`
	Message  string   `json:"message"`
}

// RenderMessage expands a rule message template for a violation.
func RenderMessage(template string, v Violation, module string) string {
	line := ""
	if v.Line > 0 {
		line = strconv.Itoa(v.Line)
	}
	r := strings.NewReplacer(
		"{file}", v.Path,
		"{line}", line,
		"{obj}", v.Object,
		"{module}", module,
		"{detail}", v.Detail,
	)
	return r.Replace(template)
}

// RuleInfo provides metadata about a rule for documentation/tooling.
type RuleInfo struct {
	ID             string   `json:"id" yaml:"id"`
	Group          string   `json:"group" yaml:"group"`
	Description    string   `json:"description" yaml:"description"`
	Severity       string   `json:"severity" yaml:"severity"`
	Formats        []Format `json:"formats" yaml:"formats"`
	ConfigKeys     []string `json:"config_keys,omitempty" yaml:"config_keys,omitempty"`
	DefaultEnabled bool     `json:"default_enabled" yaml:"default_enabled"`
	Kind           string   `json:"kind" yaml:"kind"` // "check", "raw", "synthetic" or "external"
}

// Info extracts metadata from a rule definition.
func (d RuleDef) Info() RuleInfo {
	kind := "check"
	switch {
	case d.Synthetic:
		kind = "synthetic"
	case d.External:
		kind = "external"
	case d.Raw:
		kind = "raw"
	}
	return RuleInfo{
		ID:             d.ID,
		Group:          d.Group,
		Description:    d.Description,
		Severity:       d.Severity.String(),
		Formats:        d.Formats,
		ConfigKeys:     d.ConfigKeys,
		DefaultEnabled: d.DefaultEnabled,
		Kind:           kind,
	}
}
