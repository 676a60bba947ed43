package lint

import (
	"fmt"
	"strings"
)

// Severity indicates the importance of a violation.
type Severity int

// Severity levels for violations.
const (
	// SeverityError indicates a critical issue that should be fixed.
	SeverityError Severity = iota
	// SeverityWarning indicates a potential issue that should be reviewed.
	SeverityWarning
	// SeverityInfo indicates informational feedback.
	SeverityInfo
	// SeverityHint indicates a suggestion for improvement.
	SeverityHint
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a severity name to a Severity.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, true
	case "warning", "warn":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	case "hint":
		return SeverityHint, true
	default:
		return SeverityWarning, false
	}
}

// Format tags an artifact with the kind of content it holds.
type Format string

// Artifact formats.
const (
	FormatCode     Format = "code"
	FormatMarkup   Format = "markup"
	FormatTabular  Format = "tabular"
	FormatCatalog  Format = "catalog"
	FormatManifest Format = "manifest"
	FormatScript   Format = "script"
	// FormatModule is the pseudo-format of the one module-scope artifact
	// the dispatcher synthesizes per module.
	FormatModule Format = "module"
	// FormatIgnored marks files that are never dispatched.
	FormatIgnored Format = "ignored"
)

// Formats lists every dispatchable format in a stable order.
var Formats = []Format{
	FormatModule,
	FormatManifest,
	FormatCode,
	FormatMarkup,
	FormatTabular,
	FormatCatalog,
	FormatScript,
}

// Valid reports whether f is a dispatchable format.
func (f Format) Valid() bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// SyntaxErrorRuleID returns the reserved rule id used for the synthetic
// violation emitted when an artifact of format f cannot be parsed.
func SyntaxErrorRuleID(f Format) string {
	switch f {
	case FormatCode:
		return "code-syntax-error"
	case FormatMarkup:
		return "xml-syntax-error"
	case FormatTabular:
		return "csv-syntax-error"
	case FormatCatalog:
		return "po-syntax-error"
	case FormatManifest:
		return "manifest-syntax-error"
	case FormatScript:
		return "script-syntax-error"
	default:
		return ""
	}
}

// SyntaxGroup is the group of the reserved syntax-error rules.
const SyntaxGroup = "syntax"

// SyntaxRules returns the synthetic rule definitions for every parseable
// format. They must be registered for parse failures to be counted.
func SyntaxRules() []RuleDef {
	var defs []RuleDef
	for _, f := range Formats {
		id := SyntaxErrorRuleID(f)
		if id == "" {
			continue
		}
		defs = append(defs, RuleDef{
			ID:             id,
			Group:          SyntaxGroup,
			Description:    fmt.Sprintf("The %s file could not be parsed", f),
			Severity:       SeverityError,
			Formats:        []Format{f},
			Message:        "{detail}",
			DefaultEnabled: true,
			Synthetic:      true,
		})
	}
	return defs
}
