package catalog

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/leapstack-labs/modlint/pkg/lint"
)

func init() {
	lint.Register(POLint)
}

// POLint runs the translation quality checks selected by the enable and
// disable options. Each failed check on an entry is one violation.
var POLint = lint.RuleDef{
	ID:             "po-lint",
	Group:          group,
	Description:    "Translation quality checks",
	Severity:       lint.SeverityWarning,
	Formats:        []lint.Format{lint.FormatCatalog},
	ConfigKeys:     []string{"enable", "disable"},
	Validate:       validatePOLintOptions,
	Message:        "{obj}: {detail}",
	DefaultEnabled: true,
	Check:          lint.OnTree(checkPOLint),
}

// poCheck inspects one translated entry and returns a detail message when
// the entry fails.
type poCheck func(e lint.CatalogEntry) (string, bool)

var poChecks = map[string]poCheck{
	"untranslated": checkUntranslated,
	"isfuzzy":      checkFuzzy,
	"endpunc":      checkEndPunctuation,
	"acronyms":     checkAcronyms,
	"variables":    checkVariables,
}

// poCheckNames is the evaluation order of poChecks.
var poCheckNames = []string{"untranslated", "isfuzzy", "endpunc", "acronyms", "variables"}

type poLintOptions struct {
	Enable  []string `koanf:"enable"`
	Disable []string `koanf:"disable"`
}

func (o poLintOptions) active() []string {
	var names []string
	for _, name := range poCheckNames {
		if len(o.Enable) > 0 && !slices.Contains(o.Enable, name) {
			continue
		}
		if slices.Contains(o.Disable, name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

func validatePOLintOptions(opts lint.Options) error {
	var cfg poLintOptions
	if err := lint.DecodeOptions(opts, &cfg); err != nil {
		return err
	}
	for _, name := range slices.Concat(cfg.Enable, cfg.Disable) {
		if _, ok := poChecks[name]; !ok {
			return fmt.Errorf("unknown check %q, want one of %s", name, strings.Join(poCheckNames, ", "))
		}
	}
	return nil
}

func checkPOLint(_ *lint.Artifact, cat *lint.CatalogEntries, opts lint.Options) []lint.Violation {
	var cfg poLintOptions
	lint.MustDecodeOptions(opts, &cfg)
	active := cfg.active()

	var violations []lint.Violation
	for _, e := range cat.Entries {
		if e.Obsolete {
			continue
		}
		translated := slices.ContainsFunc(e.Strs, func(s string) bool { return s != "" })
		for _, name := range active {
			if !translated && name != "untranslated" {
				continue
			}
			if detail, failed := poChecks[name](e); failed {
				violations = append(violations, lint.Violation{Line: e.Line, Object: name, Detail: detail})
			}
		}
	}
	return violations
}

func checkUntranslated(e lint.CatalogEntry) (string, bool) {
	for _, s := range e.Strs {
		if s != "" {
			return "", false
		}
	}
	return "message is not translated", true
}

func checkFuzzy(e lint.CatalogEntry) (string, bool) {
	if slices.Contains(e.Flags, "fuzzy") {
		return "translation is marked fuzzy", true
	}
	return "", false
}

func endPunctuation(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	if s == "" {
		return ""
	}
	last := s[len(s)-1:]
	if strings.ContainsAny(last, ".:!?") {
		return last
	}
	return ""
}

func checkEndPunctuation(e lint.CatalogEntry) (string, bool) {
	want := endPunctuation(e.ID)
	for _, s := range e.Strs {
		if got := endPunctuation(s); got != want {
			return "ending punctuation differs: source " + quoteOr(want) + ", translation " + quoteOr(got), true
		}
	}
	return "", false
}

func quoteOr(p string) string {
	if p == "" {
		return "none"
	}
	return `"` + p + `"`
}

var acronymPattern = regexp.MustCompile(`\b[A-Z]{2,}[0-9]*\b`)

func checkAcronyms(e lint.CatalogEntry) (string, bool) {
	for _, acronym := range acronymPattern.FindAllString(e.ID, -1) {
		for _, s := range e.Strs {
			if !strings.Contains(s, acronym) {
				return "acronym " + acronym + " is missing from the translation", true
			}
		}
	}
	return "", false
}

var placeholderPattern = regexp.MustCompile(`%(?:\([^)]+\))?[-#0+]*\d*(?:\.\d+)?[sdifr%]|\{[^{}]*\}`)

func checkVariables(e lint.CatalogEntry) (string, bool) {
	want := placeholders(e.ID)
	for _, s := range e.Strs {
		if got := placeholders(s); !slices.Equal(want, got) {
			return "placeholders differ: source " + strings.Join(want, " ") + ", translation " + strings.Join(got, " "), true
		}
	}
	return "", false
}

func placeholders(s string) []string {
	found := placeholderPattern.FindAllString(s, -1)
	out := found[:0]
	for _, p := range found {
		if p != "%%" {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out
}
