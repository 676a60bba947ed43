// Package lint defines the contracts shared by the modlint engine and its rules.
//
// # Architecture
//
// The lint packages are layered:
//
//  1. Root package (pkg/lint/): formats, rule definitions, the rule registry, the
//     enable/disable selection algebra, the violation aggregator and the run report
//  2. Discovery (pkg/lint/discover/): module and artifact classification
//  3. Parsing (pkg/lint/parse/): one parser per format, producing the parsed-tree union
//  4. External checkers (pkg/lint/external/): subprocess-backed rules such as javascript-lint
//  5. Engine (pkg/lint/engine/): the dispatcher and the public Run API
//
// # Rule Registration
//
// Rules are registered via init() functions when their packages are imported:
//
//	import _ "github.com/leapstack-labs/modlint/pkg/lint/rules/all"
//
// Registering the same id twice panics. Once a registry has been used to resolve a
// selection it is sealed and rejects further registrations.
//
// # Selecting Rules
//
// A Selection holds an enable set and a disable set. Enable is applied first, then
// disable removes ids; a rule named in both is never run:
//
//	sel := lint.Selection{
//		Enable:  lint.AllRules(),
//		Disable: lint.RuleIDs("javascript-lint"),
//	}
//	set, err := lint.Default().Resolve(sel)
//
// # Creating Custom Rules
//
// Parse-backed rules receive the parsed tree for the format they declare:
//
//	func init() {
//		lint.Register(lint.RuleDef{
//			ID:          "my-rule",
//			Group:       "custom",
//			Formats:     []lint.Format{lint.FormatMarkup},
//			Severity:    lint.SeverityWarning,
//			Message:     "Something is off with {obj}",
//			Check:       lint.OnTree(checkMyRule),
//		})
//	}
//
//	func checkMyRule(a *lint.Artifact, doc *lint.MarkupTree, opts lint.Options) []lint.Violation {
//		...
//	}
package lint
