// Package syntax registers the reserved syntax-error rules the engine
// reports parse failures under.
package syntax

import "github.com/leapstack-labs/modlint/pkg/lint"

func init() {
	for _, def := range lint.SyntaxRules() {
		lint.Register(def)
	}
}
